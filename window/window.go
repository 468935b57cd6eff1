// Package window cuts continuous multi-channel recordings into fixed-size
// windows and carries the per-sample label sequence of each window.
package window

import "errors"
import "fmt"

var ErrShape = errors.New("window shape mismatch")

// Window is a channel-major block of samples: Data[c*Timesteps+t].
type Window struct {
	Channels  int
	Timesteps int
	Data      []float64
}

// New allocates a zeroed window.
func New(channels, timesteps int) Window {
	return Window{Channels: channels, Timesteps: timesteps, Data: make([]float64, channels*timesteps)}
}

// Channel returns the samples of channel c. The slice aliases w.Data.
func (w Window) Channel(c int) []float64 {
	return w.Data[c*w.Timesteps : (c+1)*w.Timesteps]
}

// At returns the sample of channel c at time t.
func (w Window) At(c, t int) float64 {
	return w.Data[c*w.Timesteps+t]
}

// Clone deep-copies the window.
func (w Window) Clone() Window {
	return Window{Channels: w.Channels, Timesteps: w.Timesteps, Data: append([]float64(nil), w.Data...)}
}

// Check verifies the window has the given geometry and a consistent buffer.
func (w Window) Check(channels, timesteps int) error {
	if w.Channels != channels || w.Timesteps != timesteps || len(w.Data) != channels*timesteps {
		return fmt.Errorf("%w: got %dx%d (%d samples), want %dx%d", ErrShape, w.Channels, w.Timesteps, len(w.Data), channels, timesteps)
	}
	return nil
}

// Count returns how many windows of the given length and step fit in n samples.
func Count(n, length, step int) int {
	if length <= 0 || step <= 0 || n < length {
		return 0
	}
	return (n-length)/step + 1
}

// Slice cuts a recording into overlapping windows. Every window owns its data.
func Slice(rec Window, length, step int) []Window {
	n := Count(rec.Timesteps, length, step)
	out := make([]Window, n)
	for i := range out {
		w := New(rec.Channels, length)
		for c := 0; c < rec.Channels; c++ {
			copy(w.Channel(c), rec.Channel(c)[i*step:i*step+length])
		}
		out[i] = w
	}
	return out
}

// Select returns the windows at the given indices, in that order.
func Select(windows []Window, indices []int) []Window {
	out := make([]Window, len(indices))
	for i, j := range indices {
		out[i] = windows[j]
	}
	return out
}

// Concat appends recordings along the time axis. All must share a channel count.
func Concat(recs ...Window) (Window, error) {
	if len(recs) == 0 {
		return Window{}, nil
	}
	total := 0
	for _, r := range recs {
		if r.Channels != recs[0].Channels {
			return Window{}, fmt.Errorf("%w: %d channels after %d", ErrShape, r.Channels, recs[0].Channels)
		}
		total += r.Timesteps
	}
	out := New(recs[0].Channels, total)
	off := 0
	for _, r := range recs {
		for c := 0; c < r.Channels; c++ {
			copy(out.Channel(c)[off:], r.Channel(c))
		}
		off += r.Timesteps
	}
	return out, nil
}
