// Package filter conditions raw EMG with a Butterworth highpass or bandpass
// stage followed by a mains notch, both applied with zero phase.
package filter

import "fmt"

import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/window"

// Conditioner is the filter chain of one dataset. It is safe for concurrent
// use.
type Conditioner struct {
	stages []*Stage
}

// New designs the chain described by f for sample rate fs.
func New(f config.Filter, fs float64) (*Conditioner, error) {
	var c Coeffs
	var err error
	switch f.Kind {
	case config.Highpass:
		c, err = ButterHighpass(f.Order, f.Low, fs)
	case config.Bandpass:
		c, err = ButterBandpass(f.Order, f.Low, f.High, fs)
	default:
		err = fmt.Errorf("%w: filter kind %v", ErrDesign, f.Kind)
	}
	if err != nil {
		return nil, err
	}
	band, err := NewStage(c)
	if err != nil {
		return nil, err
	}
	cond := &Conditioner{stages: []*Stage{band}}

	if f.Notch != 0 {
		c, err = Notch(f.Notch, f.NotchQ, fs)
		if err != nil {
			return nil, err
		}
		notch, err := NewStage(c)
		if err != nil {
			return nil, err
		}
		cond.stages = append(cond.stages, notch)
	}
	return cond, nil
}

// Stages returns the designed stages in application order.
func (c *Conditioner) Stages() []*Stage {
	return c.stages
}

// Apply filters every channel of w and returns a new window of the same
// shape. Each stage is followed by a reversal of the time axis, so a chain
// of two stages restores the original sample order.
func (c *Conditioner) Apply(w window.Window) window.Window {
	cur := w.Clone()
	for _, s := range c.stages {
		next := window.New(cur.Channels, cur.Timesteps)
		for ch := 0; ch < cur.Channels; ch++ {
			y := s.FiltFilt(cur.Channel(ch))
			reverse(y)
			copy(next.Channel(ch), y)
		}
		cur = next
	}
	return cur
}

// ApplyAll conditions every window.
func (c *Conditioner) ApplyAll(windows []window.Window) []window.Window {
	out := make([]window.Window, len(windows))
	for i, w := range windows {
		out[i] = c.Apply(w)
	}
	return out
}
