package recording

import "encoding/binary"
import "fmt"
import "os"

import "github.com/neurlang/emgimage/window"

// ReadInt16 reads little-endian int16 samples interleaved over channels:
// sample t of channel c is value t*channels+c. A trailing partial frame is
// dropped.
func ReadInt16(name string, channels int) (Recording, error) {
	if channels <= 0 {
		return Recording{}, fmt.Errorf("%w: %s: %d channels", ErrFileNotLoaded, name, channels)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return Recording{}, err
	}
	n := len(b) / 2 / channels
	w := window.New(channels, n)
	for t := 0; t < n; t++ {
		for c := 0; c < channels; c++ {
			v := int16(binary.LittleEndian.Uint16(b[2*(t*channels+c):]))
			w.Data[c*n+t] = float64(v)
		}
	}
	return Recording{Window: w}, nil
}

// WriteInt16 stores rec in the layout ReadInt16 reads, truncating samples
// toward zero.
func WriteInt16(name string, rec Recording) error {
	b := make([]byte, 2*len(rec.Data))
	for t := 0; t < rec.Timesteps; t++ {
		for c := 0; c < rec.Channels; c++ {
			binary.LittleEndian.PutUint16(b[2*(t*rec.Channels+c):], uint16(int16(rec.At(c, t))))
		}
	}
	return os.WriteFile(name, b, 0o644)
}
