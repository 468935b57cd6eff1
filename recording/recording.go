package recording

import "errors"
import "fmt"
import "path/filepath"
import "strings"

import "github.com/neurlang/emgimage/window"

var ErrFileNotLoaded = errors.New("recording not loaded")

// Recording is a continuous signal, Data[c*Timesteps+t].
type Recording struct {
	window.Window
	SampleRate float64
}

// Extensions lists the suffixes Read understands, in lookup order.
var Extensions = []string{".edf", ".flac", ".wav", ".dat"}

// Read picks the reader by file extension. Raw .dat files need the channel
// count, which the other formats store themselves.
func Read(name string, channels int) (Recording, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".edf":
		return ReadEDF(name)
	case ".flac":
		return ReadFLAC(name)
	case ".wav":
		return ReadWAV(name)
	case ".dat":
		return ReadInt16(name, channels)
	}
	return Recording{}, fmt.Errorf("%w: %s: unknown format", ErrFileNotLoaded, name)
}

// Find returns the first existing file among base+ext for the known
// extensions.
func Find(base string) (string, error) {
	for _, ext := range Extensions {
		matches, err := filepath.Glob(base + ext)
		if err != nil {
			return "", err
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("%w: no %s{%s}", ErrFileNotLoaded, base, strings.Join(Extensions, ","))
}

// fromChannels packs per-channel sample slices, cut to the shortest one.
func fromChannels(chans [][]float64) window.Window {
	if len(chans) == 0 {
		return window.Window{}
	}
	n := len(chans[0])
	for _, ch := range chans {
		n = min(n, len(ch))
	}
	w := window.New(len(chans), n)
	for c, ch := range chans {
		copy(w.Channel(c), ch[:n])
	}
	return w
}
