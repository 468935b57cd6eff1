package recording

import "errors"
import "fmt"
import "io"

import "github.com/mewkiz/flac"

// ReadFLAC decodes every channel of a FLAC file, scaled to [-1, 1).
func ReadFLAC(name string) (Recording, error) {
	stream, err := flac.Open(name)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: %s: %v", ErrFileNotLoaded, name, err)
	}
	defer stream.Close()

	info := stream.Info
	scale := 1 / float64(int64(1)<<(info.BitsPerSample-1))
	chans := make([][]float64, info.NChannels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Recording{}, fmt.Errorf("%w: %s: %v", ErrFileNotLoaded, name, err)
		}
		for c, sub := range frame.Subframes {
			if c >= len(chans) {
				break
			}
			for _, s := range sub.Samples[:sub.NSamples] {
				chans[c] = append(chans[c], float64(s)*scale)
			}
		}
	}
	return Recording{Window: fromChannels(chans), SampleRate: float64(info.SampleRate)}, nil
}
