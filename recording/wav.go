package recording

import "fmt"
import "os"

import "github.com/faiface/beep"
import "github.com/faiface/beep/wav"

// ReadWAV decodes a mono or stereo WAV file.
func ReadWAV(name string) (Recording, error) {
	file, err := os.Open(name)
	if err != nil {
		return Recording{}, err
	}
	defer file.Close()

	stream, format, err := wav.Decode(file)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: %s: %v", ErrFileNotLoaded, name, err)
	}
	defer stream.Close()

	// beep divides signed b-bit samples by 2^b-1, half of their full scale;
	// unsigned 8-bit samples already span [-1, 1]
	scale := 1.0
	if format.Precision >= 2 {
		bits := 8 * format.Precision
		scale = float64(uint64(1)<<bits-1) / float64(uint64(1)<<(bits-1))
	}
	channels := min(2, max(1, format.NumChannels))
	chans := make([][]float64, channels)
	samples := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(samples)
		for _, s := range samples[:n] {
			for c := range chans {
				chans[c] = append(chans[c], s[c]*scale)
			}
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return Recording{}, fmt.Errorf("%w: %s: %v", ErrFileNotLoaded, name, err)
	}
	return Recording{Window: fromChannels(chans), SampleRate: float64(format.SampleRate)}, nil
}

// WriteWAV stores a mono or stereo recording as 16-bit WAV. Samples are
// expected in [-1, 1].
func WriteWAV(name string, rec Recording) error {
	if rec.Channels < 1 || rec.Channels > 2 || rec.SampleRate <= 0 {
		return fmt.Errorf("%w: %d channels at %v Hz as WAV", ErrFileNotLoaded, rec.Channels, rec.SampleRate)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	format := beep.Format{SampleRate: beep.SampleRate(rec.SampleRate), NumChannels: rec.Channels, Precision: 2}
	if err := wav.Encode(f, &streamer{rec: rec}, format); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	return nil
}

// streamer plays a recording to beep, duplicating a mono channel.
type streamer struct {
	rec Recording
	pos int
}

func (s *streamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.rec.Timesteps {
		return 0, false
	}
	last := s.rec.Channels - 1
	for n < len(samples) && s.pos < s.rec.Timesteps {
		samples[n] = [2]float64{s.rec.At(0, s.pos), s.rec.At(last, s.pos)}
		n++
		s.pos++
	}
	return n, true
}

func (s *streamer) Err() error { return nil }
