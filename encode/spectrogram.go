package encode

import "math"
import "math/cmplx"

import "github.com/mjibson/go-dsp/fft"
import "github.com/r9y9/gossp/stft"

import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/window"

// stftShape returns the segment length and the number of frames of the
// spectrogram of a window of n samples: segments of n/4-1 samples, a hop of
// one sample and half a segment of zeros at both ends.
func stftShape(n int) (nperseg, frames int) {
	nperseg = n/4 - 1
	padded := n + 2*(nperseg/2)
	return nperseg, padded - nperseg + 1
}

// Spectrum is a one-sided short-time Fourier transform, Bins[f][t].
type Spectrum struct {
	Bins [][]complex128
}

// STFT computes the one-sided Hann-windowed transform of x with hop 1 and an
// FFT size of len(x)-1, scaled by the window sum.
func STFT(x []float64) Spectrum {
	nperseg, frames := stftShape(len(x))
	nfft := len(x) - 1

	// the periodic Hann window is the symmetric one a sample longer
	s := stft.New(1, nperseg+1)
	win := s.Window[:nperseg]
	var wsum float64
	for _, v := range win {
		wsum += v
	}

	buf := pad(x, nperseg/2)
	nbins := nfft/2 + 1
	out := Spectrum{Bins: make([][]complex128, nbins)}
	for f := range out.Bins {
		out.Bins[f] = make([]complex128, frames)
	}
	frame := make([]float64, nfft)
	for t := 0; t < frames; t++ {
		for j := range frame {
			frame[j] = 0
		}
		off := t * s.FrameShift
		for j := 0; j < nperseg; j++ {
			frame[j] = buf[off+j] * win[j]
		}
		spec := fft.FFTReal(frame)
		for f := 0; f < nbins; f++ {
			out.Bins[f][t] = spec[f] / complex(wsum, 0)
		}
	}
	return out
}

// pad surrounds buf with n zeros on each side.
func pad(buf []float64, n int) []float64 {
	out := make([]float64, len(buf)+2*n)
	copy(out[n:], buf)
	return out
}

// spectrogramEncoder tiles one STFT block per electrode, low frequencies at
// the bottom of each block. The magnitude variant stretches |STFT| over the
// whole window first; the phase variant maps the angle from [-pi,pi] to
// [0,1].
type spectrogramEncoder struct {
	base
	phase      bool
	decibel    bool
	rows, cols int
}

func newSpectrogram(b base, cfg config.Config) *spectrogramEncoder {
	rows, cols := ClosestFactors(cfg.Signal.Electrodes)
	return &spectrogramEncoder{
		base:    b,
		phase:   cfg.Mode == config.ModePhaseSpectrogram,
		decibel: cfg.SpectrogramDB,
		rows:    rows,
		cols:    cols,
	}
}

func (e *spectrogramEncoder) Encode(w window.Window) (Image, error) {
	if err := e.check(w); err != nil {
		return Image{}, err
	}
	blocks := make([]field, w.Channels)
	var all []float64
	for c := range blocks {
		spec := STFT(w.Channel(c))
		f := newField(len(spec.Bins), len(spec.Bins[0]))
		for y, row := range spec.Bins {
			dst := f.row(y)
			for x, v := range row {
				switch {
				case e.phase:
					dst[x] = (cmplx.Phase(v) + math.Pi) / (2 * math.Pi)
				case e.decibel:
					dst[x] = 10 * math.Log10(cmplx.Abs(v)+1e-12)
				default:
					dst[x] = cmplx.Abs(v)
				}
			}
		}
		blocks[c] = f
		all = append(all, f.v...)
	}
	if !e.phase {
		lo, hi, err := extrema(all)
		if err != nil {
			return Image{}, err
		}
		for _, b := range blocks {
			for i, v := range b.v {
				b.v[i] = (v - lo) / (hi - lo)
			}
		}
	}
	for _, b := range blocks {
		b.flipRows(0, b.h)
	}

	img := tile(blocks, e.rows, e.cols)
	if err := img.stretch(); err != nil {
		return Image{}, err
	}
	return e.finish(finishField(img, e.height, e.width))
}
