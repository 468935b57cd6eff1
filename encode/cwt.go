package encode

import "math"
import "math/cmplx"

import "github.com/mjibson/go-dsp/fft"

import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/window"

// MorletOmega0 is the centre frequency of the mother wavelet in radians.
const MorletOmega0 = 6.0

// Scalogram is the magnitude of a continuous wavelet transform, Rows[f][t],
// from the highest frequency to the lowest.
type Scalogram struct {
	Freqs []float64
	Rows  [][]float64
}

// LinearFreqs returns n frequencies spaced evenly from lo to hi inclusive.
func LinearFreqs(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// CWT computes the analytic Morlet transform of x sampled at fs for every
// frequency in freqs, in the frequency domain. A sinusoid of amplitude A at
// one of the frequencies comes out with magnitude close to A.
func CWT(x []float64, fs float64, freqs []float64) Scalogram {
	n := len(x)
	// zero padding to twice the length keeps the circular convolution from
	// wrapping the two ends of the window onto each other
	m := 2 * n
	buf := make([]float64, m)
	copy(buf, x)
	spec := fft.FFTReal(buf)

	out := Scalogram{Freqs: make([]float64, len(freqs)), Rows: make([][]float64, len(freqs))}
	prod := make([]complex128, m)
	for i := range freqs {
		f := freqs[len(freqs)-1-i]
		out.Freqs[i] = f
		scale := MorletOmega0 / (2 * math.Pi * f)
		for k := range prod {
			prod[k] = 0
		}
		for k := 1; k <= m/2; k++ {
			omega := 2 * math.Pi * float64(k) * fs / float64(m)
			d := scale*omega - MorletOmega0
			prod[k] = spec[k] * complex(2*math.Exp(-d*d/2), 0)
		}
		coef := fft.IFFT(prod)
		row := make([]float64, n)
		for t := range row {
			row[t] = cmplx.Abs(coef[t])
		}
		out.Rows[i] = row
	}
	return out
}

// cwtEncoder tiles one scalogram block per electrode, with as many
// frequencies as the window has samples, from 1 Hz to len-1 Hz.
type cwtEncoder struct {
	base
	fs         float64
	freqs      []float64
	rows, cols int
}

func newCWT(b base, cfg config.Config) *cwtEncoder {
	rows, cols := ClosestFactors(cfg.Signal.Electrodes)
	n := cfg.Signal.WindowLength
	return &cwtEncoder{
		base:  b,
		fs:    cfg.Signal.SampleRate,
		freqs: LinearFreqs(1, float64(n-1), n),
		rows:  rows,
		cols:  cols,
	}
}

func (e *cwtEncoder) Encode(w window.Window) (Image, error) {
	if err := e.check(w); err != nil {
		return Image{}, err
	}
	blocks := make([]field, w.Channels)
	for c := range blocks {
		s := CWT(w.Channel(c), e.fs, e.freqs)
		f := newField(len(s.Rows), w.Timesteps)
		for y, row := range s.Rows {
			copy(f.row(y), row)
		}
		blocks[c] = f
	}
	img := tile(blocks, e.rows, e.cols)
	if err := img.stretch(); err != nil {
		return Image{}, err
	}
	return e.finish(finishField(img, e.height, e.width))
}
