package encode

import "math"
import "math/cmplx"

import "github.com/mjibson/go-dsp/fft"
import "gonum.org/v1/gonum/interp"

import "github.com/neurlang/emgimage/window"

const (
	siftIterations = 10
	siftThreshold  = 0.2
)

// extremaIndices returns the local maxima and minima of x, plateaus counted
// once at their first sample.
func extremaIndices(x []float64) (maxima, minima []int) {
	for i := 1; i+1 < len(x); i++ {
		j := i
		for j+1 < len(x) && x[j+1] == x[i] {
			j++
		}
		if j+1 >= len(x) {
			break
		}
		switch {
		case x[i] > x[i-1] && x[i] > x[j+1]:
			maxima = append(maxima, i)
		case x[i] < x[i-1] && x[i] < x[j+1]:
			minima = append(minima, i)
		}
		i = j
	}
	return maxima, minima
}

// envelope fits a natural cubic spline through x at the given indices and
// both end samples.
func envelope(x []float64, idx []int) ([]float64, error) {
	knots := make([]float64, 0, len(idx)+2)
	vals := make([]float64, 0, len(idx)+2)
	knots = append(knots, 0)
	vals = append(vals, x[0])
	for _, i := range idx {
		knots = append(knots, float64(i))
		vals = append(vals, x[i])
	}
	last := len(x) - 1
	if idx[len(idx)-1] != last {
		knots = append(knots, float64(last))
		vals = append(vals, x[last])
	}
	var spline interp.NaturalCubic
	if err := spline.Fit(knots, vals); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i := range out {
		out[i] = spline.Predict(float64(i))
	}
	return out, nil
}

// Sift decomposes x into at most maxIMFs intrinsic mode functions. It stops
// early once the residue has too few extrema to carry another oscillation.
func Sift(x []float64, maxIMFs int) ([][]float64, error) {
	residue := append([]float64(nil), x...)
	var imfs [][]float64
	for len(imfs) < maxIMFs {
		maxima, minima := extremaIndices(residue)
		if len(maxima) < 2 || len(minima) < 2 {
			break
		}
		h := append([]float64(nil), residue...)
		for it := 0; it < siftIterations; it++ {
			maxima, minima = extremaIndices(h)
			if len(maxima) < 1 || len(minima) < 1 {
				break
			}
			upper, err := envelope(h, maxima)
			if err != nil {
				return nil, err
			}
			lower, err := envelope(h, minima)
			if err != nil {
				return nil, err
			}
			var num, den float64
			for i := range h {
				mean := (upper[i] + lower[i]) / 2
				num += mean * mean
				den += h[i] * h[i]
				h[i] -= mean
			}
			if den == 0 || num/den < siftThreshold {
				break
			}
		}
		imfs = append(imfs, h)
		for i := range residue {
			residue[i] -= h[i]
		}
	}
	return imfs, nil
}

// InstantaneousPhase returns the wrapped phase of the analytic signal of x,
// computed with an FFT Hilbert transform.
func InstantaneousPhase(x []float64) []float64 {
	n := len(x)
	spec := fft.FFTReal(x)
	for k := range spec {
		switch {
		case k == 0 || (n%2 == 0 && k == n/2):
		case k < (n+1)/2:
			spec[k] *= 2
		default:
			spec[k] = 0
		}
	}
	analytic := fft.IFFT(spec)
	out := make([]float64, n)
	for i, v := range analytic {
		out[i] = cmplx.Phase(v)
	}
	return out
}

// hhtEncoder lays the instantaneous phase of every IMF out with time down
// the rows and imfs columns per electrode. Columns without an IMF hold the
// level of zero phase.
type hhtEncoder struct {
	base
	imfs int
}

func (e *hhtEncoder) Encode(w window.Window) (Image, error) {
	if err := e.check(w); err != nil {
		return Image{}, err
	}
	f := newField(w.Timesteps, w.Channels*e.imfs)
	for i := range f.v {
		f.v[i] = 0.5
	}
	for c := 0; c < w.Channels; c++ {
		imfs, err := Sift(w.Channel(c), e.imfs-1)
		if err != nil {
			return Image{}, err
		}
		for k, imf := range imfs {
			for t, p := range InstantaneousPhase(imf) {
				f.row(t)[c*e.imfs+k] = (p + math.Pi) / (2 * math.Pi)
			}
		}
	}
	if err := f.stretch(); err != nil {
		return Image{}, err
	}
	return e.finish(finishField(f, e.height, e.width))
}
