// Package normalize fits the scaling applied to windows before encoding: a
// per-feature standard scaler, a dataset-wide value range for magnitude
// images and the per-gesture extrema behind target normalisation.
package normalize

import "errors"
import "fmt"

import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/stat"

import "github.com/neurlang/emgimage/window"

var ErrEmpty = errors.New("nothing to fit")
var ErrRange = errors.New("degenerate source range")

// Scaler maps a window onto the scale the encoders were fitted for.
type Scaler interface {
	Transform(w window.Window) window.Window
}

// StandardScaler removes the mean and scales to unit variance every feature
// of a flattened window, one feature per (electrode, timestep).
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes the population mean and standard deviation of every
// feature. Constant features get a scale of one.
func FitScaler(windows []window.Window) (*StandardScaler, error) {
	if len(windows) == 0 {
		return nil, ErrEmpty
	}
	n := len(windows[0].Data)
	for i, w := range windows {
		if len(w.Data) != n {
			return nil, fmt.Errorf("%w: window %d", window.ErrShape, i)
		}
	}
	s := &StandardScaler{Mean: make([]float64, n), Scale: make([]float64, n)}
	col := make([]float64, len(windows))
	for f := 0; f < n; f++ {
		for i, w := range windows {
			col[i] = w.Data[f]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.Mean[f], s.Scale[f] = mean, std
	}
	return s, nil
}

// Transform returns the scaled copy of w.
func (s *StandardScaler) Transform(w window.Window) window.Window {
	out := w.Clone()
	floats.Sub(out.Data, s.Mean)
	floats.Div(out.Data, s.Scale)
	return out
}

// MinMaxScaler maps every sample onto [0,1] by the global range of the
// fitted windows.
type MinMaxScaler struct {
	Range Range
}

// FitMinMax takes the global range of the windows.
func FitMinMax(windows []window.Window) (*MinMaxScaler, error) {
	r, err := GlobalRange(windows)
	if err != nil {
		return nil, err
	}
	return &MinMaxScaler{Range: r}, nil
}

// Transform returns the scaled copy of w. A zero width range only shifts.
func (s *MinMaxScaler) Transform(w window.Window) window.Window {
	out := w.Clone()
	scale := s.Range.Width()
	if scale == 0 {
		scale = 1
	}
	floats.AddConst(-s.Range.Min, out.Data)
	floats.Scale(1/scale, out.Data)
	return out
}

// Range is a closed value interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Width is Max-Min.
func (r Range) Width() float64 { return r.Max - r.Min }

// GlobalRange returns the extreme sample values over all windows.
func GlobalRange(windows []window.Window) (Range, error) {
	var r Range
	first := true
	for _, w := range windows {
		if len(w.Data) == 0 {
			continue
		}
		lo, hi := floats.Min(w.Data), floats.Max(w.Data)
		if first {
			r = Range{lo, hi}
			first = false
			continue
		}
		r.Min = min(r.Min, lo)
		r.Max = max(r.Max, hi)
	}
	if first {
		return Range{}, ErrEmpty
	}
	return r, nil
}
