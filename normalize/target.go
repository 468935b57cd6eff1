package normalize

import "fmt"
import "math"

import "gonum.org/v1/gonum/floats"

import "github.com/neurlang/emgimage/label"
import "github.com/neurlang/emgimage/window"

// Extrema holds per-electrode, per-gesture minima and maxima, indexed
// [electrode][gesture].
type Extrema struct {
	Min [][]float64 `json:"min"`
	Max [][]float64 `json:"max"`
}

func newExtrema(electrodes, gestures int) Extrema {
	e := Extrema{Min: make([][]float64, electrodes), Max: make([][]float64, electrodes)}
	for i := range e.Min {
		e.Min[i] = make([]float64, gestures)
		e.Max[i] = make([]float64, gestures)
	}
	return e
}

// Gestures is the number of gesture columns.
func (e Extrema) Gestures() int {
	if len(e.Min) == 0 {
		return 0
	}
	return len(e.Min[0])
}

// GestureExtrema takes, for every gesture, the first round(proportion*count)
// windows of that gesture and records the per-electrode extremes over them.
// Gestures without chosen windows stay zero.
func GestureExtrema(windows []window.Window, gestures []int, classes int, proportion float64) (Extrema, error) {
	if len(windows) != len(gestures) {
		return Extrema{}, fmt.Errorf("%w: %d windows, %d labels", window.ErrShape, len(windows), len(gestures))
	}
	if len(windows) == 0 {
		return Extrema{}, ErrEmpty
	}
	electrodes := windows[0].Channels
	counts := make([]int, classes)
	for _, g := range gestures {
		if g < 0 || g >= classes {
			return Extrema{}, fmt.Errorf("%w: gesture %d of %d", label.ErrLabel, g, classes)
		}
		counts[g]++
	}
	quota := make([]int, classes)
	for g, n := range counts {
		quota[g] = int(math.RoundToEven(proportion * float64(n)))
	}

	e := newExtrema(electrodes, classes)
	seen := make([]int, classes)
	for i, w := range windows {
		g := gestures[i]
		if seen[g] >= quota[g] {
			continue
		}
		for c := 0; c < electrodes; c++ {
			ch := w.Channel(c)
			lo, hi := floats.Min(ch), floats.Max(ch)
			if seen[g] == 0 {
				e.Min[c][g], e.Max[c][g] = lo, hi
				continue
			}
			e.Min[c][g] = min(e.Min[c][g], lo)
			e.Max[c][g] = max(e.Max[c][g], hi)
		}
		seen[g]++
	}
	return e, nil
}

// RecordingExtrema records the per-electrode extremes of one recording per
// gesture, for datasets that store each gesture in its own file.
func RecordingExtrema(recs []window.Window, gestures []int, classes int) (Extrema, error) {
	if len(recs) != len(gestures) {
		return Extrema{}, fmt.Errorf("%w: %d recordings, %d labels", window.ErrShape, len(recs), len(gestures))
	}
	if len(recs) == 0 {
		return Extrema{}, ErrEmpty
	}
	e := newExtrema(recs[0].Channels, classes)
	for i, r := range recs {
		g := gestures[i]
		if g < 0 || g >= classes {
			return Extrema{}, fmt.Errorf("%w: gesture %d of %d", label.ErrLabel, g, classes)
		}
		for c := 0; c < r.Channels; c++ {
			e.Min[c][g] = floats.Min(r.Channel(c))
			e.Max[c][g] = floats.Max(r.Channel(c))
		}
	}
	return e, nil
}

// TargetNormalize rescales a continuous recording so that, sample by sample,
// the electrode's source range maps onto the target range of the sample's
// gesture. Samples of gestures whose target is all zero on the first
// electrode become zero. The recording is cut to the shorter of the signal
// and the label sequence.
func TargetNormalize(rec window.Window, labels []int, target Extrema) (window.Window, error) {
	n := min(rec.Timesteps, len(labels))
	if len(target.Min) < rec.Channels {
		return window.Window{}, fmt.Errorf("%w: %d target electrodes for %d channels", window.ErrShape, len(target.Min), rec.Channels)
	}
	out := window.New(rec.Channels, n)
	if n == 0 {
		return out, nil
	}
	for c := 0; c < rec.Channels; c++ {
		src := rec.Channel(c)[:n]
		lo, hi := floats.Min(src), floats.Max(src)
		if hi == lo {
			return window.Window{}, fmt.Errorf("%w: electrode %d is constant at %v", ErrRange, c, lo)
		}
		dst := out.Channel(c)
		for t, x := range src {
			g := labels[t]
			if g < 0 || g >= target.Gestures() {
				continue
			}
			if target.Min[0][g] == 0 && target.Max[0][g] == 0 {
				continue
			}
			dst[t] = (x-lo)/(hi-lo)*(target.Max[c][g]-target.Min[c][g]) + target.Min[c][g]
		}
	}
	return out, nil
}
