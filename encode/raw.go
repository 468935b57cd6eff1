package encode

import "fmt"
import "math"

import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/normalize"
import "github.com/neurlang/emgimage/window"

// rawEncoder draws the samples themselves, one row per electrode, stretched
// by the window's own range.
//
// RawWhole resizes the image in one piece; RawSplit resizes the two halves of
// the time axis separately and joins them. Both stretch again after the
// resize.
type rawEncoder struct {
	base
	variant config.RawVariant
}

func (e *rawEncoder) Encode(w window.Window) (Image, error) {
	if err := e.check(w); err != nil {
		return Image{}, err
	}
	f := field{h: w.Channels, w: w.Timesteps, v: append([]float64(nil), w.Data...)}
	return e.encodeField(f)
}

func (e *rawEncoder) encodeField(f field) (Image, error) {
	if err := f.stretch(); err != nil {
		return Image{}, err
	}
	rgb := colorize(f)

	var img Image
	switch e.variant {
	case config.RawSplit:
		l, r := halves(rgb)
		li := planes(resize(l, e.height, e.width/2))
		ri := planes(resize(r, e.height, e.width/2))
		if err := restretch(li, ri); err != nil {
			return Image{}, err
		}
		img = hcat(li, ri)
	default:
		img = planes(resize(rgb, e.height, e.width))
		if err := restretch(img); err != nil {
			return Image{}, err
		}
	}
	clamp(img)
	imagenet(img)
	return e.finish(img)
}

// magnitudeEncoder scales the samples by a dataset-wide range so absolute
// amplitude survives, then resizes the two halves of the time axis
// separately.
type magnitudeEncoder struct {
	base
	rng normalize.Range
}

func (e *magnitudeEncoder) Encode(w window.Window) (Image, error) {
	if err := e.check(w); err != nil {
		return Image{}, err
	}
	f := newField(w.Channels, w.Timesteps)
	for i, x := range w.Data {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Image{}, fmt.Errorf("%w: non-finite sample %v", ErrDegenerateRange, x)
		}
		f.v[i] = (x - e.rng.Min) / e.rng.Width()
	}
	l, r := halves(colorize(f))
	li := planes(resize(l, e.height, e.width/2))
	ri := planes(resize(r, e.height, e.width/2))
	clamp(li)
	clamp(ri)
	imagenet(li)
	imagenet(ri)
	return e.finish(hcat(li, ri))
}

// rmsEncoder replaces each of windows equal chunks of every electrode by its
// root mean square and draws the result like a raw window.
type rmsEncoder struct {
	raw     rawEncoder
	windows int
}

func (e *rmsEncoder) Size() (int, int) { return e.raw.Size() }

func (e *rmsEncoder) Encode(w window.Window) (Image, error) {
	if err := e.raw.check(w); err != nil {
		return Image{}, err
	}
	return e.raw.encodeField(rms(w, e.windows))
}

// rms reduces every electrode of w to n chunk root mean squares.
func rms(w window.Window, n int) field {
	chunk := w.Timesteps / n
	f := newField(w.Channels, n)
	for c := 0; c < w.Channels; c++ {
		ch := w.Channel(c)
		row := f.row(c)
		for k := range row {
			var sum float64
			for _, x := range ch[k*chunk : (k+1)*chunk] {
				sum += x * x
			}
			row[k] = math.Sqrt(sum / float64(chunk))
		}
	}
	return f
}
