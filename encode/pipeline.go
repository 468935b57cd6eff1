package encode

import "fmt"
import "image"
import "image/color"
import "math"

import "golang.org/x/image/draw"

import "github.com/neurlang/emgimage/config"

// field is a row-major scalar image.
type field struct {
	h, w int
	v    []float64
}

func newField(h, w int) field {
	return field{h: h, w: w, v: make([]float64, h*w)}
}

func (f field) row(y int) []float64 { return f.v[y*f.w : (y+1)*f.w] }

func extrema(v []float64) (lo, hi float64, err error) {
	if len(v) == 0 {
		return 0, 0, fmt.Errorf("%w: empty field", ErrDegenerateRange)
	}
	lo, hi = v[0], v[0]
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, 0, fmt.Errorf("%w: non-finite value %v", ErrDegenerateRange, x)
		}
		lo = min(lo, x)
		hi = max(hi, x)
	}
	if hi == lo {
		return 0, 0, fmt.Errorf("%w: constant field at %v", ErrDegenerateRange, lo)
	}
	return lo, hi, nil
}

// stretch maps the field onto [0,1] by its own range.
func (f field) stretch() error {
	lo, hi, err := extrema(f.v)
	if err != nil {
		return err
	}
	for i, x := range f.v {
		f.v[i] = (x - lo) / (hi - lo)
	}
	return nil
}

// flipRows reverses rows y0..y1-1 in place.
func (f field) flipRows(y0, y1 int) {
	for a, b := y0, y1-1; a < b; a, b = a+1, b-1 {
		ra, rb := f.row(a), f.row(b)
		for x := range ra {
			ra[x], rb[x] = rb[x], ra[x]
		}
	}
}

// tile lays equally sized blocks out on a rows x cols grid, block i at grid
// row i/cols and column i%cols.
func tile(blocks []field, rows, cols int) field {
	bh, bw := blocks[0].h, blocks[0].w
	out := newField(rows*bh, cols*bw)
	for i, b := range blocks {
		gy, gx := i/cols, i%cols
		for y := 0; y < bh; y++ {
			copy(out.row(gy*bh + y)[gx*bw:(gx+1)*bw], b.row(y))
		}
	}
	return out
}

// colorize converts a field in [0,1] to a viridis image.
func colorize(f field) *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, f.w, f.h))
	for y := 0; y < f.h; y++ {
		for x, v := range f.row(y) {
			c := viridis(v)
			img.SetRGBA64(x, y, color.RGBA64{
				R: uint16(math.Round(c[0] * 0xffff)),
				G: uint16(math.Round(c[1] * 0xffff)),
				B: uint16(math.Round(c[2] * 0xffff)),
				A: 0xffff,
			})
		}
	}
	return img
}

// resize scales src to h x w with the Catmull-Rom bicubic kernel, which
// widens itself when shrinking.
func resize(src image.Image, h, w int) *image.RGBA64 {
	dst := image.NewRGBA64(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// planes converts an RGB image to a 3 channel float image in [0,1].
func planes(img *image.RGBA64) Image {
	b := img.Bounds()
	out := NewImage(3, b.Dy(), b.Dx())
	r, g, bl := out.Plane(0), out.Plane(1), out.Plane(2)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.RGBA64At(b.Min.X+x, b.Min.Y+y)
			i := y*b.Dx() + x
			r[i] = float32(c.R) / 0xffff
			g[i] = float32(c.G) / 0xffff
			bl[i] = float32(c.B) / 0xffff
		}
	}
	return out
}

// left and right halves of an image along its width.
func halves(img *image.RGBA64) (image.Image, image.Image) {
	b := img.Bounds()
	mid := b.Min.X + b.Dx()/2
	return img.SubImage(image.Rect(b.Min.X, b.Min.Y, mid, b.Max.Y)), img.SubImage(image.Rect(mid, b.Min.Y, b.Max.X, b.Max.Y))
}

// hcat joins images of equal height side by side.
func hcat(imgs ...Image) Image {
	w := 0
	for _, img := range imgs {
		w += img.Width
	}
	h := imgs[0].Height
	out := NewImage(3, h, w)
	for c := 0; c < 3; c++ {
		dst := out.Plane(c)
		off := 0
		for _, img := range imgs {
			src := img.Plane(c)
			for y := 0; y < h; y++ {
				copy(dst[y*w+off:y*w+off+img.Width], src[y*img.Width:(y+1)*img.Width])
			}
			off += img.Width
		}
	}
	return out
}

// restretch maps the images onto [0,1] by their joint range.
func restretch(imgs ...Image) error {
	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, img := range imgs {
		for _, v := range img.Pix {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if !(hi > lo) {
		return fmt.Errorf("%w: resized image is constant", ErrDegenerateRange)
	}
	for _, img := range imgs {
		for i, v := range img.Pix {
			img.Pix[i] = (v - lo) / (hi - lo)
		}
	}
	return nil
}

func clamp(img Image) {
	for i, v := range img.Pix {
		img.Pix[i] = min(1, max(0, v))
	}
}

func imagenet(img Image) {
	for c := 0; c < 3; c++ {
		p := img.Plane(c)
		for i, v := range p {
			p[i] = (v - config.ImageNetMean[c]) / config.ImageNetStd[c]
		}
	}
}

// Denormalize undoes the ImageNet statistics and clamps to [0,1].
func Denormalize(img Image) Image {
	out := NewImage(img.Channels, img.Height, img.Width)
	copy(out.Pix, img.Pix)
	for c := 0; c < min(3, img.Channels); c++ {
		p := out.Plane(c)
		for i, v := range p {
			p[i] = v*config.ImageNetStd[c] + config.ImageNetMean[c]
		}
	}
	clamp(out)
	return out
}

// finishField runs the shared tail: colormap, resize, clamp and ImageNet.
func finishField(f field, h, w int) Image {
	img := planes(resize(colorize(f), h, w))
	clamp(img)
	imagenet(img)
	return img
}
