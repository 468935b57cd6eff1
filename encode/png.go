package encode

import "fmt"
import "image"
import "image/color"
import "image/png"
import "os"

// WritePNG saves an encoded image for inspection, undoing the ImageNet
// statistics first. With reverse set the rows are written bottom up.
func WritePNG(name string, img Image, reverse bool) error {
	if img.Channels != 3 || len(img.Pix) != 3*img.Height*img.Width {
		return fmt.Errorf("%w: cannot write (%d,%d,%d) as RGB", ErrShape, img.Channels, img.Height, img.Width)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	d := Denormalize(img)
	r, g, b := d.Plane(0), d.Plane(1), d.Plane(2)
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := y*img.Width + x
			col := color.RGBA{
				R: uint8(255*r[i] + 0.5),
				G: uint8(255*g[i] + 0.5),
				B: uint8(255*b[i] + 0.5),
				A: 255,
			}
			if reverse {
				out.SetRGBA(x, img.Height-y-1, col)
			} else {
				out.SetRGBA(x, y, col)
			}
		}
	}

	if err := png.Encode(f, out); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	return nil
}
