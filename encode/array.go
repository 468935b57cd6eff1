package encode

import "fmt"

// Array is a stack of equally sized images: Data[((n*Channels+c)*Height+y)*Width+x].
type Array struct {
	N        int
	Channels int
	Height   int
	Width    int
	Data     []float32
}

// NewArray allocates a zeroed array of n images.
func NewArray(n, channels, height, width int) Array {
	return Array{N: n, Channels: channels, Height: height, Width: width, Data: make([]float32, n*channels*height*width)}
}

// Stride is the number of values in one image.
func (a Array) Stride() int { return a.Channels * a.Height * a.Width }

// Image returns image i. The pixels alias a.Data.
func (a Array) Image(i int) Image {
	s := a.Stride()
	return Image{Channels: a.Channels, Height: a.Height, Width: a.Width, Pix: a.Data[i*s : (i+1)*s]}
}

// Set copies img into slot i.
func (a Array) Set(i int, img Image) error {
	if img.Channels != a.Channels || img.Height != a.Height || img.Width != a.Width || len(img.Pix) != a.Stride() {
		return fmt.Errorf("%w: image (%d,%d,%d) in array of (%d,%d,%d)", ErrShape, img.Channels, img.Height, img.Width, a.Channels, a.Height, a.Width)
	}
	copy(a.Data[i*a.Stride():], img.Pix)
	return nil
}

// Shape returns (N, Channels, Height, Width).
func (a Array) Shape() []int {
	return []int{a.N, a.Channels, a.Height, a.Width}
}
