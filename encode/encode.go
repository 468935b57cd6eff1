package encode

import "errors"
import "fmt"
import "math"

import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/normalize"
import "github.com/neurlang/emgimage/window"

var ErrDegenerateRange = errors.New("degenerate value range")
var ErrShape = errors.New("image shape mismatch")

// Image is a channel-major float image: Pix[c*Height*Width+y*Width+x].
type Image struct {
	Channels int
	Height   int
	Width    int
	Pix      []float32
}

// NewImage allocates a zeroed image.
func NewImage(channels, height, width int) Image {
	return Image{Channels: channels, Height: height, Width: width, Pix: make([]float32, channels*height*width)}
}

// Plane returns channel c. The slice aliases img.Pix.
func (img Image) Plane(c int) []float32 {
	n := img.Height * img.Width
	return img.Pix[c*n : (c+1)*n]
}

// Encoder maps one window to one image of a fixed size.
type Encoder interface {
	Encode(w window.Window) (Image, error)
	// Size is the (height, width) of every image the encoder produces.
	Size() (int, int)
}

// New returns the encoder for cfg.Mode. rng is the dataset-wide range used
// by the magnitude encoder and ignored by the others.
func New(cfg config.Config, rng *normalize.Range) (Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h, w := Size(cfg)
	b := base{
		electrodes: cfg.Signal.Electrodes,
		timesteps:  cfg.Signal.WindowLength,
		height:     h,
		width:      w,
	}
	switch cfg.Mode {
	case config.ModeRaw:
		return &rawEncoder{base: b, variant: cfg.RawVariant}, nil
	case config.ModeMagnitude:
		if rng == nil {
			return nil, fmt.Errorf("%w: magnitude images need the global range", config.ErrConfig)
		}
		if !(rng.Max > rng.Min) || math.IsInf(rng.Width(), 0) {
			return nil, fmt.Errorf("%w: global range [%v, %v]", ErrDegenerateRange, rng.Min, rng.Max)
		}
		return &magnitudeEncoder{base: b, rng: *rng}, nil
	case config.ModeRMS:
		return &rmsEncoder{raw: rawEncoder{base: b, variant: cfg.RawVariant}, windows: cfg.RMSWindows}, nil
	case config.ModeSpectrogram, config.ModePhaseSpectrogram:
		return newSpectrogram(b, cfg), nil
	case config.ModeCWT:
		return newCWT(b, cfg), nil
	case config.ModeHHT:
		return &hhtEncoder{base: b, imfs: cfg.MaxIMFs}, nil
	}
	return nil, fmt.Errorf("%w: mode %v", config.ErrConfig, cfg.Mode)
}

// Size reports the image size cfg produces without building an encoder.
func Size(cfg config.Config) (height, width int) {
	s := cfg.Signal
	native := cfg.NativeSize
	switch cfg.Mode {
	case config.ModeMagnitude:
		return s.Electrodes * cfg.ResizeLengthFactor, 2 * (native / 2)
	case config.ModeRaw, config.ModeRMS:
		if cfg.RawVariant == config.RawSplit {
			return s.Electrodes * cfg.ResizeLengthFactor, 2 * (native / 2)
		}
		return s.Electrodes * cfg.ResizeLengthFactor, native
	case config.ModeSpectrogram, config.ModePhaseSpectrogram:
		rows, cols := ClosestFactors(s.Electrodes)
		_, frames := stftShape(s.WindowLength)
		return min(native, rows*s.WindowLength), min(native, cols*frames)
	case config.ModeCWT:
		rows, cols := ClosestFactors(s.Electrodes)
		return min(native, rows*s.WindowLength), min(native, cols*s.WindowLength)
	case config.ModeHHT:
		return min(native, s.WindowLength), min(native, s.Electrodes*cfg.MaxIMFs)
	}
	return 0, 0
}

// ClosestFactors returns the factor pair rows*cols == n with rows <= cols
// and the smallest difference.
func ClosestFactors(n int) (rows, cols int) {
	rows = 1
	for i := 1; i*i <= n; i++ {
		if n%i == 0 {
			rows = i
		}
	}
	return rows, n / rows
}

type base struct {
	electrodes int
	timesteps  int
	height     int
	width      int
}

func (b base) Size() (int, int) { return b.height, b.width }

func (b base) check(w window.Window) error {
	if err := w.Check(b.electrodes, b.timesteps); err != nil {
		return fmt.Errorf("%w: input %v", ErrShape, err)
	}
	return nil
}

func (b base) finish(img Image) (Image, error) {
	if img.Channels != 3 || img.Height != b.height || img.Width != b.width || len(img.Pix) != 3*b.height*b.width {
		return Image{}, fmt.Errorf("%w: got (%d,%d,%d), want (3,%d,%d)", ErrShape, img.Channels, img.Height, img.Width, b.height, b.width)
	}
	return img, nil
}
