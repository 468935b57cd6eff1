package config

import "encoding/json"
import "errors"
import "fmt"
import "os"

var ErrConfig = errors.New("invalid configuration")

// ImageNet channel statistics applied by every encoder.
var (
	ImageNetMean = [3]float32{0.485, 0.456, 0.406}
	ImageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Signal is the window geometry of one dataset.
type Signal struct {
	SampleRate   float64 `json:"sample_rate"`
	Electrodes   int     `json:"electrodes"`
	WindowLength int     `json:"window_length"` // timesteps
	StepLength   int     `json:"step_length"`   // timesteps
}

// Timesteps converts a duration in milliseconds into samples at rate fs,
// truncating like the recording tools do.
func Timesteps(ms, fs float64) int {
	return int(ms / 1000 * fs)
}

// Filter describes the conditioning filter chain.
type Filter struct {
	Kind  FilterKind `json:"kind"`
	Order int        `json:"order"`
	// Low is the highpass cutoff, or the lower bandpass edge, in Hz.
	Low float64 `json:"low"`
	// High is the upper bandpass edge in Hz; unused for highpass.
	High float64 `json:"high"`
	// Notch is the mains frequency in Hz, 0 disables the notch stage.
	Notch  float64 `json:"notch"`
	NotchQ float64 `json:"notch_q"`
}

// Config is the immutable run configuration. Pass it by value.
type Config struct {
	Dataset string `json:"dataset"`
	Signal  Signal `json:"signal"`
	Filter  Filter `json:"filter"`

	Mode       Mode       `json:"mode"`
	RawVariant RawVariant `json:"raw_variant"`
	RMSWindows int        `json:"rms_windows"`
	// NativeSize is the square input size of the target network.
	NativeSize         int  `json:"native_size"`
	ResizeLengthFactor int  `json:"resize_length_factor"`
	SpectrogramDB      bool `json:"spectrogram_db"`
	MaxIMFs            int  `json:"max_imfs"`

	Normalization   Normalization   `json:"normalization"`
	CrossValidation CrossValidation `json:"cross_validation"`
	LeaveOut        int             `json:"leave_out"`
	// TargetNormalize is the proportion of windows per gesture used for the
	// target extrema; 0 disables target normalisation.
	TargetNormalize        float64 `json:"target_normalize"`
	TargetNormalizeSubject int     `json:"target_normalize_subject"`

	Exercises            []int `json:"exercises"`
	PartialDataset       bool  `json:"partial_dataset"`
	IncludeTransitions   bool  `json:"include_transitions"`
	TransitionClassifier bool  `json:"transition_classifier"`

	CacheRoot  string `json:"cache_root"`
	SaveImages bool   `json:"save_images"`
	Workers    int    `json:"workers"`
}

// Default returns the Ninapro DB5 configuration used by the experiments.
func Default() Config {
	return Config{
		Dataset: "ninapro-db5",
		Signal: Signal{
			SampleRate:   200,
			Electrodes:   16,
			WindowLength: Timesteps(250, 200),
			StepLength:   Timesteps(50, 200),
		},
		Filter: Filter{
			Kind:   Highpass,
			Order:  3,
			Low:    5,
			Notch:  50,
			NotchQ: 0.0001,
		},
		Mode:               ModeRaw,
		RawVariant:         RawWhole,
		RMSWindows:         10,
		NativeSize:         224,
		ResizeLengthFactor: 1,
		MaxIMFs:            6,
		Normalization:      NormStandard,
		CrossValidation:    LeaveOneSubjectOut,
		Exercises:          []int{2},
		CacheRoot:          ".",
		SaveImages:         true,
	}
}

// New validates c and returns a copy that shares no memory with it.
func New(c Config) (Config, error) {
	c.Exercises = append([]int(nil), c.Exercises...)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads a JSON configuration file on top of Default.
func Load(path string) (Config, error) {
	return LoadOver(path, Default())
}

// LoadOver reads a JSON configuration file on top of base, so fields the
// file leaves out keep the base's values.
func LoadOver(path string, base Config) (Config, error) {
	c := base
	c.Exercises = append([]int(nil), base.Exercises...)
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %v", ErrConfig, path, err)
	}
	return New(c)
}

// Width is the number of timesteps the image encoders see per electrode; it
// is the RMS window count in RMS mode.
func (c Config) Width() int {
	if c.Mode == ModeRMS {
		return c.RMSWindows
	}
	return c.Signal.WindowLength
}

// Validate checks every option that an encoder or the cache relies on.
func (c Config) Validate() error {
	s := c.Signal
	switch {
	case s.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %v", ErrConfig, s.SampleRate)
	case s.Electrodes <= 0:
		return fmt.Errorf("%w: electrode count %d", ErrConfig, s.Electrodes)
	case s.WindowLength <= 0 || s.StepLength <= 0:
		return fmt.Errorf("%w: window %d / step %d", ErrConfig, s.WindowLength, s.StepLength)
	case c.NativeSize < 2:
		return fmt.Errorf("%w: native size %d", ErrConfig, c.NativeSize)
	case c.ResizeLengthFactor < 1:
		return fmt.Errorf("%w: resize length factor %d", ErrConfig, c.ResizeLengthFactor)
	case c.Workers < 0:
		return fmt.Errorf("%w: worker count %d", ErrConfig, c.Workers)
	case c.TargetNormalize < 0 || c.TargetNormalize > 1:
		return fmt.Errorf("%w: target normalize proportion %v", ErrConfig, c.TargetNormalize)
	}
	if _, err := c.Mode.MarshalText(); err != nil {
		return err
	}
	if _, err := c.RawVariant.MarshalText(); err != nil {
		return err
	}
	if _, err := c.Normalization.MarshalText(); err != nil {
		return err
	}
	if _, err := c.CrossValidation.MarshalText(); err != nil {
		return err
	}
	if err := c.Filter.validate(s.SampleRate); err != nil {
		return err
	}

	switch c.Mode {
	case ModeRMS:
		if c.RMSWindows <= 0 || s.WindowLength%c.RMSWindows != 0 {
			return fmt.Errorf("%w: window length %d is not divisible into %d RMS windows", ErrConfig, s.WindowLength, c.RMSWindows)
		}
	case ModeSpectrogram, ModePhaseSpectrogram:
		if s.WindowLength/4-1 < 2 {
			return fmt.Errorf("%w: window length %d too short for a spectrogram", ErrConfig, s.WindowLength)
		}
	case ModeCWT:
		if s.WindowLength < 3 {
			return fmt.Errorf("%w: window length %d too short for a wavelet transform", ErrConfig, s.WindowLength)
		}
	case ModeHHT:
		if c.MaxIMFs < 2 {
			return fmt.Errorf("%w: max IMFs %d", ErrConfig, c.MaxIMFs)
		}
	}
	if c.Mode == ModeMagnitude || ((c.Mode == ModeRaw || c.Mode == ModeRMS) && c.RawVariant == RawSplit) {
		if c.Width()%2 != 0 {
			return fmt.Errorf("%w: width %d cannot be split into two halves", ErrConfig, c.Width())
		}
		if c.NativeSize < 4 {
			return fmt.Errorf("%w: native size %d cannot be split into two halves", ErrConfig, c.NativeSize)
		}
	}
	for _, e := range c.Exercises {
		if e <= 0 {
			return fmt.Errorf("%w: exercise %d", ErrConfig, e)
		}
	}
	return nil
}

func (f Filter) validate(fs float64) error {
	nyq := fs / 2
	if f.Order < 1 {
		return fmt.Errorf("%w: filter order %d", ErrConfig, f.Order)
	}
	switch f.Kind {
	case Highpass:
		if f.Low <= 0 || f.Low >= nyq {
			return fmt.Errorf("%w: highpass cutoff %v outside (0, %v)", ErrConfig, f.Low, nyq)
		}
	case Bandpass:
		if f.Low <= 0 || f.High <= f.Low || f.High >= nyq {
			return fmt.Errorf("%w: bandpass edges %v-%v outside (0, %v)", ErrConfig, f.Low, f.High, nyq)
		}
	default:
		return fmt.Errorf("%w: filter kind %d", ErrConfig, int(f.Kind))
	}
	if f.Notch != 0 && (f.Notch <= 0 || f.Notch >= nyq || f.NotchQ <= 0) {
		return fmt.Errorf("%w: notch %v Hz with Q %v", ErrConfig, f.Notch, f.NotchQ)
	}
	return nil
}
