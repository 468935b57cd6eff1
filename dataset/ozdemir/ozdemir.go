package ozdemir

import "context"
import "fmt"
import "path/filepath"

import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/dataset"
import "github.com/neurlang/emgimage/filter"
import "github.com/neurlang/emgimage/recording"
import "github.com/neurlang/emgimage/window"

const (
	Name       = "OzdemirEMG"
	SampleRate = 2000
	Electrodes = 4
	Subjects   = 40
)

// Gestures names the gesture recordings in label order.
var Gestures = []string{"Rest", "Extension", "Flexion", "Ulnar_Deviation", "Radial_Deviation",
	"Grip", "Abduction", "Adduction", "Supination", "Pronation"}

// Partial is the number of leading Gestures kept by the partial dataset.
const Partial = 7

// Config returns the default configuration for this dataset.
func Config() config.Config {
	cfg := config.Default()
	cfg.Dataset = Name
	cfg.Signal = config.Signal{
		SampleRate:   SampleRate,
		Electrodes:   Electrodes,
		WindowLength: config.Timesteps(250, SampleRate),
		StepLength:   100,
	}
	cfg.Filter = config.Filter{
		Kind:   config.Bandpass,
		Order:  3,
		Low:    5,
		High:   500,
		Notch:  50,
		NotchQ: 0.0001,
	}
	cfg.RawVariant = config.RawSplit
	cfg.ResizeLengthFactor = 6
	cfg.Exercises = nil
	return cfg
}

// Adapter loads Ozdemir subjects from Root.
type Adapter struct {
	Root string

	cfg  config.Config
	cond *filter.Conditioner
}

func New(root string, cfg config.Config) (*Adapter, error) {
	cfg, err := config.New(cfg)
	if err != nil {
		return nil, err
	}
	cond, err := filter.New(cfg.Filter, cfg.Signal.SampleRate)
	if err != nil {
		return nil, err
	}
	return &Adapter{Root: root, cfg: cfg, cond: cond}, nil
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) Signal() config.Signal { return Config().Signal }

func (a *Adapter) Subjects() []int {
	out := make([]int, Subjects)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Gestures is the number of gestures loaded per subject.
func (a *Adapter) Gestures() int {
	if a.cfg.PartialDataset {
		return Partial
	}
	return len(Gestures)
}

// Path is the recording of gesture g for participant n, without extension.
func (a *Adapter) Path(n, g int) string {
	return filepath.Join(a.Root, fmt.Sprintf("p%d", n), "Gesture"+Gestures[g])
}

// Load conditions every gesture recording of participant n as a whole and
// cuts it into windows labelled with that gesture.
func (a *Adapter) Load(ctx context.Context, n int) (*dataset.Subject, error) {
	if n < 1 || n > Subjects {
		return nil, fmt.Errorf("%w: %d", dataset.ErrSubject, n)
	}
	s := a.cfg.Signal
	var parts []*dataset.Subject
	for g := 0; g < a.Gestures(); g++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, err := recording.Find(a.Path(n, g))
		if err != nil {
			return nil, fmt.Errorf("participant %d: gesture %s: %w", n, Gestures[g], err)
		}
		rec, err := recording.Read(name, Electrodes)
		if err != nil {
			return nil, err
		}
		if err := rec.Check(Electrodes, rec.Timesteps); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		windows := window.Slice(a.cond.Apply(rec.Window), s.WindowLength, s.StepLength)
		parts = append(parts, &dataset.Subject{
			Windows: windows,
			Labels:  window.Fill(len(windows), s.WindowLength, g),
		})
	}

	subj := dataset.Merge(parts...)
	subj.ID = n
	if err := subj.Contract(a.cfg, a.Gestures()); err != nil {
		return nil, err
	}
	return subj, nil
}
