package mdataset

import "context"
import "fmt"
import "path/filepath"
import "sync"

import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/dataset"
import "github.com/neurlang/emgimage/filter"
import "github.com/neurlang/emgimage/normalize"
import "github.com/neurlang/emgimage/recording"
import "github.com/neurlang/emgimage/window"

const (
	Name        = "M_dataset"
	SampleRate  = 200
	Electrodes  = 8
	Subjects    = 18
	Repetitions = 4
)

// Gestures names the gestures in label order.
var Gestures = []string{"Neutral", "Radial Deviation", "Wrist Flexion", "Ulnar Deviation",
	"Wrist Extension", "Hand Close", "Hand Open"}

// Files is the number of recordings per subject; file i holds gesture
// i mod len(Gestures).
var Files = Repetitions * len(Gestures)

// Config returns the default configuration for this dataset.
func Config() config.Config {
	cfg := config.Default()
	cfg.Dataset = Name
	cfg.Signal = config.Signal{
		SampleRate:   SampleRate,
		Electrodes:   Electrodes,
		WindowLength: config.Timesteps(250, SampleRate),
		StepLength:   10,
	}
	cfg.RawVariant = config.RawSplit
	cfg.ResizeLengthFactor = 6
	cfg.Exercises = nil
	return cfg
}

// Adapter loads M dataset subjects from Root.
type Adapter struct {
	Root string

	cfg  config.Config
	cond *filter.Conditioner

	once   sync.Once
	target normalize.Extrema
	err    error
}

func New(root string, cfg config.Config) (*Adapter, error) {
	cfg, err := config.New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.TargetNormalize > 0 && (cfg.TargetNormalizeSubject < 1 || cfg.TargetNormalizeSubject > Subjects) {
		return nil, fmt.Errorf("%w: target normalize subject %d", config.ErrConfig, cfg.TargetNormalizeSubject)
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

// Path is file i of subject n. The first two subjects are female.
func (a *Adapter) Path(n, i int) string {
	dir := fmt.Sprintf("Male%d", n-3)
	if n < 3 {
		dir = fmt.Sprintf("Female%d", n-1)
	}
	return filepath.Join(a.Root, dir, "Test1", fmt.Sprintf("classe_%d.dat", i))
}

func (a *Adapter) read(n, i int) (window.Window, error) {
	rec, err := recording.ReadInt16(a.Path(n, i), Electrodes)
	if err != nil {
		return window.Window{}, err
	}
	if rec.Timesteps < a.cfg.Signal.WindowLength {
		return window.Window{}, fmt.Errorf("%w: %s holds %d samples, shorter than one window", recording.ErrFileNotLoaded,
			a.Path(n, i), rec.Timesteps)
	}
	return rec.Window, nil
}

// Extrema returns the extremes of the first repetition of every gesture of
// the target subject. They are read once.
func (a *Adapter) Extrema() (normalize.Extrema, error) {
	a.once.Do(func() {
		n := a.cfg.TargetNormalizeSubject
		recs := make([]window.Window, len(Gestures))
		gestures := make([]int, len(Gestures))
		for g := range recs {
			if recs[g], a.err = a.read(n, g); a.err != nil {
				return
			}
			gestures[g] = g
		}
		a.target, a.err = normalize.RecordingExtrema(recs, gestures, len(Gestures))
	})
	return a.target, a.err
}

// Load reads every file of subject n. Files of every subject but the left
// out one are target normalised when configured. The windows are
// conditioned after they are cut.
func (a *Adapter) Load(ctx context.Context, n int) (*dataset.Subject, error) {
	if n < 1 || n > Subjects {
		return nil, fmt.Errorf("%w: %d", dataset.ErrSubject, n)
	}
	s := a.cfg.Signal
	subj := &dataset.Subject{ID: n}
	for i := 0; i < Files; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := a.read(n, i)
		if err != nil {
			return nil, err
		}
		g := i % len(Gestures)
		if a.cfg.TargetNormalize > 0 && n != a.cfg.LeaveOut {
			target, err := a.Extrema()
			if err != nil {
				return nil, err
			}
			labels := make([]int, rec.Timesteps)
			for t := range labels {
				labels[t] = g
			}
			if rec, err = normalize.TargetNormalize(rec, labels, target); err != nil {
				return nil, fmt.Errorf("%s: %w", a.Path(n, i), err)
			}
		}
		windows := window.Slice(rec, s.WindowLength, s.StepLength)
		subj.Windows = append(subj.Windows, windows...)
		subj.Labels = append(subj.Labels, window.Fill(len(windows), s.WindowLength, g)...)
	}
	subj.Windows = a.cond.ApplyAll(subj.Windows)
	if err := subj.Contract(a.cfg, len(Gestures)); err != nil {
		return nil, err
	}
	return subj, nil
}
