package ninapro

import "context"
import "fmt"
import "math"
import "path/filepath"
import "sync"

import "k8s.io/klog/v2"

import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/dataset"
import "github.com/neurlang/emgimage/filter"
import "github.com/neurlang/emgimage/label"
import "github.com/neurlang/emgimage/normalize"
import "github.com/neurlang/emgimage/recording"
import "github.com/neurlang/emgimage/window"

const (
	Name       = "ninapro-db5"
	SampleRate = 200
	Electrodes = 16
	Subjects   = 10
)

// Config returns the default configuration for this dataset.
func Config() config.Config {
	cfg := config.Default()
	cfg.Dataset = Name
	return cfg
}

// Adapter loads Ninapro DB5 subjects from Root.
type Adapter struct {
	Root string

	cfg     config.Config
	seq     *label.Sequencer
	classes int
	cond    *filter.Conditioner

	mu     sync.Mutex
	target map[int]normalize.Extrema // by exercise
}

// New checks cfg against the dataset and prepares the gesture vocabulary.
func New(root string, cfg config.Config) (*Adapter, error) {
	cfg, err := config.New(cfg)
	if err != nil {
		return nil, err
	}
	if len(cfg.Exercises) == 0 {
		return nil, fmt.Errorf("%w: no exercise selected", config.ErrConfig)
	}
	if cfg.PartialDataset && (len(cfg.Exercises) != 1 || cfg.Exercises[0] != 2) {
		return nil, fmt.Errorf("%w: the partial dataset is a subset of exercise 2, got exercises %v", config.ErrConfig, cfg.Exercises)
	}
	if cfg.TargetNormalize > 0 && (cfg.TargetNormalizeSubject < 1 || cfg.TargetNormalizeSubject > Subjects) {
		return nil, fmt.Errorf("%w: target normalize subject %d", config.ErrConfig, cfg.TargetNormalizeSubject)
	}
	seq, err := label.NewSequencer(label.NinaproStarts, cfg.Exercises)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfig, err)
	}
	cond, err := filter.New(cfg.Filter, cfg.Signal.SampleRate)
	if err != nil {
		return nil, err
	}
	a := &Adapter{
		Root:    root,
		cfg:     cfg,
		seq:     seq,
		classes: seq.Classes(label.NinaproLast),
		cond:    cond,
		target:  map[int]normalize.Extrema{},
	}
	if cfg.PartialDataset {
		a.classes = len(label.NinaproPartial)
	}
	return a, nil
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) Signal() config.Signal {
	return config.Signal{
		SampleRate:   SampleRate,
		Electrodes:   Electrodes,
		WindowLength: config.Timesteps(250, SampleRate),
		StepLength:   config.Timesteps(50, SampleRate),
	}
}

func (a *Adapter) Subjects() []int {
	out := make([]int, Subjects)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Classes is the width of the one-hot label rows.
func (a *Adapter) Classes() int { return a.classes }

// Path is the recording of subject n for exercise e, without extension.
func (a *Adapter) Path(n, e int) string {
	return filepath.Join(a.Root, fmt.Sprintf("s%d", n), fmt.Sprintf("S%d_E%d_A1", n, e))
}

// read returns the EMG signals and the restimulus of one exercise.
func (a *Adapter) read(n, e int) (window.Window, []int, error) {
	name, err := recording.Find(a.Path(n, e))
	if err != nil {
		return window.Window{}, nil, err
	}
	rec, err := recording.Read(name, 0)
	if err != nil {
		return window.Window{}, nil, err
	}
	if rec.Channels != Electrodes+1 {
		return window.Window{}, nil, fmt.Errorf("%w: %s has %d signals, want %d EMG and the restimulus",
			window.ErrShape, name, rec.Channels, Electrodes)
	}
	emg := window.Window{Channels: Electrodes, Timesteps: rec.Timesteps, Data: rec.Data[:Electrodes*rec.Timesteps]}
	restim := make([]int, rec.Timesteps)
	for t, v := range rec.Channel(Electrodes) {
		restim[t] = int(math.Round(v))
	}
	return emg, restim, nil
}

// Extrema returns the per-gesture extremes of the target subject for
// exercise e, indexed by raw gesture id. They are computed once.
func (a *Adapter) Extrema(e int) (normalize.Extrema, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ex, ok := a.target[e]; ok {
		return ex, nil
	}
	n := a.cfg.TargetNormalizeSubject
	emg, restim, err := a.read(n, e)
	if err != nil {
		return normalize.Extrema{}, err
	}
	part, err := dataset.Prepare(emg, restim, a.cfg, a.cond)
	if err != nil {
		return normalize.Extrema{}, err
	}
	gestures := part.Gestures(a.cfg.IncludeTransitions)
	classes := 0
	for _, g := range gestures {
		classes = max(classes, g+1)
	}
	ex, err := normalize.GestureExtrema(part.Windows, gestures, classes, a.cfg.TargetNormalize)
	if err != nil {
		return normalize.Extrema{}, fmt.Errorf("subject %d exercise %d: %w", n, e, err)
	}
	klog.V(1).InfoS("target extrema", "subject", n, "exercise", e, "gestures", classes)
	a.target[e] = ex
	return ex, nil
}

// Load reads every selected exercise of subject n, target normalising the
// recordings of every subject but the left out one when configured.
func (a *Adapter) Load(ctx context.Context, n int) (*dataset.Subject, error) {
	if n < 1 || n > Subjects {
		return nil, fmt.Errorf("%w: %d", dataset.ErrSubject, n)
	}
	var parts []*dataset.Subject
	for _, e := range a.cfg.Exercises {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emg, restim, err := a.read(n, e)
		if err != nil {
			return nil, err
		}
		if a.cfg.TargetNormalize > 0 && n != a.cfg.LeaveOut {
			target, err := a.Extrema(e)
			if err != nil {
				return nil, err
			}
			if emg, err = normalize.TargetNormalize(emg, restim, target); err != nil {
				return nil, fmt.Errorf("subject %d exercise %d: %w", n, e, err)
			}
		}
		part, err := dataset.Prepare(emg, restim, a.cfg, a.cond)
		if err != nil {
			return nil, fmt.Errorf("subject %d exercise %d: %w", n, e, err)
		}
		parts = append(parts, part)
	}

	subj := dataset.Merge(parts...)
	subj.ID = n
	a.seq.Apply(subj.Labels)
	if a.cfg.PartialDataset {
		indices, labels := label.Subset(subj.Labels, label.NinaproPartial, a.cfg.IncludeTransitions)
		subj.Keep(indices)
		subj.Labels = labels
	}
	if err := subj.Contract(a.cfg, a.classes); err != nil {
		return nil, err
	}
	return subj, nil
}
