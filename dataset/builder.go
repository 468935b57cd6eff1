package dataset

import "context"
import "fmt"

import "k8s.io/klog/v2"

import "github.com/neurlang/emgimage/batch"
import "github.com/neurlang/emgimage/cache"
import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/encode"
import "github.com/neurlang/emgimage/normalize"
import "github.com/neurlang/emgimage/window"

// Builder produces the image arrays of the subjects of one adapter under
// one configuration.
type Builder struct {
	Config    config.Config
	Adapter   Adapter
	Cache     *cache.Cache
	Generator *batch.Generator
	// Scaler, when set, runs on every window before it is encoded.
	Scaler normalize.Scaler
	// Range is the value range of the scaled training windows, needed by
	// magnitude images.
	Range *normalize.Range
}

// NewBuilder validates cfg against the adapter and wires the cache and the
// generator it describes.
func NewBuilder(cfg config.Config, a Adapter) (*Builder, error) {
	cfg, err := config.New(cfg)
	if err != nil {
		return nil, err
	}
	native := a.Signal()
	if cfg.Signal.SampleRate != native.SampleRate || cfg.Signal.Electrodes != native.Electrodes {
		return nil, fmt.Errorf("%w: %s records %d electrodes at %v Hz, configured %d at %v Hz", config.ErrConfig,
			a.Name(), native.Electrodes, native.SampleRate, cfg.Signal.Electrodes, cfg.Signal.SampleRate)
	}
	return &Builder{
		Config:    cfg,
		Adapter:   a,
		Cache:     cache.New(cfg.CacheRoot, cfg.SaveImages),
		Generator: batch.New(cfg.Workers),
	}, nil
}

// Load reads every subject of the adapter in order and fits the builder on
// the training subjects.
func (b *Builder) Load(ctx context.Context) ([]*Subject, error) {
	var out []*Subject
	for i, id := range b.Adapter.Subjects() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := b.Adapter.Load(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s subject %d: %w", b.Adapter.Name(), id, err)
		}
		s.ID, s.Index = id, i
		klog.V(1).InfoS("loaded subject", "dataset", b.Adapter.Name(), "subject", id, "windows", s.Len())
		out = append(out, s)
	}
	if err := b.Fit(Training(out, b.Config)); err != nil {
		return nil, err
	}
	return out, nil
}

// Fit prepares the scaler and the magnitude range from the training
// subjects. Target normalised data and NormNone get no scaler.
func (b *Builder) Fit(training []*Subject) error {
	var windows []window.Window
	for _, s := range training {
		windows = append(windows, s.Windows...)
	}

	b.Scaler = nil
	if b.Config.TargetNormalize == 0 {
		switch b.Config.Normalization {
		case config.NormStandard:
			s, err := normalize.FitScaler(windows)
			if err != nil {
				return fmt.Errorf("fit standard scaler: %w", err)
			}
			b.Scaler = s
		case config.NormMinMax:
			s, err := normalize.FitMinMax(windows)
			if err != nil {
				return fmt.Errorf("fit min-max scaler: %w", err)
			}
			b.Scaler = s
		}
	}

	b.Range = nil
	if b.Config.Mode == config.ModeMagnitude {
		scaled := windows
		if b.Scaler != nil {
			scaled = make([]window.Window, len(windows))
			for i, w := range windows {
				scaled[i] = b.Scaler.Transform(w)
			}
		}
		r, err := normalize.GlobalRange(scaled)
		if err != nil {
			return fmt.Errorf("global range: %w", err)
		}
		b.Range = &r
	}
	klog.InfoS("fitted", "dataset", b.Adapter.Name(), "subjects", len(training), "windows", len(windows),
		"scaler", b.Scaler != nil, "range", b.Range != nil)
	return nil
}

// Images returns the encoded images of subj, one per window in window
// order, from the cache when it holds them.
func (b *Builder) Images(ctx context.Context, subj *Subject) (encode.Array, error) {
	enc, err := encode.New(b.Config, b.Range)
	if err != nil {
		return encode.Array{}, err
	}
	h, w := enc.Size()
	key := cache.Key(b.Config, b.Adapter.Name(), subj.Index)
	expect := []int{subj.Len(), 3, h, w}

	var pre func(window.Window) window.Window
	if b.Scaler != nil {
		pre = b.Scaler.Transform
	}
	arr, err := b.Cache.LoadOrBuild(ctx, key, expect, func(ctx context.Context) (encode.Array, error) {
		return b.Generator.Generate(ctx, subj.Windows, enc, pre)
	})
	if err != nil {
		return encode.Array{}, fmt.Errorf("subject %d: %w", subj.ID, err)
	}
	if arr.N != subj.Len() {
		return encode.Array{}, fmt.Errorf("%w: subject %d has %d windows but %d images in %s", cache.ErrStale,
			subj.ID, subj.Len(), arr.N, b.Cache.Path(key))
	}
	return arr, nil
}
