package ozdemir

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/neurlang/emgimage/config"
	"github.com/neurlang/emgimage/dataset"
	"github.com/neurlang/emgimage/filter"
	"github.com/neurlang/emgimage/label"
	"github.com/neurlang/emgimage/recording"
	"github.com/neurlang/emgimage/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeParticipant(t *testing.T, root string, n int) {
	a := &Adapter{Root: root}
	for g := range Gestures {
		rec := recording.Recording{Window: window.New(Electrodes, 2000), SampleRate: SampleRate}
		for c := 0; c < Electrodes; c++ {
			for i, ch := 0, rec.Channel(c); i < rec.Timesteps; i++ {
				ch[i] = 300*math.Sin(2*math.Pi*float64((g+1)*(c+2)*10*i)/SampleRate) + 50*math.Sin(float64(i)/40)
			}
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(a.Path(n, g)), 0o755))
		require.NoError(t, recording.WriteEDF(a.Path(n, g)+".edf", rec, nil))
	}
}

func TestConfig(t *testing.T) {
	cfg, err := config.New(Config())
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Signal.WindowLength)
	assert.Equal(t, config.Bandpass, cfg.Filter.Kind)
	assert.Empty(t, cfg.Exercises)

	// the adapter rejects a geometry its filter cannot run at
	cfg.Signal.SampleRate = 200
	_, err = New(t.TempDir(), cfg)
	assert.ErrorIs(t, err, config.ErrConfig)
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeParticipant(t, root, 3)
	cfg := Config()
	a, err := New(root, cfg)
	require.NoError(t, err)

	s, err := a.Load(context.Background(), 3)
	require.NoError(t, err)
	perGesture := window.Count(2000, 500, 100)
	require.Equal(t, len(Gestures)*perGesture, s.Len())
	assert.Equal(t, 3, s.ID)
	assert.Equal(t, len(Gestures), s.Targets.Cols)
	classes := label.Argmax(s.Targets)
	for i := range classes {
		assert.Equal(t, i/perGesture, classes[i])
		_, constant := s.Labels[i].Constant()
		assert.True(t, constant)
	}

	// the recording is conditioned before it is cut
	rec, err := recording.Read(a.Path(3, 4)+".edf", Electrodes)
	require.NoError(t, err)
	cond, err := filter.New(cfg.Filter, SampleRate)
	require.NoError(t, err)
	want := window.Slice(cond.Apply(rec.Window), 500, 100)
	for i, w := range want {
		got := s.Windows[4*perGesture+i]
		for j := range w.Data {
			require.InDelta(t, w.Data[j], got.Data[j], 1e-9)
		}
	}

	_, err = a.Load(context.Background(), 41)
	assert.ErrorIs(t, err, dataset.ErrSubject)
	_, err = a.Load(context.Background(), 1)
	assert.ErrorIs(t, err, recording.ErrFileNotLoaded)
}

func TestLoadPartial(t *testing.T) {
	root := t.TempDir()
	writeParticipant(t, root, 1)
	require.NoError(t, os.Remove(filepath.Join(root, "p1", "GesturePronation.edf")))
	cfg := Config()
	cfg.PartialDataset = true
	a, err := New(root, cfg)
	require.NoError(t, err)

	s, err := a.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Partial, s.Targets.Cols)
	assert.Equal(t, Partial*window.Count(2000, 500, 100), s.Len())
}
