package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 50, c.Signal.WindowLength)
	assert.Equal(t, 10, c.Signal.StepLength)
	assert.Equal(t, 50, c.Width())

	c.Mode = ModeRMS
	assert.Equal(t, 10, c.Width())
}

func TestTimesteps(t *testing.T) {
	assert.Equal(t, 50, Timesteps(250, 200))
	assert.Equal(t, 500, Timesteps(250, 2000))
	assert.Equal(t, 10, Timesteps(50, 200))
}

func TestNewCopiesExercises(t *testing.T) {
	c := Default()
	c.Exercises = []int{1, 3}
	got, err := New(c)
	require.NoError(t, err)
	c.Exercises[0] = 9
	assert.Equal(t, []int{1, 3}, got.Exercises)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		edit func(*Config)
	}{
		{"sample rate", func(c *Config) { c.Signal.SampleRate = 0 }},
		{"electrodes", func(c *Config) { c.Signal.Electrodes = 0 }},
		{"step", func(c *Config) { c.Signal.StepLength = 0 }},
		{"native size", func(c *Config) { c.NativeSize = 1 }},
		{"resize factor", func(c *Config) { c.ResizeLengthFactor = 0 }},
		{"workers", func(c *Config) { c.Workers = -1 }},
		{"target proportion", func(c *Config) { c.TargetNormalize = 1.5 }},
		{"mode", func(c *Config) { c.Mode = Mode(42) }},
		{"normalization", func(c *Config) { c.Normalization = Normalization(7) }},
		{"rms width", func(c *Config) { c.Mode = ModeRMS; c.RMSWindows = 7 }},
		{"spectrogram window", func(c *Config) { c.Mode = ModeSpectrogram; c.Signal.WindowLength = 8 }},
		{"imfs", func(c *Config) { c.Mode = ModeHHT; c.MaxIMFs = 1 }},
		{"odd split", func(c *Config) { c.RawVariant = RawSplit; c.Signal.WindowLength = 51 }},
		{"highpass above nyquist", func(c *Config) { c.Filter.Low = 100 }},
		{"bandpass edges", func(c *Config) { c.Filter.Kind = Bandpass; c.Filter.Low, c.Filter.High = 20, 10 }},
		{"notch q", func(c *Config) { c.Filter.NotchQ = 0 }},
		{"filter order", func(c *Config) { c.Filter.Order = 0 }},
		{"exercise", func(c *Config) { c.Exercises = []int{0} }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.edit(&c)
			assert.ErrorIs(t, c.Validate(), ErrConfig)
		})
	}

	c := Default()
	c.Filter.Notch = 0
	assert.NoError(t, c.Validate())
}

func TestModeFromFlags(t *testing.T) {
	m, err := ModeFromFlags(false, false, false, false, false, false)
	require.NoError(t, err)
	assert.Equal(t, ModeRaw, m)

	m, err = ModeFromFlags(false, false, false, false, true, false)
	require.NoError(t, err)
	assert.Equal(t, ModeCWT, m)

	_, err = ModeFromFlags(true, false, true, false, false, false)
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorContains(t, err, "rms, spectrogram")
}

func TestParseMode(t *testing.T) {
	for _, name := range modeNames {
		m, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}
	m, err := ParseMode(" Phase_Spectrogram ")
	require.NoError(t, err)
	assert.Equal(t, ModePhaseSpectrogram, m)

	_, err = ParseMode("wavelet")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "run.json")
	require.NoError(t, os.WriteFile(name, []byte(`{
		"mode": "cwt",
		"normalization": "minmax",
		"cross_validation": "leave_one_session_out",
		"leave_out": 4,
		"filter": {"kind": "bandpass", "order": 3, "low": 5, "high": 90, "notch": 50, "notch_q": 0.0001},
		"exercises": [1, 2]
	}`), 0o644))

	c, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, ModeCWT, c.Mode)
	assert.Equal(t, NormMinMax, c.Normalization)
	assert.Equal(t, LeaveOneSessionOut, c.CrossValidation)
	assert.Equal(t, 4, c.LeaveOut)
	assert.Equal(t, Bandpass, c.Filter.Kind)
	assert.Equal(t, []int{1, 2}, c.Exercises)
	// unset fields keep their defaults
	assert.Equal(t, 224, c.NativeSize)
	assert.Equal(t, 16, c.Signal.Electrodes)

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"mode":"cwt"`)

	require.NoError(t, os.WriteFile(name, []byte(`{"mode": "fft"}`), 0o644))
	_, err = Load(name)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadOver(t *testing.T) {
	base := Default()
	base.Dataset = "OzdemirEMG"
	base.Signal = Signal{SampleRate: 2000, Electrodes: 4, WindowLength: 500, StepLength: 100}
	base.Filter = Filter{Kind: Bandpass, Order: 3, Low: 5, High: 500, Notch: 50, NotchQ: 0.0001}
	base.ResizeLengthFactor = 6
	base.Exercises = []int{1, 2, 3}

	name := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(name, []byte(`{
		"mode": "cwt",
		"signal": {"step_length": 20},
		"exercises": [9]
	}`), 0o644))

	c, err := LoadOver(name, base)
	require.NoError(t, err)
	assert.Equal(t, ModeCWT, c.Mode)
	assert.Equal(t, Signal{SampleRate: 2000, Electrodes: 4, WindowLength: 500, StepLength: 20}, c.Signal)
	assert.Equal(t, base.Filter, c.Filter)
	assert.Equal(t, "OzdemirEMG", c.Dataset)
	assert.Equal(t, 6, c.ResizeLengthFactor)
	assert.Equal(t, []int{9}, c.Exercises)
	assert.Equal(t, []int{1, 2, 3}, base.Exercises)

	// the same band is out of range at Default's 200 Hz
	require.NoError(t, os.WriteFile(name, []byte(`{"filter": {"kind": "bandpass", "high": 500}}`), 0o644))
	_, err = Load(name)
	assert.ErrorIs(t, err, ErrConfig)
}
