package encode

import (
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/neurlang/emgimage/config"
	"github.com/neurlang/emgimage/filter"
	"github.com/neurlang/emgimage/normalize"
	"github.com/neurlang/emgimage/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomWindow(r *rand.Rand, channels, timesteps int) window.Window {
	w := window.New(channels, timesteps)
	for i := range w.Data {
		w.Data[i] = r.NormFloat64()
	}
	return w
}

func assertUnitRange(t *testing.T, img Image) {
	t.Helper()
	for c := 0; c < 3; c++ {
		for _, v := range img.Plane(c) {
			require.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0))
			x := v*config.ImageNetStd[c] + config.ImageNetMean[c]
			require.GreaterOrEqual(t, x, float32(-1e-5))
			require.LessOrEqual(t, x, float32(1+1e-5))
		}
	}
}

func TestRawScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Signal = config.Signal{SampleRate: 200, Electrodes: 2, WindowLength: 4, StepLength: 2}
	cfg.ResizeLengthFactor = 4
	cfg.NativeSize = 8
	cfg, err := config.New(cfg)
	require.NoError(t, err)

	rec := window.New(2, 12)
	for i := range rec.Data {
		rec.Data[i] = math.Sin(float64(i)) + 0.1*float64(i)
	}
	windows := window.Slice(rec, 4, 2)
	require.Len(t, windows, 5)

	cond, err := filter.New(cfg.Filter, cfg.Signal.SampleRate)
	require.NoError(t, err)
	windows = cond.ApplyAll(windows)

	enc, err := New(cfg, nil)
	require.NoError(t, err)
	h, w := enc.Size()
	assert.Equal(t, 8, h)
	assert.Equal(t, 8, w)

	for _, win := range windows {
		require.NoError(t, win.Check(2, 4))
		img, err := enc.Encode(win)
		require.NoError(t, err)
		assert.Equal(t, 3, img.Channels)
		assert.Equal(t, 8, img.Height)
		assert.Equal(t, 8, img.Width)
		assertUnitRange(t, img)
	}
}

func modeConfigs() map[string]config.Config {
	out := map[string]config.Config{}
	base := config.Default()
	for _, m := range []config.Mode{config.ModeRaw, config.ModeMagnitude, config.ModeRMS,
		config.ModeSpectrogram, config.ModePhaseSpectrogram, config.ModeCWT, config.ModeHHT} {
		cfg := base
		cfg.Mode = m
		out[m.String()] = cfg
	}
	split := base
	split.RawVariant = config.RawSplit
	out["raw-split"] = split

	rms := base
	rms.Mode = config.ModeRMS
	rms.RawVariant = config.RawSplit
	out["rms-split"] = rms

	db := base
	db.Mode = config.ModeSpectrogram
	db.SpectrogramDB = true
	out["spectrogram-db"] = db

	oz := base
	oz.Signal = config.Signal{SampleRate: 2000, Electrodes: 4, WindowLength: 100, StepLength: 20}
	oz.Filter = config.Filter{Kind: config.Bandpass, Order: 3, Low: 5, High: 500, Notch: 50, NotchQ: 0.0001}
	oz.Mode = config.ModeCWT
	out["cwt-4"] = oz
	return out
}

func TestEncodersShapeAndIdempotence(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	rng := &normalize.Range{Min: -4, Max: 4}
	for name, cfg := range modeConfigs() {
		t.Run(name, func(t *testing.T) {
			enc, err := New(cfg, rng)
			require.NoError(t, err)
			h, w := Size(cfg)
			eh, ew := enc.Size()
			require.Equal(t, h, eh)
			require.Equal(t, w, ew)

			win := randomWindow(r, cfg.Signal.Electrodes, cfg.Signal.WindowLength)
			a, err := enc.Encode(win)
			require.NoError(t, err)
			assert.Equal(t, 3, a.Channels)
			assert.Equal(t, h, a.Height)
			assert.Equal(t, w, a.Width)
			assertUnitRange(t, a)

			b, err := enc.Encode(win)
			require.NoError(t, err)
			assert.Equal(t, a.Pix, b.Pix)
		})
	}
}

func TestSize(t *testing.T) {
	cfgs := modeConfigs()
	table := []struct {
		name string
		h, w int
	}{
		{"raw", 16, 224},
		{"raw-split", 16, 224},
		{"magnitude", 16, 224},
		{"rms", 16, 224},
		{"spectrogram", 200, 200},
		{"phase_spectrogram", 200, 200},
		{"cwt", 200, 200},
		{"hht", 50, 96},
		{"cwt-4", 200, 200},
	}
	for _, tt := range table {
		h, w := Size(cfgs[tt.name])
		assert.Equal(t, tt.h, h, tt.name)
		assert.Equal(t, tt.w, w, tt.name)
	}
}

func TestDegenerateRange(t *testing.T) {
	cfg := config.Default()
	enc, err := New(cfg, nil)
	require.NoError(t, err)
	_, err = enc.Encode(window.New(16, 50))
	assert.ErrorIs(t, err, ErrDegenerateRange)

	cfg.Mode = config.ModeSpectrogram
	enc, err = New(cfg, nil)
	require.NoError(t, err)
	_, err = enc.Encode(window.New(16, 50))
	assert.ErrorIs(t, err, ErrDegenerateRange)

	cfg.Mode = config.ModeMagnitude
	_, err = New(cfg, nil)
	assert.ErrorIs(t, err, config.ErrConfig)
	_, err = New(cfg, &normalize.Range{Min: 1, Max: 1})
	assert.ErrorIs(t, err, ErrDegenerateRange)
}

func TestShapeMismatch(t *testing.T) {
	enc, err := New(config.Default(), nil)
	require.NoError(t, err)
	_, err = enc.Encode(randomWindow(rand.New(rand.NewSource(2)), 8, 50))
	assert.ErrorIs(t, err, ErrShape)
}

func TestClosestFactors(t *testing.T) {
	for n, want := range map[int][2]int{16: {4, 4}, 8: {2, 4}, 4: {2, 2}, 7: {1, 7}, 12: {3, 4}} {
		r, c := ClosestFactors(n)
		assert.Equal(t, want, [2]int{r, c}, "n=%d", n)
	}
}

func TestViridisEnds(t *testing.T) {
	for _, tt := range []struct {
		v    float64
		want [3]float64
	}{
		{0, [3]float64{0.267004, 0.004874, 0.329415}},
		{0.5, [3]float64{0.127568, 0.566949, 0.550556}},
		{1, [3]float64{0.993248, 0.906157, 0.143936}},
		{100.0 / 256, [3]float64{0.166617, 0.463708, 0.558119}},
	} {
		assert.Equal(t, tt.want, viridis(tt.v), "v=%v", tt.v)
	}
	assert.Equal(t, viridis(0), viridis(-3))
	assert.Equal(t, viridis(1), viridis(7))
}

func TestSTFTShape(t *testing.T) {
	x := make([]float64, 50)
	for i := range x {
		x[i] = 1
	}
	s := STFT(x)
	require.Len(t, s.Bins, 25)
	require.Len(t, s.Bins[0], 50)
	// a constant signal puts its energy in the DC bin away from the edges
	mid := s.Bins[0][25]
	for f := 1; f < len(s.Bins); f++ {
		assert.Greater(t, math.Abs(real(mid)), math.Abs(real(s.Bins[f][25])))
	}
	assert.InDelta(t, 1, real(mid), 1e-9)
}

func TestCWTLocksOnFrequency(t *testing.T) {
	const fs = 200.0
	x := make([]float64, 200)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * 10 * float64(i) / fs)
	}
	s := CWT(x, fs, []float64{5, 10, 20})
	assert.Equal(t, []float64{20, 10, 5}, s.Freqs)
	assert.InDelta(t, 1, s.Rows[1][100], 0.1)
	assert.Less(t, s.Rows[0][100], 0.1)
	assert.Less(t, s.Rows[2][100], 0.1)
}

func TestSiftAndPhase(t *testing.T) {
	n := 256
	x := make([]float64, n)
	for i := range x {
		ti := float64(i) / float64(n)
		x[i] = math.Sin(2*math.Pi*3*ti) + 0.5*math.Sin(2*math.Pi*29*ti)
	}
	imfs, err := Sift(x, 5)
	require.NoError(t, err)
	require.NotEmpty(t, imfs)
	assert.LessOrEqual(t, len(imfs), 5)
	for _, imf := range imfs {
		require.Len(t, imf, n)
	}

	ramp := make([]float64, 32)
	for i := range ramp {
		ramp[i] = float64(i)
	}
	imfs, err = Sift(ramp, 5)
	require.NoError(t, err)
	assert.Empty(t, imfs)

	c := make([]float64, 64)
	for i := range c {
		c[i] = math.Cos(2 * math.Pi * 4 * float64(i) / 64)
	}
	p := InstantaneousPhase(c)
	assert.InDelta(t, 0, p[0], 1e-9)
	assert.InDelta(t, 2*math.Pi*4/64, p[1], 1e-9)
}

func TestRMS(t *testing.T) {
	w := window.Window{Channels: 1, Timesteps: 4, Data: []float64{3, -4, 1, 1}}
	f := rms(w, 2)
	assert.InDeltaSlice(t, []float64{math.Sqrt(12.5), 1}, f.v, 1e-12)
}

func TestWritePNG(t *testing.T) {
	enc, err := New(config.Default(), nil)
	require.NoError(t, err)
	img, err := enc.Encode(randomWindow(rand.New(rand.NewSource(3)), 16, 50))
	require.NoError(t, err)

	name := filepath.Join(t.TempDir(), "window.png")
	require.NoError(t, WritePNG(name, img, true))

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 224, decoded.Bounds().Dx())
	assert.Equal(t, 16, decoded.Bounds().Dy())
}

func TestDenormalize(t *testing.T) {
	img := NewImage(3, 1, 2)
	for c := 0; c < 3; c++ {
		p := img.Plane(c)
		p[0] = -config.ImageNetMean[c] / config.ImageNetStd[c]
		p[1] = (1 - config.ImageNetMean[c]) / config.ImageNetStd[c]
	}
	d := Denormalize(img)
	for c := 0; c < 3; c++ {
		assert.InDelta(t, 0, d.Plane(c)[0], 1e-6)
		assert.InDelta(t, 1, d.Plane(c)[1], 1e-6)
	}
}
