package recording

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/neurlang/emgimage/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthetic(channels, n int, fs float64) Recording {
	w := window.New(channels, n)
	for c := 0; c < channels; c++ {
		for t, ch := 0, w.Channel(c); t < n; t++ {
			ch[t] = 40*math.Sin(float64(t*(c+1))/7) + float64(c)
		}
	}
	return Recording{Window: w, SampleRate: fs}
}

func TestEDFRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "s1.edf")
	rec := synthetic(3, 450, 200)
	// a label channel with integral values
	labels := rec.Channel(2)
	for i := range labels {
		labels[i] = float64((i / 50) % 4)
	}
	require.NoError(t, WriteEDF(name, rec, []string{"EMG 1", "EMG 2", "restimulus"}))

	got, err := Read(name, 0)
	require.NoError(t, err)
	require.Equal(t, 3, got.Channels)
	// two whole records of 200 samples plus a padded third
	require.Equal(t, 600, got.Timesteps)
	for c := 0; c < 2; c++ {
		want, have := rec.Channel(c), got.Channel(c)
		for i := range want {
			require.InDelta(t, want[i], have[i], 0.01)
		}
		for _, v := range have[450:] {
			require.InDelta(t, 0, v, 0.01)
		}
	}
	for i, v := range got.Channel(2)[:450] {
		require.Equal(t, labels[i], math.Round(v))
	}
}

func TestInt16RoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "classe_0.dat")
	rec := synthetic(8, 30, 0)
	require.NoError(t, WriteInt16(name, rec))

	got, err := Read(name, 8)
	require.NoError(t, err)
	require.Equal(t, 8, got.Channels)
	require.Equal(t, 30, got.Timesteps)
	for i, v := range rec.Data {
		assert.Equal(t, math.Trunc(v), got.Data[i])
	}

	// a trailing odd byte and partial frame are dropped
	f, err := os.OpenFile(name, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.Close())
	got, err = ReadInt16(name, 8)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Timesteps)

	_, err = ReadInt16(name, 0)
	assert.ErrorIs(t, err, ErrFileNotLoaded)
}

func TestWAV(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tone.wav")
	rec := Recording{Window: window.New(2, 1000), SampleRate: 8000}
	for i := 0; i < rec.Timesteps; i++ {
		rec.Channel(0)[i] = 0.5 * math.Sin(float64(i)/10)
		rec.Channel(1)[i] = -0.25
	}
	require.NoError(t, WriteWAV(name, rec))

	got, err := Read(name, 0)
	require.NoError(t, err)
	assert.Equal(t, 8000.0, got.SampleRate)
	require.Equal(t, 2, got.Channels)
	require.Equal(t, 1000, got.Timesteps)
	for i := 0; i < rec.Timesteps; i++ {
		require.InDelta(t, rec.At(0, i), got.At(0, i), 1e-3)
		require.InDelta(t, rec.At(1, i), got.At(1, i), 1e-3)
	}

	mono := Recording{Window: window.New(1, 10), SampleRate: 8000}
	require.NoError(t, WriteWAV(name, mono))
	assert.ErrorIs(t, WriteWAV(name, synthetic(3, 10, 8000)), ErrFileNotLoaded)
}

// writeFLAC encodes 16-bit stereo samples as verbatim frames of 32 samples.
func writeFLAC(t *testing.T, name string, left, right []int32) {
	f, err := os.Create(name)
	require.NoError(t, err)
	info := &meta.StreamInfo{
		BlockSizeMin:  32,
		BlockSizeMax:  32,
		SampleRate:    8000,
		NChannels:     2,
		BitsPerSample: 16,
	}
	enc, err := flac.NewEncoder(f, info)
	require.NoError(t, err)
	for i := 0; i < len(left); i += 32 {
		fr := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         32,
				SampleRate:        8000,
				Channels:          frame.ChannelsLR,
				BitsPerSample:     16,
			},
			Subframes: []*frame.Subframe{
				{SubHeader: frame.SubHeader{Pred: frame.PredVerbatim}, Samples: left[i : i+32], NSamples: 32},
				{SubHeader: frame.SubHeader{Pred: frame.PredVerbatim}, Samples: right[i : i+32], NSamples: 32},
			},
		}
		require.NoError(t, enc.WriteFrame(fr))
	}
	require.NoError(t, enc.Close())
}

func TestFLAC(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tone.flac")
	left, right := make([]int32, 64), make([]int32, 64)
	for i := range left {
		left[i] = int32(16384 * math.Sin(float64(i)/5))
		right[i] = -8192
	}
	left[0], left[1] = math.MaxInt16, math.MinInt16
	writeFLAC(t, name, left, right)

	got, err := Read(name, 0)
	require.NoError(t, err)
	assert.Equal(t, 8000.0, got.SampleRate)
	require.Equal(t, 2, got.Channels)
	require.Equal(t, 64, got.Timesteps)
	for i := range left {
		require.Equal(t, float64(left[i])/32768, got.At(0, i))
		require.Equal(t, -0.25, got.At(1, i))
	}
	assert.Equal(t, -1.0, got.At(0, 1))
	assert.Less(t, got.At(0, 0), 1.0)
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Read(filepath.Join(dir, "x.csv"), 1)
	assert.ErrorIs(t, err, ErrFileNotLoaded)

	_, err = ReadFLAC(filepath.Join(dir, "missing.flac"))
	assert.ErrorIs(t, err, ErrFileNotLoaded)

	bad := filepath.Join(dir, "bad.edf")
	require.NoError(t, os.WriteFile(bad, []byte("not an edf file"), 0o644))
	_, err = ReadEDF(bad)
	assert.ErrorIs(t, err, ErrFileNotLoaded)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	_, err := Find(filepath.Join(dir, "GestureRest"))
	assert.ErrorIs(t, err, ErrFileNotLoaded)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "GestureRest.dat"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GestureRest.edf"), nil, 0o644))
	name, err := Find(filepath.Join(dir, "GestureRest"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "GestureRest.edf"), name)
}
