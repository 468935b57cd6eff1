package normalize

import (
	"testing"

	"github.com/neurlang/emgimage/label"
	"github.com/neurlang/emgimage/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func win(values ...float64) window.Window {
	return window.Window{Channels: 1, Timesteps: len(values), Data: values}
}

func TestStandardScaler(t *testing.T) {
	s, err := FitScaler([]window.Window{win(1, 5), win(3, 5)})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, s.Mean)
	assert.Equal(t, []float64{1, 1}, s.Scale)

	out := s.Transform(win(3, 7))
	assert.Equal(t, []float64{1, 2}, out.Data)

	_, err = FitScaler(nil)
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = FitScaler([]window.Window{win(1), win(1, 2)})
	assert.ErrorIs(t, err, window.ErrShape)
}

func TestMinMaxScaler(t *testing.T) {
	s, err := FitMinMax([]window.Window{win(1, 5, -2), win(3, 5, 6)})
	require.NoError(t, err)
	assert.Equal(t, Range{-2, 6}, s.Range)
	out := s.Transform(win(2, 6, -2))
	assert.Equal(t, []float64{0.5, 1, 0}, out.Data)

	flat := &MinMaxScaler{Range: Range{3, 3}}
	assert.Equal(t, []float64{0, 1}, flat.Transform(win(3, 4)).Data)

	var _ Scaler = s
	_, err = FitMinMax(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestGlobalRange(t *testing.T) {
	r, err := GlobalRange([]window.Window{win(1, -2), win(7, 0)})
	require.NoError(t, err)
	assert.Equal(t, Range{-2, 7}, r)
	assert.Equal(t, 9.0, r.Width())

	_, err = GlobalRange(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestGestureExtrema(t *testing.T) {
	windows := []window.Window{win(0, 1), win(-5, 9), win(2, 3), win(4, 4), win(-1, 8)}
	gestures := []int{0, 0, 1, 1, 1}

	// round(0.5*2)=1 window of gesture 0, round(0.5*3)=2 of gesture 1
	e, err := GestureExtrema(windows, gestures, 3, 0.5)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 2, 0}}, e.Min)
	assert.Equal(t, [][]float64{{1, 4, 0}}, e.Max)
	assert.Equal(t, 3, e.Gestures())

	_, err = GestureExtrema(windows, []int{0, 0, 1, 3, 1}, 3, 0.5)
	assert.ErrorIs(t, err, label.ErrLabel)
	assert.NotErrorIs(t, err, ErrEmpty)
	_, err = GestureExtrema(windows, []int{0, -1, 1, 1, 1}, 3, 0.5)
	assert.ErrorIs(t, err, label.ErrLabel)
	_, err = GestureExtrema(nil, nil, 3, 0.5)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestTargetNormalize(t *testing.T) {
	rec := window.Window{Channels: 1, Timesteps: 5, Data: []float64{0, 10, 5, 10, 0}}
	target := Extrema{Min: [][]float64{{0, -1, 0}}, Max: [][]float64{{0, 1, 0}}}

	out, err := TargetNormalize(rec, []int{1, 1, 1, 0}, target)
	require.NoError(t, err)
	require.NoError(t, out.Check(1, 4))
	// gesture 0 has an empty target and is zeroed
	assert.Equal(t, []float64{-1, 1, 0, 0}, out.Data)

	_, err = TargetNormalize(win(2, 2), []int{1, 1}, target)
	assert.ErrorIs(t, err, ErrRange)
}

func TestRecordingExtrema(t *testing.T) {
	e, err := RecordingExtrema([]window.Window{win(1, 3), win(-2, 0)}, []int{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-2, 1}}, e.Min)
	assert.Equal(t, [][]float64{{0, 3}}, e.Max)

	_, err = RecordingExtrema([]window.Window{win(1, 3)}, []int{2}, 2)
	assert.ErrorIs(t, err, label.ErrLabel)
}
