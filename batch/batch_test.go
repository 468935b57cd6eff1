package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/neurlang/emgimage/encode"
	"github.com/neurlang/emgimage/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// stamp writes the first sample of the window into every pixel.
type stamp struct {
	calls atomic.Int64
	fail  float64
}

func (s *stamp) Size() (int, int) { return 2, 3 }

func (s *stamp) Encode(w window.Window) (encode.Image, error) {
	s.calls.Add(1)
	if w.Data[0] == s.fail {
		return encode.Image{}, errBoom
	}
	img := encode.NewImage(3, 2, 3)
	for i := range img.Pix {
		img.Pix[i] = float32(w.Data[0])
	}
	return img, nil
}

func numbered(n int) []window.Window {
	out := make([]window.Window, n)
	for i := range out {
		out[i] = window.New(1, 2)
		out[i].Data[0] = float64(i)
	}
	return out
}

func TestChunks(t *testing.T) {
	assert.Equal(t, []int{0, 4, 7, 10}, Chunks(10, 3))
	assert.Equal(t, []int{0, 1, 2}, Chunks(2, 8))
	assert.Equal(t, []int{0, 5}, Chunks(5, 0))
	assert.Equal(t, []int{0, 0}, Chunks(0, 4))
}

func TestGeneratePreservesOrder(t *testing.T) {
	for _, workers := range []int{1, 3, 7, 64} {
		enc := &stamp{fail: -1}
		out, err := New(workers).Generate(context.Background(), numbered(37), enc, nil)
		require.NoError(t, err)
		require.Equal(t, []int{37, 3, 2, 3}, out.Shape())
		for i := 0; i < out.N; i++ {
			for _, v := range out.Image(i).Pix {
				require.Equal(t, float32(i), v, "workers=%d window=%d", workers, i)
			}
		}
		assert.EqualValues(t, 37, enc.calls.Load())
	}
}

func TestGeneratePreprocess(t *testing.T) {
	enc := &stamp{fail: -1}
	double := func(w window.Window) window.Window {
		w = w.Clone()
		w.Data[0] *= 2
		return w
	}
	windows := numbered(5)
	out, err := New(2).Generate(context.Background(), windows, enc, double)
	require.NoError(t, err)
	assert.Equal(t, float32(8), out.Image(4).Pix[0])
	assert.Equal(t, 4.0, windows[4].Data[0])
}

func TestGenerateFailFast(t *testing.T) {
	enc := &stamp{fail: 3}
	out, err := New(4).Generate(context.Background(), numbered(20), enc, nil)
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "window 3")
	assert.Nil(t, out.Data)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	enc := &stamp{fail: -1}
	_, err := New(2).Generate(ctx, numbered(10), enc, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 0, enc.calls.Load())
}

func TestGenerateEmpty(t *testing.T) {
	out, err := New(0).Generate(context.Background(), nil, &stamp{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.N)
	assert.GreaterOrEqual(t, New(0).Workers, 1)
}
