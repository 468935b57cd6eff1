package dataset

import "github.com/gomlx/gomlx/pkg/core/tensors"

import "github.com/neurlang/emgimage/encode"
import "github.com/neurlang/emgimage/label"

// ToTensor converts an image array into a (N, 3, H, W) float32 tensor. The
// tensor copies the data.
func ToTensor(arr encode.Array) *tensors.Tensor {
	data := make([][][][]float32, arr.N)
	for i := range data {
		img := arr.Image(i)
		data[i] = make([][][]float32, arr.Channels)
		for c := range data[i] {
			plane := img.Plane(c)
			data[i][c] = make([][]float32, arr.Height)
			for y := range data[i][c] {
				data[i][c][y] = plane[y*arr.Width : (y+1)*arr.Width]
			}
		}
	}
	return tensors.FromAnyValue(data)
}

// TargetsTensor converts a label matrix into a (rows, cols) float32 tensor.
func TargetsTensor(m *label.Matrix) *tensors.Tensor {
	data := make([][]float32, m.Rows)
	for i := range data {
		data[i] = m.Row(i)
	}
	return tensors.FromAnyValue(data)
}
