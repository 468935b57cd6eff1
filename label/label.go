// Package label turns balanced label windows into dense label matrices and
// maps per-exercise gesture ids onto one sequential vocabulary.
package label

import "errors"
import "fmt"

import "github.com/neurlang/emgimage/config"
import "github.com/neurlang/emgimage/window"

var ErrLabel = errors.New("invalid label")

// Matrix is a row-major label matrix with one row per kept window.
type Matrix struct {
	Rows int
	Cols int
	Data []float32
}

// Row returns row i. The slice aliases m.Data.
func (m *Matrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// Contract encodes the labels with max(label)+1 classes.
func Contract(labels []window.Labels, cfg config.Config) (*Matrix, error) {
	return ContractClasses(labels, cfg, 0)
}

// ContractClasses encodes labels according to cfg.
//
// Gesture classification gives a one-hot row over classes columns; classes
// <= 0 means max(label)+1. The class of a window is its end gesture when
// transitions are included and its start gesture otherwise.
//
// Transition classification gives the literal (start, end) pair per row.
func ContractClasses(labels []window.Labels, cfg config.Config, classes int) (*Matrix, error) {
	if cfg.TransitionClassifier {
		m := &Matrix{Rows: len(labels), Cols: 2, Data: make([]float32, 2*len(labels))}
		for i, l := range labels {
			m.Data[2*i] = float32(l.Start())
			m.Data[2*i+1] = float32(l.End())
		}
		return m, nil
	}

	if classes <= 0 {
		for _, l := range labels {
			for _, g := range l {
				if g+1 > classes {
					classes = g + 1
				}
			}
		}
	}
	m := &Matrix{Rows: len(labels), Cols: classes, Data: make([]float32, classes*len(labels))}
	for i, l := range labels {
		g := l.Start()
		if cfg.IncludeTransitions {
			g = l.End()
		}
		if g < 0 || g >= classes {
			return nil, fmt.Errorf("%w: gesture %d at window %d outside %d classes", ErrLabel, g, i, classes)
		}
		m.Data[i*classes+g] = 1
	}
	return m, nil
}

// Argmax returns the column of the largest value in every row, the first
// one on ties.
func Argmax(m *Matrix) []int {
	out := make([]int, m.Rows)
	for i := range out {
		row := m.Row(i)
		best := 0
		for j, v := range row {
			if v > row[best] {
				best = j
			}
		}
		out[i] = best
	}
	return out
}
