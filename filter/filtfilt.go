package filter

import "fmt"

import "gonum.org/v1/gonum/mat"

// Stage is a designed filter with its steady-state initial conditions.
type Stage struct {
	Coeffs
	zi []float64
}

// NewStage normalises c and precomputes the initial state that makes the
// filter start in steady state for a unit step.
func NewStage(c Coeffs) (*Stage, error) {
	if len(c.A) == 0 || c.A[0] == 0 {
		return nil, fmt.Errorf("%w: leading denominator coefficient is zero", ErrDesign)
	}
	n := max(len(c.A), len(c.B))
	b := make([]float64, n)
	a := make([]float64, n)
	for i, v := range c.B {
		b[i] = v / c.A[0]
	}
	for i, v := range c.A {
		a[i] = v / c.A[0]
	}
	s := &Stage{Coeffs: Coeffs{B: b, A: a}}
	if n == 1 {
		return s, nil
	}

	// (I - companion(a)^T) zi = b[1:] - a[1:] b[0]
	m := n - 1
	lhs := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		lhs.Set(i, 0, a[i+1])
		lhs.Set(i, i, lhs.At(i, i)+1)
		if i+1 < m {
			lhs.Set(i, i+1, -1)
		}
	}
	rhs := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}
	var zi mat.VecDense
	if err := zi.SolveVec(lhs, rhs); err != nil {
		return nil, fmt.Errorf("%w: initial conditions: %v", ErrDesign, err)
	}
	s.zi = make([]float64, m)
	for i := range s.zi {
		s.zi[i] = zi.AtVec(i)
	}
	return s, nil
}

// PadLen is the odd extension length used by FiltFilt on long inputs.
func (s *Stage) PadLen() int {
	return 3 * len(s.A)
}

// lfilter runs the direct form II transposed filter over x in place, with
// the state initialised to zi*x0.
func (s *Stage) lfilter(x []float64, x0 float64) {
	n := len(s.A)
	if n == 1 {
		for i := range x {
			x[i] *= s.B[0]
		}
		return
	}
	z := make([]float64, n-1)
	for i := range z {
		z[i] = s.zi[i] * x0
	}
	b, a := s.B, s.A
	for i, v := range x {
		y := b[0]*v + z[0]
		for j := 0; j < n-2; j++ {
			z[j] = b[j+1]*v + z[j+1] - a[j+1]*y
		}
		z[n-2] = b[n-1]*v - a[n-1]*y
		x[i] = y
	}
}

// FiltFilt applies the filter forward and backward for zero phase, with an
// odd extension of PadLen samples at both ends. Inputs shorter than the pad
// use the longest extension they support.
func (s *Stage) FiltFilt(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	edge := min(s.PadLen(), len(x)-1)
	ext := make([]float64, len(x)+2*edge)
	for i := 0; i < edge; i++ {
		ext[i] = 2*x[0] - x[edge-i]
		ext[len(ext)-1-i] = 2*x[len(x)-1] - x[len(x)-1-edge+i]
	}
	copy(ext[edge:], x)

	s.lfilter(ext, ext[0])
	reverse(ext)
	s.lfilter(ext, ext[0])
	reverse(ext)

	copy(out, ext[edge:edge+len(x)])
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
