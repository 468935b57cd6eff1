package filter

import "errors"
import "fmt"
import "math"
import "math/cmplx"

var ErrDesign = errors.New("filter design failed")

// Coeffs are the numerator b and denominator a of a digital IIR filter,
// normalised so that a[0] == 1.
type Coeffs struct {
	B []float64
	A []float64
}

// buttap returns the poles of the analog Butterworth lowpass prototype.
func buttap(n int) []complex128 {
	p := make([]complex128, 0, n)
	for m := -n + 1; m < n; m += 2 {
		p = append(p, -cmplx.Exp(complex(0, math.Pi*float64(m)/float64(2*n))))
	}
	return p
}

// prewarp maps a cutoff normalised to Nyquist onto the analog frequency the
// bilinear transform sends back to it, for a design rate of 2.
func prewarp(wn float64) float64 {
	const fs = 2.0
	return 2 * fs * math.Tan(math.Pi*wn/fs)
}

func prod(x []complex128) complex128 {
	p := complex(1, 0)
	for _, v := range x {
		p *= v
	}
	return p
}

// bilinear maps an analog zpk filter to the z-plane at a design rate of 2.
func bilinear(z, p []complex128, k float64) ([]complex128, []complex128, float64) {
	const fs2 = 4.0
	degree := len(p) - len(z)
	num := make([]complex128, len(z))
	den := make([]complex128, len(p))
	for i, v := range z {
		num[i] = fs2 - v
	}
	for i, v := range p {
		den[i] = fs2 - v
	}
	k *= real(prod(num) / prod(den))

	zz := make([]complex128, 0, len(z)+degree)
	for _, v := range z {
		zz = append(zz, (fs2+v)/(fs2-v))
	}
	for i := 0; i < degree; i++ {
		zz = append(zz, -1)
	}
	pz := make([]complex128, len(p))
	for i, v := range p {
		pz[i] = (fs2 + v) / (fs2 - v)
	}
	return zz, pz, k
}

// poly expands the monic polynomial with the given roots.
func poly(roots []complex128) []complex128 {
	c := []complex128{1}
	for _, r := range roots {
		n := make([]complex128, len(c)+1)
		for i, v := range c {
			n[i] += v
			n[i+1] -= v * r
		}
		c = n
	}
	return c
}

func zpk2tf(z, p []complex128, k float64) Coeffs {
	b := poly(z)
	a := poly(p)
	c := Coeffs{B: make([]float64, len(b)), A: make([]float64, len(a))}
	for i, v := range b {
		c.B[i] = k * real(v)
	}
	for i, v := range a {
		c.A[i] = real(v)
	}
	return c
}

// ButterHighpass designs an order n digital Butterworth highpass filter with
// its -3 dB point at cutoff Hz for sample rate fs.
func ButterHighpass(n int, cutoff, fs float64) (Coeffs, error) {
	wn := 2 * cutoff / fs
	if n < 1 || wn <= 0 || wn >= 1 {
		return Coeffs{}, fmt.Errorf("%w: highpass order %d at %v Hz for %v Hz", ErrDesign, n, cutoff, fs)
	}
	p := buttap(n)
	wo := prewarp(wn)

	// lowpass to highpass: s -> wo/s
	neg := make([]complex128, len(p))
	for i, v := range p {
		neg[i] = -v
	}
	k := real(1 / prod(neg))
	hp := make([]complex128, len(p))
	for i, v := range p {
		hp[i] = complex(wo, 0) / v
	}
	z := make([]complex128, len(p))

	z, hp, k = bilinear(z, hp, k)
	return zpk2tf(z, hp, k), nil
}

// ButterBandpass designs an order n digital Butterworth bandpass filter
// passing low..high Hz for sample rate fs. The result has order 2n.
func ButterBandpass(n int, low, high, fs float64) (Coeffs, error) {
	w1, w2 := 2*low/fs, 2*high/fs
	if n < 1 || w1 <= 0 || w2 <= w1 || w2 >= 1 {
		return Coeffs{}, fmt.Errorf("%w: bandpass order %d at %v-%v Hz for %v Hz", ErrDesign, n, low, high, fs)
	}
	p := buttap(n)
	lo, hi := prewarp(w1), prewarp(w2)
	wo := complex(math.Sqrt(lo*hi), 0)
	bw := hi - lo

	// lowpass to bandpass: s -> (s^2 + wo^2) / (s bw)
	bp := make([]complex128, 0, 2*len(p))
	for _, v := range p {
		s := v * complex(bw/2, 0)
		r := cmplx.Sqrt(s*s - wo*wo)
		bp = append(bp, s+r)
	}
	for _, v := range p {
		s := v * complex(bw/2, 0)
		r := cmplx.Sqrt(s*s - wo*wo)
		bp = append(bp, s-r)
	}
	z := make([]complex128, len(p))
	k := math.Pow(bw, float64(len(p)))

	z, bp, k = bilinear(z, bp, k)
	return zpk2tf(z, bp, k), nil
}

// Notch designs a second order IIR notch at w0 Hz with quality factor q for
// sample rate fs.
func Notch(w0, q, fs float64) (Coeffs, error) {
	w := 2 * w0 / fs
	if w <= 0 || w >= 1 || q <= 0 {
		return Coeffs{}, fmt.Errorf("%w: notch at %v Hz with Q %v for %v Hz", ErrDesign, w0, q, fs)
	}
	bw := w / q * math.Pi
	w *= math.Pi

	// -3 dB attenuation at the band edges
	gb := 1 / math.Sqrt2
	beta := math.Sqrt(1-gb*gb) / gb * math.Tan(bw/2)
	gain := 1 / (1 + beta)
	c := math.Cos(w)
	return Coeffs{
		B: []float64{gain, -2 * c * gain, gain},
		A: []float64{1, -2 * gain * c, 2*gain - 1},
	}, nil
}

// Response evaluates the frequency response at w radians per sample.
func (c Coeffs) Response(w float64) complex128 {
	z := cmplx.Exp(complex(0, -w))
	var num, den complex128
	zk := complex(1, 0)
	for i := 0; i < max(len(c.B), len(c.A)); i++ {
		if i < len(c.B) {
			num += complex(c.B[i], 0) * zk
		}
		if i < len(c.A) {
			den += complex(c.A[i], 0) * zk
		}
		zk *= z
	}
	return num / den
}
