// Package physics implements the SPH kernels and density/force/ghost
// collaborators that plug into space.Callbacks. Nothing here knows about
// cells, tasks, or scheduling; it only ever sees the particle slices a
// space.CellView hands it.
package physics

import (
	"math"

	vector "diesel.com/sphtask/vector"
)

const (
	pi      = 3.141592653589
	sqrPi   = 5.5860525258
	piTimes = pi * 2
)

// Kernel is a radial smoothing function and its first/second derivatives,
// adapted from fluid/kernel.go's Kernel interface.
type Kernel interface {
	F(distance float32) float32
	O1D(distance float32) float32
	O2D(distance float32) float32
	Grad(distance float32, dir vector.Vec32) vector.Vec32
}

// GaussianKernel is the interpolation kernel used for density estimates.
type GaussianKernel struct {
	H, H0, A float32
}

func NewGaussian(radius float32) GaussianKernel {
	return GaussianKernel{
		H:  radius,
		H0: radius,
		A:  float32(1 / (sqrPi * radius * radius * radius)),
	}
}

func (k *GaussianKernel) F(distance float32) float32 {
	r := distance / k.H0
	if r > 3.0 {
		return 0.0
	}
	return float32(math.Exp(float64(-r * r)))
}

func (k *GaussianKernel) O1D(distance float32) float32 {
	r := distance / k.H0
	if r > 3.0 {
		return 0.0
	}
	r0 := r + r*0.0001
	d := r0 - r
	return (k.F(r0) - k.F(r)) / d
}

func (k *GaussianKernel) O2D(distance float32) float32 {
	r := distance / k.H0
	if r > 3.0 {
		return 0.0
	}
	r0 := r + r*0.0001
	d := r0 - r
	return -(k.O1D(r0) - k.O1D(r)) / d
}

func (k *GaussianKernel) Grad(distance float32, dir vector.Vec32) vector.Vec32 {
	return vector.Scale(dir, -k.O1D(distance))
}

// CubicKernel is the spiky gradient kernel used for pressure/viscosity
// forces; its second derivative is linear.
type CubicKernel struct {
	H [5]float32
}

func NewCubic(radius float32) CubicKernel {
	var k CubicKernel
	k.H[0] = radius
	for i := 1; i < 5; i++ {
		k.H[i] = k.H[i-1] * radius
	}
	return k
}

func (k *CubicKernel) F(distance float32) float32 {
	if distance > k.H[0] {
		return 0.0
	}
	x := 1.0 - distance/k.H[0]
	return 15.0 / (pi * k.H[2]) * x * x * x
}

func (k *CubicKernel) O1D(distance float32) float32 {
	if distance > k.H[0] {
		return 0.0
	}
	x := 1.0 - distance/k.H[0]
	return -45.0 / (pi * k.H[3]) * x * x
}

func (k *CubicKernel) O2D(distance float32) float32 {
	if distance > k.H[0] {
		return 0.0
	}
	x := 1.0 - distance/k.H[0]
	return 90.0 / (pi * k.H[4]) * x
}

func (k *CubicKernel) Grad(distance float32, dir vector.Vec32) vector.Vec32 {
	return vector.Scale(dir, -k.O1D(distance))
}

// BSplineKernel is an alternate interpolation kernel, offered alongside
// GaussianKernel for callers that want the standard cubic B-spline
// falloff instead.
type BSplineKernel struct {
	H, H0, A, W0 float32
}

func NewBSpline(h float32) BSplineKernel {
	k := BSplineKernel{H: h, H0: h, A: 1 / (pi * h * h * h)}
	k.W0 = k.F(0)
	return k
}

func (k *BSplineKernel) F(x float32) float32 {
	r := x / k.H0
	if r > 2.0 {
		return 0.0
	}
	s := 2 - r
	p := 1 - r
	ret := k.A * 0.25 * s * s * s
	if r < 1.0 {
		ret = k.A * ((0.25 * s * s * s) - (p * p * p))
	}
	return ret
}

func (k *BSplineKernel) O1D(x float32) float32 {
	r := x / k.H0
	if r > 2.0 {
		return 0.0
	}
	q := 2 - r
	p := 1 - r
	if r < 1.0 {
		return k.A * ((0.75 * q * q) - 3*(p*p))
	}
	return k.A * 0.75 * (q * q)
}

func (k *BSplineKernel) O2D(x float32) float32 {
	r := x / k.H0
	if r > 2.0 {
		return 0.0
	}
	q := 2 - r
	p := 1 - r
	if r < 1.0 {
		return k.A * ((1.5 * q) - 6*p)
	}
	return k.A * 1.5 * q
}

func (k *BSplineKernel) Grad(x float32, dir vector.Vec32) vector.Vec32 {
	return vector.Scale(dir, -k.O1D(x))
}
