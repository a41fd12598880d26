package physics

import (
	"math"

	"diesel.com/sphtask/space"
	vector "diesel.com/sphtask/vector"
)

// Material holds the per-fluid constants of a PCISPH system, adapted
// from fluid/sphfluid.go's MassFluidParticle.
type Material struct {
	Mass          float32
	Viscosity     float32
	InnerRadius   float32 // smoothing radius, h
	OuterRadius   float32
	SpeedSound    float32
	TargetDensity float32
	EosExp        float32
}

// Collaborator wires a Material and its kernels into space.Callbacks:
// Density, Force, and Ghost have exactly the signatures space.Init
// expects. It holds no scheduler state and is safe to invoke
// concurrently across disjoint cells.
type Collaborator struct {
	Mat     Material
	Interp  GaussianKernel // density estimation
	Grad    CubicKernel    // pressure/viscosity gradients
	Gravity float32

	NegativePressureScale float32
}

func NewCollaborator(mat Material) *Collaborator {
	return &Collaborator{
		Mat:     mat,
		Interp:  NewGaussian(mat.InnerRadius),
		Grad:    NewCubic(mat.InnerRadius),
		Gravity: -9.810435,
	}
}

// Callbacks exposes this Collaborator as a space.Callbacks value.
func (c *Collaborator) Callbacks() space.Callbacks {
	return space.Callbacks{Density: c.Density, Force: c.Force, Ghost: c.Ghost}
}

// Density accumulates kernel-weighted mass contributions into every
// touched particle's Density field (fluid.UpdateDensities, generalised
// from a grid-neighbour sampler to an arbitrary cell/cell-pair view).
func (c *Collaborator) Density(ci, cj *space.CellView) {
	if cj == nil {
		c.densitySelf(ci)
		return
	}
	c.densityPair(ci, cj)
}

func (c *Collaborator) densitySelf(cv *space.CellView) {
	self := c.Interp.F(0)
	for i := range cv.Parts {
		cv.Parts[i].Density += c.Mat.Mass * self
	}
	for i := range cv.Parts {
		for j := i + 1; j < len(cv.Parts); j++ {
			c.accumulateDensity(cv, i, cv, j)
		}
	}
}

func (c *Collaborator) densityPair(a, b *space.CellView) {
	for i := range a.Parts {
		for j := range b.Parts {
			c.accumulateDensity(a, i, b, j)
		}
	}
}

func (c *Collaborator) accumulateDensity(a *space.CellView, i int, b *space.CellView, j int) {
	dx := vector.Sub64(a.Parts[i].X, b.Parts[j].X)
	dist := float32(vector.Length64(dx))
	if dist > c.Mat.InnerRadius*3 {
		return
	}
	w := c.Interp.F(dist)
	m := c.Mat.Mass
	a.Parts[i].Density += m * w
	b.Parts[j].Density += m * w
}

// Force accumulates the pressure-gradient and viscous-laplacian
// contributions (fluid.Pressure + fluid.Viscosity, merged into one pass
// since both are evaluated over the same neighbour pairs).
func (c *Collaborator) Force(ci, cj *space.CellView) {
	if cj == nil {
		c.forceSelf(ci)
		return
	}
	c.forcePair(ci, cj)
}

func (c *Collaborator) forceSelf(cv *space.CellView) {
	for i := range cv.Parts {
		for j := i + 1; j < len(cv.Parts); j++ {
			c.accumulateForce(cv, i, cv, j)
		}
	}
}

func (c *Collaborator) forcePair(a, b *space.CellView) {
	for i := range a.Parts {
		for j := range b.Parts {
			c.accumulateForce(a, i, b, j)
		}
	}
}

func (c *Collaborator) accumulateForce(a *space.CellView, i int, b *space.CellView, j int) {
	dx := vector.Sub64(a.Parts[i].X, b.Parts[j].X)
	dist := float32(vector.Length64(dx))
	if dist < 1e-6 || dist > c.Mat.InnerRadius*3 {
		return
	}
	di, dj := a.Parts[i].Density, b.Parts[j].Density
	if di <= 0 || dj <= 0 {
		return
	}

	dir := vector.Scale(dx.Vec32Of(), 1/dist)
	grad := c.Grad.Grad(dist, dir)

	mm := c.Mat.Mass * c.Mat.Mass
	pTerm := mm * (a.Parts[i].Pressure/(di*di) + b.Parts[j].Pressure/(dj*dj))
	fp := vector.Scale(grad, -pTerm)

	relVel := vector.Sub(b.Parts[j].Velocity, a.Parts[i].Velocity)
	lap := c.Grad.O2D(dist)
	fv := vector.Scale(relVel, c.Mat.Viscosity*mm*lap/dj)

	total := vector.Add(fp, fv)
	a.Parts[i].Force = vector.Add(a.Parts[i].Force, total)
	b.Parts[j].Force = vector.Sub(b.Parts[j].Force, total)
}

// Ghost runs once per super-cell barrier, after every density
// contribution to its particles is complete and before any force task
// may start: this is where the equation of state and the constant
// external force are applied (fluid.PressureEOS + fluid.External).
func (c *Collaborator) Ghost(cv *space.CellView) {
	k := (c.Mat.Mass * c.Mat.SpeedSound) / (c.Mat.EosExp * 150)
	gravity := vector.Vec32{0, c.Mat.Mass * c.Gravity, 0}

	for i := range cv.Parts {
		p := &cv.Parts[i]
		if p.Density > 0.00001 {
			g := k * ((p.Density / c.Mat.TargetDensity) - 1.0)
			pressure := float32(math.Pow(float64(g), float64(c.Mat.EosExp)))
			if pressure < 0 {
				pressure *= c.NegativePressureScale
			}
			if !math.IsNaN(float64(pressure)) {
				p.Pressure = pressure
			}
		}
		p.Force = vector.Add(p.Force, gravity)
	}
}

// Integrate advances a particle one timestep under its accumulated
// force and clears the force for the next density/force pass
// (fluid.Update).
func Integrate(p *space.Particle, dt float32) {
	accel := vector.Scale(p.Force, dt/p.Mass)
	p.Velocity = vector.Add(p.Velocity, accel)
	step := vector.Scale(p.Velocity, dt)
	p.X = vector.Add64(p.X, step.Vec64Of())
	p.Force = vector.Vec32{}
}
