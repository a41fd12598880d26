package physics

import (
	"testing"

	"diesel.com/sphtask/space"
	vector "diesel.com/sphtask/vector"
)

func testMaterial() Material {
	return Material{
		Mass:          1.0,
		Viscosity:     0.05,
		InnerRadius:   0.3,
		OuterRadius:   0.45,
		SpeedSound:    10,
		TargetDensity: 1.0,
		EosExp:        7,
	}
}

func TestDensitySelfAccumulatesSymmetrically(t *testing.T) {
	c := NewCollaborator(testMaterial())
	cv := &space.CellView{Parts: []space.Particle{
		{X: vector.Vec64{0, 0, 0}},
		{X: vector.Vec64{0.1, 0, 0}},
	}}

	c.Density(cv, nil)

	if cv.Parts[0].Density <= 0 || cv.Parts[1].Density <= 0 {
		t.Fatalf("expected both particles to accumulate density, got %v and %v",
			cv.Parts[0].Density, cv.Parts[1].Density)
	}
	if cv.Parts[0].Density != cv.Parts[1].Density {
		t.Errorf("expected symmetric density contribution for two identical particles, got %v and %v",
			cv.Parts[0].Density, cv.Parts[1].Density)
	}
}

func TestForcePairOpposesAcrossCells(t *testing.T) {
	c := NewCollaborator(testMaterial())
	a := &space.CellView{Parts: []space.Particle{{X: vector.Vec64{0, 0, 0}, Density: 1, Pressure: 1}}}
	b := &space.CellView{Parts: []space.Particle{{X: vector.Vec64{0.1, 0, 0}, Density: 1, Pressure: 1}}}

	c.Force(a, b)

	sum := vector.Add(a.Parts[0].Force, b.Parts[0].Force)
	if sum[0] > 1e-4 || sum[0] < -1e-4 {
		t.Errorf("expected pairwise force to be equal and opposite, total was %v", sum)
	}
}

func TestGhostAppliesGravityAndPressure(t *testing.T) {
	c := NewCollaborator(testMaterial())
	cv := &space.CellView{Parts: []space.Particle{
		{Density: 2.0},
	}}

	c.Ghost(cv)

	if cv.Parts[0].Force[1] >= 0 {
		t.Errorf("expected downward gravity contribution, got %v", cv.Parts[0].Force)
	}
	if cv.Parts[0].Pressure == 0 {
		t.Errorf("expected nonzero EOS pressure for above-target density")
	}
}

func TestIntegrateAdvancesPositionAndClearsForce(t *testing.T) {
	p := &space.Particle{
		X:     vector.Vec64{0, 0, 0},
		Force: vector.Vec32{1, 0, 0},
		Mass:  1,
	}

	Integrate(p, 0.1)

	if p.Velocity[0] <= 0 {
		t.Errorf("expected velocity to increase under a positive force, got %v", p.Velocity)
	}
	if p.X[0] <= 0 {
		t.Errorf("expected position to advance, got %v", p.X)
	}
	if p.Force != (vector.Vec32{}) {
		t.Errorf("expected force to be cleared after integration, got %v", p.Force)
	}
}
