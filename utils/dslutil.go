// Package utils holds the engine's synthetic particle-field generator
// and small helpers for seeding demo/test scenes, adapted from the
// original's positional-data helpers.
package utils

import (
	"github.com/zeebo/pcg"

	"diesel.com/sphtask/space"
	vector "diesel.com/sphtask/vector"
)

// ScalePositions scales every particle's position around origin,
// in place (dslutil.ScalePositions, generalised from Vec32 to the
// double-precision Vec64 the core now stores positions in).
func ScalePositions(parts []space.Particle, origin vector.Vec64, scale float64) {
	for i := range parts {
		v := vector.Sub64(parts[i].X, origin)
		v = vector.Scale64(v, scale)
		parts[i].X = vector.Add64(v, origin)
	}
}

// LatticeField returns a cube of cu^3 particles spaced step apart,
// centered on origin, each carrying mass/h/dt and zeroed kinematics.
// This is the non-random counterpart to RandomField (dslutil's
// Initialize loop, generalised off the OpenGL vertex buffer).
func LatticeField(cu int, origin vector.Vec64, step float64, mass, h, dt float32) []space.Particle {
	parts := make([]space.Particle, 0, cu*cu*cu)
	half := float64(cu-1) * step / 2
	for i := 0; i < cu; i++ {
		for j := 0; j < cu; j++ {
			for k := 0; k < cu; k++ {
				pos := vector.Vec64{
					origin[0] - half + float64(i)*step,
					origin[1] - half + float64(j)*step,
					origin[2] - half + float64(k)*step,
				}
				parts = append(parts, space.Particle{X: pos, H: h, Dt: dt, Mass: mass})
			}
		}
	}
	return parts
}

// RandomField scatters n particles uniformly inside a box of the given
// half-extents around origin, using pcg's generator rather than
// math/rand so particle fields and the engine's own tests draw from two
// visibly distinct sources (grounded on zeebo-cascade's check/main.go,
// which keeps a package-level pcg.T as its load generator).
func RandomField(n int, origin vector.Vec64, halfExtent vector.Vec64, mass, h, dt float32) []space.Particle {
	var rng pcg.T
	parts := make([]space.Particle, n)
	for i := range parts {
		pos := vector.Vec64{
			origin[0] + (uniform(&rng)*2-1)*halfExtent[0],
			origin[1] + (uniform(&rng)*2-1)*halfExtent[1],
			origin[2] + (uniform(&rng)*2-1)*halfExtent[2],
		}
		parts[i] = space.Particle{X: pos, H: h, Dt: dt, Mass: mass}
	}
	return parts
}

// uniform maps pcg's uint64 stream to a float64 in [0,1).
func uniform(rng *pcg.T) float64 {
	return float64(rng.Uint64()>>11) / float64(1<<53)
}
