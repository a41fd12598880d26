package space

import vector "diesel.com/sphtask/vector"

// Particle is the core's view of a fluid sample. Physics fields beyond
// position/h/dt are opaque to the scheduling core; they live here so a
// single contiguous array backs both the scheduler and the physics
// collaborators, but only the physics package (its Density/Force/Ghost
// callbacks and Integrate) and the boundary collider read or write
// Velocity/Force/Density/Pressure/Mass.
type Particle struct {
	X  vector.Vec64 // position, double precision per §3.1
	H  float32      // smoothing length
	Dt float32      // proposed time step

	Velocity vector.Vec32
	Force    vector.Vec32
	Density  float32
	Pressure float32
	Mass     float32
}

// CPart is the condensed shadow of a Particle: {x, h, dt} packed for
// cache-friendly neighbour loops. After any rebuild, CParts[i] mirrors
// Parts[i] exactly (§3.1).
type CPart struct {
	X  vector.Vec64
	H  float32
	Dt float32
}

func condense(p *Particle) CPart {
	return CPart{X: p.X, H: p.H, Dt: p.Dt}
}

// bin computes bin(p) = ((x/h)_x*cdimY + (x/h)_y)*cdimZ + (x/h)_z for the
// current top-level grid, per §4.1's binning rule.
func bin(pos vector.Vec64, ih vector.Vec64, cdim [3]int) int {
	ix := clampIndex(int(pos[0]*ih[0]), cdim[0])
	iy := clampIndex(int(pos[1]*ih[1]), cdim[1])
	iz := clampIndex(int(pos[2]*ih[2]), cdim[2])
	return (ix*cdim[1]+iy)*cdim[2] + iz
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func cellGetID(cdim [3]int, i, j, k int) int {
	return (i*cdim[1]+j)*cdim[2] + k
}
