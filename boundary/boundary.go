// Package boundary implements domain-wall collision for a non-periodic
// Space: a closed triangle mesh that reflects any particle crossing it,
// adapted from geometry.Mesh/Triangle's barycentric collision test.
package boundary

import (
	"diesel.com/sphtask/space"
	vector "diesel.com/sphtask/vector"
)

type triangle struct {
	verts [3]vector.Vec32
}

func newTriangle(a, b, c vector.Vec32) triangle {
	return triangle{verts: [3]vector.Vec32{a, b, c}}
}

func (t triangle) normal() vector.Vec32 {
	return vector.Normalize(vector.Cross(vector.Sub(t.verts[1], t.verts[0]), vector.Sub(t.verts[2], t.verts[0])))
}

func (t triangle) barycentric(p vector.Vec32) (vector.Vec32, bool) {
	v0 := vector.Sub(t.verts[1], t.verts[0])
	v1 := vector.Sub(t.verts[2], t.verts[0])
	v2 := vector.Sub(p, t.verts[0])
	d00 := vector.Dot(v0, v0)
	d01 := vector.Dot(v0, v1)
	d11 := vector.Dot(v1, v1)
	d20 := vector.Dot(v2, v0)
	d21 := vector.Dot(v2, v1)
	denom := d00*d11 - d01*d01
	u := (d11*d20 - d01*d21) / denom
	v := (d00*d21 - d01*d20) / denom
	w := 1.0 - v - u
	hit := u >= 0 && v >= 0 && w >= 0 && u <= 1 && v <= 1 && w <= 1 && (u+v+w) <= 1
	return vector.Vec32{u, v, w}, hit
}

// barycentricCollision projects p along v onto the triangle's plane and
// reports whether the projection lands within r of p and inside the
// triangle (geometry.Triangle.BarycentricCollision).
func (t triangle) barycentricCollision(p, v, n vector.Vec32, r float32) (vector.Vec32, bool) {
	if vector.Length(v) == 0 {
		return vector.Vec32{}, false
	}
	v0 := vector.Sub(t.verts[0], p)
	nDotRay := vector.Dot(n, v)
	if nDotRay == 0 {
		nDotRay = 0.0001
	}
	d := vector.Dot(v0, n)
	k := d / nDotRay
	p0 := vector.Add(p, vector.Scale(v, k))
	if vector.Length(vector.Sub(p, p0)) > r {
		return vector.Vec32{}, false
	}
	_, hit := t.barycentric(p0)
	return p0, hit
}

type mesh struct {
	vertexes []vector.Vec32
	normals  []vector.Vec32
}

func newMesh(vertices []vector.Vec32, origin vector.Vec32) mesh {
	m := mesh{vertexes: vertices, normals: make([]vector.Vec32, len(vertices)/3)}
	for i := 0; i < len(vertices); i += 3 {
		tri := newTriangle(vertices[i], vertices[i+1], vertices[i+2])
		n := tri.normal()
		if vector.Dot(n, vector.Sub(vertices[i], origin)) > 0 {
			n = vector.Scale(n, -1)
		}
		m.normals[i/3] = n
	}
	return m
}

func (m mesh) collide(p, v vector.Vec32, r float32) (vector.Vec32, bool) {
	for i := 0; i < len(m.vertexes); i += 3 {
		n := m.normals[i/3]
		tri := newTriangle(m.vertexes[i], m.vertexes[i+1], m.vertexes[i+2])
		if _, hit := tri.barycentricCollision(p, v, n, r); hit {
			return n, true
		}
	}
	return vector.Vec32{}, false
}

// Collider is the domain-wall boundary for a non-periodic Space: a
// closed triangle mesh, by default an axis-aligned box, that reflects
// any particle crossing it (§3.6, §8 S8).
type Collider struct {
	mesh        mesh
	Restitution float32
	Friction    float32
	Radius      float32
}

// NewBoxCollider builds a Collider around an axis-aligned box domain of
// the given dimensions centered at origin (geometry.Box).
func NewBoxCollider(dim vector.Vec64, origin vector.Vec32, radius float32) *Collider {
	return &Collider{
		mesh:        boxMesh(float32(dim[0]), float32(dim[1]), float32(dim[2]), origin),
		Restitution: 0.32,
		Friction:    0.025,
		Radius:      radius,
	}
}

// Reflect tests p against the collider and, on a hit, reflects its
// velocity and opposes its accumulated force (fluid.SPHFluid.Collide).
func (c *Collider) Reflect(p *space.Particle) {
	pos := p.X.Vec32Of()
	n, hit := c.mesh.collide(pos, p.Velocity, c.Radius)
	if !hit {
		return
	}

	velN := vector.Scale(n, vector.Dot(n, p.Velocity))
	velTan := vector.Sub(p.Velocity, velN)
	dtVN := vector.Scale(velN, -c.Restitution-1.0)
	velN = vector.Scale(velN, -c.Restitution)

	if vector.Length(velTan) > 0 {
		scale := 1.0 - c.Friction*vector.Length(dtVN)/vector.Length(velTan)
		if scale < 0 {
			scale = 0
		}
		velTan = vector.Scale(velTan, scale)
	}

	p.Velocity = vector.Add(velN, velTan)
	p.Force = vector.Scale(p.Force, -1.0)

	if vector.Length(p.Velocity) < 0.00001 {
		p.Velocity = vector.Vec32{}
	}
}

func boxMesh(w, h, d float32, o vector.Vec32) mesh {
	x, y, z := o[0], o[1], o[2]
	p, q, s := w/2, h/2, d/2

	verts := make([]vector.Vec32, 36)

	verts[0] = vector.Vec32{x - p, y - q, z + s}
	verts[1] = vector.Vec32{x - p, y + q, z + s}
	verts[2] = vector.Vec32{x + p, y + q, z + s}
	verts[3] = vector.Vec32{x + p, y + q, z + s}
	verts[4] = vector.Vec32{x + p, y - q, z + s}
	verts[5] = vector.Vec32{x - p, y - q, z + s}

	verts[6] = vector.Vec32{x - p, y - q, z - s}
	verts[7] = vector.Vec32{x - p, y + q, z - s}
	verts[8] = vector.Vec32{x + p, y - q, z - s}
	verts[9] = vector.Vec32{x - p, y + q, z - s}
	verts[10] = vector.Vec32{x + p, y + q, z - s}
	verts[11] = vector.Vec32{x + p, y - q, z - s}

	verts[12] = vector.Vec32{x - p, y - q, z + s}
	verts[13] = vector.Vec32{x - p, y - q, z - s}
	verts[14] = vector.Vec32{x + p, y - q, z - s}
	verts[15] = vector.Vec32{x - p, y - q, z + s}
	verts[16] = vector.Vec32{x + p, y - q, z - s}
	verts[17] = vector.Vec32{x + p, y - q, z + s}

	verts[18] = vector.Vec32{x - p, y + q, z + s}
	verts[19] = vector.Vec32{x - p, y + q, z - s}
	verts[20] = vector.Vec32{x + p, y + q, z - s}
	verts[21] = vector.Vec32{x + p, y + q, z - s}
	verts[22] = vector.Vec32{x + p, y + q, z + s}
	verts[23] = vector.Vec32{x - p, y + q, z + s}

	verts[24] = vector.Vec32{x - p, y - q, z + s}
	verts[25] = vector.Vec32{x - p, y - q, z - s}
	verts[26] = vector.Vec32{x - p, y + q, z + s}
	verts[27] = vector.Vec32{x - p, y - q, z - s}
	verts[28] = vector.Vec32{x - p, y + q, z - s}
	verts[29] = vector.Vec32{x - p, y + q, z + s}

	verts[30] = vector.Vec32{x + p, y + q, z + s}
	verts[31] = vector.Vec32{x + p, y - q, z + s}
	verts[32] = vector.Vec32{x + p, y - q, z - s}
	verts[33] = vector.Vec32{x + p, y + q, z + s}
	verts[34] = vector.Vec32{x + p, y + q, z - s}
	verts[35] = vector.Vec32{x + p, y - q, z - s}

	return newMesh(verts, o)
}
