// Package geometry provides the triangle primitive and its bounding box,
// the only shape MiniLight's spec admits (no spheres, discs, meshes with
// shared vertices, or other accelerators — see spec.md Non-goals).
package geometry

import (
	"math"

	"github.com/hxa7241/minilight-go/pkg/core"
)

// Triangle is three vertices with a diffuse reflectivity and an
// emissivity, plus geometry derived once at construction time.
type Triangle struct {
	V0, V1, V2          core.Vec3
	Reflectivity        core.Vec3
	Emissivity          core.Vec3
	edge0, edge1, edge3 core.Vec3
	normal              core.Vec3
	tangent             core.Vec3
	area                float64
	bound               AABB
}

// NewTriangle builds a triangle from three vertices and per-channel
// reflectivity/emissivity, clamping reflectivity to [0,1]^3 and
// emissivity to >= 0^3 as spec.md §3 requires.
func NewTriangle(v0, v1, v2 core.Vec3, reflectivity, emissivity core.Vec3) *Triangle {
	t := &Triangle{
		V0:           v0,
		V1:           v1,
		V2:           v2,
		Reflectivity: reflectivity.Clamp01(),
		Emissivity:   emissivity.ClampLow(0),
	}

	t.edge0 = v1.Subtract(v0)
	t.edge1 = v2.Subtract(v1)
	t.edge3 = v2.Subtract(v0)
	t.normal = t.edge0.Cross(t.edge1).Unitize()
	t.tangent = t.edge0.Unitize()
	t.area = 0.5 * t.edge0.Cross(t.edge1).Length()
	t.bound = NewAABBFromPoints(v0, v1, v2).Expand(Tolerance)

	return t
}

// Normal returns the triangle's unit face normal.
func (t *Triangle) Normal() core.Vec3 { return t.normal }

// Tangent returns a unit vector in the triangle's plane, used as the
// reference direction for hemisphere sampling.
func (t *Triangle) Tangent() core.Vec3 { return t.tangent }

// Area returns the triangle's surface area.
func (t *Triangle) Area() float64 { return t.area }

// IsEmitter reports whether the triangle can contribute direct light: it
// must have non-zero emissivity and non-zero area (spec.md §3).
func (t *Triangle) IsEmitter() bool {
	return !t.Emissivity.IsZero() && t.area > 0
}

// Bound returns the triangle's axis-aligned bounding box, inflated by
// Tolerance on every face.
func (t *Triangle) Bound() AABB { return t.bound }

// Intersection tests the ray against the triangle using Möller-Trumbore,
// returning the hit distance along the ray and whether it hit. Ties are
// broken by the strict inequalities below: only values strictly outside
// the ranges are rejected, so a ray through an edge (u==0, v==0 or
// u+v==1) is accepted.
func (t *Triangle) Intersection(origin, direction core.Vec3) (float64, bool) {
	p := direction.Cross(t.edge3)
	det := t.edge0.Dot(p)
	if math.Abs(det) < Epsilon {
		return 0, false
	}

	originToV0 := origin.Subtract(t.V0)
	u := originToV0.Dot(p) / det
	if u < 0 || u > 1 {
		return 0, false
	}

	q := originToV0.Cross(t.edge0)
	v := direction.Dot(q) / det
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := t.edge3.Dot(q) / det
	if dist < 0 {
		return 0, false
	}

	return dist, true
}

// SamplePoint draws a uniformly-distributed point on the triangle's area
// from two uniform reals in [0,1).
func (t *Triangle) SamplePoint(r1, r2 float64) core.Vec3 {
	s := math.Sqrt(r1)
	a := 1 - s
	b := (1 - r2) * s
	return t.V0.Add(t.edge0.Multiply(a)).Add(t.edge3.Multiply(b))
}
