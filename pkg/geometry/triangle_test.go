package geometry

import (
	"math"
	"testing"

	"github.com/hxa7241/minilight-go/pkg/core"
)

func unitTriangle() *Triangle {
	return NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(0.5, 0.5, 0.5),
		core.NewVec3(1, 1, 1),
	)
}

func TestTriangleClampsMaterial(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(2, -1, 0.5), core.NewVec3(-3, 5, -1),
	)
	if tri.Reflectivity != (core.Vec3{X: 1, Y: 0, Z: 0.5}) {
		t.Errorf("reflectivity not clamped to [0,1]: %v", tri.Reflectivity)
	}
	if tri.Emissivity != (core.Vec3{X: 0, Y: 5, Z: 0}) {
		t.Errorf("emissivity not clamped to >=0: %v", tri.Emissivity)
	}
}

func TestTriangleNormalTangentArea(t *testing.T) {
	tri := unitTriangle()
	if got := tri.Normal(); got != (core.Vec3{X: 0, Y: 0, Z: 1}) {
		t.Errorf("normal = %v, want {0 0 1}", got)
	}
	if got := tri.Tangent(); got != (core.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Errorf("tangent = %v, want {1 0 0}", got)
	}
	if math.Abs(tri.Area()-0.5) > 1e-12 {
		t.Errorf("area = %v, want 0.5", tri.Area())
	}
}

func TestTriangleIsEmitter(t *testing.T) {
	emitter := unitTriangle()
	if !emitter.IsEmitter() {
		t.Errorf("triangle with nonzero emissivity and area should be an emitter")
	}

	dark := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(1, 1, 1), core.Vec3{})
	if dark.IsEmitter() {
		t.Errorf("triangle with zero emissivity should not be an emitter")
	}

	degenerate := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0),
		core.Vec3{}, core.NewVec3(1, 1, 1))
	if degenerate.IsEmitter() {
		t.Errorf("zero-area triangle should never be an emitter")
	}
}

func TestTriangleIntersectionHit(t *testing.T) {
	tri := unitTriangle()
	dist, hit := tri.Intersection(core.NewVec3(0.2, 0.2, 5), core.NewVec3(0, 0, -1))
	if !hit {
		t.Fatalf("expected hit")
	}
	if math.Abs(dist-5) > 1e-9 {
		t.Errorf("distance = %v, want 5", dist)
	}
}

func TestTriangleIntersectionMiss(t *testing.T) {
	tri := unitTriangle()
	if _, hit := tri.Intersection(core.NewVec3(5, 5, 5), core.NewVec3(0, 0, -1)); hit {
		t.Errorf("expected miss outside triangle")
	}
	// Ray pointing away from the triangle plane (behind origin) must miss (t<0).
	if _, hit := tri.Intersection(core.NewVec3(0.2, 0.2, -5), core.NewVec3(0, 0, -1)); hit {
		t.Errorf("expected miss for negative distance")
	}
	// Parallel ray (lies in the triangle's plane) must miss.
	if _, hit := tri.Intersection(core.NewVec3(0.2, 0.2, 0), core.NewVec3(1, 0, 0)); hit {
		t.Errorf("expected miss for ray parallel to triangle plane")
	}
}

func TestTriangleSamplePointIsInTriangle(t *testing.T) {
	tri := unitTriangle()
	rs := []float64{0, 0.1, 0.5, 0.9, 0.999}
	for _, r1 := range rs {
		for _, r2 := range rs {
			p := tri.SamplePoint(r1, r2)

			// Express p in barycentric coordinates over V0,V1,V2 and check
			// they are all in [0,1] and sum to 1.
			v0v1 := tri.V1.Subtract(tri.V0)
			v0v2 := tri.V2.Subtract(tri.V0)
			v0p := p.Subtract(tri.V0)

			d00 := v0v1.Dot(v0v1)
			d01 := v0v1.Dot(v0v2)
			d11 := v0v2.Dot(v0v2)
			d20 := v0p.Dot(v0v1)
			d21 := v0p.Dot(v0v2)
			denom := d00*d11 - d01*d01
			bary1 := (d11*d20 - d01*d21) / denom
			bary2 := (d00*d21 - d01*d20) / denom
			bary0 := 1 - bary1 - bary2

			const eps = 1e-9
			for _, b := range []float64{bary0, bary1, bary2} {
				if b < -eps || b > 1+eps {
					t.Errorf("barycentric coord %v out of [0,1] for r1=%v r2=%v", b, r1, r2)
				}
			}
			if math.Abs(bary0+bary1+bary2-1) > 1e-9 {
				t.Errorf("barycentric coords don't sum to 1: %v", bary0+bary1+bary2)
			}
		}
	}
}

func TestTriangleBoundInflatedByTolerance(t *testing.T) {
	tri := unitTriangle()
	bound := tri.Bound()
	if bound.Min.X > 0-Tolerance+1e-15 || bound.Max.X < 1+Tolerance-1e-15 {
		t.Errorf("bound not inflated by Tolerance: %v", bound)
	}
}
