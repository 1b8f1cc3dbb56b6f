// Package scene owns the triangle soup, the emitter sublist, and the
// background (sky/ground), and proxies nearest-hit queries to the
// spatial index.
package scene

import (
	"github.com/hxa7241/minilight-go/pkg/core"
	"github.com/hxa7241/minilight-go/pkg/geometry"
	"github.com/hxa7241/minilight-go/pkg/random"
	"github.com/hxa7241/minilight-go/pkg/spatial"
	"github.com/hxa7241/minilight-go/pkg/surface"
)

// Scene is built once from the model file and is read-only thereafter.
type Scene struct {
	SkyEmission      core.Vec3
	GroundReflection core.Vec3
	Triangles        []*geometry.Triangle
	emitters         []*geometry.Triangle
	index            *spatial.Octree
}

// New builds a scene from its triangles and background terms. ground is
// the raw (unclamped) ground reflectivity; it is clamped to [0,1] and
// modulated by skyEmission as spec.md §3 requires. eye is the camera
// position, used to size the octree's cubified root bound.
func New(skyEmission, ground core.Vec3, triangles []*geometry.Triangle, eye core.Vec3) *Scene {
	var emitters []*geometry.Triangle
	for _, t := range triangles {
		if t.IsEmitter() {
			emitters = append(emitters, t)
		}
	}

	return &Scene{
		SkyEmission:      skyEmission,
		GroundReflection: ground.Clamp01().MultiplyVec(skyEmission),
		Triangles:        triangles,
		emitters:         emitters,
		index:            spatial.Build(triangles, eye),
	}
}

// Intersection delegates to the spatial index, excluding lastHit by
// pointer identity.
func (s *Scene) Intersection(origin, direction core.Vec3, lastHit *geometry.Triangle) (*geometry.Triangle, core.Vec3, bool) {
	return s.index.Intersection(origin, direction, lastHit)
}

// EmitterSample draws a uniformly-chosen emitter and a uniformly-sampled
// point on it, or ok=false if there are no emitters.
func (s *Scene) EmitterSample(rng random.Source) (emitter *geometry.Triangle, point core.Vec3, ok bool) {
	if len(s.emitters) == 0 {
		return nil, core.Vec3{}, false
	}
	index := int(rng.Real01() * float64(len(s.emitters)))
	if index >= len(s.emitters) {
		index = len(s.emitters) - 1
	}
	chosen := s.emitters[index]
	return chosen, chosen.SamplePoint(rng.Real01(), rng.Real01()), true
}

// EmittersCount returns the number of emitting triangles.
func (s *Scene) EmittersCount() int { return len(s.emitters) }

// DefaultEmission returns the background radiance for a ray that hits
// nothing. eyeDir points back along the ray, toward the eye (the negated
// ray direction): a negative Y means the ray travels upward and sees the
// sky; otherwise it sees the ground-reflected sky.
func (s *Scene) DefaultEmission(eyeDir core.Vec3) core.Vec3 {
	if eyeDir.Y < 0 {
		return s.SkyEmission
	}
	return s.GroundReflection
}

// SurfaceAt is a convenience constructor for the ephemeral SurfacePoint
// at a given hit.
func SurfaceAt(triangle *geometry.Triangle, point core.Vec3) surface.Point {
	return surface.New(triangle, point)
}
