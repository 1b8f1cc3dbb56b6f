// Package tracer implements RayTracer: the recursive radiance estimator
// that combines BRDF-recursion path tracing with next-event estimation
// against the scene's emitters.
package tracer

import (
	"github.com/hxa7241/minilight-go/pkg/core"
	"github.com/hxa7241/minilight-go/pkg/geometry"
	"github.com/hxa7241/minilight-go/pkg/random"
	"github.com/hxa7241/minilight-go/pkg/scene"
	"github.com/hxa7241/minilight-go/pkg/surface"
)

// RayTracer estimates radiance along rays through a fixed scene.
type RayTracer struct {
	scene *scene.Scene
}

// New returns a RayTracer over the given scene.
func New(sc *scene.Scene) *RayTracer {
	return &RayTracer{scene: sc}
}

// Radiance estimates the radiance arriving at origin from -direction,
// i.e. along the ray (origin, direction). lastHit is the triangle the
// ray originated from (nil for primary rays), excluded from the
// intersection query to avoid self-intersection.
func (rt *RayTracer) Radiance(origin, direction core.Vec3, rng random.Source, lastHit *geometry.Triangle) core.Vec3 {
	hit, point, ok := rt.scene.Intersection(origin, direction, lastHit)
	if !ok {
		return rt.scene.DefaultEmission(direction.Negate())
	}

	sp := surface.New(hit, point)

	var localEmission core.Vec3
	if lastHit == nil {
		localEmission = sp.Emission(origin, direction.Negate(), false)
	}

	illumination := rt.emitterSample(direction, sp, rng)

	var reflection core.Vec3
	if newDir, color, ok := sp.NextDirection(direction.Negate(), rng); ok {
		reflection = rt.Radiance(sp.Position, newDir, rng, hit).MultiplyVec(color)
	}

	return reflection.Add(illumination).Add(localEmission)
}

// emitterSample draws one emitter sample and returns its next-event
// contribution at sp, viewed back along -direction.
func (rt *RayTracer) emitterSample(direction core.Vec3, sp surface.Point, rng random.Source) core.Vec3 {
	emitter, emitterPoint, ok := rt.scene.EmitterSample(rng)
	if !ok {
		return core.Vec3{}
	}

	eDir := emitterPoint.Subtract(sp.Position).Unitize()

	shadowHit, _, shadowOk := rt.scene.Intersection(sp.Position, eDir, sp.Triangle)
	if shadowOk && shadowHit != emitter {
		return core.Vec3{}
	}

	emitterSurface := surface.New(emitter, emitterPoint)
	emissionIn := emitterSurface.Emission(sp.Position, eDir.Negate(), true)
	emissionIn = emissionIn.Multiply(float64(rt.scene.EmittersCount()))

	return sp.Reflection(eDir, emissionIn, direction.Negate())
}
