// Package surface implements SurfacePoint: the ephemeral (triangle, point)
// pair used to evaluate local shading — emission toward a viewer, diffuse
// reflection, and Russian-roulette-terminated next-direction sampling.
package surface

import (
	"math"

	"github.com/hxa7241/minilight-go/pkg/core"
	"github.com/hxa7241/minilight-go/pkg/geometry"
	"github.com/hxa7241/minilight-go/pkg/random"
)

// Point is a purely computational value: a triangle and a world position
// on it. It has no identity of its own.
type Point struct {
	Triangle *geometry.Triangle
	Position core.Vec3
}

// New returns the SurfacePoint for the given triangle and position.
func New(triangle *geometry.Triangle, position core.Vec3) Point {
	return Point{Triangle: triangle, Position: position}
}

// Emission returns the radiance emitted toward toPosition along
// outDirection (unit). isSolidAngle selects whether the result is
// weighted by solid angle (used for next-event estimation) or left as a
// raw per-area quantity (used for local, eye-ray emission).
func (p Point) Emission(toPosition, outDirection core.Vec3, isSolidAngle bool) core.Vec3 {
	offset := toPosition.Subtract(p.Position)
	d2 := offset.Dot(offset)
	cosArea := outDirection.Dot(p.Triangle.Normal()) * p.Triangle.Area()
	if cosArea <= 0 {
		return core.Vec3{}
	}

	solidAngle := 1.0
	if isSolidAngle {
		solidAngle = cosArea / math.Max(d2, 1e-6)
	}
	return p.Triangle.Emissivity.Multiply(solidAngle)
}

// Reflection evaluates the diffuse BRDF: inRadiance arriving from inDir
// reflected toward outDir.
func (p Point) Reflection(inDir, inRadiance, outDir core.Vec3) core.Vec3 {
	n := p.Triangle.Normal()
	inDot := inDir.Dot(n)
	outDot := outDir.Dot(n)
	if (inDot < 0) != (outDot < 0) {
		return core.Vec3{}
	}
	return inRadiance.MultiplyVec(p.Triangle.Reflectivity).Multiply(math.Abs(inDot) / math.Pi)
}

// NextDirection draws the next bounce direction via Russian roulette and
// cosine-weighted hemisphere sampling, returning the direction and the
// multiplicative color weight to apply to the recursive radiance, or ok
// = false if the path terminates.
func (p Point) NextDirection(inDir core.Vec3, rng random.Source) (newDir core.Vec3, color core.Vec3, ok bool) {
	reflectivity := p.Triangle.Reflectivity
	rho := reflectivity.MeanChannel()

	if rng.Real01() >= rho {
		return core.Vec3{}, core.Vec3{}, false
	}

	u1 := rng.Real01()
	u2 := rng.Real01()
	phi := 2 * math.Pi * u1
	s := math.Sqrt(u2)
	x := math.Cos(phi) * s
	y := math.Sin(phi) * s
	z := math.Sqrt(1 - s*s)

	n := p.Triangle.Normal()
	if n.Dot(inDir) < 0 {
		n = n.Negate()
	}
	tangent := p.Triangle.Tangent()
	bitangent := n.Cross(tangent)

	newDir = tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(n.Multiply(z))
	if newDir.IsZero() {
		return core.Vec3{}, core.Vec3{}, false
	}

	color = reflectivity.Multiply(1 / rho)
	return newDir, color, true
}
