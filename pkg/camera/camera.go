// Package camera builds the view frame and generates per-pixel,
// jittered primary rays for a frame.
package camera

import (
	"math"

	"github.com/hxa7241/minilight-go/pkg/core"
	"github.com/hxa7241/minilight-go/pkg/image"
	"github.com/hxa7241/minilight-go/pkg/random"
	"github.com/hxa7241/minilight-go/pkg/tracer"
)

const (
	minViewAngleDegrees = 10
	maxViewAngleDegrees = 160
)

// Camera is an immutable view: position, orthonormal frame, and full
// view angle.
type Camera struct {
	Position  core.Vec3
	Direction core.Vec3
	right     core.Vec3
	up        core.Vec3
	angle     float64 // radians, full view angle
}

// New builds a camera. viewDirection defaults to (0,0,1) when zero;
// viewAngleDegrees is clamped to [10,160] before conversion to radians.
func New(viewPosition, viewDirection core.Vec3, viewAngleDegrees float64) *Camera {
	direction := viewDirection.Unitize()
	if direction.IsZero() {
		direction = core.NewVec3(0, 0, 1)
	}

	angle := viewAngleDegrees
	if angle < minViewAngleDegrees {
		angle = minViewAngleDegrees
	}
	if angle > maxViewAngleDegrees {
		angle = maxViewAngleDegrees
	}

	right, up := buildFrame(direction)

	return &Camera{
		Position:  viewPosition,
		Direction: direction,
		right:     right,
		up:        up,
		angle:     angle * math.Pi / 180,
	}
}

func buildFrame(direction core.Vec3) (right, up core.Vec3) {
	worldY := core.NewVec3(0, 1, 0)
	right0 := worldY.Cross(direction).Unitize()
	if !right0.IsZero() {
		up = direction.Cross(right0).Unitize()
		return right0, up
	}

	sign := -1.0
	if direction.Y < 0 {
		sign = 1.0
	}
	up = core.NewVec3(0, 0, sign)
	right = up.Cross(direction).Unitize()
	return right, up
}

// GetFrame renders one frame's worth of samples (one per pixel) into
// img, jittering each pixel's sample position within its footprint.
func (c *Camera) GetFrame(rt *tracer.RayTracer, rng random.Source, img *image.Image) {
	w, h := img.Width(), img.Height()
	wF, hF := float64(w), float64(h)
	tanHalfAngle := math.Tan(c.angle / 2)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			u := rng.Real01()
			v := rng.Real01()

			xF := (float64(x)+u)*2/wF - 1
			yF := (float64(y)+v)*2/hF - 1

			offset := c.right.Multiply(xF).Add(c.up.Multiply(yF * (hF / wF)))
			sampleDir := c.Direction.Add(offset.Multiply(tanHalfAngle)).Unitize()

			radiance := rt.Radiance(c.Position, sampleDir, rng, nil)
			img.AddToPixel(x, y, radiance)
		}
	}
}
