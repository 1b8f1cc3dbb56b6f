package geometry

import (
	"math"

	"github.com/hxa7241/minilight-go/pkg/core"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min core.Vec3
	Max core.Vec3
}

// NewAABBFromPoints returns the AABB enveloping the given points.
func NewAABBFromPoints(points ...core.Vec3) AABB {
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return AABB{Min: lo, Max: hi}
}

// Expand returns the box grown by amount on every face.
func (b AABB) Expand(amount float64) AABB {
	delta := core.NewVec3(amount, amount, amount)
	return AABB{Min: b.Min.Subtract(delta), Max: b.Max.Add(delta)}
}

// Union returns the box enveloping both boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Center returns the box's midpoint.
func (b AABB) Center() core.Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Size returns the box's extent along each axis.
func (b AABB) Size() core.Vec3 {
	return b.Max.Subtract(b.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the greatest extent.
func (b AABB) LongestAxis() int {
	size := b.Size()
	axis := 0
	longest := size.X
	if size.Y > longest {
		axis, longest = 1, size.Y
	}
	if size.Z > longest {
		axis = 2
	}
	return axis
}

// Overlaps reports whether the two boxes overlap (or touch) on every axis.
func (b AABB) Overlaps(other AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if b.Max.Get(axis) < other.Min.Get(axis) || b.Min.Get(axis) > other.Max.Get(axis) {
			return false
		}
	}
	return true
}

// Contains reports whether the point lies within the box on every axis.
func (b AABB) Contains(p core.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		v := p.Get(axis)
		if v < b.Min.Get(axis) || v > b.Max.Get(axis) {
			return false
		}
	}
	return true
}

// Cube returns the smallest cube that contains the box, anchored at the
// box's lower corner and sized to the box's longest dimension.
func (b AABB) Cube() AABB {
	side := math.Max(b.Size().X, math.Max(b.Size().Y, b.Size().Z))
	return AABB{Min: b.Min, Max: b.Min.Add(core.NewVec3(side, side, side))}
}
