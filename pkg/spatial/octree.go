// Package spatial implements SpatialIndex: an octree that accelerates
// nearest-hit ray/triangle queries over the scene's triangle soup. It is
// the one acceleration structure spec.md admits (Non-goals rule out
// alternatives); construction and the grid-walk traversal follow
// spec.md §4.2 exactly, including its degeneracy-curtailment rule for
// triangles that span the whole scene (e.g. a sun-sized emitter).
package spatial

import (
	"github.com/hxa7241/minilight-go/pkg/core"
	"github.com/hxa7241/minilight-go/pkg/geometry"
)

const (
	maxItems  = 8
	maxLevels = 44
)

// cell is the octree node: a tagged variant that is either a leaf holding
// a flat item list, or a branch holding up to eight (possibly absent)
// children. Cells are value-owned by their parent; there is no sharing.
type cell struct {
	bound    geometry.AABB
	isLeaf   bool
	items    []*geometry.Triangle
	children [8]*cell
}

// Octree is the root of the spatial index: triangles plus the eye
// position determine the cubified root bound (spec.md §4.2).
type Octree struct {
	root  *cell
	bound geometry.AABB
}

// Build constructs an octree over the given triangles and eye position.
func Build(triangles []*geometry.Triangle, eye core.Vec3) *Octree {
	raw := geometry.AABB{Min: eye, Max: eye}
	for _, t := range triangles {
		raw = raw.Union(t.Bound())
	}
	cube := raw.Cube()

	return &Octree{
		root:  buildCell(cube, triangles, 0),
		bound: cube,
	}
}

func buildCell(bound geometry.AABB, items []*geometry.Triangle, level int) *cell {
	if len(items) > maxItems && level < maxLevels-1 {
		var children [8]*cell
		fullInheritCount := 0

		for k := 0; k < 8; k++ {
			subBound := subcellBound(bound, k)
			subItems := itemsOverlapping(items, subBound)
			if len(subItems) == 0 {
				continue
			}

			if len(subItems) == len(items) {
				fullInheritCount++
			}
			tooSmall := subBound.Size().X < 4*geometry.Tolerance

			childLevel := level + 1
			if fullInheritCount > 1 || tooSmall {
				childLevel = maxLevels
			}
			children[k] = buildCell(subBound, subItems, childLevel)
		}

		return &cell{bound: bound, children: children}
	}

	return &cell{bound: bound, isLeaf: true, items: items}
}

// subcellBound returns the bound of subcell k (0..7): bit m of k selects
// the high half of the parent bound along axis m.
func subcellBound(bound geometry.AABB, k int) geometry.AABB {
	var lo, hi core.Vec3
	los, his := [3]float64{}, [3]float64{}
	mid := bound.Center()

	for axis := 0; axis < 3; axis++ {
		high := k&(1<<uint(axis)) != 0
		if high {
			los[axis] = mid.Get(axis)
			his[axis] = bound.Max.Get(axis)
		} else {
			los[axis] = bound.Min.Get(axis)
			his[axis] = mid.Get(axis)
		}
	}
	lo = core.NewVec3(los[0], los[1], los[2])
	hi = core.NewVec3(his[0], his[1], his[2])
	return geometry.AABB{Min: lo, Max: hi}
}

func itemsOverlapping(items []*geometry.Triangle, bound geometry.AABB) []*geometry.Triangle {
	var out []*geometry.Triangle
	for _, item := range items {
		if item.Bound().Overlaps(bound) {
			out = append(out, item)
		}
	}
	return out
}

// Intersection returns the nearest triangle hit (and the world point on
// it) along the ray from origin in direction, excluding lastHit by
// pointer identity to avoid self-intersection on the ray's own surface.
func (o *Octree) Intersection(origin, direction core.Vec3, lastHit *geometry.Triangle) (*geometry.Triangle, core.Vec3, bool) {
	if o.root == nil {
		return nil, core.Vec3{}, false
	}
	return intersectCell(o.root, origin, direction, lastHit, origin)
}

func intersectCell(c *cell, origin, direction core.Vec3, lastHit *geometry.Triangle, start core.Vec3) (*geometry.Triangle, core.Vec3, bool) {
	if c.isLeaf {
		return intersectLeaf(c, origin, direction, lastHit)
	}

	k := startSubcellIndex(c.bound, start)
	currentStart := start
	mid := c.bound.Center()

	// Each step flips exactly one bit of k in the direction of travel and
	// never revisits a subcell, so the walk is bounded; this cap only
	// guards against a pathological float tie never making progress.
	for step := 0; step < 64; step++ {
		if child := c.children[k]; child != nil {
			if hitTri, hitPoint, ok := intersectCell(child, origin, direction, lastHit, currentStart); ok {
				return hitTri, hitPoint, ok
			}
		}

		axis, dist, ok := nearestExitFace(c.bound, mid, origin, direction, k)
		if !ok {
			return nil, core.Vec3{}, false
		}

		high := k&(1<<uint(axis)) != 0
		leavingParent := (direction.Get(axis) < 0 && !high) || (direction.Get(axis) > 0 && high)
		if leavingParent {
			return nil, core.Vec3{}, false
		}

		k ^= 1 << uint(axis)
		currentStart = origin.Add(direction.Multiply(dist))
	}

	return nil, core.Vec3{}, false
}

// nearestExitFace computes, for each axis, the distance along the ray at
// which it crosses the subcell k's exit face (outer face if the ray is
// headed outward along that axis, the midpoint plane if headed inward),
// then returns the axis crossed first.
func nearestExitFace(bound geometry.AABB, mid, origin, direction core.Vec3, k int) (axis int, dist float64, ok bool) {
	bestAxis := -1
	bestDist := 0.0

	for a := 0; a < 3; a++ {
		high := k&(1<<uint(a)) != 0
		dPos := direction.Get(a) >= 0

		var face float64
		if dPos == high {
			if high {
				face = bound.Max.Get(a)
			} else {
				face = bound.Min.Get(a)
			}
		} else {
			face = mid.Get(a)
		}

		d := direction.Get(a)
		if d == 0 {
			continue // division by zero discarded: ray never reaches this face
		}
		s := (face - origin.Get(a)) / d

		if bestAxis == -1 || s < bestDist {
			bestAxis, bestDist = a, s
		}
	}

	if bestAxis == -1 {
		return 0, 0, false
	}
	return bestAxis, bestDist, true
}

func startSubcellIndex(bound geometry.AABB, start core.Vec3) int {
	mid := bound.Center()
	k := 0
	for axis := 0; axis < 3; axis++ {
		if start.Get(axis) >= mid.Get(axis) {
			k |= 1 << uint(axis)
		}
	}
	return k
}

func intersectLeaf(c *cell, origin, direction core.Vec3, lastHit *geometry.Triangle) (*geometry.Triangle, core.Vec3, bool) {
	expandedBound := c.bound.Expand(geometry.Tolerance)

	var bestTri *geometry.Triangle
	var bestPoint core.Vec3
	bestDist := 0.0
	found := false

	for _, item := range c.items {
		if item == lastHit {
			continue
		}
		dist, hit := item.Intersection(origin, direction)
		if !hit || (found && dist >= bestDist) {
			continue
		}
		point := origin.Add(direction.Multiply(dist))
		if !expandedBound.Contains(point) {
			continue
		}
		bestTri, bestPoint, bestDist, found = item, point, dist, true
	}

	return bestTri, bestPoint, found
}
