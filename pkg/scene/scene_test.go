package scene

import (
	"testing"

	"github.com/hxa7241/minilight-go/pkg/core"
	"github.com/hxa7241/minilight-go/pkg/geometry"
	"github.com/hxa7241/minilight-go/pkg/random"
)

func wallAndLight() []*geometry.Triangle {
	wall := geometry.NewTriangle(
		core.NewVec3(-5, -5, 0), core.NewVec3(5, -5, 0), core.NewVec3(5, 5, 0),
		core.NewVec3(0.7, 0.7, 0.7), core.Vec3{})
	light := geometry.NewTriangle(
		core.NewVec3(-1, -1, 5), core.NewVec3(1, -1, 5), core.NewVec3(0, 1, 5),
		core.Vec3{}, core.NewVec3(50, 50, 50))
	return []*geometry.Triangle{wall, light}
}

func TestNewScenePartitionsEmitters(t *testing.T) {
	tris := wallAndLight()
	sc := New(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1), tris, core.NewVec3(0, 0, 10))

	if sc.EmittersCount() != 1 {
		t.Fatalf("EmittersCount() = %d, want 1", sc.EmittersCount())
	}
}

func TestGroundReflectionIsClampedAndModulated(t *testing.T) {
	sc := New(core.NewVec3(2, 2, 2), core.NewVec3(1.5, -0.5, 0.5), nil, core.Vec3{})
	want := core.NewVec3(2, 0, 1) // clamp01(1.5,-0.5,0.5) = (1,0,0.5); * sky(2,2,2)
	if sc.GroundReflection != want {
		t.Errorf("GroundReflection = %v, want %v", sc.GroundReflection, want)
	}
}

func TestEmitterSampleEmptyIsNone(t *testing.T) {
	sc := New(core.Vec3{}, core.Vec3{}, nil, core.Vec3{})
	rng := random.NewLFSR113(1)
	if _, _, ok := sc.EmitterSample(rng); ok {
		t.Errorf("expected no emitter sample for an emitter-less scene")
	}
}

func TestEmitterSamplePicksAnEmitter(t *testing.T) {
	tris := wallAndLight()
	sc := New(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1), tris, core.NewVec3(0, 0, 10))
	rng := random.NewLFSR113(7)

	emitter, _, ok := sc.EmitterSample(rng)
	if !ok {
		t.Fatalf("expected an emitter sample")
	}
	if !emitter.IsEmitter() {
		t.Errorf("sampled triangle is not an emitter")
	}
}

func TestDefaultEmissionSkyVsGround(t *testing.T) {
	sc := New(core.NewVec3(1, 2, 3), core.NewVec3(1, 1, 1), nil, core.Vec3{})

	sky := sc.DefaultEmission(core.NewVec3(0, -1, 0))
	if sky != sc.SkyEmission {
		t.Errorf("downward eyeDir should see sky, got %v", sky)
	}

	ground := sc.DefaultEmission(core.NewVec3(0, 1, 0))
	if ground != sc.GroundReflection {
		t.Errorf("upward eyeDir should see ground, got %v", ground)
	}
}

func TestIntersectionDelegatesToIndex(t *testing.T) {
	tris := wallAndLight()
	sc := New(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1), tris, core.NewVec3(0, 0, 10))

	hit, _, ok := sc.Intersection(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), nil)
	if !ok || hit == nil {
		t.Fatalf("expected a hit on the emitter triangle")
	}
}
