package model

import (
	"fmt"
	"strconv"

	"github.com/hxa7241/minilight-go/pkg/camera"
	"github.com/hxa7241/minilight-go/pkg/core"
	"github.com/hxa7241/minilight-go/pkg/geometry"
	"github.com/hxa7241/minilight-go/pkg/scene"
)

const maxTriangles = 1 << 24

const magicWord = "MiniLight"

// Model is the fully-parsed content of a model file: render parameters
// plus the constructed Camera and Scene.
type Model struct {
	Iterations int
	Width      int
	Height     int
	Camera     *camera.Camera
	Scene      *scene.Scene
}

// Parse reads a MiniLight model file from ts and builds a Model.
func Parse(ts *TokenStream) (*Model, error) {
	if err := readMagic(ts); err != nil {
		return nil, err
	}

	iterations, err := readInt(ts, "iterations")
	if err != nil {
		return nil, err
	}

	width, err := readInt(ts, "width")
	if err != nil {
		return nil, err
	}
	height, err := readInt(ts, "height")
	if err != nil {
		return nil, err
	}

	viewPosition, err := readVec3(ts, "view position")
	if err != nil {
		return nil, err
	}
	viewDirection, err := readVec3(ts, "view direction")
	if err != nil {
		return nil, err
	}
	viewAngle, err := readFloat(ts, "view angle")
	if err != nil {
		return nil, err
	}

	skyEmission, err := readVec3(ts, "sky emission")
	if err != nil {
		return nil, err
	}
	groundReflection, err := readVec3(ts, "ground reflection")
	if err != nil {
		return nil, err
	}

	triangles, err := readTriangles(ts)
	if err != nil {
		return nil, err
	}

	cam := camera.New(viewPosition, viewDirection, viewAngle)
	sc := scene.New(skyEmission, groundReflection, triangles, viewPosition)

	return &Model{
		Iterations: iterations,
		Width:      width,
		Height:     height,
		Camera:     cam,
		Scene:      sc,
	}, nil
}

// readMagic consumes the file's leading magic word, accepting both the
// single concatenated token "#MiniLight" and the two-token split form
// ("#", "MiniLight") that whitespace between them would produce.
func readMagic(ts *TokenStream) error {
	first, ok := ts.Next()
	if !ok {
		return fmt.Errorf("model file: empty or unreadable")
	}
	if first == "#"+magicWord {
		return nil
	}
	if first != "#" {
		return fmt.Errorf("model file: bad magic %q", first)
	}
	second, ok := ts.Next()
	if !ok || second != magicWord {
		return fmt.Errorf("model file: bad magic after '#'")
	}
	return nil
}

func readInt(ts *TokenStream, field string) (int, error) {
	tok, ok := ts.Next()
	if !ok {
		return 0, fmt.Errorf("model file: unexpected end of file reading %s", field)
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("model file: %s: %q is not an integer", field, tok)
	}
	return v, nil
}

func readFloat(ts *TokenStream, field string) (float64, error) {
	tok, ok := ts.Next()
	if !ok {
		return 0, fmt.Errorf("model file: unexpected end of file reading %s", field)
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("model file: %s: %q is not a number", field, tok)
	}
	return v, nil
}

// readVec3 consumes the five tokens of a parenthesized vector literal
// "( x y z )", discarding the parenthesis tokens.
func readVec3(ts *TokenStream, field string) (core.Vec3, error) {
	open, ok := ts.Next()
	if !ok {
		return core.Vec3{}, fmt.Errorf("model file: unexpected end of file reading %s", field)
	}
	if open != "(" {
		return core.Vec3{}, fmt.Errorf("model file: %s: expected '(', got %q", field, open)
	}

	x, err := readFloat(ts, field+".x")
	if err != nil {
		return core.Vec3{}, err
	}
	y, err := readFloat(ts, field+".y")
	if err != nil {
		return core.Vec3{}, err
	}
	z, err := readFloat(ts, field+".z")
	if err != nil {
		return core.Vec3{}, err
	}

	if _, ok := ts.Next(); !ok { // ")"
		return core.Vec3{}, fmt.Errorf("model file: unexpected end of file after %s", field)
	}

	return core.NewVec3(x, y, z), nil
}

// readTriangles reads triangles until end of file, which terminates the
// list normally only when it occurs before any token of the next
// triangle has been consumed.
func readTriangles(ts *TokenStream) ([]*geometry.Triangle, error) {
	var triangles []*geometry.Triangle

	for len(triangles) < maxTriangles {
		v0, ok, err := tryReadVec3(ts, "triangle vertex 0")
		if err != nil {
			return nil, err
		}
		if !ok {
			return triangles, nil // clean end of file between triangles
		}

		v1, err := readVec3(ts, "triangle vertex 1")
		if err != nil {
			return nil, err
		}
		v2, err := readVec3(ts, "triangle vertex 2")
		if err != nil {
			return nil, err
		}
		reflectivity, err := readVec3(ts, "triangle reflectivity")
		if err != nil {
			return nil, err
		}
		emissivity, err := readVec3(ts, "triangle emissivity")
		if err != nil {
			return nil, err
		}

		triangles = append(triangles, geometry.NewTriangle(v0, v1, v2, reflectivity, emissivity))
	}

	return triangles, nil
}

// tryReadVec3 is readVec3 but treats end of file on the very first token
// (the opening paren) as a clean, non-fatal end of the triangle list.
func tryReadVec3(ts *TokenStream, field string) (core.Vec3, bool, error) {
	first, ok := ts.Next()
	if !ok {
		return core.Vec3{}, false, nil
	}
	if first != "(" {
		return core.Vec3{}, false, fmt.Errorf("model file: %s: expected '(', got %q", field, first)
	}

	x, err := readFloat(ts, field+".x")
	if err != nil {
		return core.Vec3{}, false, err
	}
	y, err := readFloat(ts, field+".y")
	if err != nil {
		return core.Vec3{}, false, err
	}
	z, err := readFloat(ts, field+".z")
	if err != nil {
		return core.Vec3{}, false, err
	}
	if _, ok := ts.Next(); !ok { // ")"
		return core.Vec3{}, false, fmt.Errorf("model file: unexpected end of file after %s", field)
	}

	return core.NewVec3(x, y, z), true, nil
}
