// Package image implements Image: the progressive pixel accumulator,
// its Ward (1994) log-mean luminance tone map, gamma encoding, and
// binary PPM (P6) emission.
package image

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/hxa7241/minilight-go/pkg/core"
)

const (
	minDimension = 1
	maxDimension = 4000

	displayMax = 200.0
	gamma      = 0.45

	ppmHeaderURI = "http://www.hxa.name/minilight"
)

// Image is a W×H grid of radiance accumulators.
type Image struct {
	width, height int
	pixels        []core.Vec3
}

// New returns a zeroed image, clamping width and height to [1,4000].
func New(width, height int) *Image {
	width = clampDimension(width)
	height = clampDimension(height)
	return &Image{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

func clampDimension(d int) int {
	if d < minDimension {
		return minDimension
	}
	if d > maxDimension {
		return maxDimension
	}
	return d
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// AddToPixel accumulates radiance into the pixel at user coordinate
// (x,y) (origin bottom-left); out-of-bounds coordinates are ignored.
func (img *Image) AddToPixel(x, y int, radiance core.Vec3) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return
	}
	idx := x + (img.height-1-y)*img.width
	img.pixels[idx] = img.pixels[idx].Add(radiance)
}

// Formatted writes the image as a binary PPM (P6), tone-mapped as if
// iteration frames had been accumulated.
func (img *Image) Formatted(out io.Writer, iteration int) error {
	divider := 1.0
	if iteration > 1 {
		divider = 1.0 / float64(iteration)
	}

	scaling := img.toneMapScaling(divider)

	w := bufio.NewWriter(out)
	if _, err := fmt.Fprintf(w, "P6\n# %s\n\n%d %d\n255\n", ppmHeaderURI, img.width, img.height); err != nil {
		return err
	}

	for _, p := range img.pixels {
		for _, channel := range [3]float64{p.X, p.Y, p.Z} {
			m := math.Max(channel*divider*scaling, 0)
			g := math.Pow(m, gamma)
			b := math.Min(math.Floor(g*255+0.5), 255)
			if err := w.WriteByte(byte(b)); err != nil {
				return err
			}
		}
	}

	return w.Flush()
}

// toneMapScaling computes the Ward (1994) log-mean luminance tone-map
// scaling factor.
func (img *Image) toneMapScaling(divider float64) float64 {
	sumLogs := 0.0
	for _, p := range img.pixels {
		y := (p.X*0.2126 + p.Y*0.7152 + p.Z*0.0722) * divider
		sumLogs += math.Log10(math.Max(y, 1e-4))
	}

	count := float64(img.width * img.height)
	adapt := math.Pow(10, sumLogs/count)

	a := 1.219 + math.Pow(displayMax*0.25, 0.4)
	b := 1.219 + math.Pow(adapt, 0.4)

	return math.Pow(a/b, 2.5) / displayMax
}
