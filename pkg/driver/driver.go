// Package driver runs the progressive render loop: one frame per
// iteration, saving the accumulated image at a doubling cadence.
package driver

import (
	"context"
	"fmt"
	"os"

	"github.com/hxa7241/minilight-go/pkg/core"
	"github.com/hxa7241/minilight-go/pkg/image"
	"github.com/hxa7241/minilight-go/pkg/model"
	"github.com/hxa7241/minilight-go/pkg/random"
	"github.com/hxa7241/minilight-go/pkg/tracer"
)

// Driver owns the frame loop over a parsed model, reporting progress
// through a core.Logger.
type Driver struct {
	model      *model.Model
	img        *image.Image
	rayTracer  *tracer.RayTracer
	rng        random.Source
	outputPath string
	logger     core.Logger
}

// New builds a Driver for m, writing the final image to outputPath and
// logging progress to logger.
func New(m *model.Model, rng random.Source, outputPath string, logger core.Logger) *Driver {
	return &Driver{
		model:      m,
		img:        image.New(m.Width, m.Height),
		rayTracer:  tracer.New(m.Scene),
		rng:        rng,
		outputPath: outputPath,
		logger:     logger,
	}
}

// Run executes the progressive render loop, saving at frames that are a
// power of two or the final iteration. ctx cancellation stops the loop
// after the current frame, discarding no completed save.
func (d *Driver) Run(ctx context.Context) error {
	for frame := 1; frame <= d.model.Iterations; frame++ {
		select {
		case <-ctx.Done():
			d.logger.Printf("interrupted\n")
			return nil
		default:
		}

		d.model.Camera.GetFrame(d.rayTracer, d.rng, d.img)
		d.logger.Printf("\riteration: %d", frame)

		if shouldSave(frame, d.model.Iterations) {
			if err := d.save(frame); err != nil {
				return fmt.Errorf("writing %s: %w", d.outputPath, err)
			}
		}
	}

	d.logger.Printf("\nfinished\n")
	return nil
}

func (d *Driver) save(frame int) error {
	f, err := os.Create(d.outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return d.img.Formatted(f, frame)
}

// shouldSave reports whether frame (1-based) should trigger an image
// save: every power-of-two frame, plus the final iteration.
func shouldSave(frame, iterations int) bool {
	if frame == iterations {
		return true
	}
	return frame&(frame-1) == 0 && frame > 0
}
