package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hxa7241/minilight-go/pkg/model"
	"github.com/hxa7241/minilight-go/pkg/random"
)

func TestShouldSaveCadence(t *testing.T) {
	cases := []struct {
		frame, iterations int
		want              bool
	}{
		{1, 4, true},
		{2, 4, true},
		{3, 4, false},
		{4, 4, true},
		{5, 8, false},
		{8, 8, true},
	}
	for _, c := range cases {
		if got := shouldSave(c.frame, c.iterations); got != c.want {
			t.Errorf("shouldSave(%d, %d) = %v, want %v", c.frame, c.iterations, got, c.want)
		}
	}
}

type testLogger struct{ lines []string }

func (l *testLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, format)
}

const tinyModel = `#MiniLight
4
2 2
(0 0 2) (0 0 -1) 45
(1 1 1) (0.5 0.5 0.5)
(-1 -1 0) (1 -1 0) (1 1 0) (0.7 0.7 0.7) (0 0 0)
`

func TestDriverRunWritesPPM(t *testing.T) {
	ts := model.NewTokenStream(strings.NewReader(tinyModel))
	m, err := model.Parse(ts)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	outputPath := filepath.Join(t.TempDir(), "scene.ppm")
	logger := &testLogger{}
	d := New(m, random.NewLFSR113(1), outputPath, logger)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "P6\n") {
		t.Errorf("output does not start with PPM magic: %q", data[:3])
	}
}

func TestDriverRunRespectsCancellation(t *testing.T) {
	ts := model.NewTokenStream(strings.NewReader(tinyModel))
	m, err := model.Parse(ts)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	outputPath := filepath.Join(t.TempDir(), "scene.ppm")
	logger := &testLogger{}
	d := New(m, random.NewLFSR113(1), outputPath, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	found := false
	for _, l := range logger.lines {
		if strings.Contains(l, "interrupted") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an interrupted log line, got %v", logger.lines)
	}
}
