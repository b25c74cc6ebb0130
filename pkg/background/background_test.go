package background

import (
	"image/color"
	"testing"

	"github.com/sticker-labs/stickersheet/pkg/geom"
	"github.com/sticker-labs/stickersheet/pkg/markers"
	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

func TestNewEdgeIteratorRejectsFewerThanTwoSteps(t *testing.T) {
	if _, err := NewEdgeIterator(geom.Point{}, geom.Point{X: 10}, 1); err == nil {
		t.Fatal("expected an error for steps < 2")
	}
}

func TestEdgeIteratorEndpointsMatchInputs(t *testing.T) {
	a := geom.Point{X: 0, Y: 0}
	b := geom.Point{X: 100, Y: 50}
	it, err := NewEdgeIterator(a, b, analysisSteps)
	if err != nil {
		t.Fatalf("NewEdgeIterator: %v", err)
	}
	if got := it.At(0); got != a {
		t.Fatalf("At(0) = %+v, want %+v", got, a)
	}
	if got := it.At(it.Steps - 1); got != b {
		t.Fatalf("At(last) = %+v, want %+v", got, b)
	}
}

func sheetWithUniformBackground(w, h int, bg color.NRGBA, markerSize int) (*rasterimg.Buffer, markers.Set) {
	buf := rasterimg.Solid(w, h, bg)
	set := markers.Set{
		TopLeft:     mustArea(0, 0, markerSize, markerSize),
		TopRight:    mustArea(0, w-markerSize, markerSize, markerSize),
		BottomLeft:  mustArea(h-markerSize, 0, markerSize, markerSize),
		BottomRight: mustArea(h-markerSize, w-markerSize, markerSize, markerSize),
	}
	return buf, set
}

func mustArea(top, left, width, height int) geom.Area {
	a, err := geom.NewArea(top, left, width, height)
	if err != nil {
		panic(err)
	}
	return a
}

func TestAnalyseUniformBackgroundSamplesMatchFill(t *testing.T) {
	bg := color.NRGBA{R: 200, G: 180, B: 160, A: 255}
	buf, set := sheetWithUniformBackground(400, 300, bg, 20)

	samples, err := Analyse(buf, set)
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("expected at least one sample")
	}
	for area, c := range samples {
		rgb := c.RGB()
		if rgb.R != bg.R || rgb.G != bg.G || rgb.B != bg.B {
			t.Fatalf("sample over area %+v = %+v, want uniform %+v", area, rgb, bg)
		}
	}
}

func TestInterpolatorEstimateUniformBackground(t *testing.T) {
	bg := color.NRGBA{R: 200, G: 180, B: 160, A: 255}
	buf, set := sheetWithUniformBackground(400, 300, bg, 20)

	samples, err := Analyse(buf, set)
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	interp := NewInterpolator(samples)
	est := interp.Estimate(geom.Point{X: 200, Y: 150}).RGB()
	if diff(est.R, bg.R) > 2 || diff(est.G, bg.G) > 2 || diff(est.B, bg.B) > 2 {
		t.Fatalf("Estimate = %+v, want close to %+v", est, bg)
	}
}

func TestMaterializeMatchesEstimate(t *testing.T) {
	bg := color.NRGBA{R: 200, G: 180, B: 160, A: 255}
	buf, set := sheetWithUniformBackground(100, 100, bg, 10)

	samples, err := Analyse(buf, set)
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	interp := NewInterpolator(samples)
	table := interp.Materialize(100, 100)

	direct := interp.Estimate(geom.Point{X: 50, Y: 50}).RGB()
	tabled := table.At(50, 50).RGB()
	if direct != tabled {
		t.Fatalf("table lookup %+v differs from direct estimate %+v", tabled, direct)
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
