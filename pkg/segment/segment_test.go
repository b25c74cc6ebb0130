package segment

import (
	"image/color"
	"testing"

	"github.com/sticker-labs/stickersheet/pkg/background"
	"github.com/sticker-labs/stickersheet/pkg/geom"
	"github.com/sticker-labs/stickersheet/pkg/markers"
	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

func mustArea(top, left, width, height int) geom.Area {
	a, err := geom.NewArea(top, left, width, height)
	if err != nil {
		panic(err)
	}
	return a
}

func TestNewDifferenceNormalizesMaxToOne(t *testing.T) {
	bg := color.NRGBA{R: 200, G: 200, B: 100, A: 255}
	buf := rasterimg.Solid(50, 50, bg)
	// Paint one bright pixel so the L channel has a clear positive maximum.
	buf.Set(25, 25, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	set := markers.Set{
		TopLeft:     mustArea(0, 0, 5, 5),
		TopRight:    mustArea(0, 45, 5, 5),
		BottomLeft:  mustArea(45, 0, 5, 5),
		BottomRight: mustArea(45, 45, 5, 5),
	}
	samples, err := background.Analyse(buf, set)
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	table := background.NewInterpolator(samples).Materialize(50, 50)

	diff := NewDifference(buf, table)
	maxL := 0.0
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if d := diff.At(x, y).L; d > maxL {
				maxL = d
			}
		}
	}
	if maxL < 0.999 || maxL > 1.0001 {
		t.Fatalf("max normalized L delta = %v, want ~1.0", maxL)
	}
}

func TestIsBackgroundAsymmetricThresholds(t *testing.T) {
	cases := []struct {
		name string
		d    Delta
		want bool
	}{
		{"zero delta", Delta{}, true},
		{"small positive L", Delta{L: 0.1}, true},
		{"large positive L rejected", Delta{L: 0.5}, false},
		{"small negative L within tighter bound", Delta{L: -0.1}, true},
		{"negative L beyond tighter bound", Delta{L: -0.2}, false},
		{"large positive B rejected", Delta{B: 0.5}, false},
		{"small A both signs ok", Delta{A: -0.1}, true},
	}
	for _, c := range cases {
		if got := c.d.IsBackground(); got != c.want {
			t.Errorf("%s: IsBackground() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestRemoveBackgroundClearsMatchedPixels(t *testing.T) {
	bg := color.NRGBA{R: 200, G: 200, B: 100, A: 255}
	buf := rasterimg.Solid(50, 50, bg)
	// A sticker-like block far from background in LAB.
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			buf.Set(x, y, color.NRGBA{R: 0, G: 0, B: 255, A: 255})
		}
	}

	set := markers.Set{
		TopLeft:     mustArea(0, 0, 5, 5),
		TopRight:    mustArea(0, 45, 5, 5),
		BottomLeft:  mustArea(45, 0, 5, 5),
		BottomRight: mustArea(45, 45, 5, 5),
	}
	samples, err := background.Analyse(buf, set)
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	table := background.NewInterpolator(samples).Materialize(50, 50)
	diff := NewDifference(buf, table)

	removed := RemoveBackground(buf, diff, geom.Point{X: 0, Y: 0})
	if removed == 0 {
		t.Fatal("expected at least one pixel removed")
	}
	if got := buf.At(0, 0); got != (color.NRGBA{}) {
		t.Fatalf("seed pixel = %+v, want fully transparent", got)
	}
	if got := buf.At(25, 25); got.A == 0 {
		t.Fatal("sticker block should not have been classified as background")
	}
}
