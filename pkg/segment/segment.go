// Package segment computes the per-pixel LAB difference against an
// interpolated background and removes the background via flood fill,
// grounded on BackgroundDifference and main.rs's background-removal
// closure in the original boreq/stickers extractor.
package segment

import (
	"image/color"

	"github.com/sticker-labs/stickersheet/pkg/background"
	"github.com/sticker-labs/stickersheet/pkg/colorspace"
	"github.com/sticker-labs/stickersheet/pkg/floodfill"
	"github.com/sticker-labs/stickersheet/pkg/geom"
	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

// Asymmetric thresholds tuned because the photographed background is
// brighter and yellower than typical stickers.
const (
	factorLPositive = 0.30
	factorLNegative = 0.15
	factorAPositive = 0.15
	factorANegative = 0.15
	factorBPositive = 0.30
	factorBNegative = 0.30
)

// Delta is the per-pixel normalized LAB difference against the
// interpolated background.
type Delta struct {
	L, A, B float64
}

// Difference holds the normalized per-pixel LAB difference for every pixel
// of a width x height image.
type Difference struct {
	width, height int
	deltas        []Delta
}

// NewDifference computes raw LAB deltas for every pixel against bg, then
// normalizes each channel by the maximum positive delta observed across the
// whole image (substituting 1 when a channel has no positive delta, to
// avoid dividing by zero on inputs with no lighter-than-background pixels).
func NewDifference(img rasterimg.Image, bg *background.Table) *Difference {
	w, h := img.Width(), img.Height()
	d := &Difference{width: w, height: h, deltas: make([]Delta, w*h)}

	var maxL, maxA, maxB float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lab := colorspace.FromRGB(colorspace.FromColor(img.At(x, y))).LAB()
			bgLab := bg.At(x, y).LAB()
			delta := Delta{L: lab.L - bgLab.L, A: lab.A - bgLab.A, B: lab.B - bgLab.B}
			d.deltas[y*w+x] = delta
			if delta.L > maxL {
				maxL = delta.L
			}
			if delta.A > maxA {
				maxA = delta.A
			}
			if delta.B > maxB {
				maxB = delta.B
			}
		}
	}

	if maxL == 0 {
		maxL = 1
	}
	if maxA == 0 {
		maxA = 1
	}
	if maxB == 0 {
		maxB = 1
	}

	for i, delta := range d.deltas {
		d.deltas[i] = Delta{L: delta.L / maxL, A: delta.A / maxA, B: delta.B / maxB}
	}
	return d
}

// At returns the normalized delta for pixel (x, y).
func (d *Difference) At(x, y int) Delta {
	return d.deltas[y*d.width+x]
}

// IsBackground reports whether delta passes all six per-channel asymmetric
// tests that classify a pixel as background.
func (delta Delta) IsBackground() bool {
	if delta.L > 0 && delta.L > factorLPositive {
		return false
	}
	if delta.L < 0 && -delta.L > factorLNegative {
		return false
	}
	if delta.A > 0 && delta.A > factorAPositive {
		return false
	}
	if delta.A < 0 && -delta.A > factorANegative {
		return false
	}
	if delta.B > 0 && delta.B > factorBPositive {
		return false
	}
	if delta.B < 0 && -delta.B > factorBNegative {
		return false
	}
	return true
}

// RemoveBackground flood-fills from seed using diff's background predicate
// and sets every visited pixel fully transparent in place. It returns the
// number of pixels removed.
func RemoveBackground(img rasterimg.Image, diff *Difference, seed geom.Point) int {
	match := func(p geom.Point, _ colorspace.Color) bool {
		return diff.At(p.X, p.Y).IsBackground()
	}
	pixels := floodfill.Fill(img, seed, match)
	for p := range pixels {
		img.Set(p.X, p.Y, color.NRGBA{})
	}
	return len(pixels)
}
