// Package background samples the empty frame around a sheet of stickers
// along the four marker-to-marker edges and interpolates a full estimated
// background color for every pixel, grounded on Background::analyse and
// Background::check_color in the original boreq/stickers extractor.
package background

import (
	"errors"
	"fmt"

	"github.com/sticker-labs/stickersheet/pkg/colorspace"
	"github.com/sticker-labs/stickersheet/pkg/geom"
	"github.com/sticker-labs/stickersheet/pkg/markers"
	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

// analysisSteps is K in the edge-walk: interior steps 1..K-2 are sampled,
// the two endpoints coincide with the marker centers themselves and are
// skipped.
const analysisSteps = 10

var errTooFewSteps = errors.New("background: EdgeIterator requires at least two steps")

// EdgeIterator walks a linear interpolation of Steps points between A and
// B, grounded line-for-line on extractor.rs's EdgeIterator.
type EdgeIterator struct {
	A, B  geom.Point
	Steps int
}

// NewEdgeIterator validates Steps before returning an iterator.
func NewEdgeIterator(a, b geom.Point, steps int) (EdgeIterator, error) {
	if steps < 2 {
		return EdgeIterator{}, fmt.Errorf("%w: got %d", errTooFewSteps, steps)
	}
	return EdgeIterator{A: a, B: b, Steps: steps}, nil
}

// At returns the i-th sample point (0-indexed, 0 <= i < Steps).
func (it EdgeIterator) At(i int) geom.Point {
	fraction := float64(i) / float64(it.Steps-1)
	lengthX := float64(it.B.X - it.A.X)
	lengthY := float64(it.B.Y - it.A.Y)
	return geom.Point{
		X: it.A.X + int(fraction*lengthX),
		Y: it.A.Y + int(fraction*lengthY),
	}
}

// Samples holds the per-edge-position average color keyed by the sample
// window it was computed over.
type Samples map[geom.Area]colorspace.Color

// Analyse walks the four marker-to-marker edges, samples a marker-sized
// window centered on each interior step, and averages each window's pixels
// using the midpoint accumulator new = (old+value)/2 in RGB space, exactly
// as spec.md §9 requires: this is deliberately not the arithmetic mean, and
// later thresholds are tuned against its later-sample bias.
func Analyse(img rasterimg.Image, set markers.Set) (Samples, error) {
	markerW := set.TopLeft.Width
	markerH := set.TopLeft.Height

	top, err := NewEdgeIterator(set.TopLeft.Center(), set.TopRight.Center(), analysisSteps)
	if err != nil {
		return nil, err
	}
	bottom, err := NewEdgeIterator(set.BottomLeft.Center(), set.BottomRight.Center(), analysisSteps)
	if err != nil {
		return nil, err
	}
	left, err := NewEdgeIterator(set.TopLeft.Center(), set.BottomLeft.Center(), analysisSteps)
	if err != nil {
		return nil, err
	}
	right, err := NewEdgeIterator(set.TopRight.Center(), set.BottomRight.Center(), analysisSteps)
	if err != nil {
		return nil, err
	}

	samples := make(Samples)
	for _, edge := range []EdgeIterator{top, bottom, left, right} {
		for i := 1; i < edge.Steps-1; i++ {
			center := edge.At(i)
			area, err := geom.NewArea(center.Y-markerH/2, center.X-markerW/2, markerW, markerH)
			if err != nil {
				continue
			}
			samples[area] = averageColor(img, area)
		}
	}
	return samples, nil
}

func averageColor(img rasterimg.Image, area geom.Area) colorspace.Color {
	w, h := img.Width(), img.Height()
	var r, g, b float64
	started := false

	for y := area.Top; y <= area.Bottom(); y++ {
		if y < 0 || y >= h {
			continue
		}
		for x := area.Left; x <= area.Right(); x++ {
			if x < 0 || x >= w {
				continue
			}
			px := img.At(x, y)
			if !started {
				r, g, b = float64(px.R), float64(px.G), float64(px.B)
				started = true
				continue
			}
			r = (r + float64(px.R)) / 2
			g = (g + float64(px.G)) / 2
			b = (b + float64(px.B)) / 2
		}
	}

	return colorspace.FromRGB(colorspace.NewRGB(clampByte(r), clampByte(g), clampByte(b)))
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Interpolator estimates the background color of any point in the image by
// inverse-squared-distance weighting the sampled edge colors in YUV space,
// grounded on Background::check_color.
type Interpolator struct {
	samples Samples
}

// NewInterpolator builds an Interpolator from a completed sample set.
func NewInterpolator(samples Samples) *Interpolator {
	return &Interpolator{samples: samples}
}

// Estimate computes the weighted-average background color at p. Sample
// centers are integer pixel positions, so p can coincide with one; its
// weight would be infinite, and in that case the sample's own color is
// returned directly.
func (in *Interpolator) Estimate(p geom.Point) colorspace.Color {
	var y, u, v, weights float64
	for area, color := range in.samples {
		center := area.Center()
		d := p.Distance(center)
		if d == 0 {
			return color
		}
		weight := 1.0 / (d * d)
		yuv := color.YUV()
		y += weight * yuv.Y
		u += weight * yuv.U
		v += weight * yuv.V
		weights += weight
	}
	yuv, _ := colorspace.NewYUV(y/weights, u/weights, v/weights)
	return colorspace.FromYUV(yuv)
}

// Table is a precomputed W x H grid of estimated background colors. The
// pipeline reads it in the difference pass and, in debug mode, again to
// render the interpolated-background preview.
type Table struct {
	width, height int
	colors        []colorspace.Color
}

// Materialize evaluates Estimate for every pixel in a width x height image
// up front, trading memory for repeated-lookup speed.
func (in *Interpolator) Materialize(width, height int) *Table {
	t := &Table{width: width, height: height, colors: make([]colorspace.Color, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t.colors[y*width+x] = in.Estimate(geom.Point{X: x, Y: y})
		}
	}
	return t
}

// At returns the precomputed estimate for (x, y).
func (t *Table) At(x, y int) colorspace.Color {
	return t.colors[y*t.width+x]
}
