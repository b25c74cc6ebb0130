// Package floodfill implements a generic, iterative (non-recursive)
// 4-connected flood fill over a rasterimg.Image, parameterized by a match
// predicate. It backs marker detection, background-removal segmentation,
// and connected-component discovery during cleanup and enumeration.
package floodfill

import (
	"github.com/sticker-labs/stickersheet/pkg/colorspace"
	"github.com/sticker-labs/stickersheet/pkg/geom"
	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

// Predicate decides whether a pixel belongs to the fill. It receives the
// pixel's coordinate and its color so the caller can test brightness,
// background distance, or transparency depending on the use site.
type Predicate func(p geom.Point, c colorspace.Color) bool

// Fill returns the set of pixels reachable from seed via 4-connectivity
// where every visited pixel satisfies match. Uses an explicit worklist
// rather than recursion: megapixel images would overflow any reasonable
// call stack under 4-connected recursive growth. Each pixel is evaluated by
// match at most once. The result is independent of worklist order because
// match depends only on pixel position and color, not on fill history.
func Fill(img rasterimg.Image, seed geom.Point, match Predicate) map[geom.Point]struct{} {
	w, h := img.Width(), img.Height()
	visited := make(map[geom.Point]struct{})
	if seed.X < 0 || seed.X >= w || seed.Y < 0 || seed.Y >= h {
		return visited
	}
	rejected := make(map[geom.Point]struct{})

	worklist := []geom.Point{seed}
	for len(worklist) > 0 {
		p := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if _, ok := visited[p]; ok {
			continue
		}
		if _, ok := rejected[p]; ok {
			continue
		}

		c := colorspace.FromRGB(colorspace.FromColor(img.At(p.X, p.Y)))
		if !match(p, c) {
			rejected[p] = struct{}{}
			continue
		}

		visited[p] = struct{}{}

		if p.X > 0 {
			worklist = append(worklist, geom.Point{X: p.X - 1, Y: p.Y})
		}
		if p.Y > 0 {
			worklist = append(worklist, geom.Point{X: p.X, Y: p.Y - 1})
		}
		if p.X < w-1 {
			worklist = append(worklist, geom.Point{X: p.X + 1, Y: p.Y})
		}
		if p.Y < h-1 {
			worklist = append(worklist, geom.Point{X: p.X, Y: p.Y + 1})
		}
	}
	return visited
}
