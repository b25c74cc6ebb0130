// Package cleanup removes small leftover opaque components after
// background removal and perspective correction, grounded on the
// background-cleanup loop in main.rs of the original boreq/stickers
// extractor.
package cleanup

import (
	"image/color"

	"github.com/sticker-labs/stickersheet/pkg/colorspace"
	"github.com/sticker-labs/stickersheet/pkg/floodfill"
	"github.com/sticker-labs/stickersheet/pkg/geom"
	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

// AreaFactor is the minimum fraction of the total image area a non-
// transparent connected component must occupy to survive cleanup.
const AreaFactor = 0.02

func isOpaque(p geom.Point, img rasterimg.Image) bool {
	return img.At(p.X, p.Y).A != 0
}

// Run walks every pixel left to right, top to bottom; for each unvisited
// opaque pixel it discovers the full connected component via flood fill
// and clears it to transparent if the component is smaller than AreaFactor
// of the total image area. Already-visited pixels are skipped via a set,
// matching the original's HashSet<XY> skip list so each component is only
// flood-filled once. It returns the number of components removed.
func Run(img rasterimg.Image) int {
	w, h := img.Width(), img.Height()
	skip := make(map[geom.Point]struct{})
	removed := 0
	minArea := AreaFactor * float64(w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := geom.Point{X: x, Y: y}
			if _, seen := skip[p]; seen {
				continue
			}
			if !isOpaque(p, img) {
				continue
			}

			pixels := floodfill.Fill(img, p, func(q geom.Point, _ colorspace.Color) bool {
				return isOpaque(q, img)
			})

			if float64(len(pixels)) < minArea {
				for q := range pixels {
					img.Set(q.X, q.Y, color.NRGBA{})
				}
				removed++
			}
			for q := range pixels {
				skip[q] = struct{}{}
			}
		}
	}
	return removed
}
