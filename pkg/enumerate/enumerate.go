// Package enumerate discovers connected components of non-transparent
// pixels and assigns each a column and row position, grounded on
// IdentifiedStickers::new in the original boreq/stickers extractor.
package enumerate

import (
	"sort"

	"github.com/sticker-labs/stickersheet/pkg/colorspace"
	"github.com/sticker-labs/stickersheet/pkg/floodfill"
	"github.com/sticker-labs/stickersheet/pkg/geom"
	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

// SnapThreshold is the fraction of image width within which two sticker
// centers are considered to be in the same column.
const SnapThreshold = 0.2

// Sticker is a discovered connected component with its assigned grid
// position: columns are numbered from 0 in ascending left-of-center
// order; within a column, rows are numbered 0, 1, 2... in ascending top
// order.
type Sticker struct {
	Area   geom.Area
	Column int
	Row    int
}

func isOpaque(p geom.Point, img rasterimg.Image) bool {
	return img.At(p.X, p.Y).A != 0
}

// Find discovers every connected component of non-transparent pixels,
// sorts them left-to-right, snaps them into columns, then assigns rows
// within each column in ascending top order.
func Find(img rasterimg.Image) []Sticker {
	w, h := img.Width(), img.Height()
	visited := make(map[geom.Point]struct{})

	var areas []geom.Area
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := geom.Point{X: x, Y: y}
			if _, seen := visited[p]; seen {
				continue
			}
			if !isOpaque(p, img) {
				continue
			}
			pixels := floodfill.Fill(img, p, func(q geom.Point, _ colorspace.Color) bool {
				return isOpaque(q, img)
			})
			for q := range pixels {
				visited[q] = struct{}{}
			}
			if area, ok := geom.AreaFromPoints(pixels); ok {
				areas = append(areas, area)
			}
		}
	}

	sort.Slice(areas, func(i, j int) bool { return areas[i].Left < areas[j].Left })

	snapDistance := SnapThreshold * float64(w)
	type placed struct {
		area   geom.Area
		column int
	}
	var assigned []placed

	for _, area := range areas {
		if len(assigned) == 0 {
			assigned = append(assigned, placed{area: area, column: 0})
			continue
		}
		center := area.Center()
		column := -1
		maxColumn := assigned[0].column
		for _, p := range assigned {
			if p.column > maxColumn {
				maxColumn = p.column
			}
			if column == -1 {
				existing := p.area.Center()
				if absFloat(float64(existing.X-center.X)) < snapDistance {
					column = p.column
				}
			}
		}
		if column == -1 {
			column = maxColumn + 1
		}
		assigned = append(assigned, placed{area: area, column: column})
	}

	sort.SliceStable(assigned, func(i, j int) bool {
		if assigned[i].column != assigned[j].column {
			return assigned[i].column < assigned[j].column
		}
		return assigned[i].area.Top < assigned[j].area.Top
	})

	stickers := make([]Sticker, 0, len(assigned))
	currentRow := 0
	for i, p := range assigned {
		if i > 0 {
			if assigned[i-1].column != p.column {
				currentRow = 0
			} else {
				currentRow++
			}
		}
		stickers = append(stickers, Sticker{Area: p.area, Column: p.column, Row: currentRow})
	}
	return stickers
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
