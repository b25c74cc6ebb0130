// Package markers locates the four bright corner fiducials that frame a
// photographed sheet of stickers, grounded on Markers::find/find_marker in
// the original boreq/stickers extractor.
package markers

import (
	"fmt"

	"github.com/sticker-labs/stickersheet/pkg/colorspace"
	"github.com/sticker-labs/stickersheet/pkg/floodfill"
	"github.com/sticker-labs/stickersheet/pkg/geom"
	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

// Corner identifies one of the four frame corners.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

const (
	scanStepPercent = 0.01
	scanLayers      = 30
	markerThreshold = 0.0001
)

// NotFoundError reports that a corner's fiducial could not be located
// within the scan budget.
type NotFoundError struct {
	Corner Corner
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("markers: fiducial not found for %s corner", e.Corner)
}

// GeometryError reports that located markers violate the cross-marker
// ordering invariants.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("markers: geometry invariant violated: %s", e.Reason)
}

// ConfigurationError reports that the scan budget would exceed half the
// image's width or height, risking opposite-corner scans crossing.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("markers: invalid configuration: %s", e.Reason)
}

// Set holds the four located fiducial areas.
type Set struct {
	TopLeft, TopRight, BottomLeft, BottomRight geom.Area
}

// All returns the four marker areas in a fixed order, useful for preview
// tinting.
func (s Set) All() [4]geom.Area {
	return [4]geom.Area{s.TopLeft, s.TopRight, s.BottomLeft, s.BottomRight}
}

// MiddleOfTopEdge returns the midpoint between the top-left and top-right
// marker centers, used as the background-removal flood-fill seed.
func (s Set) MiddleOfTopEdge() geom.Point {
	a := s.TopLeft.Center()
	b := s.TopRight.Center()
	return geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func isBrightMatch(_ geom.Point, c colorspace.Color) bool {
	yuv := c.YUV()
	return yuv.Y > 0.7 && abs(yuv.U) < 0.15 && abs(yuv.V) < 0.15
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Find locates all four fiducials and validates the cross-marker ordering
// invariants from the data model.
func Find(img rasterimg.Image) (Set, error) {
	w, h := img.Width(), img.Height()

	stepX := int(scanStepPercent * float64(w))
	if stepX < 1 {
		stepX = 1
	}
	stepY := int(scanStepPercent * float64(h))
	if stepY < 1 {
		stepY = 1
	}
	if scanLayers*stepX >= w/2 || scanLayers*stepY >= h/2 {
		return Set{}, &ConfigurationError{Reason: "scan budget would allow opposite-corner scans to cross"}
	}

	topLeft, err := findMarker(img, TopLeft, stepX, stepY)
	if err != nil {
		return Set{}, err
	}
	topRight, err := findMarker(img, TopRight, stepX, stepY)
	if err != nil {
		return Set{}, err
	}
	bottomLeft, err := findMarker(img, BottomLeft, stepX, stepY)
	if err != nil {
		return Set{}, err
	}
	bottomRight, err := findMarker(img, BottomRight, stepX, stepY)
	if err != nil {
		return Set{}, err
	}

	set := Set{TopLeft: topLeft, TopRight: topRight, BottomLeft: bottomLeft, BottomRight: bottomRight}
	if err := set.validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

func (s Set) validate() error {
	tl, tr := s.TopLeft.Center(), s.TopRight.Center()
	bl, br := s.BottomLeft.Center(), s.BottomRight.Center()

	checks := []struct {
		ok     bool
		reason string
	}{
		{tl.X <= tr.X, "top-left must be left of top-right"},
		{tl.X <= br.X, "top-left must be left of bottom-right"},
		{bl.X <= tr.X, "bottom-left must be left of top-right"},
		{bl.X <= br.X, "bottom-left must be left of bottom-right"},
		{tl.Y <= bl.Y, "top-left must be above bottom-left"},
		{tl.Y <= br.Y, "top-left must be above bottom-right"},
		{tr.Y <= bl.Y, "top-right must be above bottom-left"},
		{tr.Y <= br.Y, "top-right must be above bottom-right"},
	}
	for _, c := range checks {
		if !c.ok {
			return &GeometryError{Reason: c.reason}
		}
	}
	return nil
}

func findMarker(img rasterimg.Image, corner Corner, stepX, stepY int) (geom.Area, error) {
	w, h := img.Width(), img.Height()

	for sx := 0; sx < scanLayers; sx++ {
		for sy := 0; sy < scanLayers; sy++ {
			var x, y int
			switch corner {
			case TopLeft:
				x, y = sx*stepX, sy*stepY
			case TopRight:
				x, y = w-1-sx*stepX, sy*stepY
			case BottomLeft:
				x, y = sx*stepX, h-1-sy*stepY
			case BottomRight:
				x, y = w-1-sx*stepX, h-1-sy*stepY
			}

			if x < 0 || x >= w || y < 0 || y >= h {
				return geom.Area{}, &NotFoundError{Corner: corner}
			}

			pixels := floodfill.Fill(img, geom.Point{X: x, Y: y}, isBrightMatch)
			if len(pixels) == 0 {
				continue
			}
			if float64(len(pixels)) < markerThreshold*float64(w*h) {
				continue
			}
			area, ok := geom.AreaFromPoints(pixels)
			if !ok {
				continue
			}
			return area, nil
		}
	}

	return geom.Area{}, &NotFoundError{Corner: corner}
}
