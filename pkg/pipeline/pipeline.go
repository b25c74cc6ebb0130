// Package pipeline orchestrates the full sticker-extraction pass: marker
// location, background sampling and interpolation, background removal,
// perspective correction, crop cleanup, and sticker enumeration, grounded
// on extract() in main.rs of the original boreq/stickers extractor.
package pipeline

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/sticker-labs/stickersheet/pkg/background"
	"github.com/sticker-labs/stickersheet/pkg/cleanup"
	"github.com/sticker-labs/stickersheet/pkg/enumerate"
	"github.com/sticker-labs/stickersheet/pkg/geom"
	"github.com/sticker-labs/stickersheet/pkg/markers"
	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
	"github.com/sticker-labs/stickersheet/pkg/segment"
	"github.com/sticker-labs/stickersheet/pkg/warp"
)

// initialCropFactor insets the perspective-corrected image by this
// fraction of width/height on each side before cleanup and enumeration
// run, restoring main.rs's INITIAL_CROP_FACTOR dropped by the distilled
// spec: the warp step leaves transparent letterboxing at the canvas edges
// whose removal here keeps the cleanup area threshold meaningful.
const initialCropFactor = 0.05

var markerRed = color.NRGBA{R: 255, A: 255}

// Options configures a single Extract run.
type Options struct {
	// OutputDir receives both the cropped sticker PNGs and, if Debug is
	// set, the numbered preview images.
	OutputDir string
	Debug     bool
}

// Result summarizes one Extract run.
type Result struct {
	Stickers []string // output paths of the cropped sticker images
}

// Extract runs the full pipeline against a single input image.
func Extract(inputPath string, opts Options) (Result, error) {
	if err := ensureDir(opts.OutputDir); err != nil {
		return Result{}, &StageError{Kind: IoFailure, Err: err}
	}

	buf, err := rasterimg.Load(inputPath)
	if err != nil {
		kind := DecodeFailure
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			kind = IoFailure
		}
		return Result{}, &StageError{Kind: kind, Err: err}
	}

	preview := NewPreviewSaver(opts.OutputDir, inputPath, opts.Debug)

	set, err := markers.Find(buf)
	if err != nil {
		return Result{}, classifyMarkerError(err)
	}

	if opts.Debug {
		tinted := buf.Clone()
		paintMarkers(tinted, set)
		samples, sErr := background.Analyse(buf, set)
		if sErr == nil {
			paintSamples(tinted, samples)
		}
		if err := preview.Save(tinted, "markers_and_background_measurements"); err != nil {
			return Result{}, &StageError{Kind: IoFailure, Err: err}
		}
	}

	samples, err := background.Analyse(buf, set)
	if err != nil {
		return Result{}, &StageError{Kind: EdgeIteratorInvalid, Err: err}
	}
	interp := background.NewInterpolator(samples)
	table := interp.Materialize(buf.Width(), buf.Height())

	if opts.Debug {
		bgPreview := renderTable(table, buf.Width(), buf.Height())
		if err := preview.Save(bgPreview, "interpolated_background"); err != nil {
			return Result{}, &StageError{Kind: IoFailure, Err: err}
		}
	}

	diff := segment.NewDifference(buf, table)
	segment.RemoveBackground(buf, diff, set.MiddleOfTopEdge())

	corners := warp.Corners{
		TopLeft:     set.TopLeft.Center(),
		TopRight:    set.TopRight.Center(),
		BottomLeft:  set.BottomLeft.Center(),
		BottomRight: set.BottomRight.Center(),
	}
	warped, err := warp.Perspective(buf, corners, buf.Width(), buf.Height())
	if err != nil {
		return Result{}, &StageError{Kind: ExternalWarpFailed, Err: err}
	}
	buf = warped

	if err := preview.Save(buf, "corrected_perspective"); err != nil {
		return Result{}, &StageError{Kind: IoFailure, Err: err}
	}

	insetX := int(float64(buf.Width()) * initialCropFactor)
	insetY := int(float64(buf.Height()) * initialCropFactor)
	croppedW := buf.Width() - 2*insetX
	croppedH := buf.Height() - 2*insetY
	if croppedW > 0 && croppedH > 0 {
		buf = buf.Crop(insetX, insetY, croppedW, croppedH)
	}

	if err := preview.Save(buf, "initial_crop"); err != nil {
		return Result{}, &StageError{Kind: IoFailure, Err: err}
	}

	cleanup.Run(buf)

	if err := preview.Save(buf, "background_cleanup"); err != nil {
		return Result{}, &StageError{Kind: IoFailure, Err: err}
	}

	stickers := enumerate.Find(buf)
	stem := rasterimg.Stem(inputPath)
	result := Result{Stickers: make([]string, 0, len(stickers))}
	for _, s := range stickers {
		crop := buf.Crop(s.Area.Left, s.Area.Top, s.Area.Width, s.Area.Height)
		outPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_%d_%d.png", stem, s.Column, s.Row))
		if err := rasterimg.Save(outPath, crop); err != nil {
			return result, &StageError{Kind: EncodeFailure, Err: err}
		}
		result.Stickers = append(result.Stickers, outPath)
	}

	return result, nil
}

func paintMarkers(buf *rasterimg.Buffer, set markers.Set) {
	for _, area := range set.All() {
		paintArea(buf, area, markerRed)
	}
}

func paintSamples(buf *rasterimg.Buffer, samples background.Samples) {
	for area, c := range samples {
		paintArea(buf, area, c.RGB().NRGBA())
	}
}

func paintArea(buf *rasterimg.Buffer, area geom.Area, c color.NRGBA) {
	w, h := buf.Width(), buf.Height()
	for y := area.Top; y <= area.Bottom(); y++ {
		if y < 0 || y >= h {
			continue
		}
		for x := area.Left; x <= area.Right(); x++ {
			if x < 0 || x >= w {
				continue
			}
			buf.Set(x, y, c)
		}
	}
}

func renderTable(table *background.Table, w, h int) *rasterimg.Buffer {
	out := rasterimg.Solid(w, h, color.NRGBA{})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, table.At(x, y).RGB().NRGBA())
		}
	}
	return out
}

func classifyMarkerError(err error) error {
	switch e := err.(type) {
	case *markers.NotFoundError:
		return &StageError{Kind: MarkerNotFound, Corner: e.Corner.String(), Err: e}
	case *markers.GeometryError:
		return &StageError{Kind: MarkerGeometry, Err: e}
	case *markers.ConfigurationError:
		return &StageError{Kind: ConfigurationInvalid, Err: e}
	default:
		return &StageError{Kind: IoFailure, Err: err}
	}
}

// ensureDir creates opts.OutputDir if it does not already exist.
func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
