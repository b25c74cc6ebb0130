package markers

import (
	"image/color"
	"testing"

	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

func paintMarker(buf *rasterimg.Buffer, left, top, size int) {
	for y := top; y < top+size; y++ {
		for x := left; x < left+size; x++ {
			buf.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
}

func sheetWithMarkers(w, h, size int) *rasterimg.Buffer {
	buf := rasterimg.Solid(w, h, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	paintMarker(buf, 0, 0, size)
	paintMarker(buf, w-size, 0, size)
	paintMarker(buf, 0, h-size, size)
	paintMarker(buf, w-size, h-size, size)
	return buf
}

func TestFindLocatesAllFourMarkers(t *testing.T) {
	buf := sheetWithMarkers(400, 300, 20)
	set, err := Find(buf)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if set.TopLeft.Left != 0 || set.TopLeft.Top != 0 {
		t.Fatalf("top-left marker = %+v, want origin-anchored", set.TopLeft)
	}
	if set.TopRight.Right() != 399 {
		t.Fatalf("top-right marker right edge = %d, want 399", set.TopRight.Right())
	}
	if set.BottomLeft.Bottom() != 299 {
		t.Fatalf("bottom-left marker bottom edge = %d, want 299", set.BottomLeft.Bottom())
	}
	if set.BottomRight.Right() != 399 || set.BottomRight.Bottom() != 299 {
		t.Fatalf("bottom-right marker = %+v, want bottom-right anchored", set.BottomRight)
	}
}

func TestFindMissingMarkerReturnsNotFoundError(t *testing.T) {
	buf := rasterimg.Solid(400, 300, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	paintMarker(buf, 0, 0, 20)
	paintMarker(buf, 380, 0, 20)
	paintMarker(buf, 0, 280, 20)
	// bottom-right marker intentionally omitted.

	_, err := Find(buf)
	var notFound *NotFoundError
	if err == nil {
		t.Fatal("expected an error when a marker is missing")
	}
	if !asNotFound(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
	if notFound.Corner != BottomRight {
		t.Fatalf("NotFoundError.Corner = %v, want BottomRight", notFound.Corner)
	}
}

func TestFindTinyMarkerBelowThresholdReturnsNotFoundError(t *testing.T) {
	buf := rasterimg.Solid(400, 300, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	paintMarker(buf, 0, 0, 20)
	paintMarker(buf, 380, 0, 20)
	paintMarker(buf, 0, 280, 20)
	paintMarker(buf, 399, 299, 1)

	_, err := Find(buf)
	var notFound *NotFoundError
	if err == nil {
		t.Fatal("expected an error for a marker below the area threshold")
	}
	if !asNotFound(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
}

func TestFindGeometrySwapReturnsGeometryError(t *testing.T) {
	buf := rasterimg.Solid(400, 300, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	// Paint an ordinary four-corner frame. Find locates it without error; the
	// test then swaps the located top-left and top-right areas so the
	// left-of/right-of invariants are violated.
	paintMarker(buf, 380, 0, 20)
	paintMarker(buf, 0, 0, 20)
	paintMarker(buf, 380, 280, 20)
	paintMarker(buf, 0, 280, 20)

	set, err := Find(buf)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	// Force a geometry violation directly against the validated invariant,
	// since scan-order naturally finds the nearest bright block per corner.
	broken := set
	broken.TopLeft, broken.TopRight = broken.TopRight, broken.TopLeft
	if err := broken.validate(); err == nil {
		t.Fatal("expected geometry validation to fail after swapping corners")
	} else if _, ok := err.(*GeometryError); !ok {
		t.Fatalf("expected *GeometryError, got %T: %v", err, err)
	}
}

func TestMiddleOfTopEdge(t *testing.T) {
	buf := sheetWithMarkers(400, 300, 20)
	set, err := Find(buf)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	mid := set.MiddleOfTopEdge()
	if mid.Y > 30 {
		t.Fatalf("MiddleOfTopEdge.Y = %d, expected it near the top edge", mid.Y)
	}
	if mid.X < 100 || mid.X > 300 {
		t.Fatalf("MiddleOfTopEdge.X = %d, expected it between the two top markers", mid.X)
	}
}

func asNotFound(err error, target **NotFoundError) bool {
	if nf, ok := err.(*NotFoundError); ok {
		*target = nf
		return true
	}
	return false
}
