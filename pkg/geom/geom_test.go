package geom

import "testing"

func TestAreaFromPointsRectangularBlock(t *testing.T) {
	points := map[Point]struct{}{}
	for x := 10; x < 20; x++ {
		for y := 20; y < 30; y++ {
			points[Point{X: x, Y: y}] = struct{}{}
		}
	}
	area, ok := AreaFromPoints(points)
	if !ok {
		t.Fatal("expected ok=true for non-empty set")
	}
	want := Area{Top: 20, Left: 10, Width: 10, Height: 10}
	if area != want {
		t.Fatalf("got %+v, want %+v", area, want)
	}
}

func TestAreaFromPointsEmpty(t *testing.T) {
	if _, ok := AreaFromPoints(nil); ok {
		t.Fatal("expected ok=false for empty set")
	}
}

func TestAreaRightBottomClosedInterval(t *testing.T) {
	a := Area{Top: 5, Left: 5, Width: 10, Height: 20}
	if a.Right() != 14 {
		t.Fatalf("Right() = %d, want 14", a.Right())
	}
	if a.Bottom() != 24 {
		t.Fatalf("Bottom() = %d, want 24", a.Bottom())
	}
}

func TestAreaContains(t *testing.T) {
	a := Area{Top: 0, Left: 0, Width: 10, Height: 10}
	if !a.Contains(Point{X: 9, Y: 9}) {
		t.Fatal("expected (9,9) to be contained in a 10x10 area starting at origin")
	}
	if a.Contains(Point{X: 10, Y: 0}) {
		t.Fatal("expected (10,0) to be outside a 10-wide area")
	}
}

func TestNewAreaRejectsNonPositiveSize(t *testing.T) {
	if _, err := NewArea(0, 0, 0, 5); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := NewArea(0, 0, 5, 0); err == nil {
		t.Fatal("expected error for zero height")
	}
}
