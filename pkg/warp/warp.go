// Package warp corrects perspective by delegating to the external
// `magick` CLI, grounded on the Command::new("magick") invocation in
// main.rs of the original boreq/stickers extractor and on the
// os/exec + temp-file idiom the teacher uses for its own external
// collaborators (pkg/cli/fzf.go, pkg/cli/update.go).
package warp

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sticker-labs/stickersheet/pkg/geom"
	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

// binEnvVar names the optional environment variable that overrides the
// magick binary path, read once at package init time so callers never need
// to know this package exists to get the configured behavior.
const binEnvVar = "STICKERSHEET_MAGICK_BIN"

// ErrExternalWarpFailed wraps any failure of the external magick process.
type ErrExternalWarpFailed struct {
	Err    error
	Output string
}

func (e *ErrExternalWarpFailed) Error() string {
	return fmt.Sprintf("warp: magick perspective correction failed: %v (output: %s)", e.Err, e.Output)
}

func (e *ErrExternalWarpFailed) Unwrap() error { return e.Err }

// Corners names the four source control points supplied to ImageMagick's
// distort operator, in the same order main.rs builds its perspective
// parameter string.
type Corners struct {
	TopLeft, TopRight, BottomLeft, BottomRight geom.Point
}

// binaryName is overridable in tests so they can point at a stub script
// instead of invoking the real ImageMagick binary. It defaults to
// STICKERSHEET_MAGICK_BIN when set, else "magick".
var binaryName = defaultBinary()

func defaultBinary() string {
	if v := os.Getenv(binEnvVar); v != "" {
		return v
	}
	return "magick"
}

// SetBinary overrides the external binary invoked by Perspective, for
// callers (tests in this package and others, such as pkg/pipeline) that
// need to substitute a stub for the real ImageMagick binary. It returns a
// restore function that puts the previous value back.
func SetBinary(name string) (restore func()) {
	previous := binaryName
	binaryName = name
	return func() { binaryName = previous }
}

// Perspective writes buf to a temp file, invokes `magick ... -distort
// Perspective ...` mapping each of the four marker centers in src to the
// corresponding corner of a destWidth x destHeight canvas, and decodes the
// result back into a Buffer. The output canvas corners are, in order,
// (0,0), (destWidth,0), (0,destHeight), (destWidth,destHeight).
func Perspective(buf *rasterimg.Buffer, src Corners, destWidth, destHeight int) (*rasterimg.Buffer, error) {
	tmpDir, err := os.MkdirTemp("", "stickersheet-warp-*")
	if err != nil {
		return nil, fmt.Errorf("warp: create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inputPath := filepath.Join(tmpDir, "input.png")
	outputPath := filepath.Join(tmpDir, "output.png")

	if err := rasterimg.Save(inputPath, buf); err != nil {
		return nil, fmt.Errorf("warp: write input: %w", err)
	}

	params := fmt.Sprintf(
		"%d,%d %d,%d  %d,%d %d,%d  %d,%d %d,%d  %d,%d %d,%d",
		src.TopLeft.X, src.TopLeft.Y, 0, 0,
		src.TopRight.X, src.TopRight.Y, destWidth, 0,
		src.BottomLeft.X, src.BottomLeft.Y, 0, destHeight,
		src.BottomRight.X, src.BottomRight.Y, destWidth, destHeight,
	)

	cmd := exec.Command(binaryName,
		inputPath,
		"-alpha", "set",
		"-virtual-pixel", "transparent",
		"-distort", "Perspective", params,
		outputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &ErrExternalWarpFailed{Err: err, Output: string(output)}
	}

	warped, err := rasterimg.Load(outputPath)
	if err != nil {
		return nil, &ErrExternalWarpFailed{Err: fmt.Errorf("decode magick output: %w", err), Output: string(output)}
	}
	return warped, nil
}
