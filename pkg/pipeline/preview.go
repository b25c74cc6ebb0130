package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/sticker-labs/stickersheet/pkg/rasterimg"
)

// PreviewSaver writes numbered intermediate images for debug runs, grounded
// on PreviewImagesSaver in main.rs. In non-debug (extract) mode it is a
// no-op, matching save_intermediate_images: false in the original.
type PreviewSaver struct {
	dir     string
	stem    string
	enabled bool
	stage   int
}

// NewPreviewSaver derives the stem from inputPath and writes previews into
// dir (rather than the current directory as the original does, since a
// batch run processes many inputs into one target directory and a shared
// cwd destination would make previews from different inputs collide).
func NewPreviewSaver(dir, inputPath string, enabled bool) *PreviewSaver {
	return &PreviewSaver{dir: dir, stem: rasterimg.Stem(inputPath), enabled: enabled}
}

// Save writes buf as "<stem>_stage<N>_<name>.png" and advances the stage
// counter, if debug previews are enabled.
func (p *PreviewSaver) Save(buf *rasterimg.Buffer, name string) error {
	if !p.enabled {
		return nil
	}
	path := filepath.Join(p.dir, fmt.Sprintf("%s_stage%d_%s.png", p.stem, p.stage, name))
	p.stage++
	return rasterimg.Save(path, buf)
}
