// Package rasterimg provides the image-capability abstraction every
// algorithm package in this module is written against (width, height,
// get/put pixel, crop), decoupling the pipeline from any concrete raster
// library, plus the Load/Save glue that binds it to the standard image
// codecs and a handful of golang.org/x/image ones.
package rasterimg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Image is the capability surface the pipeline's algorithm packages depend
// on. The concrete implementation (*Buffer) wraps an *image.NRGBA.
type Image interface {
	Width() int
	Height() int
	At(x, y int) color.NRGBA
	Set(x, y int, c color.NRGBA)
	Crop(left, top, width, height int) *Buffer
	Clone() *Buffer
}

// Buffer is the concrete Image backed by *image.NRGBA.
type Buffer struct {
	Pix *image.NRGBA
}

// NewBuffer wraps an already-decoded image.Image as a *Buffer, converting to
// NRGBA if necessary.
func NewBuffer(src image.Image) *Buffer {
	if src == nil {
		return nil
	}
	if n, ok := src.(*image.NRGBA); ok {
		out := image.NewNRGBA(n.Rect)
		copy(out.Pix, n.Pix)
		return &Buffer{Pix: out}
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, src, b.Min, draw.Src)
	return &Buffer{Pix: out}
}

// Solid creates a w x h buffer filled with a single opaque color.
func Solid(w, h int, c color.NRGBA) *Buffer {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return &Buffer{Pix: img}
}

func (b *Buffer) Width() int  { return b.Pix.Bounds().Dx() }
func (b *Buffer) Height() int { return b.Pix.Bounds().Dy() }

func (b *Buffer) At(x, y int) color.NRGBA {
	i := b.Pix.PixOffset(x, y)
	p := b.Pix.Pix
	return color.NRGBA{R: p[i], G: p[i+1], B: p[i+2], A: p[i+3]}
}

func (b *Buffer) Set(x, y int, c color.NRGBA) {
	i := b.Pix.PixOffset(x, y)
	p := b.Pix.Pix
	p[i], p[i+1], p[i+2], p[i+3] = c.R, c.G, c.B, c.A
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := image.NewNRGBA(b.Pix.Rect)
	copy(out.Pix, b.Pix.Pix)
	return &Buffer{Pix: out}
}

// Crop extracts a sub-rectangle as a new, independent buffer.
func (b *Buffer) Crop(left, top, width, height int) *Buffer {
	rect := image.Rect(left, top, left+width, top+height)
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), b.Pix, rect.Min, draw.Src)
	return &Buffer{Pix: out}
}

// Thumbnail downscales the buffer to fit within maxW x maxH using a
// high-quality Catmull-Rom resampler. It never upscales.
func (b *Buffer) Thumbnail(maxW, maxH int) *Buffer {
	w, h := b.Width(), b.Height()
	if w <= maxW && h <= maxH {
		return b.Clone()
	}
	scale := float64(maxW) / float64(w)
	if hs := float64(maxH) / float64(h); hs < scale {
		scale = hs
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	out := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(out, out.Bounds(), b.Pix, b.Pix.Bounds(), xdraw.Over, nil)
	return &Buffer{Pix: out}
}

// Load decodes an image file from disk, detecting its format from magic
// bytes the way the teacher's LoadImage does for PNG/JPEG/GIF, extended here
// to BMP, TIFF and WebP so the codec collaborator covers more than the
// spec's required minimum of PNG and JPEG.
func Load(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rasterimg: read %s: %w", path, err)
	}

	var img image.Image
	switch {
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
		img, err = jpeg.Decode(bytes.NewReader(data))
	case len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		img, err = png.Decode(bytes.NewReader(data))
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		img, err = gif.Decode(bytes.NewReader(data))
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		img, err = bmp.Decode(bytes.NewReader(data))
	case len(data) >= 4 && (bytes.Equal(data[:4], []byte("II*\x00")) || bytes.Equal(data[:4], []byte("MM\x00*"))):
		img, err = tiff.Decode(bytes.NewReader(data))
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("rasterimg: decode %s: %w", path, err)
	}
	return NewBuffer(img), nil
}

// Save writes buf as a PNG with a full alpha channel to path, creating
// parent directories is the caller's responsibility.
func Save(path string, buf *Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rasterimg: create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, buf.Pix); err != nil {
		return fmt.Errorf("rasterimg: encode %s: %w", path, err)
	}
	return nil
}

// Stem returns the filename without extension, used for sticker output
// naming and debug preview naming.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
