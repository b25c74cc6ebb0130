// Package colorspace provides RGB/YUV/LAB color conversions used throughout
// the sticker-extraction pipeline: YUV for brightness thresholding and
// background interpolation, LAB for perceptual background-difference tests.
package colorspace

import (
	"errors"
	"image/color"
	"math"
)

// reference white, D65/2 degree observer, matching the tuning the pipeline
// was calibrated against.
const (
	referenceX = 109.850
	referenceY = 100.000
	referenceZ = 35.585
)

const (
	yuvMaxY = 1.0
	yuvMaxU = 0.436
	yuvMaxV = 0.615
)

var errYUVRange = errors.New("colorspace: yuv channel out of range")

// RGB is 8-bit sRGB-encoded color.
type RGB struct {
	R, G, B uint8
}

// YUV is BT.601 analog YUV, Y in [0,1], |U|<=0.436, |V|<=0.615.
type YUV struct {
	Y, U, V float64
}

// LAB is CIE L*a*b*, unconstrained.
type LAB struct {
	L, A, B float64
}

type xyz struct {
	X, Y, Z float64
}

// NewRGB constructs an RGB value. RGB8 has no invalid representation.
func NewRGB(r, g, b uint8) RGB { return RGB{R: r, G: g, B: b} }

// NewYUV validates the channel ranges before constructing a YUV value.
func NewYUV(y, u, v float64) (YUV, error) {
	if y < 0 || y > yuvMaxY {
		return YUV{}, errYUVRange
	}
	if math.Abs(u) > yuvMaxU {
		return YUV{}, errYUVRange
	}
	if math.Abs(v) > yuvMaxV {
		return YUV{}, errYUVRange
	}
	return YUV{Y: y, U: u, V: v}, nil
}

// NewLAB accepts any finite L*a*b* triple.
func NewLAB(l, a, b float64) LAB { return LAB{L: l, A: a, B: b} }

// FromColor converts a standard library color.Color (assumed opaque) to RGB.
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// NRGBA renders RGB as an opaque color.NRGBA.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// YUV converts RGB to YUV. The forward division constant is 256, not 255,
// per the calibration this pipeline's thresholds were tuned against; the
// inverse YUV.RGB multiplies by 255, so the two are intentionally asymmetric.
func (c RGB) YUV() YUV {
	r := float64(c.R) / 256.0
	g := float64(c.G) / 256.0
	b := float64(c.B) / 256.0
	y := 0.299*r + 0.587*g + 0.114*b
	return YUV{
		Y: y,
		U: 0.492 * (b - y),
		V: 0.877 * (r - y),
	}
}

func (c RGB) xyz() xyz {
	lin := func(v float64) float64 {
		v /= 255.0
		if v > 0.04045 {
			return math.Pow((v+0.055)/1.055, 2.4)
		}
		return v / 12.92
	}
	r := lin(float64(c.R)) * 100.0
	g := lin(float64(c.G)) * 100.0
	b := lin(float64(c.B)) * 100.0
	return xyz{
		X: r*0.4124 + g*0.3576 + b*0.1805,
		Y: r*0.2126 + g*0.7152 + b*0.0722,
		Z: r*0.0193 + g*0.1192 + b*0.9505,
	}
}

// LAB converts RGB to LAB via XYZ.
func (c RGB) LAB() LAB {
	return c.xyz().lab()
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// RGB converts YUV back to RGB. The inverse multiplies by 255, matching the
// pipeline's original asymmetric forward/inverse pair (see YUV above).
func (c YUV) RGB() RGB {
	r := c.Y + 1.14*c.V
	g := c.Y - 0.395*c.U - 0.581*c.V
	b := c.Y + 2.033*c.U
	return RGB{R: clampByte(r * 255.0), G: clampByte(g * 255.0), B: clampByte(b * 255.0)}
}

// LAB converts YUV to LAB via RGB and XYZ.
func (c YUV) LAB() LAB {
	return c.RGB().LAB()
}

func (v xyz) lab() LAB {
	f := func(t float64) float64 {
		if t > 0.008856 {
			return math.Cbrt(t)
		}
		return 7.787*t + 16.0/116.0
	}
	fx := f(v.X / referenceX)
	fy := f(v.Y / referenceY)
	fz := f(v.Z / referenceZ)
	return LAB{
		L: 116.0*fy - 16.0,
		A: 500.0 * (fx - fy),
		B: 200.0 * (fy - fz),
	}
}

func (l LAB) xyz() xyz {
	varY := (l.L + 16.0) / 116.0
	varX := l.A/500.0 + varY
	varZ := varY - l.B/200.0

	inv := func(t float64) float64 {
		if t*t*t > 0.008856 {
			return t * t * t
		}
		return (t - 16.0/116.0) / 7.787
	}
	return xyz{
		X: inv(varX) * referenceX,
		Y: inv(varY) * referenceY,
		Z: inv(varZ) * referenceZ,
	}
}

func (v xyz) rgb() RGB {
	varX := v.X / 100.0
	varY := v.Y / 100.0
	varZ := v.Z / 100.0

	varR := varX*3.2406 + varY*-1.5372 + varZ*-0.4986
	varG := varX*-0.9689 + varY*1.8758 + varZ*0.0415
	varB := varX*0.0557 + varY*-0.2040 + varZ*1.0570

	gamma := func(t float64) float64 {
		if t > 0.0031308 {
			return 1.055*math.Pow(t, 1.0/2.4) - 0.055
		}
		return t * 12.92
	}
	varR = gamma(varR)
	varG = gamma(varG)
	varB = gamma(varB)

	return RGB{R: clampByte(varR * 255.0), G: clampByte(varG * 255.0), B: clampByte(varB * 255.0)}
}

// RGB converts LAB back to RGB via XYZ.
func (l LAB) RGB() RGB {
	return l.xyz().rgb()
}

// YUV converts LAB to YUV via RGB.
func (l LAB) YUV() YUV {
	return l.RGB().YUV()
}

// Distance returns the Euclidean distance between two LAB colors.
func (l LAB) Distance(o LAB) float64 {
	dl := l.L - o.L
	da := l.A - o.A
	db := l.B - o.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// Color is a tagged union over RGB/YUV/LAB, matching the "sum type, not
// inheritance" design the source embodies: a value is constructed in one
// representation and lazily converted to the others on demand.
type Color struct {
	rgb    RGB
	hasRGB bool
	yuv    YUV
	hasYUV bool
	lab    LAB
	hasLAB bool
}

// FromRGB wraps an RGB value as a Color.
func FromRGB(c RGB) Color { return Color{rgb: c, hasRGB: true} }

// FromYUV wraps a YUV value as a Color.
func FromYUV(c YUV) Color { return Color{yuv: c, hasYUV: true} }

// FromLAB wraps a LAB value as a Color.
func FromLAB(c LAB) Color { return Color{lab: c, hasLAB: true} }

// RGB returns the RGB representation, converting if necessary.
func (c Color) RGB() RGB {
	switch {
	case c.hasRGB:
		return c.rgb
	case c.hasYUV:
		return c.yuv.RGB()
	default:
		return c.lab.RGB()
	}
}

// YUV returns the YUV representation, converting if necessary.
func (c Color) YUV() YUV {
	switch {
	case c.hasYUV:
		return c.yuv
	case c.hasRGB:
		return c.rgb.YUV()
	default:
		return c.lab.YUV()
	}
}

// LAB returns the LAB representation, converting if necessary.
func (c Color) LAB() LAB {
	switch {
	case c.hasLAB:
		return c.lab
	case c.hasRGB:
		return c.rgb.LAB()
	default:
		return c.yuv.LAB()
	}
}
