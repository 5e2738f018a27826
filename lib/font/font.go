// Package font rasterizes glyphs for single-byte character codes.
package font

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"

	"github.com/depp/atlaskit/lib/texture"
)

// DPI is the device resolution glyphs are rasterized at.
const DPI = 92

// CodeCount is the number of character codes in a glyph table.
const CodeCount = 256

// CodePage maps character codes to Unicode code points.
var CodePage = charmap.ISO8859_1

// ErrUnsupportedFormat is returned when a file is readable but is not a font
// this package understands.
var ErrUnsupportedFormat = errors.New("unsupported font format")

// PixelsToPoints converts a pixel size to a point size at DPI.
func PixelsToPoints(px float64) float64 {
	return px * 72 / DPI
}

// Encode converts a string to character codes. Characters outside the code
// page are dropped.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if c, ok := CodePage.EncodeRune(r); ok {
			out = append(out, c)
		}
	}
	return out
}

// Metrics is the placement of a glyph relative to the pen.
type Metrics struct {
	BearingX float32 // Pen to left edge of bitmap.
	BearingY float32 // Baseline to top edge of bitmap, positive up.
	AdvanceX float32
	AdvanceY float32
}

// A Glyph is a rasterized glyph.
type Glyph struct {
	// Image is the coverage converted to four channels. It is empty for
	// glyphs with no ink, such as a space.
	Image   *image.RGBA
	Metrics Metrics
}

// A Face is a parsed font file which can be rasterized at any size.
type Face struct {
	font *opentype.Font

	mu    sync.Mutex
	sizes map[float64]xfont.Face
}

// Open reads and parses a font file.
func Open(filename string) (*Face, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", filename, err)
	}
	return f, nil
}

// Parse parses font data.
func Parse(data []byte) (*Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return &Face{
		font:  f,
		sizes: make(map[float64]xfont.Face),
	}, nil
}

func (f *Face) face(sizePts float64) (xfont.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sizes == nil {
		return nil, errors.New("face is closed")
	}
	if fc, ok := f.sizes[sizePts]; ok {
		return fc, nil
	}
	fc, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    sizePts,
		DPI:     DPI,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	f.sizes[sizePts] = fc
	return fc, nil
}

// HasGlyph returns true if the font maps the character code to a glyph.
func (f *Face) HasGlyph(code byte) bool {
	idx, err := f.font.GlyphIndex(nil, CodePage.DecodeByte(code))
	return err == nil && idx != 0
}

// Rasterize renders the glyph for a character code. Returns false if the font
// has no glyph for the code.
func (f *Face) Rasterize(sizePts float64, code byte) (g Glyph, ok bool, err error) {
	if sizePts <= 0 {
		return g, false, fmt.Errorf("invalid font size: %g", sizePts)
	}
	if !f.HasGlyph(code) {
		return g, false, nil
	}
	fc, err := f.face(sizePts)
	if err != nil {
		return g, false, err
	}
	r := CodePage.DecodeByte(code)
	dr, mask, maskp, advance, ok := fc.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return g, false, nil
	}
	g.Metrics = Metrics{
		BearingX: float32(dr.Min.X),
		BearingY: float32(-dr.Min.Y),
		AdvanceX: float32(advance.Floor()),
	}
	cov := image.NewAlpha(image.Rectangle{Max: dr.Size()})
	if !dr.Empty() && mask != nil {
		sr := image.Rectangle{Min: maskp, Max: maskp.Add(dr.Size())}
		drawMask(cov, mask, sr)
	}
	g.Image = texture.FromAlpha(cov)
	return g, true, nil
}

// Close releases the per-size faces. The face cannot be used afterwards.
func (f *Face) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var first error
	for _, fc := range f.sizes {
		if err := fc.Close(); err != nil && first == nil {
			first = err
		}
	}
	f.sizes = nil
	return first
}
