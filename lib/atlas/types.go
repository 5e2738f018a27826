package atlas

import (
	"fmt"
	"image"
	"strconv"

	"github.com/depp/atlaskit/lib/font"
)

// A Handle identifies an atlas in a Registry.
type Handle int32

// A SpriteHandle is the index of a loose sprite in an atlas.
type SpriteHandle int32

// A FontHandle is the index of a font in an atlas.
type FontHandle int32

// Null handles, returned alongside errors.
const (
	NullHandle Handle       = -1
	NullSprite SpriteHandle = -1
	NullFont   FontHandle   = -1
)

// A Texture is an opaque renderer texture handle. Zero means no texture.
type Texture uint32

// State is the lifecycle state of an atlas slot.
type State int

const (
	StateEmpty State = iota
	StateAccumulating
	StatePacked
	StateDestroyed
)

var stateNames = [...]string{
	StateEmpty:        "empty",
	StateAccumulating: "accumulating",
	StatePacked:       "packed",
	StateDestroyed:    "destroyed",
}

func (s State) String() string {
	if 0 <= s && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// active returns true if the slot holds a live atlas.
func (s State) active() bool {
	return s == StateAccumulating || s == StatePacked
}

// A UVRect is a normalized region of the atlas texture.
type UVRect struct {
	U0, V0 float32 // Top left.
	U1, V1 float32 // Bottom right.
}

// A Sprite is one rectangular image in an atlas. Glyph sprites have no name.
type Sprite struct {
	Name string
	ID   int32

	// Position and size in the source image.
	SrcX, SrcY    int32
	Width, Height int32

	// Position of the top-left pixel in the atlas. Valid once packed.
	X, Y int32

	UV UVRect

	// Set is true for slots which hold a sprite. Loose sprites are always
	// set. A glyph slot is set if the font has a glyph for that code.
	Set bool

	pix *image.RGBA
}

// GlyphMetrics is the pen placement of a glyph. BearingY is measured up from
// the baseline to the top of the bitmap.
type GlyphMetrics struct {
	BearingX, BearingY float32
	AdvanceX, AdvanceY float32
}

// Style is a set of font style flags. They are carried for consumers and do
// not affect rasterization.
type Style uint32

const (
	Italic Style = 1 << iota
	Bold
	Underline

	Normal Style = 0
)

// A Font is one face at one size, with a glyph table indexed by character
// code.
type Font struct {
	Name    string
	SizePts float32
	Style   Style
	Glyphs  [font.CodeCount]Sprite
	Metrics [font.CodeCount]GlyphMetrics

	face *sharedFace
}

// SizeUnit is the unit of a requested font size.
type SizeUnit int

const (
	Points SizeUnit = iota
	Pixels
)

// A FontSize is a requested font size.
type FontSize struct {
	Unit SizeUnit
	Val  float64
}

// Points returns the size in points.
func (s FontSize) Points() float64 {
	if s.Unit == Pixels {
		return font.PixelsToPoints(s.Val)
	}
	return s.Val
}

func (s FontSize) String() string {
	if s.Unit == Pixels {
		return fmt.Sprintf("%gpx", s.Val)
	}
	return fmt.Sprintf("%gpt", s.Val)
}

// A FontSpec describes a font to add to an atlas, at one or more sizes.
type FontSpec struct {
	Path  string
	Name  string
	Sizes []FontSize
	Style Style

	// Charset limits which codes are rasterized. Nil means all codes.
	Charset *font.Charset
}
