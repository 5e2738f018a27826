package atlas

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/depp/atlaskit/lib/font"
	"github.com/depp/atlaskit/lib/texture"
)

// Default initial atlas size.
const (
	DefaultWidth  = 512
	DefaultHeight = 512
)

// EndOptions controls how an atlas is packed.
type EndOptions struct {
	// Initial size of the atlas. It doubles along one axis at a time until
	// everything fits.
	InitialWidth  int32
	InitialHeight int32

	// FitLargest sizes the initial atlas from the largest item instead.
	FitLargest bool

	// DebugBitmap, if set, is a path where the packed atlas is written as a
	// BMP file.
	DebugBitmap string
}

// DefaultEndOptions returns the default packing options.
func DefaultEndOptions() EndOptions {
	return EndOptions{
		InitialWidth:  DefaultWidth,
		InitialHeight: DefaultHeight,
	}
}

// Validate returns an error if the options are invalid.
func (o *EndOptions) Validate() error {
	if o.FitLargest {
		return nil
	}
	if o.InitialWidth <= 0 || o.InitialHeight <= 0 {
		return fmt.Errorf("invalid initial atlas size: %dx%d", o.InitialWidth, o.InitialHeight)
	}
	return nil
}

// An ImageSource supplies decoded source images by path.
type ImageSource interface {
	LookupImage(path string) (*image.RGBA, error)
}

// A Face rasterizes glyphs from one font file.
type Face interface {
	Rasterize(sizePts float64, code byte) (font.Glyph, bool, error)
	Close() error
}

// A FaceOpener opens a font file.
type FaceOpener func(path string) (Face, error)

// OpenFontFile opens a font file from disk.
func OpenFontFile(path string) (Face, error) {
	f, err := font.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// A Renderer receives packed atlas pixels.
type Renderer interface {
	UploadTexture(pix []byte, channels, width, height int) (Texture, error)
	DestroyTexture(t Texture)
}

// Config holds the collaborators for a Registry. Nil fields get defaults,
// except Renderer: with no renderer, atlases are packed but never uploaded.
type Config struct {
	Images   ImageSource
	Fonts    FaceOpener
	Renderer Renderer
	Log      logrus.FieldLogger
}

func (c *Config) setDefaults() error {
	if c.Images == nil {
		ic, err := texture.NewImageCache(texture.DefaultCacheSize)
		if err != nil {
			return err
		}
		c.Images = ic
	}
	if c.Fonts == nil {
		c.Fonts = OpenFontFile
	}
	if c.Log == nil {
		c.Log = logrus.StandardLogger()
	}
	return nil
}

// fontError maps a font open error onto the atlas error taxonomy.
func fontError(path string, err error) error {
	if errors.Is(err, font.ErrUnsupportedFormat) {
		return fmt.Errorf("%w: font %q: %v", ErrUnsupportedFormat, path, err)
	}
	return fmt.Errorf("%w: font %q: %v", ErrIO, path, err)
}
