package atlas

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/depp/atlaskit/lib/font"
	"github.com/depp/atlaskit/lib/texture"
)

// AddSprite crops a rectangle out of a source image and adds it to an atlas
// as a named sprite.
func (r *Registry) AddSprite(h Handle, path string, rect image.Rectangle, name string) (SpriteHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.accumulating(h)
	if err != nil {
		return NullSprite, err
	}
	log := r.log.WithFields(logrus.Fields{"atlas": h, "name": name})
	if rect.Empty() {
		return NullSprite, fmt.Errorf("sprite %q: empty rectangle %v", name, rect)
	}
	im, err := r.images.LookupImage(path)
	if err != nil {
		log.Warn(err)
		return NullSprite, fmt.Errorf("%w: sprite %q: %v", ErrNotFound, name, err)
	}
	pix, err := texture.Crop(im, rect.Add(im.Rect.Min))
	if err != nil {
		return NullSprite, fmt.Errorf("sprite %q: %v", name, err)
	}
	if texture.IsEmpty(pix) {
		log.Warn("sprite is fully transparent")
	}
	a.sprites = append(a.sprites, Sprite{
		Name:   name,
		ID:     r.newID(),
		SrcX:   int32(rect.Min.X),
		SrcY:   int32(rect.Min.Y),
		Width:  int32(rect.Dx()),
		Height: int32(rect.Dy()),
		Set:    true,
		pix:    pix,
	})
	return SpriteHandle(len(a.sprites) - 1), nil
}

func (r *Registry) newID() int32 {
	id := r.nextID
	r.nextID++
	return id
}

// AddFont rasterizes every glyph in a font file and adds it to an atlas, once
// for each requested size. Returns one handle per size. If any size fails, the
// atlas is left unchanged.
func (r *Registry) AddFont(h Handle, spec FontSpec) ([]FontHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.accumulating(h)
	if err != nil {
		return nil, err
	}
	log := r.log.WithFields(logrus.Fields{"atlas": h, "font": spec.Path, "name": spec.Name})
	if len(spec.Sizes) == 0 {
		return nil, fmt.Errorf("font %q: no sizes", spec.Name)
	}
	for _, sz := range spec.Sizes {
		if !(sz.Points() > 0) {
			return nil, fmt.Errorf("font %q: invalid size %v", spec.Name, sz)
		}
	}
	sf, err := r.acquireFace(spec.Path)
	if err != nil {
		log.Warn(err)
		return nil, err
	}
	fonts := make([]*Font, 0, len(spec.Sizes))
	for _, sz := range spec.Sizes {
		f, err := r.rasterizeFont(sf.face, spec, sz.Points())
		if err != nil {
			r.dropFace(sf)
			err = fmt.Errorf("font %q at %v: %w", spec.Name, sz, err)
			log.Warn(err)
			return nil, err
		}
		fonts = append(fonts, f)
	}
	handles := make([]FontHandle, len(fonts))
	for i, f := range fonts {
		f.face = sf
		sf.refs++
		handles[i] = FontHandle(len(a.fonts))
		a.fonts = append(a.fonts, f)
	}
	log.WithField("sizes", len(fonts)).Debug("added font")
	return handles, nil
}

func (r *Registry) rasterizeFont(face Face, spec FontSpec, pts float64) (*Font, error) {
	f := &Font{
		Name:    spec.Name,
		SizePts: float32(pts),
		Style:   spec.Style,
	}
	var count int
	for c := 0; c < font.CodeCount; c++ {
		if !spec.Charset.Has(byte(c)) {
			continue
		}
		g, ok, err := face.Rasterize(pts, byte(c))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		sp := Sprite{
			ID:  r.newID(),
			Set: true,
		}
		if g.Image != nil && !g.Image.Rect.Empty() {
			sp.Width = int32(g.Image.Rect.Dx())
			sp.Height = int32(g.Image.Rect.Dy())
			sp.pix = g.Image
		}
		f.Glyphs[c] = sp
		f.Metrics[c] = GlyphMetrics{
			BearingX: g.Metrics.BearingX,
			BearingY: g.Metrics.BearingY,
			AdvanceX: g.Metrics.AdvanceX,
			AdvanceY: g.Metrics.AdvanceY,
		}
		count++
	}
	if count == 0 {
		return nil, errors.New("font has no glyphs")
	}
	return f, nil
}
