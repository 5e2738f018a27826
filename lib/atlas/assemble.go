package atlas

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/depp/atlaskit/lib/rectpack"
	"github.com/depp/atlaskit/lib/texture"
)

// packable returns true if the sprite has pixels to pack.
func (s *Sprite) packable() bool {
	return s.Set && s.Width > 0 && s.Height > 0
}

// items returns the packer input for every sprite and glyph in the atlas,
// and a map from ID to sprite.
func (a *atlas) items() ([]rectpack.Item, map[int32]*Sprite) {
	var items []rectpack.Item
	byID := make(map[int32]*Sprite)
	add := func(s *Sprite) {
		if !s.packable() {
			return
		}
		items = append(items, rectpack.Item{
			ID:   s.ID,
			Size: rectpack.Point{X: s.Width, Y: s.Height},
		})
		byID[s.ID] = s
	}
	for i := range a.sprites {
		add(&a.sprites[i])
	}
	for _, f := range a.fonts {
		for i := range f.Glyphs {
			add(&f.Glyphs[i])
		}
	}
	return items, byID
}

// setUV computes the sprite's texture coordinates in an atlas of the given
// size.
func (s *Sprite) setUV(width, height int32) {
	w, h := float32(width), float32(height)
	s.UV = UVRect{
		U0: float32(s.X) / w,
		V0: float32(s.Y) / h,
		U1: float32(s.X+s.Width) / w,
		V1: float32(s.Y+s.Height) / h,
	}
}

// EndAtlas packs every sprite and glyph in an atlas into one texture and
// uploads it. Afterwards, the atlas cannot be modified.
//
// If there is nothing to pack, ErrEmptyAtlas is returned and the atlas is
// left as it was. If the upload fails, the atlas is still packed and can be
// saved.
func (r *Registry) EndAtlas(h Handle, opts EndOptions) (Texture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.accumulating(h)
	if err != nil {
		return 0, err
	}
	if err := opts.Validate(); err != nil {
		return 0, err
	}
	log := r.log.WithField("atlas", h)
	items, byID := a.items()
	if len(items) == 0 {
		log.Warn(ErrEmptyAtlas)
		return 0, ErrEmptyAtlas
	}
	rectpack.SortByArea(items)
	res, err := rectpack.Pack(items, rectpack.Options{
		Initial:    rectpack.Point{X: opts.InitialWidth, Y: opts.InitialHeight},
		FitLargest: opts.FitLargest,
	})
	if err != nil {
		return 0, err
	}
	im := image.NewRGBA(image.Rect(0, 0, int(res.Bounds.X), int(res.Bounds.Y)))
	for i, it := range items {
		s := byID[it.ID]
		if s == nil {
			panic(fmt.Sprintf("atlas: packed item %d does not match any sprite", it.ID))
		}
		p := res.Pos[i]
		if err := texture.BlitBordered(im, image.Pt(int(p.X), int(p.Y)), s.pix, rectpack.Border); err != nil {
			panic("atlas: packed item out of bounds: " + err.Error())
		}
		s.X = p.X + rectpack.Border
		s.Y = p.Y + rectpack.Border
		s.pix = nil
		s.setUV(res.Bounds.X, res.Bounds.Y)
	}
	a.pix = im.Pix
	a.width = res.Bounds.X
	a.height = res.Bounds.Y
	a.state = StatePacked
	log.WithFields(logrus.Fields{
		"width":  a.width,
		"height": a.height,
		"items":  len(items),
		"grown":  res.Grown,
	}).Debug("packed atlas")
	if opts.DebugBitmap != "" {
		if err := texture.WriteBMP(opts.DebugBitmap, im); err != nil {
			log.Warn("could not write debug bitmap: ", err)
		}
	}
	if err := r.upload(a); err != nil {
		return 0, err
	}
	return a.tex, nil
}

// upload sends a packed atlas to the renderer, if there is one.
func (r *Registry) upload(a *atlas) error {
	if r.renderer == nil {
		return nil
	}
	tex, err := r.renderer.UploadTexture(a.pix, texture.Channels, int(a.width), int(a.height))
	if err != nil {
		return fmt.Errorf("could not upload atlas texture: %w", err)
	}
	a.tex = tex
	a.hasTex = true
	return nil
}
