package atlas

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/depp/atlaskit/lib/font"
)

// sizeEpsilon is the tolerance for matching font sizes.
const sizeEpsilon = 1e-3

// FindSprite returns the first loose sprite with the given name.
func (r *Registry) FindSprite(h Handle, name string) (SpriteHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(h)
	if err != nil {
		return NullSprite, err
	}
	for i := range a.sprites {
		if a.sprites[i].Name == name {
			return SpriteHandle(i), nil
		}
	}
	r.log.WithFields(logrus.Fields{"atlas": h, "sprite": name}).Warn("sprite not found")
	return NullSprite, ErrNotFound
}

// FindFont returns the font with the given name and size. If the name matches
// but no size does, the first font added with that name is returned instead,
// and its metrics will not match the requested size.
func (r *Registry) FindFont(h Handle, name string, sizePts float64) (FontHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(h)
	if err != nil {
		return NullFont, err
	}
	fallback := NullFont
	for i, f := range a.fonts {
		if f.Name != name {
			continue
		}
		if math.Abs(float64(f.SizePts)-sizePts) < sizeEpsilon {
			return FontHandle(i), nil
		}
		if fallback == NullFont {
			fallback = FontHandle(i)
		}
	}
	if fallback != NullFont {
		return fallback, nil
	}
	r.log.WithFields(logrus.Fields{"atlas": h, "font": name, "size": sizePts}).Warn("font not found")
	return NullFont, ErrNotFound
}

// GlyphSprite returns a copy of the sprite for a character code.
func (r *Registry) GlyphSprite(h Handle, f FontHandle, code byte) (Sprite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, err := r.font(h, f)
	if err != nil {
		return Sprite{}, err
	}
	g := fn.Glyphs[code]
	if !g.Set {
		return Sprite{}, ErrNotFound
	}
	g.pix = nil
	return g, nil
}

// glyph returns the glyph for a character code, or false if the font or
// glyph does not exist.
func (r *Registry) glyph(h Handle, f FontHandle, code byte) (*Sprite, *GlyphMetrics, bool) {
	fn, err := r.font(h, f)
	if err != nil || !fn.Glyphs[code].Set {
		return nil, nil, false
	}
	return &fn.Glyphs[code], &fn.Metrics[code], true
}

// CharBearing returns the offset from the pen to the glyph bitmap.
func (r *Registry) CharBearing(h Handle, f FontHandle, code byte) (x, y float32, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, m, ok := r.glyph(h, f, code)
	if !ok {
		return 0, 0, false
	}
	return m.BearingX, m.BearingY, true
}

// CharAdvance returns the pen movement after drawing a glyph.
func (r *Registry) CharAdvance(h Handle, f FontHandle, code byte) (x, y float32, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, m, ok := r.glyph(h, f, code)
	if !ok {
		return 0, 0, false
	}
	return m.AdvanceX, m.AdvanceY, true
}

// CharWidth returns the width of a glyph bitmap.
func (r *Registry) CharWidth(h Handle, f FontHandle, code byte) (int32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, _, ok := r.glyph(h, f, code)
	if !ok {
		return 0, false
	}
	return s.Width, true
}

// CharHeight returns the height of a glyph bitmap.
func (r *Registry) CharHeight(h Handle, f FontHandle, code byte) (int32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, _, ok := r.glyph(h, f, code)
	if !ok {
		return 0, false
	}
	return s.Height, true
}

// StringWidth returns the total advance of a string. Characters without a
// glyph are skipped.
func (r *Registry) StringWidth(h Handle, f FontHandle, s string) (float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, err := r.font(h, f)
	if err != nil {
		return 0, err
	}
	var w float32
	for _, c := range font.Encode(s) {
		if fn.Glyphs[c].Set {
			w += fn.Metrics[c].AdvanceX
		}
	}
	return w, nil
}

// StringHeight returns the distance from the highest point above the
// baseline to the lowest point below it, over the glyphs in the string.
func (r *Registry) StringHeight(h Handle, f FontHandle, s string) (float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, err := r.font(h, f)
	if err != nil {
		return 0, err
	}
	var above, below float32
	for _, c := range font.Encode(s) {
		if !fn.Glyphs[c].Set {
			continue
		}
		top := fn.Metrics[c].BearingY
		bottom := top - float32(fn.Glyphs[c].Height)
		if top > above {
			above = top
		}
		if bottom < below {
			below = bottom
		}
	}
	return above - below, nil
}

// MaxYBearing returns the largest vertical bearing of the glyphs in the
// string.
func (r *Registry) MaxYBearing(h Handle, f FontHandle, s string) (float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, err := r.font(h, f)
	if err != nil {
		return 0, err
	}
	var m float32
	for _, c := range font.Encode(s) {
		if fn.Glyphs[c].Set && fn.Metrics[c].BearingY > m {
			m = fn.Metrics[c].BearingY
		}
	}
	return m, nil
}
