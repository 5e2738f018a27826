// Package atlas builds texture atlases out of cropped images and rasterized
// font glyphs, and saves and loads packed atlases.
//
// Atlases live in a Registry and are referred to by Handle. An atlas is
// created with BeginAtlas, filled with AddSprite and AddFont, and packed with
// EndAtlas. After packing, sprites and glyphs have UV coordinates in the
// atlas texture, and the atlas can be saved.
package atlas

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type atlas struct {
	state   State
	sprites []Sprite
	fonts   []*Font

	// Packed pixels, straight alpha RGBA.
	pix           []byte
	width, height int32

	tex    Texture
	hasTex bool

	// Tileset sprite index range, [begin, end), -1 if unset.
	tileBegin, tileEnd int32
}

func (a *atlas) reset() {
	*a = atlas{
		state:     StateAccumulating,
		tileBegin: -1,
		tileEnd:   -1,
	}
}

// A sharedFace is a font face used by every size built from it.
type sharedFace struct {
	path string
	face Face
	refs int
}

// A Registry holds atlases. It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	log      logrus.FieldLogger
	images   ImageSource
	openFace FaceOpener
	renderer Renderer

	atlases []*atlas
	current Handle

	// Next sprite ID. IDs are unique across all atlases in the registry.
	nextID int32

	faces map[string]*sharedFace
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) (*Registry, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	return &Registry{
		log:      cfg.Log,
		images:   cfg.Images,
		openFace: cfg.Fonts,
		renderer: cfg.Renderer,
		current:  NullHandle,
		faces:    make(map[string]*sharedFace),
	}, nil
}

// lookup returns the live atlas for a handle.
func (r *Registry) lookup(h Handle) (*atlas, error) {
	if 0 <= h && int(h) < len(r.atlases) {
		if a := r.atlases[h]; a.state.active() {
			return a, nil
		}
	}
	err := &HandleError{Kind: "atlas", Handle: int32(h)}
	r.log.WithField("atlas", h).Warn(err)
	return nil, err
}

// accumulating returns the atlas for a handle if it can still be modified.
func (r *Registry) accumulating(h Handle) (*atlas, error) {
	a, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	if a.state != StateAccumulating {
		return nil, ErrAlreadyPacked
	}
	return a, nil
}

// alloc returns a handle to an unused slot, reusing inactive slots first.
func (r *Registry) alloc() (Handle, *atlas) {
	for i, a := range r.atlases {
		if !a.state.active() {
			return Handle(i), a
		}
	}
	a := new(atlas)
	r.atlases = append(r.atlases, a)
	return Handle(len(r.atlases) - 1), a
}

// BeginAtlas creates a new atlas and makes it current.
func (r *Registry) BeginAtlas() Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, a := r.alloc()
	a.reset()
	r.current = h
	r.log.WithField("atlas", h).Debug("begin atlas")
	return h
}

// SetCurrent sets the current atlas.
func (r *Registry) SetCurrent(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.lookup(h); err != nil {
		return err
	}
	r.current = h
	return nil
}

// Current returns the current atlas, or NullHandle if there is none.
func (r *Registry) Current() Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// DestroyAtlas releases an atlas and its texture. The slot may be reused by
// a later atlas.
func (r *Registry) DestroyAtlas(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(h)
	if err != nil {
		return err
	}
	for i := range a.sprites {
		a.sprites[i].pix = nil
	}
	for _, f := range a.fonts {
		for i := range f.Glyphs {
			f.Glyphs[i].pix = nil
		}
		r.releaseFace(f)
	}
	if a.hasTex && r.renderer != nil {
		r.renderer.DestroyTexture(a.tex)
	}
	*a = atlas{state: StateDestroyed}
	if r.current == h {
		r.current = NullHandle
	}
	r.log.WithField("atlas", h).Debug("destroy atlas")
	return nil
}

// acquireFace returns the shared face for a font file, opening it if
// necessary. The caller must take a reference or call dropFace.
func (r *Registry) acquireFace(path string) (*sharedFace, error) {
	if sf := r.faces[path]; sf != nil {
		return sf, nil
	}
	face, err := r.openFace(path)
	if err != nil {
		return nil, fontError(path, err)
	}
	sf := &sharedFace{path: path, face: face}
	r.faces[path] = sf
	return sf, nil
}

// dropFace closes a face with no references.
func (r *Registry) dropFace(sf *sharedFace) {
	if sf.refs > 0 {
		return
	}
	if err := sf.face.Close(); err != nil {
		r.log.WithField("font", sf.path).Warn(err)
	}
	delete(r.faces, sf.path)
}

func (r *Registry) releaseFace(f *Font) {
	sf := f.face
	if sf == nil {
		return
	}
	f.face = nil
	sf.refs--
	r.dropFace(sf)
}

// State returns the state of an atlas slot. Handles which have never been
// allocated are empty.
func (r *Registry) State(h Handle) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if 0 <= h && int(h) < len(r.atlases) {
		return r.atlases[h].state
	}
	return StateEmpty
}

// Size returns the size of a packed atlas in pixels.
func (r *Registry) Size(h Handle) (width, height int32, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(h)
	if err != nil {
		return 0, 0, err
	}
	if a.state != StatePacked {
		return 0, 0, ErrNotPacked
	}
	return a.width, a.height, nil
}

// Pixels returns the packed RGBA pixels of an atlas. The caller must not
// modify them.
func (r *Registry) Pixels(h Handle) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	if a.state != StatePacked {
		return nil, ErrNotPacked
	}
	return a.pix, nil
}

// Texture returns the renderer texture of a packed atlas. Returns false if
// the atlas was never uploaded.
func (r *Registry) Texture(h Handle) (Texture, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(h)
	if err != nil {
		return 0, false
	}
	return a.tex, a.hasTex
}

// SpriteCount returns the number of loose sprites in an atlas.
func (r *Registry) SpriteCount(h Handle) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	return len(a.sprites), nil
}

// FontCount returns the number of fonts in an atlas.
func (r *Registry) FontCount(h Handle) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	return len(a.fonts), nil
}

func (r *Registry) sprite(h Handle, s SpriteHandle) (*Sprite, error) {
	a, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	if s < 0 || int(s) >= len(a.sprites) {
		err := &HandleError{Kind: "sprite", Handle: int32(s)}
		r.log.WithFields(logrus.Fields{"atlas": h, "sprite": s}).Warn(err)
		return nil, err
	}
	return &a.sprites[s], nil
}

func (r *Registry) font(h Handle, f FontHandle) (*Font, error) {
	a, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	if f < 0 || int(f) >= len(a.fonts) {
		err := &HandleError{Kind: "font", Handle: int32(f)}
		r.log.WithFields(logrus.Fields{"atlas": h, "font": f}).Warn(err)
		return nil, err
	}
	return a.fonts[f], nil
}

// Sprite returns a copy of a loose sprite.
func (r *Registry) Sprite(h Handle, s SpriteHandle) (Sprite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sp, err := r.sprite(h, s)
	if err != nil {
		return Sprite{}, err
	}
	return *sp, nil
}

// Font returns a copy of a font.
func (r *Registry) Font(h Handle, f FontHandle) (*Font, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, err := r.font(h, f)
	if err != nil {
		return nil, err
	}
	c := *fn
	c.face = nil
	for i := range c.Glyphs {
		c.Glyphs[i].pix = nil
	}
	return &c, nil
}

// BeginTileset marks the sprite index where the atlas's tileset starts.
func (r *Registry) BeginTileset(h Handle, begin int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.accumulating(h)
	if err != nil {
		return err
	}
	a.tileBegin = begin
	r.log.WithFields(logrus.Fields{"atlas": h, "begin": begin}).Debug("begin tileset")
	return nil
}

// EndTileset marks the sprite index where the atlas's tileset ends,
// exclusive.
func (r *Registry) EndTileset(h Handle, end int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.accumulating(h)
	if err != nil {
		return err
	}
	a.tileEnd = end
	return nil
}

// TilemapIndexToSprite returns the sprite for a tile index. Tile indexes
// start at 1.
func (r *Registry) TilemapIndexToSprite(h Handle, tile int32) (SpriteHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(h)
	if err != nil {
		return NullSprite, err
	}
	i := tile - 1 + a.tileBegin
	if a.tileBegin < 0 || a.tileEnd < 0 || tile < 1 || i >= a.tileEnd || int(i) >= len(a.sprites) {
		err := &HandleError{Kind: "tile", Handle: tile}
		r.log.WithFields(logrus.Fields{"atlas": h, "tile": tile}).Warn(err)
		return NullSprite, err
	}
	return SpriteHandle(i), nil
}
