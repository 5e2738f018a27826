package atlas

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/depp/atlaskit/lib/font"
	"github.com/depp/atlaskit/lib/texture"
)

// Version is the format version written by Save.
const Version = 1

// Size of the glyph metric block in a font record.
const metricsSize = font.CodeCount * 4 * 4

// Minimum encoded sizes, used to bound counts before allocating.
const (
	minSpriteSize = 4 + 6*4 + 4*4 + 1 + 4
	minFontSize   = 4 + metricsSize + font.CodeCount*minSpriteSize + 4 + 4
)

var le = binary.LittleEndian

type encoder struct {
	data []byte
}

func (e *encoder) u32(x uint32) {
	var b [4]byte
	le.PutUint32(b[:], x)
	e.data = append(e.data, b[:]...)
}

func (e *encoder) i32(x int32)   { e.u32(uint32(x)) }
func (e *encoder) f32(x float32) { e.u32(math.Float32bits(x)) }

func (e *encoder) bool(x bool) {
	var b byte
	if x {
		b = 1
	}
	e.data = append(e.data, b)
}

// bytes writes a length-prefixed byte string.
func (e *encoder) bytes(b []byte) {
	e.u32(uint32(len(b)))
	e.data = append(e.data, b...)
}

func (e *encoder) sprite(s *Sprite) {
	e.bytes([]byte(s.Name))
	e.i32(s.SrcX)
	e.i32(s.SrcY)
	e.i32(s.Width)
	e.i32(s.Height)
	e.i32(s.X)
	e.i32(s.Y)
	e.f32(s.UV.U0)
	e.f32(s.UV.V0)
	e.f32(s.UV.U1)
	e.f32(s.UV.V1)
	e.bool(s.Set)
	e.i32(s.ID)
}

func (e *encoder) font(f *Font) {
	m := make([]byte, metricsSize)
	for i, gm := range f.Metrics {
		rec := m[i*16 : i*16+16 : i*16+16]
		le.PutUint32(rec[0:4], math.Float32bits(gm.BearingX))
		le.PutUint32(rec[4:8], math.Float32bits(gm.BearingY))
		le.PutUint32(rec[8:12], math.Float32bits(gm.AdvanceX))
		le.PutUint32(rec[12:16], math.Float32bits(gm.AdvanceY))
	}
	e.bytes(m)
	for i := range f.Glyphs {
		e.sprite(&f.Glyphs[i])
	}
	e.bytes([]byte(f.Name))
	e.f32(f.SizePts)
}

func encode(a *atlas) []byte {
	e := encoder{data: make([]byte, 0, len(a.pix)+1024)}
	e.u32(Version)
	e.i32(a.height)
	e.i32(a.width)
	e.i32(a.tileBegin)
	e.i32(a.tileEnd)
	e.u32(uint32(len(a.sprites)))
	for i := range a.sprites {
		e.sprite(&a.sprites[i])
	}
	e.u32(uint32(len(a.fonts)))
	for _, f := range a.fonts {
		e.font(f)
	}
	e.bytes(a.pix)
	return e.data
}

var errShort = errors.New("unexpected end of data")

type decoder struct {
	data []byte
	err  error
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.data) < n {
		d.fail(errShort)
		return nil
	}
	b := d.data[:n:n]
	d.data = d.data[n:]
	return b
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return le.Uint32(b)
}

func (d *decoder) i32() int32   { return int32(d.u32()) }
func (d *decoder) f32() float32 { return math.Float32frombits(d.u32()) }

func (d *decoder) bool() bool {
	b := d.take(1)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	}
	d.fail(fmt.Errorf("invalid bool: %d", b[0]))
	return false
}

func (d *decoder) bytes() []byte {
	n := d.u32()
	if d.err != nil {
		return nil
	}
	if uint64(n) > uint64(len(d.data)) {
		d.fail(errShort)
		return nil
	}
	b := d.take(int(n))
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// count reads an element count, and checks that the remaining data could hold
// that many elements.
func (d *decoder) count(minSize int) int {
	n := d.u32()
	if d.err != nil {
		return 0
	}
	if uint64(n)*uint64(minSize) > uint64(len(d.data)) {
		d.fail(fmt.Errorf("count %d too large", n))
		return 0
	}
	return int(n)
}

func (d *decoder) sprite(s *Sprite) {
	s.Name = string(d.bytes())
	s.SrcX = d.i32()
	s.SrcY = d.i32()
	s.Width = d.i32()
	s.Height = d.i32()
	s.X = d.i32()
	s.Y = d.i32()
	s.UV.U0 = d.f32()
	s.UV.V0 = d.f32()
	s.UV.U1 = d.f32()
	s.UV.V1 = d.f32()
	s.Set = d.bool()
	s.ID = d.i32()
	if d.err == nil && (s.Width < 0 || s.Height < 0) {
		d.fail(fmt.Errorf("sprite %q has invalid size %dx%d", s.Name, s.Width, s.Height))
	}
}

func (d *decoder) font() *Font {
	f := new(Font)
	m := d.bytes()
	if d.err != nil {
		return nil
	}
	if len(m) != metricsSize {
		d.fail(fmt.Errorf("glyph metrics are %d bytes, expected %d", len(m), metricsSize))
		return nil
	}
	for i := range f.Metrics {
		rec := m[i*16 : i*16+16 : i*16+16]
		f.Metrics[i] = GlyphMetrics{
			BearingX: math.Float32frombits(le.Uint32(rec[0:4])),
			BearingY: math.Float32frombits(le.Uint32(rec[4:8])),
			AdvanceX: math.Float32frombits(le.Uint32(rec[8:12])),
			AdvanceY: math.Float32frombits(le.Uint32(rec[12:16])),
		}
	}
	for i := range f.Glyphs {
		d.sprite(&f.Glyphs[i])
	}
	f.Name = string(d.bytes())
	f.SizePts = d.f32()
	return f
}

func decodeV1(d *decoder) (*atlas, error) {
	a := &atlas{state: StatePacked}
	a.height = d.i32()
	a.width = d.i32()
	a.tileBegin = d.i32()
	a.tileEnd = d.i32()
	if d.err == nil && (a.width <= 0 || a.height <= 0) {
		return nil, fmt.Errorf("invalid atlas size: %dx%d", a.width, a.height)
	}
	if n := d.count(minSpriteSize); n > 0 {
		a.sprites = make([]Sprite, n)
		for i := range a.sprites {
			d.sprite(&a.sprites[i])
		}
	}
	if n := d.count(minFontSize); n > 0 {
		a.fonts = make([]*Font, n)
		for i := range a.fonts {
			a.fonts[i] = d.font()
		}
	}
	a.pix = d.bytes()
	if d.err != nil {
		return nil, d.err
	}
	if n := int64(a.width) * int64(a.height) * texture.Channels; int64(len(a.pix)) != n {
		return nil, fmt.Errorf("pixel data is %d bytes, expected %d", len(a.pix), n)
	}
	if len(d.data) != 0 {
		return nil, fmt.Errorf("%d bytes of trailing data", len(d.data))
	}
	return a, nil
}

// decoders maps format versions to decoders. The version tag has already been
// read.
var decoders = map[uint32]func(d *decoder) (*atlas, error){
	1: decodeV1,
}

func decode(data []byte) (*atlas, error) {
	d := decoder{data: data}
	v := d.u32()
	if d.err != nil {
		return nil, d.err
	}
	fn := decoders[v]
	if fn == nil {
		return nil, &VersionError{Version: v}
	}
	return fn(&d)
}

// maxID returns the largest sprite ID in the atlas, or -1.
func (a *atlas) maxID() int32 {
	id := int32(-1)
	for i := range a.sprites {
		if a.sprites[i].ID > id {
			id = a.sprites[i].ID
		}
	}
	for _, f := range a.fonts {
		for i := range f.Glyphs {
			if g := &f.Glyphs[i]; g.Set && g.ID > id {
				id = g.ID
			}
		}
	}
	return id
}

// Save serializes a packed atlas.
func (r *Registry) Save(h Handle) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	if a.state != StatePacked {
		return nil, ErrNotPacked
	}
	return encode(a), nil
}

// SaveFile serializes a packed atlas to a file.
func (r *Registry) SaveFile(h Handle, filename string) error {
	data, err := r.Save(h)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0666); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	r.log.WithFields(logrus.Fields{"atlas": h, "file": filename}).Debug("saved atlas")
	return nil
}

// Load deserializes a packed atlas, uploads it, and makes it current. On
// failure, no atlas is added.
func (r *Registry) Load(data []byte) (Handle, error) {
	a, err := decode(data)
	if err != nil {
		return NullHandle, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.upload(a); err != nil {
		return NullHandle, err
	}
	h, slot := r.alloc()
	*slot = *a
	if id := a.maxID(); id >= r.nextID {
		r.nextID = id + 1
	}
	r.current = h
	r.log.WithFields(logrus.Fields{
		"atlas":   h,
		"sprites": len(a.sprites),
		"fonts":   len(a.fonts),
	}).Debug("loaded atlas")
	return h, nil
}

// LoadFile deserializes a packed atlas from a file.
func (r *Registry) LoadFile(filename string) (Handle, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return NullHandle, fmt.Errorf("%w: %v", ErrIO, err)
	}
	h, err := r.Load(data)
	if err != nil {
		return NullHandle, fmt.Errorf("%s: %w", filename, err)
	}
	return h, nil
}
