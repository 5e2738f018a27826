package atlas

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"path/filepath"
	"testing"
)

// buildPacked makes a packed atlas with loose sprites, a tileset, and a font.
func buildPacked(t *testing.T, env *testEnv) Handle {
	t.Helper()
	env.images.Add("sheet.png", gradientImage(64, 32))
	r := env.reg
	h := r.BeginAtlas()
	if _, err := r.AddSprite(h, "sheet.png", image.Rect(0, 0, 20, 10), "banner"); err != nil {
		t.Fatal(err)
	}
	if err := r.BeginTileset(h, 1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := r.AddSprite(h, "sheet.png", image.Rect(i*8, 16, i*8+8, 24), ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.EndTileset(h, 4); err != nil {
		t.Fatal(err)
	}
	addFakeFont(t, r, h, "Fake", 12, 20)
	if _, err := r.EndAtlas(h, DefaultEndOptions()); err != nil {
		t.Fatal(err)
	}
	return h
}

func TestSaveLoad(t *testing.T) {
	src := newTestEnv(t)
	h := buildPacked(t, src)
	data, err := src.reg.Save(h)
	if err != nil {
		t.Fatal(err)
	}

	dst := newTestEnv(t)
	lh, err := dst.reg.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	if cur := dst.reg.Current(); cur != lh {
		t.Errorf("current = %d, want loaded atlas %d", cur, lh)
	}
	if s := dst.reg.State(lh); s != StatePacked {
		t.Errorf("state = %v, want packed", s)
	}
	a := src.reg.atlases[h]
	b := dst.reg.atlases[lh]
	if a.width != b.width || a.height != b.height {
		t.Errorf("size = %dx%d, want %dx%d", b.width, b.height, a.width, a.height)
	}
	if a.tileBegin != b.tileBegin || a.tileEnd != b.tileEnd {
		t.Errorf("tileset = [%d,%d), want [%d,%d)", b.tileBegin, b.tileEnd, a.tileBegin, a.tileEnd)
	}
	if len(a.sprites) != len(b.sprites) {
		t.Fatalf("sprite count = %d, want %d", len(b.sprites), len(a.sprites))
	}
	for i := range a.sprites {
		if a.sprites[i] != b.sprites[i] {
			t.Errorf("sprite %d = %+v, want %+v", i, b.sprites[i], a.sprites[i])
		}
	}
	if len(a.fonts) != len(b.fonts) {
		t.Fatalf("font count = %d, want %d", len(b.fonts), len(a.fonts))
	}
	for i, fa := range a.fonts {
		fb := b.fonts[i]
		if fa.Name != fb.Name || fa.SizePts != fb.SizePts {
			t.Errorf("font %d = %q %v, want %q %v", i, fb.Name, fb.SizePts, fa.Name, fa.SizePts)
		}
		if fa.Glyphs != fb.Glyphs || fa.Metrics != fb.Metrics {
			t.Errorf("font %d glyph tables differ", i)
		}
	}
	if !bytes.Equal(a.pix, b.pix) {
		t.Error("pixels differ")
	}
	if n := len(dst.render.textures); n != 1 {
		t.Errorf("%d textures uploaded on load, want 1", n)
	}
	if s, err := dst.reg.TilemapIndexToSprite(lh, 2); err != nil || s != 2 {
		t.Errorf("TilemapIndexToSprite = %d, %v", s, err)
	}

	again, err := dst.reg.Save(lh)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Error("saving a loaded atlas gives different data")
	}
}

func TestLoadAdvancesIDs(t *testing.T) {
	src := newTestEnv(t)
	data, err := src.reg.Save(buildPacked(t, src))
	if err != nil {
		t.Fatal(err)
	}
	dst := newTestEnv(t)
	lh, err := dst.reg.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	maxID := dst.reg.atlases[lh].maxID()
	dst.images.Add("x.png", gradientImage(4, 4))
	h := dst.reg.BeginAtlas()
	s, err := dst.reg.AddSprite(h, "x.png", image.Rect(0, 0, 4, 4), "x")
	if err != nil {
		t.Fatal(err)
	}
	sp, _ := dst.reg.Sprite(h, s)
	if sp.ID <= maxID {
		t.Errorf("new sprite ID %d not above loaded ID %d", sp.ID, maxID)
	}
}

func TestSaveFile(t *testing.T) {
	env := newTestEnv(t)
	h := buildPacked(t, env)
	name := filepath.Join(t.TempDir(), "ui.atlas")
	if err := env.reg.SaveFile(h, name); err != nil {
		t.Fatal(err)
	}
	lh, err := env.reg.LoadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if lh == h {
		t.Errorf("loaded atlas reused live slot %d", h)
	}
	if _, err := env.reg.LoadFile(filepath.Join(t.TempDir(), "missing.atlas")); !errors.Is(err, ErrIO) {
		t.Errorf("missing file: got %v, want ErrIO", err)
	}
}

func TestSaveNotPacked(t *testing.T) {
	env := newTestEnv(t)
	h := env.reg.BeginAtlas()
	if _, err := env.reg.Save(h); !errors.Is(err, ErrNotPacked) {
		t.Errorf("got %v, want ErrNotPacked", err)
	}
}

func TestLoadVersion(t *testing.T) {
	env := newTestEnv(t)
	data, err := env.reg.Save(buildPacked(t, env))
	if err != nil {
		t.Fatal(err)
	}
	binary.LittleEndian.PutUint32(data, 7)
	dst := newTestEnv(t)
	h, err := dst.reg.Load(data)
	var ve *VersionError
	if !errors.As(err, &ve) || ve.Version != 7 || !errors.Is(err, ErrVersionMismatch) {
		t.Errorf("got %v, want version error for 7", err)
	}
	if h != NullHandle || len(dst.reg.atlases) != 0 || dst.reg.Current() != NullHandle {
		t.Error("failed load registered an atlas")
	}
}

func TestLoadCorrupt(t *testing.T) {
	env := newTestEnv(t)
	data, err := env.reg.Save(buildPacked(t, env))
	if err != nil {
		t.Fatal(err)
	}
	dst := newTestEnv(t)
	for _, n := range []int{0, 3, 4, 20, 40, 100, len(data) / 2, len(data) - 1} {
		if _, err := dst.reg.Load(data[:n]); err == nil {
			t.Errorf("truncated to %d bytes: no error", n)
		}
	}
	if _, err := dst.reg.Load(append(data, 0)); err == nil {
		t.Error("trailing data: no error")
	}
	bad := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(bad[4:], 0)
	if _, err := dst.reg.Load(bad); err == nil {
		t.Error("zero height: no error")
	}
	if len(dst.reg.atlases) != 0 {
		t.Error("failed load registered an atlas")
	}
}
