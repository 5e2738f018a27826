package atlas

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

// atlasPixel returns the pixel at (x, y) in a packed atlas.
func atlasPixel(pix []byte, width int32, x, y int32) [4]byte {
	i := (int(y)*int(width) + int(x)) * 4
	return [4]byte{pix[i], pix[i+1], pix[i+2], pix[i+3]}
}

func checkUV(t *testing.T, name string, s Sprite, width, height int32) {
	t.Helper()
	uv := s.UV
	for _, c := range []float32{uv.U0, uv.V0, uv.U1, uv.V1} {
		if c < 0 || c > 1 {
			t.Errorf("%s: UV %+v outside [0,1]", name, uv)
			break
		}
	}
	const tolerance = 1e-3
	if d := float64((uv.U1-uv.U0)*float32(width) - float32(s.Width)); math.Abs(d) > tolerance {
		t.Errorf("%s: UV width %v, want %d", name, (uv.U1-uv.U0)*float32(width), s.Width)
	}
	if d := float64((uv.V1-uv.V0)*float32(height) - float32(s.Height)); math.Abs(d) > tolerance {
		t.Errorf("%s: UV height %v, want %d", name, (uv.V1-uv.V0)*float32(height), s.Height)
	}
}

func spriteRect(s Sprite) image.Rectangle {
	return image.Rect(int(s.X), int(s.Y), int(s.X+s.Width), int(s.Y+s.Height))
}

func TestHeroVillain(t *testing.T) {
	env := newTestEnv(t)
	src := gradientImage(32, 16)
	env.images.Add("chars.png", src)
	r := env.reg
	h := r.BeginAtlas()
	if _, err := r.AddSprite(h, "chars.png", image.Rect(0, 0, 16, 16), "hero"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddSprite(h, "chars.png", image.Rect(16, 0, 32, 16), "villain"); err != nil {
		t.Fatal(err)
	}
	tex, err := r.EndAtlas(h, DefaultEndOptions())
	if err != nil {
		t.Fatal(err)
	}
	if r.State(h) != StatePacked {
		t.Errorf("state = %v, want packed", r.State(h))
	}
	w, ht, err := r.Size(h)
	if err != nil {
		t.Fatal(err)
	}
	if w < 16 || ht < 16 {
		t.Errorf("atlas size %dx%d too small", w, ht)
	}
	if got, ok := r.Texture(h); !ok || got != tex {
		t.Errorf("texture = %d, %t, want %d", got, ok, tex)
	}
	if n := len(env.render.textures); n != 1 {
		t.Errorf("%d textures uploaded, want 1", n)
	}
	pix, err := r.Pixels(h)
	if err != nil {
		t.Fatal(err)
	}
	hs, err := r.FindSprite(h, "hero")
	if err != nil {
		t.Fatal(err)
	}
	vs, err := r.FindSprite(h, "villain")
	if err != nil {
		t.Fatal(err)
	}
	hero, _ := r.Sprite(h, hs)
	villain, _ := r.Sprite(h, vs)
	checkUV(t, "hero", hero, w, ht)
	checkUV(t, "villain", villain, w, ht)
	if spriteRect(hero).Inset(-1).Overlaps(spriteRect(villain).Inset(-1)) {
		t.Errorf("bordered sprites overlap: %v, %v", spriteRect(hero), spriteRect(villain))
	}
	for _, s := range []Sprite{hero, villain} {
		for y := int32(0); y < s.Height; y++ {
			for x := int32(0); x < s.Width; x++ {
				got := atlasPixel(pix, w, s.X+x, s.Y+y)
				o := src.PixOffset(int(s.SrcX+x), int(s.SrcY+y))
				want := [4]byte{src.Pix[o], src.Pix[o+1], src.Pix[o+2], src.Pix[o+3]}
				if got != want {
					t.Fatalf("%s: pixel (%d,%d) = %v, want %v", s.Name, x, y, got, want)
				}
			}
		}
	}
	if _, err := r.FindSprite(h, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindSprite: got %v, want ErrNotFound", err)
	}
}

func TestPackedSprites(t *testing.T) {
	env := newTestEnv(t)
	rnd := rand.New(rand.NewSource(99))
	src := gradientImage(256, 256)
	env.images.Add("sheet.png", src)
	r := env.reg
	h := r.BeginAtlas()
	const count = 60
	for i := 0; i < count; i++ {
		w := 1 + rnd.Intn(40)
		ht := 1 + rnd.Intn(40)
		x := rnd.Intn(256 - w)
		y := rnd.Intn(256 - ht)
		if _, err := r.AddSprite(h, "sheet.png", image.Rect(x, y, x+w, y+ht), fmt.Sprint("s", i)); err != nil {
			t.Fatal(err)
		}
	}
	opts := DefaultEndOptions()
	opts.InitialWidth = 32
	opts.InitialHeight = 32
	if _, err := r.EndAtlas(h, opts); err != nil {
		t.Fatal(err)
	}
	w, ht, _ := r.Size(h)
	pix, _ := r.Pixels(h)
	var rects []image.Rectangle
	for i := 0; i < count; i++ {
		s, err := r.Sprite(h, SpriteHandle(i))
		if err != nil {
			t.Fatal(err)
		}
		checkUV(t, s.Name, s, w, ht)
		br := spriteRect(s).Inset(-1)
		if !br.In(image.Rect(0, 0, int(w), int(ht))) {
			t.Errorf("%s: bordered rect %v outside atlas", s.Name, br)
		}
		for _, o := range rects {
			if o.Overlaps(br) {
				t.Errorf("%s: bordered rect %v overlaps %v", s.Name, br, o)
			}
		}
		rects = append(rects, br)

		// Each border pixel repeats the adjacent interior pixel.
		x0, y0, x1, y1 := s.X, s.Y, s.X+s.Width-1, s.Y+s.Height-1
		for y := y0; y <= y1; y++ {
			if a, b := atlasPixel(pix, w, x0-1, y), atlasPixel(pix, w, x0, y); a != b {
				t.Fatalf("%s: left border %v != %v", s.Name, a, b)
			}
			if a, b := atlasPixel(pix, w, x1+1, y), atlasPixel(pix, w, x1, y); a != b {
				t.Fatalf("%s: right border %v != %v", s.Name, a, b)
			}
		}
		for x := x0; x <= x1; x++ {
			if a, b := atlasPixel(pix, w, x, y0-1), atlasPixel(pix, w, x, y0); a != b {
				t.Fatalf("%s: top border %v != %v", s.Name, a, b)
			}
			if a, b := atlasPixel(pix, w, x, y1+1), atlasPixel(pix, w, x, y1); a != b {
				t.Fatalf("%s: bottom border %v != %v", s.Name, a, b)
			}
		}
	}
}

func TestEndAtlasEmpty(t *testing.T) {
	env := newTestEnv(t)
	r := env.reg
	h := r.BeginAtlas()
	tex, err := r.EndAtlas(h, DefaultEndOptions())
	if !errors.Is(err, ErrEmptyAtlas) || tex != 0 {
		t.Errorf("got %d, %v, want ErrEmptyAtlas", tex, err)
	}
	if s := r.State(h); s != StateAccumulating {
		t.Errorf("state = %v, want accumulating", s)
	}
	if n := len(env.render.textures); n != 0 {
		t.Errorf("%d textures uploaded, want 0", n)
	}
}

func TestEndAtlasTwice(t *testing.T) {
	env := newTestEnv(t)
	env.images.Add("a.png", gradientImage(4, 4))
	r := env.reg
	h := r.BeginAtlas()
	if _, err := r.AddSprite(h, "a.png", image.Rect(0, 0, 4, 4), "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.EndAtlas(h, EndOptions{FitLargest: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.EndAtlas(h, DefaultEndOptions()); !errors.Is(err, ErrAlreadyPacked) {
		t.Errorf("EndAtlas: got %v, want ErrAlreadyPacked", err)
	}
	if _, err := r.AddSprite(h, "a.png", image.Rect(0, 0, 2, 2), "b"); !errors.Is(err, ErrAlreadyPacked) {
		t.Errorf("AddSprite: got %v, want ErrAlreadyPacked", err)
	}
	if err := r.DestroyAtlas(h); err != nil {
		t.Fatal(err)
	}
	if len(env.render.destroyed) != 1 || len(env.render.textures) != 0 {
		t.Errorf("texture not destroyed: %v", env.render.destroyed)
	}
}

func TestEndAtlasOptions(t *testing.T) {
	env := newTestEnv(t)
	env.images.Add("a.png", gradientImage(8, 8))
	r := env.reg
	h := r.BeginAtlas()
	if _, err := r.AddSprite(h, "a.png", image.Rect(0, 0, 8, 8), "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.EndAtlas(h, EndOptions{InitialWidth: 0, InitialHeight: 16}); err == nil {
		t.Error("expected error for zero initial width")
	}
	bmp := filepath.Join(t.TempDir(), "debug.bmp")
	opts := DefaultEndOptions()
	opts.DebugBitmap = bmp
	if _, err := r.EndAtlas(h, opts); err != nil {
		t.Fatal(err)
	}
	if w, ht, _ := r.Size(h); w != DefaultWidth || ht != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", w, ht, DefaultWidth, DefaultHeight)
	}
	if _, err := os.Stat(bmp); err != nil {
		t.Errorf("debug bitmap not written: %v", err)
	}
}

func TestNoRenderer(t *testing.T) {
	reg, err := NewRegistry(Config{Log: quietLog()})
	if err != nil {
		t.Fatal(err)
	}
	h := reg.BeginAtlas()
	if _, err := reg.AddFont(h, FontSpec{Path: "missing.ttf", Name: "x", Sizes: []FontSize{{Val: 8}}}); !errors.Is(err, ErrIO) {
		t.Errorf("got %v, want ErrIO", err)
	}
	if _, ok := reg.Texture(h); ok {
		t.Error("unpacked atlas has a texture")
	}
}
