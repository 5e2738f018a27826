package font

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/depp/atlaskit/lib/texture"
)

func parseRegular(t *testing.T) *Face {
	t.Helper()
	f, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRasterize(t *testing.T) {
	f := parseRegular(t)
	for _, c := range []byte("Ag%") {
		t.Run(string(rune(c)), func(t *testing.T) {
			g, ok, err := f.Rasterize(16, c)
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Fatal("missing glyph")
			}
			if texture.IsEmpty(g.Image) {
				t.Error("glyph has no ink")
			}
			if g.Metrics.AdvanceX <= 0 {
				t.Errorf("advance = %v, want > 0", g.Metrics.AdvanceX)
			}
			if g.Metrics.BearingY <= 0 {
				t.Errorf("bearing y = %v, want > 0", g.Metrics.BearingY)
			}
			b := g.Image.Bounds()
			px := g.Image.Pix
			for i := 0; i < len(px); i += 4 {
				if px[i] != px[i+3] {
					t.Fatalf("pixel %d: color %d != alpha %d", i/4, px[i], px[i+3])
				}
			}
			if b.Dx() == 0 || b.Dy() == 0 {
				t.Errorf("glyph bounds %v are empty", b)
			}
		})
	}
}

func TestRasterizeSpace(t *testing.T) {
	f := parseRegular(t)
	g, ok, err := f.Rasterize(16, ' ')
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("missing glyph for space")
	}
	if !texture.IsEmpty(g.Image) {
		t.Error("space has ink")
	}
	if g.Metrics.AdvanceX <= 0 {
		t.Errorf("advance = %v, want > 0", g.Metrics.AdvanceX)
	}
}

func TestRasterizeSizes(t *testing.T) {
	f := parseRegular(t)
	small, _, err := f.Rasterize(8, 'M')
	if err != nil {
		t.Fatal(err)
	}
	large, _, err := f.Rasterize(32, 'M')
	if err != nil {
		t.Fatal(err)
	}
	if large.Image.Bounds().Dy() <= small.Image.Bounds().Dy() {
		t.Errorf("32pt glyph height %d not larger than 8pt height %d",
			large.Image.Bounds().Dy(), small.Image.Bounds().Dy())
	}
	if _, _, err := f.Rasterize(0, 'M'); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("not a font"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open("/nonexistent/font.ttf")
	if err == nil || errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want I/O error", err)
	}
}

func TestEncode(t *testing.T) {
	got := Encode("hé€y")
	want := []byte{'h', 0xe9, 'y'}
	if string(got) != string(want) {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

func TestPixelsToPoints(t *testing.T) {
	if got := PixelsToPoints(92); got != 72 {
		t.Errorf("PixelsToPoints(92) = %v, want 72", got)
	}
}
