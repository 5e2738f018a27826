package font

import (
	"strings"
	"testing"
)

func TestParseCharset(t *testing.T) {
	const text = `
# Digits and a few symbols.
range 0 9
chars ! $$ $e9 é   # duplicates are fine
`
	s, err := ParseCharset(strings.NewReader(text), "test")
	if err != nil {
		t.Fatal(err)
	}
	if n := s.Len(); n != 13 {
		t.Errorf("Len = %d, want 13", n)
	}
	for _, c := range []byte("0159!$\xe9") {
		if !s.Has(c) {
			t.Errorf("missing %q", c)
		}
	}
	if s.Has('a') {
		t.Error("unexpected 'a'")
	}
	var all *Charset
	if !all.Has('a') || all.Len() != CodeCount {
		t.Error("nil charset is not full")
	}
}

func TestParseCharsetErrors(t *testing.T) {
	for _, text := range []string{
		"range a",
		"range z a",
		"chars",
		"chars ab",
		"chars €",
		"chars $zz",
		"glyphs a",
	} {
		if _, err := ParseCharset(strings.NewReader(text), "test"); err == nil {
			t.Errorf("%q: expected error", text)
		}
	}
}
