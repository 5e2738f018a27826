// Package manifest reads atlas descriptions and builds atlases from them.
//
// A manifest is a TOML file:
//
//	tileset_start = 1
//	tileset_end = 4
//
//	[options]
//	width = 512
//	height = 512
//
//	[[sprite]]
//	name = "hero"
//	source = "chars.png"
//	left = 0
//	top = 0
//	width = 16
//	height = 16
//
//	[[font]]
//	name = "Body"
//	source = "fonts/body.ttf"
//	options = ["bold"]
//	[[font.size]]
//	type = "pts"
//	val = 12.0
//
// If binary is set, it names a saved atlas which is loaded instead, and the
// rest of the manifest is ignored. Paths are relative to the manifest.
package manifest

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// A Manifest describes one atlas.
type Manifest struct {
	Binary       string   `toml:"binary"`
	TilesetStart *int32   `toml:"tileset_start"`
	TilesetEnd   *int32   `toml:"tileset_end"`
	Options      Options  `toml:"options"`
	Sprites      []Sprite `toml:"sprite"`
	Fonts        []Font   `toml:"font"`

	// Path is the manifest file, used to resolve relative paths.
	Path string `toml:"-"`
}

// Options controls packing. Zero values get defaults.
type Options struct {
	Width       int32  `toml:"width"`
	Height      int32  `toml:"height"`
	FitLargest  bool   `toml:"fit_largest"`
	DebugBitmap string `toml:"debug_bitmap"`
}

// A Sprite is a rectangle cropped from a source image. Every field is
// required.
type Sprite struct {
	Name   string `toml:"name"`
	Source string `toml:"source"`
	Left   *int32 `toml:"left"`
	Top    *int32 `toml:"top"`
	Width  *int32 `toml:"width"`
	Height *int32 `toml:"height"`
}

// A Font is a font file rasterized at one or more sizes.
type Font struct {
	Name    string   `toml:"name"`
	Source  string   `toml:"source"`
	Options []string `toml:"options"`
	Sizes   []Size   `toml:"size"`

	// Charset is an optional character set file. Only the characters it
	// lists are added.
	Charset string `toml:"charset"`
}

// A Size is a font size, with type "pts" or "pxls".
type Size struct {
	Type string   `toml:"type"`
	Val  *float64 `toml:"val"`
}

// Decode reads a manifest. The path is used to resolve relative paths.
func Decode(r io.Reader, path string, log logrus.FieldLogger) (*Manifest, error) {
	var m Manifest
	md, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) != 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		log.WithField("manifest", path).Warn("unknown keys: ", strings.Join(names, ", "))
	}
	m.Path = path
	return &m, nil
}

// ReadFile reads a manifest file.
func ReadFile(filename string, log logrus.FieldLogger) (*Manifest, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Decode(fp, filename, log)
}
