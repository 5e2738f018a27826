package manifest

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/depp/atlaskit/lib/atlas"
	"github.com/depp/atlaskit/lib/font"
	"github.com/depp/atlaskit/lib/getpath"
)

var errMissing = errors.New("missing required attribute")

func (s *Sprite) rect() (image.Rectangle, error) {
	if s.Name == "" || s.Source == "" || s.Left == nil || s.Top == nil || s.Width == nil || s.Height == nil {
		return image.Rectangle{}, errMissing
	}
	x, y := int(*s.Left), int(*s.Top)
	return image.Rect(x, y, x+int(*s.Width), y+int(*s.Height)), nil
}

func (f *Font) spec(path string, log logrus.FieldLogger) (atlas.FontSpec, error) {
	if f.Name == "" || f.Source == "" {
		return atlas.FontSpec{}, errMissing
	}
	spec := atlas.FontSpec{
		Path: getpath.Resolve(path, f.Source),
		Name: f.Name,
	}
	if f.Charset != "" {
		cs, err := font.ReadCharset(getpath.Resolve(path, f.Charset))
		if err != nil {
			return atlas.FontSpec{}, err
		}
		spec.Charset = cs
	}
	for _, opt := range f.Options {
		switch strings.ToLower(opt) {
		case "normal":
		case "italic":
			spec.Style |= atlas.Italic
		case "bold":
			spec.Style |= atlas.Bold
		case "underline":
			spec.Style |= atlas.Underline
		default:
			log.Warnf("unknown font option %q", opt)
		}
	}
	for _, sz := range f.Sizes {
		if sz.Val == nil {
			return atlas.FontSpec{}, errMissing
		}
		var unit atlas.SizeUnit
		switch sz.Type {
		case "pts":
			unit = atlas.Points
		case "pxls":
			unit = atlas.Pixels
		default:
			return atlas.FontSpec{}, fmt.Errorf("unknown size type %q", sz.Type)
		}
		spec.Sizes = append(spec.Sizes, atlas.FontSize{Unit: unit, Val: *sz.Val})
	}
	return spec, nil
}

// EndOptions returns the packing options, with defaults for unset fields.
func (m *Manifest) EndOptions() atlas.EndOptions {
	opts := atlas.DefaultEndOptions()
	if m.Options.Width != 0 {
		opts.InitialWidth = m.Options.Width
	}
	if m.Options.Height != 0 {
		opts.InitialHeight = m.Options.Height
	}
	opts.FitLargest = m.Options.FitLargest
	if m.Options.DebugBitmap != "" {
		opts.DebugBitmap = getpath.Resolve(m.Path, m.Options.DebugBitmap)
	}
	return opts
}

// Build creates an atlas in the registry from the manifest. Sprite and font
// entries which cannot be added are logged and skipped. If the manifest
// names a saved atlas, that atlas is loaded instead.
func Build(reg *atlas.Registry, m *Manifest, log logrus.FieldLogger) (atlas.Handle, error) {
	log = log.WithField("manifest", m.Path)
	if m.Binary != "" {
		return reg.LoadFile(getpath.Resolve(m.Path, m.Binary))
	}
	h := reg.BeginAtlas()
	if err := build(reg, h, m, log); err != nil {
		if derr := reg.DestroyAtlas(h); derr != nil {
			log.Warn(derr)
		}
		return atlas.NullHandle, err
	}
	return h, nil
}

func build(reg *atlas.Registry, h atlas.Handle, m *Manifest, log logrus.FieldLogger) error {
	if m.TilesetStart != nil {
		if err := reg.BeginTileset(h, *m.TilesetStart); err != nil {
			return err
		}
	}
	if m.TilesetEnd != nil {
		if err := reg.EndTileset(h, *m.TilesetEnd); err != nil {
			return err
		}
	}
	for i := range m.Sprites {
		s := &m.Sprites[i]
		slog := log.WithFields(logrus.Fields{"sprite": i, "name": s.Name})
		r, err := s.rect()
		if err != nil {
			slog.Warn(err)
			continue
		}
		if _, err := reg.AddSprite(h, getpath.Resolve(m.Path, s.Source), r, s.Name); err != nil {
			slog.Warn(err)
		}
	}
	for i := range m.Fonts {
		f := &m.Fonts[i]
		flog := log.WithFields(logrus.Fields{"font": i, "name": f.Name})
		spec, err := f.spec(m.Path, flog)
		if err != nil {
			flog.Warn(err)
			continue
		}
		if _, err := reg.AddFont(h, spec); err != nil {
			flog.Warn(err)
		}
	}
	if _, err := reg.EndAtlas(h, m.EndOptions()); err != nil {
		return err
	}
	return nil
}
