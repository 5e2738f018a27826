package texture

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// NewView wraps a tightly packed buffer of width*height pixels.
func NewView(pix []byte, width, height int) (*image.RGBA, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid view size %dx%d", width, height)
	}
	if n := width * height * Channels; len(pix) != n {
		return nil, fmt.Errorf("buffer is %d bytes, expected %d for %dx%d", len(pix), n, width, height)
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: width * Channels,
		Rect:   image.Rectangle{Max: image.Point{X: width, Y: height}},
	}, nil
}

// CopyRect copies the region sr of src into dst with its top-left at dp.
// Both regions must lie inside their images.
func CopyRect(dst *image.RGBA, dp image.Point, src *image.RGBA, sr image.Rectangle) error {
	if sr.Empty() {
		return nil
	}
	if !sr.In(src.Rect) {
		return fmt.Errorf("source rect %v outside %v", sr, src.Rect)
	}
	dr := image.Rectangle{Min: dp, Max: dp.Add(sr.Size())}
	if !dr.In(dst.Rect) {
		return fmt.Errorf("destination rect %v outside %v", dr, dst.Rect)
	}
	draw.Copy(dst, dp, src, sr, draw.Src, nil)
	return nil
}

// Crop returns a tightly packed copy of the region r of src.
func Crop(src *image.RGBA, r image.Rectangle) (*image.RGBA, error) {
	out := image.NewRGBA(image.Rectangle{Max: r.Size()})
	if err := CopyRect(out, image.Point{}, src, r); err != nil {
		return nil, err
	}
	return out, nil
}

// BlitBordered copies src into dst so that the bordered region starts at p
// and src itself starts at p+(border, border). The outermost rows and columns
// of src are repeated into the border so that bilinear filtering at the edge
// of the sprite does not pick up its neighbors. The corners are left alone.
func BlitBordered(dst *image.RGBA, p image.Point, src *image.RGBA, border int) error {
	sb := src.Rect
	if sb.Empty() {
		return nil
	}
	in := p.Add(image.Point{X: border, Y: border})
	if err := CopyRect(dst, in, src, sb); err != nil {
		return err
	}
	w, h := sb.Dx(), sb.Dy()
	top := image.Rect(sb.Min.X, sb.Min.Y, sb.Max.X, sb.Min.Y+1)
	bottom := image.Rect(sb.Min.X, sb.Max.Y-1, sb.Max.X, sb.Max.Y)
	left := image.Rect(sb.Min.X, sb.Min.Y, sb.Min.X+1, sb.Max.Y)
	right := image.Rect(sb.Max.X-1, sb.Min.Y, sb.Max.X, sb.Max.Y)
	for i := 1; i <= border; i++ {
		if err := CopyRect(dst, image.Pt(in.X, in.Y-i), src, top); err != nil {
			return err
		}
		if err := CopyRect(dst, image.Pt(in.X, in.Y+h-1+i), src, bottom); err != nil {
			return err
		}
		if err := CopyRect(dst, image.Pt(in.X-i, in.Y), src, left); err != nil {
			return err
		}
		if err := CopyRect(dst, image.Pt(in.X+w-1+i, in.Y), src, right); err != nil {
			return err
		}
	}
	return nil
}
