// Package texture manipulates the RGBA pixel buffers that sprites and atlases
// are built from.
//
// Buffers hold four bytes per pixel with straight (non-premultiplied) alpha.
// They are carried in an *image.RGBA so the draw package's byte-copy fast
// paths apply; the bytes are never reinterpreted as premultiplied color.
package texture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Channels is the number of bytes per pixel in every buffer.
const Channels = 4

// ReadPNG reads an image file.
func ReadPNG(filename string) (image.Image, error) {
	ext := filepath.Ext(filename)
	if !strings.EqualFold(ext, ".png") {
		return nil, fmt.Errorf("file does not have .png extension: %q", filename)
	}
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	im, err := png.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", filename, err)
	}
	return im, nil
}

// Raw returns the image's straight-alpha bytes in an RGBA container. NRGBA
// images share their pixel memory with the result.
func Raw(im image.Image) *image.RGBA {
	switch im := im.(type) {
	case *image.NRGBA:
		return &image.RGBA{Pix: im.Pix, Stride: im.Stride, Rect: im.Rect}
	case *image.RGBA:
		return im
	}
	b := im.Bounds()
	n := image.NewNRGBA(b)
	draw.Draw(n, b, im, b.Min, draw.Src)
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}

// FromAlpha expands an 8-bit coverage mask to four channels, copying the
// coverage into each of R, G, B and A.
func FromAlpha(m *image.Alpha) *image.RGBA {
	b := m.Rect
	out := image.NewRGBA(image.Rectangle{Max: b.Size()})
	xsz := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		src := m.Pix[y*m.Stride : y*m.Stride+xsz]
		dst := out.Pix[y*out.Stride : y*out.Stride+xsz*Channels]
		for x, c := range src {
			pix := dst[x*Channels : x*Channels+Channels : x*Channels+Channels]
			pix[0] = c
			pix[1] = c
			pix[2] = c
			pix[3] = c
		}
	}
	return out
}

// IsEmpty returns true if the image contains no pixels with non-zero alpha.
func IsEmpty(im *image.RGBA) bool {
	var alpha byte
	ysz := im.Rect.Dy()
	xsz := im.Rect.Dx()
	for y := 0; y < ysz; y++ {
		off := y * im.Stride
		row := im.Pix[off : off+xsz*Channels : off+xsz*Channels]
		for x := 0; x < xsz; x++ {
			alpha |= row[x*Channels+3]
		}
	}
	return alpha == 0
}

// WritePNG writes the buffer as a PNG file with straight alpha.
func WritePNG(filename string, im *image.RGBA) error {
	n := &image.NRGBA{Pix: im.Pix, Stride: im.Stride, Rect: im.Rect}
	return writeFile(filename, func(fp *os.File) error {
		return png.Encode(fp, n)
	})
}

// WriteBMP writes the buffer as an uncompressed bitmap, for inspecting an
// assembled atlas.
func WriteBMP(filename string, im *image.RGBA) error {
	return writeFile(filename, func(fp *os.File) error {
		return bmp.Encode(fp, im)
	})
}

func writeFile(filename string, enc func(fp *os.File) error) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := enc(fp); err != nil {
		return fmt.Errorf("could not encode %q: %w", filename, err)
	}
	return fp.Close()
}
