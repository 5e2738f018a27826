package texture

import (
	"errors"
	"fmt"
	"image"
)

// Downscale returns an image scaled down by the given number of factors of
// two in the X and Y directions, averaging each block of pixels. Channels are
// averaged independently, so straight alpha is preserved.
func Downscale(im *image.RGBA, xbits, ybits int) (*image.RGBA, error) {
	if xbits < 0 || 15 < xbits || ybits < 0 || 15 < ybits {
		return nil, fmt.Errorf("invalid scale: (%d, %d)", xbits, ybits)
	}
	xsize := im.Rect.Dx()
	ysize := im.Rect.Dy()
	xsize2 := xsize >> xbits
	ysize2 := ysize >> ybits
	if xsize2<<xbits != xsize || ysize2<<ybits != ysize {
		return nil, fmt.Errorf("image with size (%d, %d) not divisible by (%d, %d)",
			xsize, ysize, 1<<xbits, 1<<ybits)
	}
	out := image.NewRGBA(image.Rectangle{
		Max: image.Point{X: xsize2, Y: ysize2},
	})
	shift := xbits + ybits
	round := uint32(1) << shift >> 1
	for y := 0; y < ysize2; y++ {
		for x := 0; x < xsize2; x++ {
			var sum [Channels]uint32
			for yy := 0; yy < (1 << ybits); yy++ {
				offset := im.Stride*((y<<ybits)+yy) + (x << xbits * Channels)
				n := Channels << xbits
				slice := im.Pix[offset : offset+n : offset+n]
				for xx := 0; xx < n; xx += Channels {
					for c := range sum {
						sum[c] += uint32(slice[xx+c])
					}
				}
			}
			off := y*out.Stride + x*Channels
			pix := out.Pix[off : off+Channels : off+Channels]
			for c, s := range sum {
				pix[c] = uint8((s + round) >> shift)
			}
		}
	}
	return out, nil
}

// ShrinkToFit halves the image along each axis which is larger than maxSize,
// until it fits. Rows and columns past the last whole block on the right and
// bottom edges are dropped.
func ShrinkToFit(im *image.RGBA, maxSize int) (*image.RGBA, error) {
	if maxSize < 1 {
		return nil, errors.New("invalid maximum size")
	}
	xsize, ysize := im.Rect.Dx(), im.Rect.Dy()
	var xbits, ybits int
	for xsize > maxSize {
		xsize >>= 1
		xbits++
	}
	for ysize > maxSize {
		ysize >>= 1
		ybits++
	}
	crop := image.Rectangle{
		Min: im.Rect.Min,
		Max: im.Rect.Min.Add(image.Point{X: xsize << xbits, Y: ysize << ybits}),
	}
	if crop != im.Rect {
		im = im.SubImage(crop).(*image.RGBA)
	}
	return Downscale(im, xbits, ybits)
}
