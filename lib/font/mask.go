package font

import (
	"image"

	"golang.org/x/image/draw"
)

// drawMask copies the coverage in region sr of mask into dst.
func drawMask(dst *image.Alpha, mask image.Image, sr image.Rectangle) {
	draw.Copy(dst, image.Point{}, mask, sr, draw.Src, nil)
}
