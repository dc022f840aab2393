package imagepkg

import (
	"image"

	"github.com/disintegration/imaging"
)

// RoundCorners returns a copy of img whose alpha is fully opaque inside a
// rounded rectangle covering the whole image and fully transparent outside.
// The source alpha is discarded. The radius is clamped to half the shorter
// side, so oversized radii give a pill or circle.
func RoundCorners(img image.Image, radius int) *image.NRGBA {
	dst := imaging.Clone(img)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	r := min(max(radius, 0), min(w, h)/2)
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			a := uint8(0xff)
			if !insideRounded(x, y, w, h, r) {
				a = 0
			}
			row[x*4+3] = a
		}
	}
	return dst
}

// insideRounded folds (x, y) into the top-left quadrant and tests it against
// the corner circle centred at (r, r).
func insideRounded(x, y, w, h, r int) bool {
	fx := min(x, w-1-x)
	fy := min(y, h-1-y)
	if r == 0 || fx >= r || fy >= r {
		return true
	}
	dx, dy := r-fx, r-fy
	return dx*dx+dy*dy <= r*r
}
