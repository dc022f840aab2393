package imagepkg

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// NewCanvas copies a background into a mutable NRGBA canvas of the same size.
func NewCanvas(background image.Image) *image.NRGBA {
	return imaging.Clone(background)
}

// PasteMasked draws img onto canvas at pt in place, using img's own alpha as
// the mask. Parts falling outside the canvas are clipped.
func PasteMasked(canvas draw.Image, img image.Image, pt image.Point) {
	r := image.Rectangle{Min: pt, Max: pt.Add(img.Bounds().Size())}
	draw.Draw(canvas, r, img, img.Bounds().Min, draw.Over)
}

// Flatten returns an opaque copy of img. Colour channels are kept as they
// are and the alpha channel is dropped.
func Flatten(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// CompositeFileName returns the image name for a composite index.
func CompositeFileName(idx, ext string) string {
	return "combined_image_" + idx + "." + strings.TrimPrefix(ext, ".")
}

// Format resolves an output extension such as "jpg" or "png".
func Format(ext string) (imaging.Format, error) {
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(ext, "."))
	if err != nil {
		return 0, fmt.Errorf("output format %q: %w", ext, err)
	}
	return f, nil
}

// SaveImage writes img to path; the format follows the file extension.
func SaveImage(img image.Image, path string) error {
	if _, err := Format(filepath.Ext(path)); err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format imaging.Format) error {
	return imaging.Encode(w, img, format)
}
