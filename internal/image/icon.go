package imagepkg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/youruser/iconscreen/internal/catalog"
	"github.com/youruser/iconscreen/internal/util"
)

// ErrIconUnavailable wraps every failure to produce an icon bitmap.
var ErrIconUnavailable = errors.New("icon unavailable")

// QRScheme prefixes icon references that are rendered as QR codes of the
// remaining text.
const QRScheme = "qr:"

// IconSource resolves an icon reference to a bitmap of exactly size.
type IconSource interface {
	LoadIcon(ctx context.Context, ref string, size image.Point) (image.Image, error)
}

// IconLoader reads icons from local paths, http(s) URLs or qr: references.
// Nothing is cached; repeated references are fetched again.
type IconLoader struct {
	Client *http.Client
}

func (l IconLoader) LoadIcon(ctx context.Context, ref string, size image.Point) (image.Image, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w %s: invalid size %v", ErrIconUnavailable, ref, size)
	}
	var (
		img image.Image
		err error
	)
	if payload, ok := strings.CutPrefix(ref, QRScheme); ok {
		img, err = GenerateQRImage(payload, max(size.X, size.Y))
	} else {
		img, err = OpenImage(ctx, l.Client, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrIconUnavailable, ref, err)
	}
	return Stretch(img, size), nil
}

// Stretch resizes img to exactly size without preserving the aspect ratio.
func Stretch(img image.Image, size image.Point) *image.NRGBA {
	return imaging.Resize(img, size.X, size.Y, imaging.CatmullRom)
}

// DatasetSource serves preloaded images keyed by reference.
type DatasetSource struct {
	images map[string]image.Image
}

func (d *DatasetSource) LoadIcon(_ context.Context, ref string, size image.Point) (image.Image, error) {
	img, ok := d.images[ref]
	if !ok {
		return nil, fmt.Errorf("%w %s: not in dataset", ErrIconUnavailable, ref)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w %s: invalid size %v", ErrIconUnavailable, ref, size)
	}
	return Stretch(img, size), nil
}

// Len returns the number of images held.
func (d *DatasetSource) Len() int {
	return len(d.images)
}

// LoadDataset decodes every image in dir. Each image becomes an anonymous
// catalog entry titled after its file name, with the path as icon reference.
func LoadDataset(dir string) ([]catalog.Entry, *DatasetSource, error) {
	paths, err := util.ListImages(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no images found in %s", dir)
	}
	src := &DatasetSource{images: make(map[string]image.Image, len(paths))}
	entries := make([]catalog.Entry, 0, len(paths))
	for _, p := range paths {
		img, err := imaging.Open(p)
		if err != nil {
			return nil, nil, fmt.Errorf("open dataset image %s: %w", p, err)
		}
		src.images[p] = img
		entries = append(entries, catalog.Entry{
			Title: datasetTitle(p),
			Icon:  p,
		}.WithPlaceholders())
	}
	return entries, src, nil
}

func datasetTitle(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	}), " ")
}
