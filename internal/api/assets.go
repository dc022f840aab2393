package api

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/youruser/iconscreen/internal/compose"
	imagepkg "github.com/youruser/iconscreen/internal/image"
	"github.com/youruser/iconscreen/internal/util"
)

var errLocalRef = errors.New("local files must be relative paths inside the asset directory")

// checkRef rejects references a client may not use: anything that is not an
// http(s) URL, a qr: text (icons only), or a relative path when an asset
// directory is configured.
func checkRef(assets *os.Root, ref string, allowQR bool) error {
	if util.IsURL(ref) {
		return nil
	}
	if allowQR && strings.HasPrefix(ref, imagepkg.QRScheme) {
		return nil
	}
	if assets == nil || !filepath.IsLocal(ref) {
		return fmt.Errorf("%s: %w", ref, errLocalRef)
	}
	return nil
}

func openAsset(assets *os.Root, ref string) (image.Image, error) {
	f, err := assets.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}

// assetIcons loads client-supplied icons. Local references resolve inside the
// asset root only.
type assetIcons struct {
	assets *os.Root
	remote imagepkg.IconLoader
}

func (a assetIcons) LoadIcon(ctx context.Context, ref string, size image.Point) (image.Image, error) {
	if err := checkRef(a.assets, ref, true); err != nil {
		return nil, fmt.Errorf("%w %w", imagepkg.ErrIconUnavailable, err)
	}
	if util.IsURL(ref) || strings.HasPrefix(ref, imagepkg.QRScheme) {
		return a.remote.LoadIcon(ctx, ref, size)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w %s: invalid size %v", imagepkg.ErrIconUnavailable, ref, size)
	}
	img, err := openAsset(a.assets, ref)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", imagepkg.ErrIconUnavailable, ref, err)
	}
	return imagepkg.Stretch(img, size), nil
}

func (s *Service) openBackground(ctx context.Context, ref string) (compose.Background, error) {
	if err := checkRef(s.Assets, ref, false); err != nil {
		return compose.Background{}, err
	}
	if util.IsURL(ref) {
		return compose.OpenBackground(ctx, s.Client, ref)
	}
	img, err := openAsset(s.Assets, ref)
	if err != nil {
		return compose.Background{}, fmt.Errorf("background: %w", err)
	}
	return compose.Background{Name: filepath.Base(ref), Image: img}, nil
}
