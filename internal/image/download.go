package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/youruser/iconscreen/internal/util"
)

// DownloadImage fetches url with client, bounded by ctx, and decodes the body.
// A nil client uses http.DefaultClient.
func DownloadImage(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	body, err := util.GetBytes(ctx, client, url)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}

// OpenImage decodes a local file or, for http(s) references, a remote one.
func OpenImage(ctx context.Context, client *http.Client, ref string) (image.Image, error) {
	if util.IsURL(ref) {
		return DownloadImage(ctx, client, ref)
	}
	img, err := imaging.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	return img, nil
}
