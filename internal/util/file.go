package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImageExtensions are the background formats picked up by ListImages.
var ImageExtensions = []string{".png", ".jpg", ".jpeg"}

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// IndexedImage is an image file and its position in its directory listing.
type IndexedImage struct {
	Index int
	Path  string
}

// IndexImages lists dir sorted by name and returns its image files. Index is
// the position among all entries, non-image files and subdirectories
// included. Extensions match case-insensitively.
func IndexImages(dir string) ([]IndexedImage, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list images in %s: %w", dir, err)
	}
	var out []IndexedImage
	for i, de := range des {
		if !de.Type().IsRegular() || !IsImageFile(de.Name()) {
			continue
		}
		out = append(out, IndexedImage{Index: i, Path: filepath.Join(dir, de.Name())})
	}
	return out, nil
}

// ListImages returns the image files directly inside dir, sorted by name.
func ListImages(dir string) ([]string, error) {
	images, err := IndexImages(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(images))
	for _, img := range images {
		out = append(out, img.Path)
	}
	return out, nil
}

func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
