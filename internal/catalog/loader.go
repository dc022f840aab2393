package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AppsFileSuffix marks per-category catalog files produced by the scraper.
const AppsFileSuffix = "_apps.json"

// LoadEntries reads a catalog file for composition. Entries missing a title,
// icon or description get the placeholder strings instead of failing.
func LoadEntries(path string) ([]Entry, error) {
	entries, err := readEntries(path)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.WithPlaceholders())
	}
	return out, nil
}

func readEntries(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return entries, nil
}

// AppsFiles lists the *_apps.json files in dir, sorted by name.
func AppsFiles(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list catalogs in %s: %w", dir, err)
	}
	var files []string
	for _, de := range des {
		if de.IsDir() || !strings.HasSuffix(de.Name(), AppsFileSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, de.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// WriteFile stores entries as an indented JSON array.
func WriteFile(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}
