package catalog

import (
	"errors"
	"fmt"
)

// ErrMissingIdentity is returned when a merge input entry has no id.
var ErrMissingIdentity = errors.New("catalog entry has no id")

// Merge concatenates catalogs in the order given and drops every entry whose
// id was already accepted. The first occurrence wins. A numeric id never
// matches a string id with the same digits.
func Merge(catalogs ...[]Entry) ([]Entry, error) {
	var out []Entry
	seen := map[string]struct{}{}
	for ci, entries := range catalogs {
		for i, e := range entries {
			if e.ID == "" {
				return nil, fmt.Errorf("catalog %d entry %d: %w", ci, i, ErrMissingIdentity)
			}
			key := e.identity()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, e)
		}
	}
	return out, nil
}

// MergeFiles reads and merges catalog files in the order given.
func MergeFiles(paths []string) ([]Entry, error) {
	catalogs := make([][]Entry, 0, len(paths))
	for _, p := range paths {
		entries, err := readEntries(p)
		if err != nil {
			return nil, err
		}
		for i, e := range entries {
			if e.ID == "" {
				return nil, fmt.Errorf("%s entry %d: %w", p, i, ErrMissingIdentity)
			}
		}
		catalogs = append(catalogs, entries)
	}
	return Merge(catalogs...)
}

// MergeDir merges every *_apps.json file in dir.
func MergeDir(dir string) ([]Entry, error) {
	files, err := AppsFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no *%s files found in %s", AppsFileSuffix, dir)
	}
	return MergeFiles(files)
}
