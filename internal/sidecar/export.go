package sidecar

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileName returns the sidecar file name for a composite index.
func FileName(idx string) string {
	return "image_data_" + idx + ".json"
}

// Encode writes records as a four-space indented JSON array.
func Encode(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(records)
}

// Decode reads a sidecar document.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode sidecar: %w", err)
	}
	return records, nil
}

// WriteFile stores the sidecar for idx in dir and returns its path.
func WriteFile(dir, idx string, records []Record) (string, error) {
	path := filepath.Join(dir, FileName(idx))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create sidecar %s: %w", path, err)
	}
	if err := Encode(f, records); err != nil {
		f.Close()
		return "", fmt.Errorf("write sidecar %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close sidecar %s: %w", path, err)
	}
	return path, nil
}

// ReadFile loads a sidecar document from disk.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
