package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned for files whose extension is not a ledger format.
var ErrUnsupportedFormat = errors.New("unsupported ledger format")

// FormatOf maps a file extension to a ledger format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Discover returns the ledger files at path, which may be a single file or a
// directory that is walked recursively.
func Discover(path string) ([]DiscoveredFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ScanDir(path)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return []DiscoveredFile{{Path: path, Format: format}}, nil
}

// ScanDir walks a ledger directory and discovers every supported file,
// sorted by path. A missing directory yields no files.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		format, err := FormatOf(path)
		if err != nil {
			return nil //nolint:nilerr // non-ledger files are ignored
		}
		files = append(files, DiscoveredFile{Path: path, Format: format})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}
