package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// loadScripts reads a single script file or every .ERB and .CSV file below
// a directory. Keys are slash-separated paths relative to the root. A single
// file is loaded together with the .CSV files next to it.
func loadScripts(root string) (map[string]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	files := map[string]string{}
	if !info.IsDir() {
		b, err := os.ReadFile(root)
		if err != nil {
			return nil, err
		}
		files[filepath.Base(root)] = decodeScript(b)
		if err := loadSiblingCSV(filepath.Dir(root), files); err != nil {
			return nil, err
		}
		return files, nil
	}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToUpper(filepath.Ext(path))
		if ext != ".ERB" && ext != ".CSV" {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		files[filepath.ToSlash(rel)] = decodeScript(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no script files found under %s", root)
	}
	return files, nil
}

// loadSiblingCSV adds the .CSV files directly inside dir, keyed by base name.
func loadSiblingCSV(dir string, files map[string]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".CSV") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		files[e.Name()] = decodeScript(b)
	}
	return nil
}

// decodeScript returns UTF-8 content as is and treats anything else as
// Shift-JIS, the legacy encoding of most published script sets.
func decodeScript(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	r := transform.NewReader(strings.NewReader(string(b)), japanese.ShiftJIS.NewDecoder())
	out, err := io.ReadAll(r)
	if err != nil {
		return string(b)
	}
	return string(out)
}
