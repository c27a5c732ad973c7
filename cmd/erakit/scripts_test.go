package main

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/japanese"
)

func TestLoadScriptsDirectory(t *testing.T) {
	root := t.TempDir()
	sjis, err := japanese.ShiftJIS.NewEncoder().String("@TITLE\nPRINTL こんにちは\n")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	mustWrite(t, filepath.Join(root, "ERB", "MAIN.ERB"), sjis)
	mustWrite(t, filepath.Join(root, "CSV", "Item.csv"), "0,Potion,50\n")
	mustWrite(t, filepath.Join(root, "README.txt"), "ignored")

	files, err := loadScripts(root)
	if err != nil {
		t.Fatalf("loadScripts failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("unexpected files %v", files)
	}
	if got := files["ERB/MAIN.ERB"]; got != "@TITLE\nPRINTL こんにちは\n" {
		t.Fatalf("Shift-JIS script decoded to %q", got)
	}
	if got := files["CSV/Item.csv"]; got != "0,Potion,50\n" {
		t.Fatalf("csv content %q", got)
	}
}

func TestLoadScriptsSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.erb")
	mustWrite(t, path, "@TITLE\nPRINTL 日本語\n")
	files, err := loadScripts(path)
	if err != nil {
		t.Fatalf("loadScripts failed: %v", err)
	}
	if files["hello.erb"] != "@TITLE\nPRINTL 日本語\n" {
		t.Fatalf("unexpected files %v", files)
	}
}

func TestLoadScriptsSingleFileWithSiblingCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.erb")
	mustWrite(t, path, "@TITLE\nPRINTL hi\n")
	mustWrite(t, filepath.Join(dir, "Chara.csv"), "0,Hero\n")
	mustWrite(t, filepath.Join(dir, "ITEM.CSV"), "1,Potion,50\n")
	mustWrite(t, filepath.Join(dir, "other.erb"), "@OTHER\n")
	mustWrite(t, filepath.Join(dir, "sub", "Nested.csv"), "0,Nested\n")

	files, err := loadScripts(path)
	if err != nil {
		t.Fatalf("loadScripts failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("unexpected files %v", files)
	}
	if files["Chara.csv"] != "0,Hero\n" || files["ITEM.CSV"] != "1,Potion,50\n" {
		t.Fatalf("sibling csv files not loaded: %v", files)
	}
}

func TestLoadScriptsEmptyDirectory(t *testing.T) {
	if _, err := loadScripts(t.TempDir()); err == nil {
		t.Fatal("expected an error for a directory without scripts")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
