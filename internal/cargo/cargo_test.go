package cargo

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "defaults",
			opts: Options{},
			want: []string{"+nightly", "rustc", "--", "-Zprint-type-sizes"},
		},
		{
			name: "toolchain and args",
			opts: Options{Toolchain: "nightly-2026-01-01", Args: []string{"--release", "-p", "core"}},
			want: []string{"+nightly-2026-01-01", "rustc", "--release", "-p", "core", "--", "-Zprint-type-sizes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := commandArgs(tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("commandArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTouch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	if err := os.WriteFile(path, []byte("fn main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}

	if err := Touch(path); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().After(old) {
		t.Errorf("mtime not updated: %v", info.ModTime())
	}
}

func TestTouch_MissingFile(t *testing.T) {
	if err := Touch(filepath.Join(t.TempDir(), "nope.rs")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTouch_Directory(t *testing.T) {
	if err := Touch(t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
}
