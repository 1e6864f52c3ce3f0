package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp", "/tmp"},
		{"~", home},
		{"~/models/llm", filepath.Join(home, "models", "llm")},
		{"~other/x", "~other/x"},
		{"models/~", "models/~"},
	}
	for _, tc := range cases {
		got, err := ExpandHome(tc.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ExpandHome(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	got, err := Resolve("~/m")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != filepath.Join(home, "m") {
		t.Fatalf("got %q", got)
	}
	rel, err := Resolve("rel")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !filepath.IsAbs(rel) {
		t.Fatalf("expected absolute path, got %q", rel)
	}
}

func TestPathExistsAndIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.gguf")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if !PathExists(dir) || !PathExists(file) {
		t.Fatalf("existing paths reported missing")
	}
	if PathExists(filepath.Join(dir, "nope")) {
		t.Fatalf("missing path reported present")
	}
	if !IsFile(file) {
		t.Fatalf("regular file not recognized")
	}
	if IsFile(dir) || IsFile(filepath.Join(dir, "nope")) {
		t.Fatalf("directory or missing path reported as file")
	}
}
