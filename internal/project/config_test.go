package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadFileKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[transpile]
indent = 2

[ownership]
non_consuming = ["log"]
`)
	cfg, err := LoadFile(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Indent, 2)
	be.Equal(t, cfg.Header, true)
	be.Equal(t, cfg.MethodMutation, true)
	be.Equal(t, cfg.Extension, ".hr")
	be.Equal(t, cfg.NonConsuming, []string{"log"})
	be.Equal(t, cfg.Root, dir)
}

func TestLoadFileExplicitFalse(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[transpile]
header = false
[ownership]
method_mutation = false
[cache]
enabled = false
`)
	cfg, err := LoadFile(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Header, false)
	be.Equal(t, cfg.MethodMutation, false)
	be.Equal(t, cfg.CacheEnabled, false)
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"indent", "[transpile]\nindent = 0\n"},
		{"jobs", "[transpile]\njobs = -1\n"},
		{"extension", "[transpile]\nextension = \"hr\"\n"},
		{"unknown key", "[transpile]\nindnet = 4\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := LoadFile(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadFindsManifestAboveAndAppliesEnv(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[transpile]\njobs = 2\n")
	sub := filepath.Join(root, "src", "deep")
	be.Err(t, os.MkdirAll(sub, 0o755), nil)

	t.Setenv("HIGHRUST_JOBS", "6")
	t.Setenv("HIGHRUST_NO_CACHE", "1")
	t.Setenv("HIGHRUST_CACHE_DIR", "/tmp/hr-cache")

	cfg, err := Load(sub)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Root, root)
	be.Equal(t, cfg.Jobs, 6)
	be.Equal(t, cfg.CacheEnabled, false)
	be.Equal(t, cfg.CacheDir, "/tmp/hr-cache")
}

func TestLoadWithoutManifest(t *testing.T) {
	cfg, err := Load(t.TempDir())
	be.Err(t, err, nil)
	be.Equal(t, cfg.Root, "")
	be.Equal(t, cfg.Indent, 4)
}

func TestOutputPath(t *testing.T) {
	cfg := Default()
	cfg.Root = "/proj"
	be.Equal(t, cfg.OutputPath("/proj/src/main.hr"), filepath.Join("/proj", "out", "src", "main.rs"))
	cfg.OutDir = "/abs"
	be.Equal(t, cfg.OutputPath("/proj/a.hr"), filepath.Join("/abs", "a.rs"))
}

func TestCombineIsLengthPrefixed(t *testing.T) {
	if Combine([]byte("ab"), []byte("c")) == Combine([]byte("a"), []byte("bc")) {
		t.Fatalf("part boundaries must affect the digest")
	}
	if Combine([]byte("x")) != Combine([]byte("x")) {
		t.Fatalf("digest must be deterministic")
	}
}
