package pkg

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "inlinemath" {
		t.Errorf("expected Name to be %q, got %q", "inlinemath", Name)
	}

	if Marker != "gulpmath" {
		t.Errorf("expected Marker to be %q, got %q", "gulpmath", Marker)
	}
}

func TestVersion(t *testing.T) {
	v := Version()
	if v == "" {
		t.Fatal("expected embedded version, got empty string")
	}

	if v != strings.TrimSpace(v) {
		t.Errorf("version %q has surrounding whitespace", v)
	}

	semver := regexp.MustCompile(`^\d+\.\d+\.\d+`)
	if !semver.MatchString(v) {
		t.Errorf("version %q is not semantic", v)
	}
}

func TestDirs(t *testing.T) {
	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
	} {
		t.Run(name, func(t *testing.T) {
			if dir == "" {
				t.Fatal("empty directory")
			}

			if filepath.Base(dir) != Prefix() {
				t.Errorf("expected %q to end with %q", dir, Prefix())
			}
		})
	}
}

func TestUserDir_Fallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir := userDir(func() (string, error) {
		return "", filepath.ErrBadPattern
	}, ".cache")

	if !strings.HasSuffix(dir, filepath.Join(".cache", Prefix())) {
		t.Errorf("unexpected fallback directory %q", dir)
	}
}
