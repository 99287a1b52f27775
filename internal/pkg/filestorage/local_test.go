package filestorage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mellynhq/mellyn/internal/pkg/apperrors"
)

func testStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage() error: %v", err)
	}
	return ls
}

func TestResolveExistingFile(t *testing.T) {
	ls := testStorage(t)

	dir := filepath.Join(ls.basePath, "maps", "sub")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data.zip"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	full, err := ls.Resolve("maps", "sub/data.zip")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if full != filepath.Join(ls.basePath, "maps", "sub", "data.zip") {
		t.Errorf("Resolve() = %q", full)
	}
}

func TestResolveMissingFile(t *testing.T) {
	ls := testStorage(t)

	_, err := ls.Resolve("maps", "nope.zip")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Resolve(missing) = %v, want ErrNotFound", err)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	ls := testStorage(t)

	// A file outside the resource directory must stay unreachable.
	if err := os.WriteFile(filepath.Join(ls.basePath, "secret.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{"../secret.txt", "sub/../../secret.txt", ""} {
		if _, err := ls.Resolve("maps", p); err == nil {
			t.Errorf("Resolve(%q) = nil, want error", p)
		}
	}
}

func TestResolveRejectsDirectory(t *testing.T) {
	ls := testStorage(t)

	if err := os.MkdirAll(filepath.Join(ls.basePath, "maps", "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := ls.Resolve("maps", "sub"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Resolve(directory) = %v, want ErrNotFound", err)
	}
}

func TestDeleteFile(t *testing.T) {
	ls := testStorage(t)

	dir := filepath.Join(ls.basePath, "maps")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "data.zip")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ls.DeleteFile("maps", "data.zip"); err != nil {
		t.Fatalf("DeleteFile() error: %v", err)
	}
	if _, err := os.Stat(target); !errors.Is(err, os.ErrNotExist) {
		t.Error("file still exists after DeleteFile")
	}

	// Deleting again is not an error.
	if err := ls.DeleteFile("maps", "data.zip"); err != nil {
		t.Errorf("DeleteFile(missing) = %v, want nil", err)
	}
}
