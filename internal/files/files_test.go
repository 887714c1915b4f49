package files

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestSaver_Save(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewSaver(fs, "/out/downloads")

	path, err := s.Save("translated_code.py", []byte("print('hi')\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join("/out/downloads", "translated_code.py") {
		t.Errorf("unexpected path %q", path)
	}

	got, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(got) != "print('hi')\n" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestSaver_Save_Overwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewSaver(fs, "/out")

	if _, err := s.Save("translated_code.java", []byte("old content that is longer")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path, err := s.Save("translated_code.java", []byte("new"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := afero.ReadFile(fs, path)
	if string(got) != "new" {
		t.Errorf("expected file to be replaced, got %q", got)
	}
}

func TestSaver_Save_EmptyContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	path, err := NewSaver(fs, "").Save("translated_code.txt", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := fs.Stat(path)
	if err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty file, got %d bytes", info.Size())
	}
}

func TestSaver_Save_InvalidName(t *testing.T) {
	s := NewSaver(afero.NewMemMapFs(), "/out")
	for _, name := range []string{"", "../escape.py", "sub/dir.py"} {
		if _, err := s.Save(name, []byte("x")); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}
}

func TestSaver_Save_ReadOnlyFs(t *testing.T) {
	s := NewSaver(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out")
	if _, err := s.Save("translated_code.py", []byte("x")); err == nil {
		t.Error("expected error on read-only filesystem")
	}
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/src/Main.java", []byte("class Main {}"), 0o644)
	fs.MkdirAll("/src/pkg", 0o755)

	f, err := Open(fs, "/src/Main.java")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "class Main {}" {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := Open(fs, "/src/pkg"); err == nil {
		t.Error("expected error opening a directory")
	}
	if _, err := Open(fs, "/src/missing.java"); err == nil {
		t.Error("expected error for missing file")
	}
}
