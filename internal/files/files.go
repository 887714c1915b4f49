package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Saver writes downloads into a single directory.
type Saver struct {
	fs  afero.Fs
	dir string
}

// NewSaver returns a Saver rooted at dir. An empty dir means the current
// working directory.
func NewSaver(fs afero.Fs, dir string) *Saver {
	if dir == "" {
		dir = "."
	}
	return &Saver{fs: fs, dir: dir}
}

// Save writes content to name inside the download directory, replacing any
// existing file, and returns the path written.
func (s *Saver) Save(name string, content []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := afero.WriteFile(s.fs, path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Open opens a file for upload. Directories are rejected.
func Open(fs afero.Fs, path string) (afero.File, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: path, Err: fmt.Errorf("is a directory")}
	}
	return fs.Open(path)
}
