package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/usecase"
)

// FileWriterAdapter writes project files below the project root
type FileWriterAdapter struct {
	root string
}

// NewFileWriterAdapter creates a new file writer adapter
func NewFileWriterAdapter(cfg *config.RuntimeConfig) *FileWriterAdapter {
	return &FileWriterAdapter{root: cfg.ProjectRoot}
}

func (f *FileWriterAdapter) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.root, path)
}

// WriteFile writes content to a file
func (f *FileWriterAdapter) WriteFile(ctx context.Context, path string, content string) error {
	return os.WriteFile(f.resolve(path), []byte(content), 0644)
}

// FileExists checks if a file exists
func (f *FileWriterAdapter) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(f.resolve(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// EnsureDirectory ensures a directory exists
func (f *FileWriterAdapter) EnsureDirectory(ctx context.Context, path string) error {
	return os.MkdirAll(f.resolve(path), 0755)
}

var _ usecase.FileWriter = (*FileWriterAdapter)(nil)
