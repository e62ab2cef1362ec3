package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Repository defines persistence operations for a single manifest.
type Repository interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// DefaultFilePermissions is used when the manifest mode cannot be determined.
const DefaultFilePermissions fs.FileMode = 0o644

var (
	// ErrNotFound is returned when the manifest file does not exist.
	ErrNotFound = errors.New("manifest not found")
	// ErrParse is returned when the manifest is not a well-formed JSON object.
	ErrParse = errors.New("manifest parse error")
	// ErrIO is returned when the manifest cannot be read or written.
	ErrIO = errors.New("manifest i/o error")
)

// FileRepository reads and writes a manifest at a fixed path.
type FileRepository struct {
	// path is the filesystem location of the manifest.
	path string
}

// NewFileRepository creates a repository for the manifest at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the manifest location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and parses the manifest.
func (r *FileRepository) Load(_ context.Context) (*Document, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return nil, fmt.Errorf("read %s: %w: %w", r.path, ErrIO, err)
	}

	doc, err := Parse(contents)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.path, err)
	}

	return doc, nil
}

// Save replaces the manifest contents, keeping the mode of the existing file.
func (r *FileRepository) Save(_ context.Context, doc *Document) error {
	data, err := doc.MarshalIndent()
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.path, err)
	}

	perm := DefaultFilePermissions
	if info, statErr := os.Stat(r.path); statErr == nil {
		perm = info.Mode().Perm()
	}

	if err = os.WriteFile(r.path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w: %w", r.path, ErrIO, err)
	}

	return nil
}
