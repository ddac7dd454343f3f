package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps each collection in <dir>/<name>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ioError("create", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the collection file. A missing file is an empty collection.
func (s *FileStore) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, ioError("read", name, err)
	}
	return data, nil
}

// Save writes to a temporary file in the same directory and renames it over the
// collection file.
func (s *FileStore) Save(_ context.Context, name string, doc []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return ioError("write", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return ioError("write", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return ioError("sync", name, err)
	}
	if err := tmp.Close(); err != nil {
		return ioError("write", name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return ioError("replace", name, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
