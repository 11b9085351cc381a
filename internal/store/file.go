// internal/store/file.go
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON file per entry under dir, named
// <owner>_<name>_<suffix>.json. A file that exists is a cached entry.
// Failures are not persisted, so a failed key is absent on the next run.
type FileStore struct {
	dir    string
	suffix string
}

// NewFileStore creates dir if needed and returns a store writing into it.
func NewFileStore(dir, suffix string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, suffix: suffix}, nil
}

// OpenFileStore returns a store over dir without creating it. Lookups against
// a missing directory report every entry as absent.
func OpenFileStore(dir, suffix string) *FileStore {
	return &FileStore{dir: dir, suffix: suffix}
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", SanitizeKey(key), s.suffix))
}

func (s *FileStore) Lookup(key string) (Status, error) {
	_, err := os.Stat(s.Path(key))
	switch {
	case err == nil:
		return StatusCached, nil
	case errors.Is(err, fs.ErrNotExist):
		return StatusAbsent, nil
	default:
		return StatusAbsent, err
	}
}

func (s *FileStore) Load(key string, v any) (bool, error) {
	err := ReadJSON(s.Path(key), v)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) Save(key string, v any) error {
	return WriteJSON(s.Path(key), v)
}

func (s *FileStore) MarkFailed(string, error) error {
	return nil
}

// WriteJSON writes v as 4-space indented JSON without HTML escaping. The data
// goes to a temporary file in the same directory which is then renamed over
// path, so readers never observe a partially written file.
func WriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	encoder := json.NewEncoder(tmp)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(v); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadJSON decodes the JSON file at path into v. A missing file yields an
// error matching fs.ErrNotExist.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
