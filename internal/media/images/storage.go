// Package images stores avatar images on disk and derives blurhash placeholders.
package images

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage manages image files under a single subdirectory of the media root.
// Safe for concurrent use.
type Storage struct {
	root   string // media root, e.g. ~/tublog/media
	subdir string // e.g. "avatars"
	dir    string // root/subdir
	mu     sync.RWMutex
}

// NewStorage creates a Storage for {mediaRoot}/{subdir}, creating the directory.
func NewStorage(mediaRoot, subdir string) (*Storage, error) {
	if mediaRoot == "" {
		return nil, fmt.Errorf("media root cannot be empty")
	}
	if subdir == "" || strings.ContainsAny(subdir, `/\`) {
		return nil, fmt.Errorf("invalid subdirectory %q", subdir)
	}

	dir := filepath.Join(mediaRoot, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", subdir, err)
	}

	return &Storage{root: mediaRoot, subdir: subdir, dir: dir}, nil
}

// Save writes data as {id}.{format} and removes any copy of id stored under
// a different format. It returns the path relative to the media root.
// The write goes through a temp file and rename so readers never see a partial image.
func (s *Storage) Save(id string, format Format, data []byte) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("chmod image file: %w", err)
	}

	name := fileName(id, format)
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("rename image file: %w", err)
	}

	for _, other := range formats {
		if other != format {
			_ = os.Remove(filepath.Join(s.dir, fileName(id, other)))
		}
	}

	return s.subdir + "/" + name, nil
}

// Delete removes every stored format of id. Missing files are not an error.
func (s *Storage) Delete(id string) error {
	if err := validID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range formats {
		err := os.Remove(filepath.Join(s.dir, fileName(id, f)))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete image file: %w", err)
		}
	}
	return nil
}

// Open opens a stored file by bare name, such as "user-abc.png", for serving.
// Names that could escape the directory are rejected as not found.
func (s *Storage) Open(name string) (*os.File, Format, error) {
	format, ok := formatFromName(name)
	if !ok || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, "", os.ErrNotExist
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, "", err
	}
	return f, format, nil
}

// Exists reports whether id has an image stored in the given format.
func (s *Storage) Exists(id string, format Format) bool {
	if validID(id) != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(filepath.Join(s.dir, fileName(id, format)))
	return err == nil
}

// Subdir returns the directory name under the media root, e.g. "avatars".
func (s *Storage) Subdir() string {
	return s.subdir
}

func fileName(id string, format Format) string {
	return id + "." + format.Ext()
}

func validID(id string) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\.`) {
		return fmt.Errorf("invalid image ID %q", id)
	}
	return nil
}
