// Package asset resolves logical audio asset names to raw bytes.
package asset

import (
	"io/fs"
	"os"
	"path"
	"strings"

	"emperror.dev/errors"
)

// ErrNotFound is returned when no asset exists under the requested name.
var ErrNotFound = errors.New("asset not found")

// Extensions lists the file extensions tried, in order, when a name has none.
var Extensions = []string{".mp3", ".wav", ".flac", ".ogg"}

// Source provides raw audio bytes by logical name.
type Source interface {
	Open(name string) ([]byte, error)
}

// Dir is a Source backed by a file system, usually a directory on disk.
type Dir struct {
	fsys fs.FS
}

// NewDir returns a Source reading from the directory at root.
func NewDir(root string) *Dir {
	return &Dir{fsys: os.DirFS(root)}
}

// NewFS returns a Source reading from fsys.
func NewFS(fsys fs.FS) *Dir {
	return &Dir{fsys: fsys}
}

// IsMedia reports whether name carries one of the supported extensions.
func IsMedia(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Open returns the bytes of the asset called name. A name without a
// supported extension is tried with each of Extensions in turn.
func (d *Dir) Open(name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Wrap(ErrNotFound, "empty asset name")
	}
	candidates := []string{name}
	if !IsMedia(name) {
		candidates = candidates[:0]
		for _, ext := range Extensions {
			candidates = append(candidates, name+ext)
		}
	}
	for _, c := range candidates {
		b, err := fs.ReadFile(d.fsys, c)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "cannot read asset %s", c)
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "no asset named %q", name)
}

// List returns the names of all media files at the top level of the source.
func (d *Dir) List() ([]string, error) {
	entries, err := fs.ReadDir(d.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "cannot list assets")
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsMedia(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
