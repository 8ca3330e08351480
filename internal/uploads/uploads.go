// Package uploads stores admin-submitted product images on disk under
// generated names and maps them back to servable paths.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fairyhunter13/printshop/internal/model"
	"github.com/google/uuid"
)

// URLPrefix is where stored files are served from.
const URLPrefix = "/api/uploads/"

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// Allowed reports whether filename carries an accepted image extension.
func Allowed(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[i+1:])]
}

// Uploads reads and writes the upload directory.
type Uploads struct {
	dir string
}

// New returns an Uploads rooted at dir. The directory is created on first
// save, not here.
func New(dir string) *Uploads {
	return &Uploads{dir: dir}
}

// Save stores the file under a random name that keeps the original extension
// and returns the URL path it will be served from.
func (u *Uploads) Save(filename string, r io.Reader) (string, error) {
	ext := "jpg"
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		ext = strings.ToLower(filename[i+1:])
	}
	name := fmt.Sprintf("%s.%s", strings.ReplaceAll(uuid.NewString(), "-", ""), ext)

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}
	f, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return URLPrefix + name, nil
}

// Path resolves a requested filename inside the upload directory. Requests
// containing a parent-directory segment are rejected.
func (u *Uploads) Path(filename string) (string, error) {
	if strings.Contains(filename, "..") {
		return "", model.Errorf(model.EINVALID, "invalid upload path")
	}
	return filepath.Join(u.dir, filename), nil
}
