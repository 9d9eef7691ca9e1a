package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/buildpanel/internal/filex"
)

// stagingDir holds uploads in progress. Like every dot-prefixed path it is
// never served.
const stagingDir = ".staging"

// LocalProvider keeps files under a directory on the local disk.
type LocalProvider struct {
	root string
}

// NewLocalProvider creates root if needed.
func NewLocalProvider(root string) (*LocalProvider, error) {
	abs, err := filex.EnsureDir(root)
	if err != nil {
		return nil, err
	}
	return &LocalProvider{root: abs}, nil
}

// Root returns the absolute upload directory.
func (l *LocalProvider) Root() string {
	return l.root
}

func (l *LocalProvider) path(key string) (string, error) {
	p := filepath.Join(l.root, filepath.FromSlash(key))
	if !strings.HasPrefix(p, l.root+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes upload dir", key)
	}
	return p, nil
}

// Put writes body to a temporary file in the staging directory first and
// renames it into place, so readers never see a partial image.
func (l *LocalProvider) Put(_ context.Context, key string, body io.ReadSeeker, _ string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}

	if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	staging, err := filex.EnsureDir(filepath.Join(l.root, stagingDir))
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(staging, "upload-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (l *LocalProvider) Delete(_ context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	return filex.RemoveIfExists(path)
}

// Handler serves files from the upload directory. Directory listings and
// dot-prefixed paths are not exposed.
func (l *LocalProvider) Handler() http.Handler {
	fs := http.FileServer(http.Dir(l.root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") || hidden(r.URL.Path) {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}

func hidden(urlPath string) bool {
	for _, seg := range strings.Split(urlPath, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
