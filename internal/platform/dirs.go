package platform

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
)

// DownloadsDir is where file dialogs start. A non-empty override wins.
func DownloadsDir(override string) string {
	if override != "" {
		return override
	}
	if dir := xdg.UserDirs.Download; dir != "" {
		return dir
	}
	return xdg.Home
}

// StageDrops copies the files at the root of a dropped file system into the
// cache directory and returns their paths. Directories are skipped.
func StageDrops(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read dropped files: %w", err)
	}
	batch := uuid.NewString()
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		dst, err := xdg.CacheFile(path.Join("bluedoc", "drops", batch, e.Name()))
		if err != nil {
			return paths, fmt.Errorf("stage %s: %w", e.Name(), err)
		}
		if err := copyFile(fsys, e.Name(), dst); err != nil {
			return paths, fmt.Errorf("stage %s: %w", e.Name(), err)
		}
		paths = append(paths, dst)
	}
	return paths, nil
}

func copyFile(fsys fs.FS, name, dst string) error {
	src, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// FileURL turns an absolute local path into a file:// URL.
func FileURL(p string) string {
	slashed := filepath.ToSlash(p)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return (&url.URL{Scheme: "file", Path: slashed}).String()
}
