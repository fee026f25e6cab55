package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirSaver writes downloads into a directory. An existing file is never
// overwritten; the new file gets a " (n)" suffix instead.
type DirSaver struct {
	Dir string
}

// Save writes data under filename and returns the final path.
func (s DirSaver) Save(data []byte, filename string) (string, error) {
	if filename == "" || filepath.Base(filename) != filename {
		return "", fmt.Errorf("save: invalid filename %q", filename)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("save: mkdir %s: %w", s.Dir, err)
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for i := 0; i < 1000; i++ {
		name := filename
		if i > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(s.Dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("save: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("save: write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("save: close %s: %w", path, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("save: too many files named %s in %s", filename, s.Dir)
}
