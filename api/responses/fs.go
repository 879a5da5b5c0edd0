package responses

import (
	"io/fs"
	"path/filepath"
)

// fsAdapter exposes an fs.FS through the render.FileSystem interface.
type fsAdapter struct {
	fsys fs.FS
}

func (a fsAdapter) Walk(root string, walkFn filepath.WalkFunc) error {
	return fs.WalkDir(a.fsys, filepath.ToSlash(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return walkFn(path, nil, err)
		}
		info, infoErr := d.Info()
		return walkFn(path, info, infoErr)
	})
}

func (a fsAdapter) ReadFile(filename string) ([]byte, error) {
	return fs.ReadFile(a.fsys, filepath.ToSlash(filename))
}
