package extract

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Image is one template image found by Scan.
type Image struct {
	// Name is the file name without extension.
	Name string
	Path string
}

// Category groups the template images of one directory.
type Category struct {
	// Name is the directory path relative to the scan root, slash separated.
	Name   string
	Images []Image
}

// Scan walks root and groups image files by their directory. Files directly
// in root are ignored since they belong to no category. Categories and
// images are sorted by name.
func Scan(root string) ([]Category, error) {
	byName := make(map[string]*Category)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsImageFile(p) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		dir := path.Dir(filepath.ToSlash(rel))
		if dir == "." {
			return nil
		}

		c, ok := byName[dir]
		if !ok {
			c = &Category{Name: dir}
			byName[dir] = c
		}
		base := filepath.Base(p)
		c.Images = append(c.Images, Image{
			Name: strings.TrimSuffix(base, filepath.Ext(base)),
			Path: p,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]Category, 0, len(byName))
	for _, c := range byName {
		sort.Slice(c.Images, func(i, j int) bool { return c.Images[i].Name < c.Images[j].Name })
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
