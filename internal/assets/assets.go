package assets

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"shos/internal/domain"

	"github.com/spf13/afero"
)

// imageExtensions is the allow-list of listable image types
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".avif": true,
}

// Library lists the product image files an admin can attach to variants
type Library interface {
	List(ctx context.Context) ([]domain.ImageAsset, error)
}

type library struct {
	fs        afero.Fs
	dir       string
	urlPrefix string
}

// NewLibrary creates a Library over dir, publishing files under urlPrefix
func NewLibrary(fs afero.Fs, dir, urlPrefix string) Library {
	return &library{
		fs:        fs,
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}
}

// List returns the image files of the directory sorted by name
func (l *library) List(ctx context.Context) ([]domain.ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(l.fs, l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset directory %s: %w", l.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		if IsImage(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	// Case-insensitive order, byte order breaks ties
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})

	images := make([]domain.ImageAsset, 0, len(names))
	for _, name := range names {
		images = append(images, domain.ImageAsset{
			Name: name,
			URL:  path.Join(l.urlPrefix, name),
		})
	}

	return images, nil
}

// IsImage reports whether the file name carries an allowed image extension
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}
