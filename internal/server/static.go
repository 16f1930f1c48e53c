package server

import (
	"net/http"
	"os"

	"github.com/spf13/afero"
)

// newAssetFileServer serves files from dir on fs without directory listings
func newAssetFileServer(fs afero.Fs, dir string) http.Handler {
	return http.FileServer(noListingFileSystem{afero.NewHttpFs(fs).Dir(dir)})
}

type noListingFileSystem struct {
	fs http.FileSystem
}

// Open hides directories so they answer 404
func (n noListingFileSystem) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
