package controllers

import (
	"io/fs"
	"net/http"
	"strings"
)

// AssetController serves browser scripts and styles from a filesystem.
// Anything that is not a regular file is handed to the not-found handler.
type AssetController struct {
	fsys     fs.FS
	notFound http.Handler
}

// NewAssetController creates an AssetController
func NewAssetController(fsys fs.FS, notFound http.Handler) *AssetController {
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	return &AssetController{fsys: fsys, notFound: notFound}
}

// Serve writes the asset named by the request path.
func (ac *AssetController) Serve(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if !fs.ValidPath(name) {
		ac.notFound.ServeHTTP(w, r)
		return
	}

	info, err := fs.Stat(ac.fsys, name)
	if err != nil || !info.Mode().IsRegular() {
		ac.notFound.ServeHTTP(w, r)
		return
	}

	http.ServeFileFS(w, r, ac.fsys, name)
}
