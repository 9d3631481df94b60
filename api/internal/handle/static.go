package handle

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

const indexFile = "index.html"

// Static serves a prebuilt single-page front end from dir. Unknown paths get
// index.html so client-side routing works.
func Static(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			writeError(w, http.StatusNotFound, "Frontend build not found")
			return
		}

		name := path.Clean("/" + r.URL.Path)
		if name != "/" {
			target := filepath.Join(dir, filepath.FromSlash(name))
			if fi, err := os.Stat(target); err == nil && fi.Mode().IsRegular() {
				http.ServeFile(w, r, target)
				return
			}
		}
		http.ServeFile(w, r, filepath.Join(dir, indexFile))
	}
}
