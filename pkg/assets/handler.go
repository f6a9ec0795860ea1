package assets

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Cache policies for the two kinds of names.
const (
	ImmutableCacheControl = "public, max-age=31536000, immutable"
	PlainCacheControl     = "public, max-age=300"
)

// Handler serves the files of fsys by fingerprinted name, with a long-lived
// cache policy, and by plain name with a short one. Mount it behind
// http.StripPrefix.
func Handler(m *Manifest, fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")

		cache := PlainCacheControl
		if source, ok := m.Source(name); ok {
			name = source
			cache = ImmutableCacheControl
		}
		if fi, err := fs.Stat(fsys, name); err != nil || !fi.Mode().IsRegular() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", cache)
		http.ServeFileFS(w, r, fsys, name)
	})
}
