// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// SPAHandler serves the built front-end from dir. Paths that do not name a
// file fall back to index.html so client-side routes survive a reload.
func SPAHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cleaned := path.Clean("/" + r.URL.Path)
		setStaticCacheHeaders(w, cleaned)

		if cleaned != "/" {
			info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(cleaned)))
			if err != nil || info.IsDir() {
				serveIndex(w, r, index)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

func serveIndex(w http.ResponseWriter, r *http.Request, index string) {
	if _, err := os.Stat(index); err != nil {
		NewResponseWriter(w, r).NotFound("Front-end not built")
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, index)
}

// setStaticCacheHeaders caches hashed build assets for a year and
// everything else briefly.
func setStaticCacheHeaders(w http.ResponseWriter, p string) {
	switch {
	case strings.HasPrefix(p, "/static/"):
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	case strings.HasSuffix(p, ".png"), strings.HasSuffix(p, ".svg"), strings.HasSuffix(p, ".ico"):
		w.Header().Set("Cache-Control", "public, max-age=604800")
	default:
		w.Header().Set("Cache-Control", "no-cache")
	}
}
