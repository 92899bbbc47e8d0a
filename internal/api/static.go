// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tomtom215/cinematch/internal/logging"
)

// spaHandler serves a built frontend. Existing files are served directly,
// anything else gets index.html so client-side routes resolve.
type spaHandler struct {
	root  string
	files http.Handler
}

// newSPAHandler returns nil when dir does not hold an index.html.
func newSPAHandler(dir string) http.Handler {
	if dir == "" {
		return nil
	}
	if info, err := os.Stat(filepath.Join(dir, "index.html")); err != nil || info.IsDir() {
		logging.Info().Str("dir", dir).Msg("No frontend build found, static serving disabled")
		return nil
	}
	return &spaHandler{root: dir, files: http.FileServer(http.Dir(dir))}
}

func (s *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
		return
	}

	p := path.Clean("/" + r.URL.Path)
	if p != "/" && s.isFile(p) {
		setCacheControl(w, p)
		s.files.ServeHTTP(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeFile(w, r, filepath.Join(s.root, "index.html"))
}

func (s *spaHandler) isFile(p string) bool {
	f, err := http.Dir(s.root).Open(p)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only

	info, err := f.Stat()
	return err == nil && !info.IsDir()
}

// setCacheControl picks a cache lifetime by asset type. Hashed bundles are
// immutable; HTML is kept short so deploys show up quickly.
func setCacheControl(w http.ResponseWriter, p string) {
	switch strings.ToLower(path.Ext(p)) {
	case ".js", ".css":
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	case ".png", ".jpg", ".jpeg", ".svg", ".webp", ".ico":
		w.Header().Set("Cache-Control", "public, max-age=604800")
	case ".html", "":
		w.Header().Set("Cache-Control", "public, max-age=300")
	}
}
