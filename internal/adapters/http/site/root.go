// Package site serves the embedded SEMA landing page.
package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/sema/pkg/logger"
)

// ErrServe is reported when the landing page cannot be served.
var ErrServe = errors.New("landing page serve failed")

// Register attaches the landing page and its assets to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	root := NewRootHandler()
	mux.HandleFunc("GET /{$}", root.HandleRoot)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(FS())))
}

// RootHandler handles root path requests.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / and serves the landing page.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		logger.Named("site").Error(r.Context(), "landing page missing", logger.Error(errors.Join(ErrServe, err)))
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}
