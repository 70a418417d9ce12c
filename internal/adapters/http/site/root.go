// Package site serves the embedded draft board dashboard.
package site

import (
	"context"
	"net/http"
)

// Register attaches the dashboard under /board/.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/board/", http.StripPrefix("/board/", http.FileServer(FS())))
	mux.Handle("/board", http.RedirectHandler("/board/", http.StatusMovedPermanently))
}
