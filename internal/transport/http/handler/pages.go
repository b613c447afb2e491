package handler

import (
	"embed"
	"net/http"
)

//go:embed pages/*.html
var pages embed.FS

// PageHandler serves the browser pages.
type PageHandler struct{}

func NewPageHandler() *PageHandler { return &PageHandler{} }

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	servePage(w, r, "pages/login.html")
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	servePage(w, r, "pages/index.html")
}

func servePage(w http.ResponseWriter, r *http.Request, name string) {
	b, err := pages.ReadFile(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
