package handler

import (
	"net/http"
	"path/filepath"
)

// pages maps page routes to HTML files in the static directory.
var pages = map[string]string{
	"/":                "index.html",
	"/profile":         "profile.html",
	"/anime-found":     "Anime Found.html",
	"/anime-found-eng": "Anime Found_eng.html",
	"/card":            "card.html",
	"/choose":          "choose.html",
	"/chooseeng":       "chooseeng.html",
	"/randomizer":      "randomizer.html",
	"/intro":           "intro.html",
	"/anime-watch":     "anime-watch.html",
}

// PageHandler serves the static front end.
type PageHandler struct {
	dir string
}

// NewPageHandler creates a PageHandler serving files from dir.
func NewPageHandler(dir string) *PageHandler {
	return &PageHandler{dir: dir}
}

// Page returns a handler that serves one HTML file.
func (h *PageHandler) Page(file string) http.HandlerFunc {
	path := filepath.Join(h.dir, file)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}

// Routes returns a handler for every page route.
func (h *PageHandler) Routes() map[string]http.HandlerFunc {
	routes := make(map[string]http.HandlerFunc, len(pages))
	for path, file := range pages {
		routes[path] = h.Page(file)
	}
	return routes
}

// Assets serves the remaining files (scripts, styles, images) of the directory.
func (h *PageHandler) Assets() http.Handler {
	return http.FileServer(http.Dir(h.dir))
}
