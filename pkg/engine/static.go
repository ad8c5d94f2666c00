package engine

import (
	"io/fs"
	"net/http"

	"github.com/getmockd/pokedex/pkg/httputil"
	"github.com/getmockd/pokedex/pkg/logging"
)

type staticFile struct {
	name        string
	contentType string
}

// staticFiles maps the browser client paths to asset names.
var staticFiles = map[string]staticFile{
	"/":            {name: "client.html", contentType: "text/html"},
	"/client.html": {name: "client.html", contentType: "text/html"},
	"/style.css":   {name: "style.css", contentType: "text/css"},
	"/client.js":   {name: "client.js", contentType: "application/javascript"},
	"/docs.html":   {name: "docs.html", contentType: "text/html"},
}

// handleStatic serves a client asset. Any read failure is a 500.
func (h *Handler) handleStatic(w http.ResponseWriter, r *http.Request, path string) {
	if !isRead(r) {
		httputil.WriteMethodNotAllowed(w, r, http.MethodGet, http.MethodHead)
		return
	}

	file := staticFiles[path]
	if h.assets == nil {
		logging.FromContext(r.Context(), h.log).Error("no static assets configured", "asset", file.name)
		httputil.WriteInternalError(w, r)
		return
	}

	data, err := fs.ReadFile(h.assets, file.name)
	if err != nil {
		logging.FromContext(r.Context(), h.log).Error("failed to read static asset", "asset", file.name, "error", err)
		httputil.WriteInternalError(w, r)
		return
	}
	httputil.WriteBlob(w, r, http.StatusOK, file.contentType, data)
}
