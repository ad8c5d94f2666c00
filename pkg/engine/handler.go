// Request dispatcher for the pokedex API.

package engine

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getmockd/pokedex/pkg/catalog"
	"github.com/getmockd/pokedex/pkg/cliconfig"
	"github.com/getmockd/pokedex/pkg/httputil"
	"github.com/getmockd/pokedex/pkg/logging"
	"github.com/getmockd/pokedex/pkg/metrics"
)

// Route patterns. They double as the metrics route label.
const (
	RouteCollection = "/pokemon"
	RouteRecord     = "/pokemon/{id}"
	RouteTypes      = "/pokemon/types"
	RouteWeaknesses = "/pokemon/weaknesses"
	RouteAdd        = "/addPokemon"
	RouteEdit       = "/editPokemon"
	RouteOpenAPI    = "/openapi.json"
	RouteMetrics    = "/metrics"
	RouteHealth     = "/healthz"
	RouteUnmatched  = "unmatched"
)

const recordPrefix = "/pokemon/"

// Handler dispatches pokedex requests.
type Handler struct {
	store       *catalog.Store
	assets      fs.FS
	docs        http.Handler
	metrics     *metrics.Collectors
	maxBodySize int64
	log         *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.log = logging.OrNop(log)
	}
}

// WithAssets sets the file system the browser client is served from.
func WithAssets(assets fs.FS) HandlerOption {
	return func(h *Handler) {
		h.assets = assets
	}
}

// WithDocs mounts the API description at /openapi.json.
func WithDocs(docs http.Handler) HandlerOption {
	return func(h *Handler) {
		h.docs = docs
	}
}

// WithMetrics records request metrics and mounts /metrics.
func WithMetrics(m *metrics.Collectors) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithMaxBodySize caps request bodies. Non-positive values keep the default.
func WithMaxBodySize(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodySize = n
		}
	}
}

// NewHandler creates a dispatcher over store.
func NewHandler(store *catalog.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		store:       store,
		maxBodySize: cliconfig.DefaultMaxBodySize,
		log:         logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Store returns the catalog the handler serves.
func (h *Handler) Store() *catalog.Store {
	return h.store
}

// Metrics returns the collectors set with WithMetrics, or nil.
func (h *Handler) Metrics() *metrics.Collectors {
	return h.metrics
}

// Route returns the route pattern that path dispatches to, or
// RouteUnmatched. Trailing slashes are not normalized.
func Route(path string) string {
	switch path {
	case RouteCollection, RouteTypes, RouteWeaknesses, RouteAdd, RouteEdit, RouteOpenAPI, RouteMetrics, RouteHealth:
		return path
	}
	if _, ok := staticFiles[path]; ok {
		return path
	}
	if strings.HasPrefix(path, recordPrefix) {
		return RouteRecord
	}
	return RouteUnmatched
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch route := Route(r.URL.Path); route {
	case RouteCollection:
		h.handleCollection(w, r)
	case RouteRecord:
		h.handleRecord(w, r, idSegment(r.URL.Path))
	case RouteTypes:
		h.handleUniqueValues(w, r, catalog.FieldType)
	case RouteWeaknesses:
		h.handleUniqueValues(w, r, catalog.FieldWeaknesses)
	case RouteAdd:
		h.handleAdd(w, r)
	case RouteEdit:
		h.handleEdit(w, r)
	case RouteOpenAPI:
		h.serveMounted(w, r, h.docs)
	case RouteMetrics:
		if h.metrics == nil {
			httputil.WriteNotFound(w, r)
			return
		}
		h.serveMounted(w, r, h.metrics.Handler())
	case RouteHealth:
		h.handleHealth(w, r)
	case RouteUnmatched:
		httputil.WriteNotFound(w, r)
	default:
		h.handleStatic(w, r, route)
	}
}

// serveMounted serves an optional read-only sub-handler.
func (h *Handler) serveMounted(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if next == nil {
		httputil.WriteNotFound(w, r)
		return
	}
	if !isRead(r) {
		httputil.WriteMethodNotAllowed(w, r, http.MethodGet, http.MethodHead)
		return
	}
	next.ServeHTTP(w, r)
}

// idSegment returns the path segment after /pokemon/, up to the next slash.
func idSegment(path string) string {
	seg := strings.TrimPrefix(path, recordPrefix)
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	return seg
}

func isRead(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

// writeJSON writes v and logs encoding failures, which have already been
// answered with a 500.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := httputil.WriteJSON(w, r, status, v); err != nil {
		logging.FromContext(r.Context(), h.log).Error("failed to encode response", "path", r.URL.Path, "error", err)
	}
}
