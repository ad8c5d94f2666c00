// Catalog read and mutation handlers.

package engine

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/getmockd/pokedex/pkg/catalog"
	"github.com/getmockd/pokedex/pkg/httputil"
	"github.com/getmockd/pokedex/pkg/logging"
)

// Client-facing messages.
const (
	msgInvalidJSON     = "Invalid JSON"
	msgUnsupportedType = "Unsupported Content-Type"
	msgInvalidBody     = "Invalid request body"
	msgPokemonNotFound = "Pokemon not found"
	msgPayloadTooLarge = "Payload Too Large"
)

// handleCollection serves the filtered collection. HEAD answers 200
// regardless of content.
func (h *Handler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodHead:
		httputil.WriteEmpty(w, http.StatusOK)
	case http.MethodGet:
		records := h.store.Filter(catalog.PredicatesFromQuery(r.URL.Query()))
		if len(records) == 0 {
			httputil.WriteNoContent(w)
			return
		}
		h.writeJSON(w, r, http.StatusOK, records)
	default:
		httputil.WriteMethodNotAllowed(w, r, http.MethodGet, http.MethodHead)
	}
}

// handleRecord serves a single record. A missing or non-numeric id is a
// 204 on GET and a 404 on HEAD.
func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request, segment string) {
	id := catalog.ParseID(segment)

	switch r.Method {
	case http.MethodHead:
		if id != nil && h.store.Exists(*id) {
			httputil.WriteEmpty(w, http.StatusOK)
			return
		}
		httputil.WriteEmpty(w, http.StatusNotFound)
	case http.MethodGet:
		if id == nil {
			httputil.WriteNoContent(w)
			return
		}
		rec, ok := h.store.FindByID(*id)
		if !ok {
			httputil.WriteNoContent(w)
			return
		}
		h.writeJSON(w, r, http.StatusOK, rec)
	default:
		httputil.WriteMethodNotAllowed(w, r, http.MethodGet, http.MethodHead)
	}
}

// handleUniqueValues serves the distinct values of a list field.
func (h *Handler) handleUniqueValues(w http.ResponseWriter, r *http.Request, field catalog.Field) {
	switch r.Method {
	case http.MethodHead:
		httputil.WriteEmpty(w, http.StatusOK)
	case http.MethodGet:
		values := h.store.UniqueValues(field)
		if len(values) == 0 {
			httputil.WriteNoContent(w)
			return
		}
		h.writeJSON(w, r, http.StatusOK, values)
	default:
		httputil.WriteMethodNotAllowed(w, r, http.MethodGet, http.MethodHead)
	}
}

// handleAdd appends the decoded record.
func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteMethodNotAllowed(w, r, http.MethodPost)
		return
	}

	rec, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}

	stored := h.store.Insert(rec)
	logging.FromContext(r.Context(), h.log).Debug("pokemon added", "name", stored.Name, "count", h.store.Len())
	h.writeJSON(w, r, http.StatusCreated, stored)
}

// handleEdit replaces the first record carrying the decoded id.
func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		httputil.WriteMethodNotAllowed(w, r, http.MethodPost, http.MethodPut)
		return
	}

	rec, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}

	result, err := h.store.Replace(rec)
	if err != nil {
		var notFound *catalog.NotFoundError
		if errors.As(err, &notFound) {
			httputil.WriteError(w, r, notFound.StatusCode(), msgPokemonNotFound, httputil.ErrCodeNotFound)
			return
		}
		logging.FromContext(r.Context(), h.log).Error("replace failed", "error", err)
		httputil.WriteInternalError(w, r)
		return
	}

	if result == catalog.ReplaceUnchanged {
		httputil.WriteNoContent(w)
		return
	}
	rec.Normalize()
	h.writeJSON(w, r, http.StatusOK, rec)
}

// decodeRecord reads and decodes the request body. On failure the error
// response has been written and ok is false.
func (h *Handler) decodeRecord(w http.ResponseWriter, r *http.Request) (rec catalog.Record, ok bool) {
	body, err := h.readBody(w, r)
	if err == nil {
		rec, err = catalog.Decode(r.Header.Get("Content-Type"), body)
	}
	if err != nil {
		h.writeDecodeError(w, r, err)
		return catalog.Record{}, false
	}
	return rec, true
}

// readBody reads the whole body, capped at maxBodySize.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &catalog.PayloadTooLargeError{MaxSize: maxErr.Limit}
		}
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return body, nil
}

func (h *Handler) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		tooLarge  *catalog.PayloadTooLargeError
		decodeErr *catalog.DecodeError
	)
	switch {
	case errors.As(err, &tooLarge):
		httputil.WriteError(w, r, tooLarge.StatusCode(), msgPayloadTooLarge, httputil.ErrCodePayloadTooLarge)
	case errors.As(err, &decodeErr) && decodeErr.Kind == catalog.UnsupportedMediaType:
		httputil.WriteBadRequest(w, r, msgUnsupportedType)
	case errors.As(err, &decodeErr):
		httputil.WriteBadRequest(w, r, msgInvalidJSON)
	default:
		logging.FromContext(r.Context(), h.log).Warn("failed to read request body", "error", err)
		httputil.WriteBadRequest(w, r, msgInvalidBody)
	}
}
