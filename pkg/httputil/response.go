// Package httputil provides shared HTTP utilities for consistent response handling.
//
// Every writer sets an exact Content-Length and never writes a body in
// response to a HEAD request, while keeping the headers a GET would receive.
package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Content types written by this package.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
)

// Machine-readable error ids carried in the envelope's id field.
const (
	ErrCodeBadRequest       = "badRequest"
	ErrCodeNotFound         = "notFound"
	ErrCodeMethodNotAllowed = "methodNotAllowed"
	ErrCodeInternal         = "internalError"
	ErrCodePayloadTooLarge  = "payloadTooLarge"
)

// NotFoundMessage is the body used for unmatched routes.
const NotFoundMessage = "404 Not Found"

// ErrorEnvelope is the body of every JSON error response.
type ErrorEnvelope struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// WriteJSON encodes data and writes it with the given status code. If data
// cannot be encoded a 500 envelope is written instead and the encoding error
// is returned.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		fallback, _ := json.Marshal(ErrorEnvelope{Message: "Internal Server Error", ID: ErrCodeInternal})
		writeBody(w, r, http.StatusInternalServerError, ContentTypeJSON, fallback)
		return fmt.Errorf("encode response: %w", err)
	}
	writeBody(w, r, status, ContentTypeJSON, body)
	return nil
}

// WriteEmpty writes a status with an empty JSON-typed body and Content-Length: 0.
// It is used for 204 responses and for HEAD probes.
func WriteEmpty(w http.ResponseWriter, status int) {
	h := w.Header()
	h.Set("Content-Type", ContentTypeJSON)
	h.Set("Content-Length", "0")
	w.WriteHeader(status)
}

// WriteNoContent writes a 204 No Content response.
func WriteNoContent(w http.ResponseWriter) {
	WriteEmpty(w, http.StatusNoContent)
}

// WriteError writes a JSON error envelope. The id field is omitted when errCode is empty.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message, errCode string) {
	// An envelope of two strings always encodes.
	_ = WriteJSON(w, r, status, ErrorEnvelope{Message: message, ID: errCode})
}

// WriteText writes a plain-text body.
func WriteText(w http.ResponseWriter, r *http.Request, status int, text string) {
	writeBody(w, r, status, ContentTypeText, []byte(text))
}

// WriteBlob writes body with the given content type.
func WriteBlob(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	writeBody(w, r, status, contentType, body)
}

// WriteBadRequest writes a 400 Bad Request error response.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusBadRequest, message, ErrCodeBadRequest)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusInternalServerError, "Internal Server Error", ErrCodeInternal)
}

// WriteMethodNotAllowed writes a 405 response listing the allowed methods.
func WriteMethodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	WriteError(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", ErrCodeMethodNotAllowed)
}

// WriteNotFound writes a 404 for an unmatched route. Clients that accept JSON
// get the error envelope; everyone else gets a plain-text body.
func WriteNotFound(w http.ResponseWriter, r *http.Request) {
	if AcceptsJSON(r) {
		WriteError(w, r, http.StatusNotFound, NotFoundMessage, ErrCodeNotFound)
		return
	}
	WriteText(w, r, http.StatusNotFound, NotFoundMessage)
}

func writeBody(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if r != nil && r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}
