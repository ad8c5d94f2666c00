package catalog

import (
	"fmt"
	"net/http"
	"strconv"
)

// StatusCodeError is an error that maps onto an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}

// NotFoundError is returned when no record carries the requested id.
type NotFoundError struct {
	// ID is the id that was looked up. Nil when the input had no usable id.
	ID *int
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return "pokemon not found: no usable id"
	}
	return "pokemon " + strconv.Itoa(*e.ID) + " not found"
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// DecodeErrorKind classifies body decoding failures.
type DecodeErrorKind int

const (
	// InvalidPayload means the payload could not be parsed for its declared type.
	InvalidPayload DecodeErrorKind = iota + 1
	// UnsupportedMediaType means the Content-Type is missing or not accepted.
	UnsupportedMediaType
)

func (k DecodeErrorKind) String() string {
	switch k {
	case InvalidPayload:
		return "invalid payload"
	case UnsupportedMediaType:
		return "unsupported media type"
	default:
		return "unknown"
	}
}

// DecodeError is returned by Decode.
type DecodeError struct {
	Kind        DecodeErrorKind
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Kind == UnsupportedMediaType && e.ContentType == "":
		return "unsupported media type: missing Content-Type"
	case e.Kind == UnsupportedMediaType:
		return fmt.Sprintf("unsupported media type %q", e.ContentType)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error. Both kinds are
// reported to clients as 400.
func (e *DecodeError) StatusCode() int {
	return http.StatusBadRequest
}

// PayloadTooLargeError is returned when a request body exceeds the configured limit.
type PayloadTooLargeError struct {
	MaxSize int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("request body too large: max %d bytes allowed", e.MaxSize)
}

// StatusCode returns the HTTP status code for this error.
func (e *PayloadTooLargeError) StatusCode() int {
	return http.StatusRequestEntityTooLarge
}

// SeedError is returned when the startup seed document cannot be used.
type SeedError struct {
	Path string
	Err  error
}

func (e *SeedError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load seed: %v", e.Err)
	}
	return fmt.Sprintf("load seed %s: %v", e.Path, e.Err)
}

func (e *SeedError) Unwrap() error {
	return e.Err
}
