package httputil

import (
	"mime"
	"net/http"
	"strings"
)

// AcceptsJSON reports whether the request's Accept header lists
// application/json or */*. Quality parameters are ignored. A missing Accept
// header does not count as accepting JSON.
func AcceptsJSON(r *http.Request) bool {
	for _, value := range r.Header.Values("Accept") {
		for _, part := range strings.Split(value, ",") {
			mediaType := strings.TrimSpace(part)
			if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
				mediaType = mt
			} else if i := strings.IndexByte(mediaType, ';'); i >= 0 {
				mediaType = strings.TrimSpace(mediaType[:i])
			}
			switch strings.ToLower(mediaType) {
			case ContentTypeJSON, "*/*":
				return true
			}
		}
	}
	return false
}
