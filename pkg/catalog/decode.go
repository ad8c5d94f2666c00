package catalog

import (
	"encoding/json"
	"mime"
	"net/url"
	"strconv"
	"strings"
)

// Accepted request body media types.
const (
	MediaTypeJSON = "application/json"
	MediaTypeForm = "application/x-www-form-urlencoded"
)

// Decode turns a request payload and its declared Content-Type into a
// normalized Record. Media type parameters such as charset are ignored.
func Decode(contentType string, payload []byte) (Record, error) {
	mediaType := ""
	if contentType != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return Record{}, &DecodeError{Kind: UnsupportedMediaType, ContentType: contentType, Err: err}
		}
		mediaType = mt
	}

	switch mediaType {
	case MediaTypeJSON:
		return decodeJSON(payload)
	case MediaTypeForm:
		return decodeForm(payload), nil
	default:
		return Record{}, &DecodeError{Kind: UnsupportedMediaType, ContentType: contentType}
	}
}

func decodeJSON(payload []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Record{}, &DecodeError{Kind: InvalidPayload, ContentType: MediaTypeJSON, Err: err}
	}
	rec.Normalize()
	return rec, nil
}

// decodeForm never fails: malformed pairs are skipped, matching how browsers
// parse URLSearchParams.
func decodeForm(payload []byte) Record {
	values, _ := url.ParseQuery(string(payload))

	rec := Record{
		ID:         ParseID(values.Get(keyID)),
		Name:       values.Get(keyName),
		Type:       splitTags(values.Get(keyType)),
		Weaknesses: splitTags(values.Get(keyWeaknesses)),
	}
	if values.Has(keyHeight) {
		rec.Height = rawString(values.Get(keyHeight))
	}
	if values.Has(keyWeight) {
		rec.Weight = rawString(values.Get(keyWeight))
	}
	for _, key := range []string{"num", "img"} {
		if values.Has(key) {
			if rec.Extra == nil {
				rec.Extra = make(map[string]json.RawMessage)
			}
			rec.Extra[key] = rawString(values.Get(key))
		}
	}
	return rec
}

// splitTags splits a comma-separated list. Empty input yields an empty list.
func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// ParseID parses the leading base-10 integer of s, after optional
// whitespace and sign, and ignores any trailing characters. It returns nil
// when s has no leading digits. Form ids and path ids both use it.
func ParseID(s string) *int {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &n
}

func rawString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
