package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jinzhu/copier"
)

// Known record keys. Anything else is kept verbatim in Record.Extra.
const (
	keyID         = "id"
	keyName       = "name"
	keyType       = "type"
	keyWeaknesses = "weaknesses"
	keyHeight     = "height"
	keyWeight     = "weight"
)

// Record is a single catalog entry.
type Record struct {
	// ID selects the record for lookups and edits. Nil means the input carried
	// no usable integer; such a record is never matched by id.
	ID *int
	// Name is the display name.
	Name string
	// Type holds the category tags in input order. Never nil once normalized.
	Type []string
	// Weaknesses holds the weakness tags in input order. Never nil once normalized.
	Weaknesses []string
	// Height is a free-form scalar (string or number). Nil when absent.
	Height json.RawMessage
	// Weight is a free-form scalar (string or number). Nil when absent.
	Weight json.RawMessage
	// Extra carries passthrough attributes such as num and img.
	Extra map[string]json.RawMessage
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// HasID reports whether the record carries a usable id equal to id.
func (r *Record) HasID(id int) bool {
	return r.ID != nil && *r.ID == id
}

// Normalize replaces nil Type and Weaknesses with empty slices.
func (r *Record) Normalize() {
	if r.Type == nil {
		r.Type = []string{}
	}
	if r.Weaknesses == nil {
		r.Weaknesses = []string{}
	}
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	var out Record
	if err := copier.CopyWithOption(&out, &r, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, which cannot happen for
		// identical types.
		panic(fmt.Sprintf("catalog: clone record: %v", err))
	}
	return out
}

// Equal reports whether two records have the same canonical JSON encoding.
func (r Record) Equal(other Record) bool {
	a, errA := r.MarshalJSON()
	b, errB := other.MarshalJSON()
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// MarshalJSON encodes the record with known keys in a fixed order followed by
// extra keys in sorted order. Equal relies on this encoding being canonical.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	field := func(key string, value any) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %q: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(encoded)
		return nil
	}

	types := r.Type
	if types == nil {
		types = []string{}
	}
	weaknesses := r.Weaknesses
	if weaknesses == nil {
		weaknesses = []string{}
	}

	if err := field(keyID, r.ID); err != nil {
		return nil, err
	}
	if err := field(keyName, r.Name); err != nil {
		return nil, err
	}
	if err := field(keyType, types); err != nil {
		return nil, err
	}
	if err := field(keyWeaknesses, weaknesses); err != nil {
		return nil, err
	}
	if len(r.Height) > 0 {
		if err := field(keyHeight, r.Height); err != nil {
			return nil, err
		}
	}
	if len(r.Weight) > 0 {
		if err := field(keyWeight, r.Weight); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		if isKnownKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := field(k, r.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the record. Known keys must have
// the expected JSON kind; unknown keys are kept in Extra. An id that is not an
// integral number decodes to the nil sentinel rather than failing.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errNotObject
	}

	out := Record{}
	for key, raw := range fields {
		switch key {
		case keyID:
			out.ID = parseJSONID(raw)
		case keyName:
			if isNull(raw) {
				continue
			}
			if err := json.Unmarshal(raw, &out.Name); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
		case keyType:
			if err := unmarshalTags(raw, &out.Type); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
		case keyWeaknesses:
			if err := unmarshalTags(raw, &out.Weaknesses); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
		case keyHeight:
			out.Height = compact(raw)
		case keyWeight:
			out.Weight = compact(raw)
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]json.RawMessage)
			}
			out.Extra[key] = compact(raw)
		}
	}

	out.Normalize()
	*r = out
	return nil
}

var errNotObject = errors.New("record must be a JSON object")

func isKnownKey(k string) bool {
	switch k {
	case keyID, keyName, keyType, keyWeaknesses, keyHeight, keyWeight:
		return true
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func unmarshalTags(raw json.RawMessage, dst *[]string) error {
	if isNull(raw) {
		*dst = []string{}
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return err
	}
	*dst = tags
	return nil
}

// parseJSONID returns the integer value of raw, or nil when raw is not an
// integral JSON number.
func parseJSONID(raw json.RawMessage) *int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || (trimmed[0] != '-' && (trimmed[0] < '0' || trimmed[0] > '9')) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	if i, err := n.Int64(); err == nil {
		if i < math.MinInt || i > math.MaxInt {
			return nil
		}
		return Ptr(int(i))
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f > math.MaxInt {
		return nil
	}
	return Ptr(int(f))
}

func compact(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return append(json.RawMessage(nil), raw...)
	}
	return buf.Bytes()
}
