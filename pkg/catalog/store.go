package catalog

import (
	"sync"
)

// Field names a tag list that UniqueValues can aggregate.
type Field string

const (
	FieldType       Field = "type"
	FieldWeaknesses Field = "weaknesses"
)

// ReplaceResult reports what Replace did.
type ReplaceResult int

const (
	// ReplaceUpdated means the stored record was overwritten with a different value.
	ReplaceUpdated ReplaceResult = iota + 1
	// ReplaceUnchanged means the new value equals the stored one; nothing was written.
	ReplaceUnchanged
)

func (r ReplaceResult) String() string {
	switch r {
	case ReplaceUpdated:
		return "updated"
	case ReplaceUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Store is the ordered in-memory record collection.
type Store struct {
	mu      sync.RWMutex
	records []Record
}

// NewStore creates a Store holding copies of the given records.
func NewStore(records []Record) *Store {
	s := &Store{records: make([]Record, 0, len(records))}
	for _, rec := range records {
		rec = rec.Clone()
		rec.Normalize()
		s.records = append(s.records, rec)
	}
	return s
}

// All returns a snapshot of every record in store order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records)
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// FindByID returns the first record whose id equals id.
func (s *Store) FindByID(id int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.records[i].Clone(), true
	}
	return Record{}, false
}

// Exists reports whether any record carries id.
func (s *Store) Exists(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Insert appends rec and returns the stored copy. Duplicate ids are accepted.
func (s *Store) Insert(rec Record) Record {
	rec = rec.Clone()
	rec.Normalize()

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	return rec.Clone()
}

// Replace overwrites, in place, the first record whose id equals rec.ID.
// It returns *NotFoundError when no record matches or rec has no usable id.
func (s *Store) Replace(rec Record) (ReplaceResult, error) {
	if rec.ID == nil {
		return 0, &NotFoundError{}
	}

	rec = rec.Clone()
	rec.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(*rec.ID)
	if i < 0 {
		return 0, &NotFoundError{ID: Ptr(*rec.ID)}
	}
	if s.records[i].Equal(rec) {
		return ReplaceUnchanged, nil
	}
	s.records[i] = rec
	return ReplaceUpdated, nil
}

// UniqueValues flattens field across all records and drops exact duplicates,
// keeping first-seen order. Unknown fields yield an empty result.
func (s *Store) UniqueValues(field Field) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for i := range s.records {
		var tags []string
		switch field {
		case FieldType:
			tags = s.records[i].Type
		case FieldWeaknesses:
			tags = s.records[i].Weaknesses
		default:
			return values
		}
		for _, tag := range tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			values = append(values, tag)
		}
	}
	return values
}

// Filter returns, in store order, copies of the records matching p.
func (s *Store) Filter(p Predicates) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(ApplyFilters(s.records, p))
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id int) int {
	for i := range s.records {
		if s.records[i].HasID(id) {
			return i
		}
	}
	return -1
}

func cloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out
}
