package catalog

import (
	"net/url"

	"golang.org/x/text/cases"
)

// Query parameter names understood by PredicatesFromQuery.
const (
	QueryType     = "type"
	QueryWeakness = "weakness"
)

// Predicates are optional attribute constraints. A nil predicate imposes no
// constraint; supplied predicates are combined with AND.
type Predicates struct {
	// Type matches records with at least one type equal to it, ignoring case.
	Type *string
	// Weakness matches records with at least one weakness equal to it, ignoring case.
	Weakness *string
}

// PredicatesFromQuery builds Predicates from URL query values. A key that is
// absent or empty leaves that predicate unset.
func PredicatesFromQuery(q url.Values) Predicates {
	var p Predicates
	if v := q.Get(QueryType); v != "" {
		p.Type = Ptr(v)
	}
	if v := q.Get(QueryWeakness); v != "" {
		p.Weakness = Ptr(v)
	}
	return p
}

// IsEmpty reports whether no predicate is set.
func (p Predicates) IsEmpty() bool {
	return p.Type == nil && p.Weakness == nil
}

// ApplyFilters returns the records matching p, preserving order. The returned
// slice shares elements with records.
func ApplyFilters(records []Record, p Predicates) []Record {
	if p.IsEmpty() {
		return records
	}

	// A Caser is stateful, so each call gets its own.
	folder := cases.Fold()

	var wantType, wantWeakness string
	if p.Type != nil {
		wantType = folder.String(*p.Type)
	}
	if p.Weakness != nil {
		wantWeakness = folder.String(*p.Weakness)
	}

	result := make([]Record, 0, len(records))
	for _, rec := range records {
		if p.Type != nil && !containsFolded(folder, rec.Type, wantType) {
			continue
		}
		if p.Weakness != nil && !containsFolded(folder, rec.Weaknesses, wantWeakness) {
			continue
		}
		result = append(result, rec)
	}
	return result
}

func containsFolded(folder cases.Caser, tags []string, want string) bool {
	for _, tag := range tags {
		if folder.String(tag) == want {
			return true
		}
	}
	return false
}
