// Package catalog provides the in-memory Pokémon record collection served by
// the pokedex HTTP API.
//
// The package owns three concerns:
//
//   - Store: the ordered, process-wide record collection. It is seeded once at
//     startup and afterwards mutated only through Insert (append) and Replace
//     (overwrite in place by id).
//   - Filtering: Predicates narrow a snapshot of the store by type and
//     weakness using case-insensitive, per-element equality.
//   - Decoding: Decode turns a request payload plus its declared Content-Type
//     into a normalized Record.
//
// Thread Safety:
//
// Store guards its slice with a sync.RWMutex. Reads proceed concurrently,
// writes are serialized, and every value handed out is a deep copy, so callers
// never observe a partially replaced record.
//
// Usage:
//
//	records, err := catalog.LoadSeed("pokedex.json")
//	if err != nil {
//	    return err
//	}
//	store := catalog.NewStore(records)
//
//	rec, err := catalog.Decode("application/json", body)
//	stored := store.Insert(rec)
//	result, err := store.Replace(rec) // ReplaceUpdated, ReplaceUnchanged or *NotFoundError
//	fire := store.Filter(catalog.Predicates{Type: catalog.Ptr("fire")})
//
// Ids are not required to be unique. Lookups and replacements act on the
// first record with a matching id in store order.
package catalog
