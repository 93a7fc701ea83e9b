// Package dedupe finds same-store rows within one ordered dataset.
package dedupe

import (
	"storelocator/internal/identity"
	"storelocator/internal/model"
)

// OrderedIndex maps a key to the position of its first occurrence,
// remembering insertion order. First occurrence always wins: callers
// must preserve the source file's row order, because the outcome is
// deliberately not commutative with respect to input ordering.
type OrderedIndex struct {
	first map[string]int
	keys  []string
}

// NewOrderedIndex returns an empty index.
func NewOrderedIndex() *OrderedIndex {
	return &OrderedIndex{first: make(map[string]int)}
}

// Insert records key at pos. When the key was already seen it returns
// the first occurrence's position and dup=true, leaving the index
// unchanged.
func (o *OrderedIndex) Insert(key string, pos int) (int, bool) {
	if existing, ok := o.first[key]; ok {
		return existing, true
	}
	o.first[key] = pos
	o.keys = append(o.keys, key)
	return pos, false
}

// Lookup returns the first occurrence position for key.
func (o *OrderedIndex) Lookup(key string) (int, bool) {
	pos, ok := o.first[key]
	return pos, ok
}

// Keys returns the distinct keys in insertion order.
func (o *OrderedIndex) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len reports the number of distinct keys.
func (o *OrderedIndex) Len() int { return len(o.keys) }

// Duplicate is a conflict record: the row at Position shares a
// composite key with the earlier row at First.
type Duplicate struct {
	Position int
	First    int
	Key      string
}

// FindDuplicates scans records in order and flags every row whose
// name+city+state composite key was already seen. The first occurrence
// is never flagged.
func FindDuplicates(records []model.StoreRecord) []Duplicate {
	index := NewOrderedIndex()
	var dups []Duplicate
	for i, rec := range records {
		key := identity.CompositeKey(rec.Name, rec.City, rec.State)
		if first, dup := index.Insert(key, i); dup {
			dups = append(dups, Duplicate{Position: i, First: first, Key: key})
		}
	}
	return dups
}
