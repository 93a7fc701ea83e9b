// Package reconcile classifies a newly pivoted batch against the
// currently published dataset and the original historical import.
package reconcile

import (
	"sort"

	"storelocator/internal/classify"
	"storelocator/internal/dedupe"
	"storelocator/internal/identity"
	"storelocator/internal/model"
)

// Entry is one classified batch row. Position is the row's index in
// the batch; Ref points at the conflicting row (-1 otherwise): the
// earlier batch row for duplicates, the current-dataset row for
// already-present entries. Removed carries the historical record a
// blocked key matched, so a curator can override when the removal was
// a mistake.
type Entry struct {
	Position int
	Key      string
	Record   model.StoreRecord
	Reason   classify.Reason
	Ref      int
	Removed  *model.StoreRecord
}

// Result groups the batch into classification buckets.
type Result struct {
	New            []Entry
	AlreadyPresent []Entry
	Blocked        []Entry
	Junk           []Entry
	Duplicates     []Entry
}

// Counts returns per-bucket sizes for the run summary.
func (r Result) Counts() map[string]int {
	return map[string]int{
		string(model.BucketNew):            len(r.New),
		string(model.BucketAlreadyPresent): len(r.AlreadyPresent),
		string(model.BucketBlocked):        len(r.Blocked),
		string(model.BucketJunk):           len(r.Junk),
		string(model.BucketDuplicate):      len(r.Duplicates),
	}
}

// Classifications flattens the result back into batch order for the
// audit trail.
func (r Result) Classifications() []model.Classification {
	out := make([]model.Classification, 0,
		len(r.New)+len(r.AlreadyPresent)+len(r.Blocked)+len(r.Junk)+len(r.Duplicates))
	add := func(entries []Entry, bucket model.Bucket) {
		for _, e := range entries {
			out = append(out, model.Classification{
				Position: e.Position,
				Key:      e.Key,
				Bucket:   bucket,
				Reason:   string(e.Reason),
				Ref:      e.Ref,
			})
		}
	}
	add(r.New, model.BucketNew)
	add(r.AlreadyPresent, model.BucketAlreadyPresent)
	add(r.Blocked, model.BucketBlocked)
	add(r.Junk, model.BucketJunk)
	add(r.Duplicates, model.BucketDuplicate)
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Run classifies every batch record, in input order.
//
// Keys present in the original import but absent from the current
// dataset were deliberately removed by a curator. Removal intent is a
// human-sourced signal and strictly dominates the junk and duplicate
// checks: a previously removed store is reported blocked even when it
// also matches a junk pattern, and is never resurrected as new.
func Run(current, original, batch []model.StoreRecord, cls *classify.Classifier) Result {
	currentIndex := keyset(current)
	removed := removedRecords(current, original)

	var res Result
	seen := dedupe.NewOrderedIndex()
	for i, rec := range batch {
		key := identity.CompositeKey(rec.Name, rec.City, rec.State)
		entry := Entry{Position: i, Key: key, Record: rec, Ref: -1}

		if pos, ok := currentIndex[key]; ok {
			entry.Ref = pos
			res.AlreadyPresent = append(res.AlreadyPresent, entry)
			continue
		}
		if gone, ok := removed[key]; ok {
			entry.Removed = &gone
			res.Blocked = append(res.Blocked, entry)
			continue
		}
		if reason, junk := cls.Classify(rec); junk {
			entry.Reason = reason
			res.Junk = append(res.Junk, entry)
			continue
		}
		if first, dup := seen.Insert(key, i); dup {
			entry.Ref = first
			res.Duplicates = append(res.Duplicates, entry)
			continue
		}
		res.New = append(res.New, entry)
	}
	return res
}

// keyset indexes records by composite key, keeping the position of the
// first occurrence so already-present entries can point back at the
// conflicting current-dataset row.
func keyset(records []model.StoreRecord) map[string]int {
	index := make(map[string]int, len(records))
	for i, rec := range records {
		key := identity.CompositeKey(rec.Name, rec.City, rec.State)
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}
	return index
}

// removedRecords returns original-import records whose keys are absent
// from the current dataset, keyed for the blocked check. When the
// original import itself repeats a key, the first occurrence is kept as
// the removal context.
func removedRecords(current, original []model.StoreRecord) map[string]model.StoreRecord {
	currentKeys := keyset(current)
	removed := make(map[string]model.StoreRecord)
	for _, rec := range original {
		key := identity.CompositeKey(rec.Name, rec.City, rec.State)
		if _, live := currentKeys[key]; live {
			continue
		}
		if _, ok := removed[key]; !ok {
			removed[key] = rec
		}
	}
	return removed
}
