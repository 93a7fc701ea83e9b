// Package publish converts the curated store table into the JSON feed
// the map client consumes.
package publish

import (
	"encoding/json"
	"io"

	"storelocator/internal/catalog"
	"storelocator/internal/model"
)

// Entry is the exact shape the map client expects: nothing more,
// nothing less. Product values are expanded display names.
type Entry struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Zip      string   `json:"zip"`
	Phone    string   `json:"phone"`
	Type     string   `json:"type"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Products []string `json:"products"`
}

// Build maps curated records to publish entries in row order.
func Build(records []model.StoreRecord, cat *catalog.Catalog) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		products := cat.Expand(rec.Products)
		if products == nil {
			products = []string{}
		}
		entries = append(entries, Entry{
			Name:     rec.Name,
			Address:  rec.Address,
			City:     rec.City,
			State:    rec.State,
			Zip:      rec.Zip,
			Phone:    rec.Phone,
			Type:     rec.Type,
			Lat:      rec.Lat,
			Lng:      rec.Lng,
			Products: products,
		})
	}
	return entries
}

// Write emits the JSON array. Coordinates survive a round-trip intact:
// encoding/json renders float64 with the shortest representation that
// re-parses to the same value.
func Write(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// Read parses a previously published feed. Used by round-trip checks
// and by tooling that diffs two published artifacts.
func Read(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}
