// Package pivot aggregates raw per-product-line export rows into one
// record per physical store.
package pivot

import (
	"strings"

	"storelocator/internal/catalog"
	"storelocator/internal/identity"
	"storelocator/internal/model"
)

// Summary reports what a pivot run did with its input.
type Summary struct {
	RawRows      int
	Skipped      int
	Stores       int
	Unrecognized int
}

// Run groups raw line items by the address-based composite key and
// aggregates each group into a StoreRecord. First occurrence wins for
// name, phone, and type; the product set is the union of every
// recognized item across the group. Rows without an address (including
// spreadsheet "Total" subtotal lines) are counted and skipped, not
// errors.
func Run(items []model.RawLineItem, cat *catalog.Catalog) ([]model.StoreRecord, Summary) {
	summary := Summary{RawRows: len(items)}
	index := make(map[string]int)
	var stores []model.StoreRecord

	for _, item := range items {
		if malformed(item) {
			summary.Skipped++
			continue
		}
		key := identity.AddressKey(item.Address, item.City, item.State, item.Zip)
		pos, ok := index[key]
		if !ok {
			pos = len(stores)
			index[key] = pos
			stores = append(stores, model.StoreRecord{
				Name:    strings.TrimSpace(item.Name),
				Address: strings.TrimSpace(item.Address),
				City:    strings.TrimSpace(item.City),
				State:   strings.TrimSpace(item.State),
				Zip:     strings.TrimSpace(item.Zip),
				Phone:   NormalizePhone(item.Phone),
				Type:    strings.TrimSpace(item.Type),
			})
		}
		rec := &stores[pos]
		if rec.Name == "" {
			rec.Name = strings.TrimSpace(item.Name)
		}
		if rec.Phone == "" {
			rec.Phone = NormalizePhone(item.Phone)
		}
		if rec.Type == "" {
			rec.Type = strings.TrimSpace(item.Type)
		}
		if code, matched := cat.Match(item.Item); matched {
			rec.AddProduct(code)
		} else if strings.TrimSpace(item.Item) != "" {
			summary.Unrecognized++
		}
	}

	summary.Stores = len(stores)
	return stores, summary
}

// malformed reports rows that cannot identify a physical location:
// empty address fields or the literal "Total" subtotal sentinel rows
// spreadsheets append below each group.
func malformed(item model.RawLineItem) bool {
	address := strings.TrimSpace(item.Address)
	if address == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(item.Name), "total") || strings.EqualFold(address, "total") {
		return true
	}
	return false
}
