// Package tabular reads and writes the flat CSV tables every stage
// exchanges: raw point-of-sale exports and store tables.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"storelocator/internal/model"
)

// Column aliases tolerated on read. Exports come from different
// spreadsheet tabs whose headers drift over time.
var (
	nameAliases    = []string{"store_name", "name", "account_name", "retail_account", "account"}
	addressAliases = []string{"address", "address1", "street"}
	cityAliases    = []string{"city"}
	stateAliases   = []string{"state", "st"}
	zipAliases     = []string{"zip", "zipcode", "zip_code", "postal_code"}
	phoneAliases   = []string{"phone", "phone_number", "telephone"}
	typeAliases    = []string{"type", "premise_type"}
	latAliases     = []string{"lat", "latitude"}
	lngAliases     = []string{"lng", "lon", "long", "longitude"}
	prodAliases    = []string{"products", "product_codes"}
	normAliases    = []string{"normalized"}
	itemAliases    = []string{"item", "item_name", "product", "description"}
)

// table is a header-indexed view over one parsed CSV file.
type table struct {
	headers []string
	rows    []map[string]string
}

func load(r io.Reader) (table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return table{}, err
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1
	headers, err := cr.Read()
	if err != nil {
		return table{}, fmt.Errorf("read header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table{}, err
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return table{headers: headers, rows: rows}, nil
}

func (t table) field(row map[string]string, aliases []string) string {
	for _, a := range aliases {
		if v, ok := row[a]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ReadRaw parses a point-of-sale export: one row per store x product
// line item, in file order.
func ReadRaw(r io.Reader) ([]model.RawLineItem, error) {
	t, err := load(r)
	if err != nil {
		return nil, err
	}
	items := make([]model.RawLineItem, 0, len(t.rows))
	for _, row := range t.rows {
		items = append(items, model.RawLineItem{
			Name:    t.field(row, nameAliases),
			Address: t.field(row, addressAliases),
			City:    t.field(row, cityAliases),
			State:   t.field(row, stateAliases),
			Zip:     t.field(row, zipAliases),
			Phone:   t.field(row, phoneAliases),
			Type:    t.field(row, typeAliases),
			Item:    t.field(row, itemAliases),
		})
	}
	return items, nil
}

// ReadStores parses a pivoted or published store table, preserving row
// order. Duplicate detection and review tooling depend on that order.
func ReadStores(r io.Reader) ([]model.StoreRecord, error) {
	t, err := load(r)
	if err != nil {
		return nil, err
	}
	records := make([]model.StoreRecord, 0, len(t.rows))
	for _, row := range t.rows {
		rec := model.StoreRecord{
			Name:    t.field(row, nameAliases),
			Address: t.field(row, addressAliases),
			City:    t.field(row, cityAliases),
			State:   t.field(row, stateAliases),
			Zip:     t.field(row, zipAliases),
			Phone:   t.field(row, phoneAliases),
			Type:    t.field(row, typeAliases),
		}
		rec.Lat = parseCoord(t.field(row, latAliases))
		rec.Lng = parseCoord(t.field(row, lngAliases))
		rec.Products = splitProducts(t.field(row, prodAliases))
		if v := t.field(row, normAliases); v != "" {
			b, err := strconv.ParseBool(v)
			rec.Normalized = err == nil && b
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteStores emits the standard store table shape, one comma-joined
// products column, coordinates rendered without precision loss.
func WriteStores(w io.Writer, records []model.StoreRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"store_name", "address", "city", "state", "zip", "phone", "type", "lat", "lng", "products", "normalized"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Name,
			rec.Address,
			rec.City,
			rec.State,
			rec.Zip,
			rec.Phone,
			rec.Type,
			formatCoord(rec.Lat),
			formatCoord(rec.Lng),
			strings.Join(rec.Products, ","),
			strconv.FormatBool(rec.Normalized),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadStoresFile and WriteStoresFile are the path-based conveniences
// the stage runners use.
func ReadStoresFile(path string) ([]model.StoreRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadStores(f)
}

func WriteStoresFile(path string, records []model.StoreRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteStores(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadRawFile(path string) ([]model.RawLineItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRaw(f)
}

func parseCoord(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func splitProducts(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
