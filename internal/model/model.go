package model

// Premise type values carried through from the source spreadsheet.
const (
	TypeOnPremise  = "On-Premise"
	TypeOffPremise = "Off-Premise"
)

// StoreRecord is the canonical unit flowing through every stage. Stores
// are never addressed by a numeric ID; identity is derived from
// normalized field composites (see internal/identity).
type StoreRecord struct {
	Name    string
	Address string
	City    string
	State   string
	Zip     string
	Phone   string
	Type    string

	// Lat/Lng are nil until the geocoding pass fills them.
	Lat *float64
	Lng *float64

	// Products holds catalog codes in first-seen order.
	Products []string

	// Normalized is the bookkeeping marker set once the external
	// geocoding pass has rewritten the address fields for this row.
	Normalized bool
}

// HasCoords reports whether both coordinates are present.
func (r StoreRecord) HasCoords() bool {
	return r.Lat != nil && r.Lng != nil
}

// HasProduct reports whether the record already carries a catalog code.
func (r StoreRecord) HasProduct(code string) bool {
	for _, p := range r.Products {
		if p == code {
			return true
		}
	}
	return false
}

// AddProduct appends a catalog code if not already present, preserving
// first-seen order.
func (r *StoreRecord) AddProduct(code string) {
	if code == "" || r.HasProduct(code) {
		return
	}
	r.Products = append(r.Products, code)
}

// RawLineItem is one row of the point-of-sale export: one line per
// store x product sold. Names and casing vary per line for the same
// physical location, so raw data is keyed by address, not name.
type RawLineItem struct {
	Name    string
	Address string
	City    string
	State   string
	Zip     string
	Phone   string
	Type    string
	Item    string
}

// Bucket tags a batch row during reconciliation.
type Bucket string

const (
	BucketAlreadyPresent Bucket = "already_present"
	BucketBlocked        Bucket = "previously_removed"
	BucketDuplicate      Bucket = "duplicate_in_batch"
	BucketJunk           Bucket = "junk"
	BucketNew            Bucket = "new"
)

// Classification is the per-row reconciliation outcome kept for the
// audit trail. Reason is set for junk rows; Ref points at the
// conflicting row position for duplicates and already-present rows
// (-1 when not applicable).
type Classification struct {
	Position int
	Key      string
	Bucket   Bucket
	Reason   string
	Ref      int
}
