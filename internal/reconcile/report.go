package reconcile

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteBlockedCSV emits the blocked rows with their removal context so
// a curator can override when a removal was a mistake.
func WriteBlockedCSV(w io.Writer, blocked []Entry) error {
	cw := csv.NewWriter(w)
	header := []string{
		"batch_row", "store_name", "address", "city", "state", "zip", "key",
		"removed_name", "removed_address", "removed_city", "removed_state",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range blocked {
		row := []string{
			strconv.Itoa(e.Position + 2),
			e.Record.Name,
			e.Record.Address,
			e.Record.City,
			e.Record.State,
			e.Record.Zip,
			e.Key,
			"", "", "", "",
		}
		if e.Removed != nil {
			row[7] = e.Removed.Name
			row[8] = e.Removed.Address
			row[9] = e.Removed.City
			row[10] = e.Removed.State
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
