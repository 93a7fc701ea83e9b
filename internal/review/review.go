// Package review builds the flat flagged-row list a human curator
// works through when cleaning the published dataset.
package review

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"storelocator/internal/classify"
	"storelocator/internal/dedupe"
	"storelocator/internal/model"
)

// Flag is one review item. SheetRow is the 1-based spreadsheet row of
// the record (header row is 1, first data row is 2) so a reviewer can
// jump straight to it.
type Flag struct {
	SheetRow  int
	Issue     string
	Record    model.StoreRecord
	HasCoords bool
}

// SheetRow converts a 0-based data position to its spreadsheet row.
func SheetRow(position int) int { return position + 2 }

// Build runs the junk classifier and the duplicate detector over the
// current dataset and merges both flag sets, ordered by original row
// position for stable human review. A row matching both checks is
// emitted twice, junk flag first.
func Build(records []model.StoreRecord, cls *classify.Classifier) []Flag {
	var flags []Flag
	for i, rec := range records {
		if reason, junk := cls.Classify(rec); junk {
			flags = append(flags, Flag{
				SheetRow:  SheetRow(i),
				Issue:     string(reason),
				Record:    rec,
				HasCoords: rec.HasCoords(),
			})
		}
	}
	for _, dup := range dedupe.FindDuplicates(records) {
		flags = append(flags, Flag{
			SheetRow:  SheetRow(dup.Position),
			Issue:     fmt.Sprintf("duplicate of row %d", SheetRow(dup.First)),
			Record:    records[dup.Position],
			HasCoords: records[dup.Position].HasCoords(),
		})
	}
	sort.SliceStable(flags, func(i, j int) bool { return flags[i].SheetRow < flags[j].SheetRow })
	return flags
}

// WriteCSV emits the review list in the shape the curator's
// spreadsheet import expects.
func WriteCSV(w io.Writer, flags []Flag) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sheet_row", "issue", "store_name", "address", "city", "state", "zip", "has_lat_lng"}); err != nil {
		return err
	}
	for _, f := range flags {
		row := []string{
			strconv.Itoa(f.SheetRow),
			f.Issue,
			f.Record.Name,
			f.Record.Address,
			f.Record.City,
			f.Record.State,
			f.Record.Zip,
			strconv.FormatBool(f.HasCoords),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
