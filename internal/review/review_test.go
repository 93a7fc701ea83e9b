package review

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storelocator/internal/classify"
	"storelocator/internal/config"
	"storelocator/internal/model"
)

func newClassifier() *classify.Classifier {
	return classify.New(config.DefaultRules())
}

func rec(name, address string) model.StoreRecord {
	return model.StoreRecord{Name: name, Address: address, City: "Austin", State: "TX"}
}

func TestSheetRow(t *testing.T) {
	// Header is spreadsheet row 1; first data row is 2.
	assert.Equal(t, 2, SheetRow(0))
	assert.Equal(t, 7, SheetRow(5))
}

func TestBuildMergesAndSorts(t *testing.T) {
	records := []model.StoreRecord{
		rec("Joe's Liquor", "123 Main St"),  // 0: clean
		rec("Drizly", "1 Internet Way"),     // 1: junk
		rec("Moe's Liquor", "456 Oak Ave"),  // 2: clean
		rec("JOES LIQUOR", "123 Main St"),   // 3: duplicate of 0
	}
	flags := Build(records, newClassifier())
	require.Len(t, flags, 2)

	assert.Equal(t, 3, flags[0].SheetRow)
	assert.Equal(t, "online_retailer", flags[0].Issue)
	assert.Equal(t, 5, flags[1].SheetRow)
	assert.Equal(t, "duplicate of row 2", flags[1].Issue)
}

func TestBuildRowMatchingBothEmitsTwice(t *testing.T) {
	records := []model.StoreRecord{
		rec("Drizly", "1 Internet Way"),
		rec("Drizly", "1 Internet Way"),
	}
	flags := Build(records, newClassifier())
	require.Len(t, flags, 3)

	assert.Equal(t, 2, flags[0].SheetRow)
	assert.Equal(t, "online_retailer", flags[0].Issue)
	// Row 3 matches both checks; junk flag comes first.
	assert.Equal(t, 3, flags[1].SheetRow)
	assert.Equal(t, "online_retailer", flags[1].Issue)
	assert.Equal(t, 3, flags[2].SheetRow)
	assert.Equal(t, "duplicate of row 2", flags[2].Issue)
}

func TestBuildReportsCoords(t *testing.T) {
	lat, lng := 30.25, -97.75
	with := rec("Drizly", "1 Internet Way")
	with.Lat, with.Lng = &lat, &lng
	without := rec("Minibar Delivery", "2 Internet Way")

	flags := Build([]model.StoreRecord{with, without}, newClassifier())
	require.Len(t, flags, 2)
	assert.True(t, flags[0].HasCoords)
	assert.False(t, flags[1].HasCoords)
}

func TestWriteCSV(t *testing.T) {
	flags := Build([]model.StoreRecord{
		rec("Joe's Liquor", "123 Main St"),
		rec("Drizly", "1 Internet Way"),
	}, newClassifier())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, flags))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "sheet_row,issue,store_name,address,city,state,zip,has_lat_lng", lines[0])
	assert.Equal(t, "3,online_retailer,Drizly,1 Internet Way,Austin,TX,,false", lines[1])
}
