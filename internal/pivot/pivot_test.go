package pivot

import (
	"testing"

	"storelocator/internal/catalog"
	"storelocator/internal/config"
	"storelocator/internal/model"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(config.DefaultCatalog())
}

func line(name, address, item string) model.RawLineItem {
	return model.RawLineItem{
		Name:    name,
		Address: address,
		City:    "Austin",
		State:   "TX",
		Zip:     "78701",
		Item:    item,
	}
}

func TestRunGroupsByAddress(t *testing.T) {
	items := []model.RawLineItem{
		line("Joe's Liquor", "123 Main St", "Kentucky Straight Bourbon 750ML"),
		line("JOES LIQUOR #1", "123 Main St", "Straight Rye Whiskey 6/750ML"),
		line("Joe's Liquor", "123 Main St", "Kentucky Straight Bourbon 750ML"), // repeat item
		line("Moe's Liquor", "456 Oak Ave", "Bourbon Cream 750 ml"),
	}

	stores, summary := Run(items, testCatalog())

	if len(stores) != 2 {
		t.Fatalf("expected 2 stores, got %d", len(stores))
	}
	if summary.Stores != 2 || summary.RawRows != 4 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	joe := stores[0]
	if joe.Name != "Joe's Liquor" {
		t.Errorf("first-seen name should win, got %q", joe.Name)
	}
	if len(joe.Products) != 2 || joe.Products[0] != "bourbon" || joe.Products[1] != "rye" {
		t.Errorf("products = %v, want [bourbon rye]", joe.Products)
	}
	if stores[1].Products[0] != "cream" {
		t.Errorf("second store products = %v", stores[1].Products)
	}
}

func TestRunFirstNonEmptyFieldWins(t *testing.T) {
	first := line("", "123 Main St", "Straight Bourbon")
	second := line("Joe's Liquor", "123 Main St", "Rye Whiskey")
	second.Phone = "2125551234"
	second.Type = model.TypeOffPremise

	stores, _ := Run([]model.RawLineItem{first, second}, testCatalog())
	if len(stores) != 1 {
		t.Fatalf("expected 1 store, got %d", len(stores))
	}
	if stores[0].Name != "Joe's Liquor" {
		t.Errorf("empty first name should be backfilled, got %q", stores[0].Name)
	}
	if stores[0].Phone != "(212) 555-1234" {
		t.Errorf("phone = %q", stores[0].Phone)
	}
	if stores[0].Type != model.TypeOffPremise {
		t.Errorf("type = %q", stores[0].Type)
	}
}

func TestRunSkipsMalformedRows(t *testing.T) {
	items := []model.RawLineItem{
		line("Joe's Liquor", "123 Main St", "Straight Bourbon"),
		line("Orphan", "", "Straight Bourbon"),
		line("Total", "Total", ""),
		{Name: "Total"}, // spreadsheet subtotal line
	}
	stores, summary := Run(items, testCatalog())
	if len(stores) != 1 {
		t.Fatalf("expected 1 store, got %d", len(stores))
	}
	if summary.Skipped != 3 {
		t.Fatalf("skipped = %d, want 3", summary.Skipped)
	}
}

func TestRunCountsUnrecognizedItems(t *testing.T) {
	items := []model.RawLineItem{
		line("Joe's Liquor", "123 Main St", "Mystery Vodka 750ML"),
		line("Joe's Liquor", "123 Main St", ""),
	}
	stores, summary := Run(items, testCatalog())
	if summary.Unrecognized != 1 {
		t.Fatalf("unrecognized = %d, want 1", summary.Unrecognized)
	}
	if len(stores) != 1 || len(stores[0].Products) != 0 {
		t.Fatalf("unexpected stores %+v", stores)
	}
}
