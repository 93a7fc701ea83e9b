package catalog

import (
	"testing"

	"storelocator/internal/config"
)

func defaultCatalog() *Catalog {
	return New(config.DefaultCatalog())
}

func TestMatch(t *testing.T) {
	cases := []struct {
		item string
		code string
		ok   bool
	}{
		{"Kentucky Straight Bourbon 750ML", "bourbon", true},
		{"Straight Rye Whiskey 6/750ML", "rye", true},
		{"Bottled in Bond Bourbon 750 ml", "bib", true},
		{"Cask Strength Bourbon 750ML", "cask", true},
		{"Bourbon Cream 750 ml", "cream", true},
		{"Single Barrel Select 1.75L", "select", true},
		{"BOURBON CREAM LIQUEUR", "cream", true},
		{"Mystery Vodka 750ML", "", false},
		{"", "", false},
		{"750ML", "", false},
	}
	cat := defaultCatalog()
	for _, c := range cases {
		code, ok := cat.Match(c.item)
		if ok != c.ok || code != c.code {
			t.Errorf("Match(%q) = (%q,%v), want (%q,%v)", c.item, code, ok, c.code, c.ok)
		}
	}
}

func TestMatchLongestPatternFirst(t *testing.T) {
	// "cask strength bourbon" must resolve to cask even though a shorter
	// bourbon pattern is also a substring candidate.
	cat := defaultCatalog()
	if code, ok := cat.Match("Cask Strength Bourbon"); !ok || code != "cask" {
		t.Fatalf("Match = (%q,%v), want (cask,true)", code, ok)
	}
	if code, ok := cat.Match("Kentucky Straight Bourbon"); !ok || code != "bourbon" {
		t.Fatalf("Match = (%q,%v), want (bourbon,true)", code, ok)
	}
}

func TestMatchStripsStackedPackSizes(t *testing.T) {
	cat := defaultCatalog()
	// Exports sometimes stack pack tokens; the stripper iterates.
	if code, ok := cat.Match("Straight Rye Whiskey 6/750ML 12pk"); !ok || code != "rye" {
		t.Fatalf("Match = (%q,%v), want (rye,true)", code, ok)
	}
}

func TestDisplayUnknownCodePassesThrough(t *testing.T) {
	cat := defaultCatalog()
	if got := cat.Display("bourbon"); got != "Kentucky Straight Bourbon" {
		t.Errorf("Display(bourbon) = %q", got)
	}
	if got := cat.Display("retired_sku"); got != "retired_sku" {
		t.Errorf("Display(retired_sku) = %q", got)
	}
}

func TestExpandPreservesOrder(t *testing.T) {
	cat := defaultCatalog()
	got := cat.Expand([]string{"rye", "bourbon"})
	if len(got) != 2 || got[0] != "Straight Rye Whiskey" || got[1] != "Kentucky Straight Bourbon" {
		t.Fatalf("Expand = %v", got)
	}
}

func TestCodesConfigurationOrder(t *testing.T) {
	got := defaultCatalog().Codes()
	want := []string{"bourbon", "rye", "bib", "cask", "cream", "select"}
	if len(got) != len(want) {
		t.Fatalf("Codes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Codes = %v, want %v", got, want)
		}
	}
}

func TestNewSkipsBlankAndDuplicateCodes(t *testing.T) {
	cat := New([]config.ProductEntry{
		{Code: "a", Display: "Alpha"},
		{Code: "", Display: "Blank"},
		{Code: "a", Display: "Alpha Again"},
	})
	if got := cat.Codes(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("Codes = %v, want [a]", got)
	}
	if got := cat.Display("a"); got != "Alpha" {
		t.Fatalf("Display(a) = %q, want first entry to win", got)
	}
}
