// Package catalog matches free-text line-item names against the fixed
// product catalog and expands codes for publication.
package catalog

import (
	"regexp"
	"sort"
	"strings"

	"storelocator/internal/config"
)

// packSizePattern strips trailing pack/size tokens from an item name:
// "Straight Rye Whiskey 6/750ML", "Bourbon Cream 750 ml", "... 1.75L",
// "... 12pk". Exported spreadsheets append these inconsistently.
var packSizePattern = regexp.MustCompile(`(?i)[\s\-]*(\d+\s*/\s*)?\d+(\.\d+)?\s*(ml|l|ltr|liter|oz|pk|pack|cs|case)\b\.?\s*$`)

type pattern struct {
	text string
	code string
}

// Catalog resolves item names to product codes and codes to display
// names. Matching is longest-known-name-first so a short product name
// never falsely matches as a prefix of a longer one.
type Catalog struct {
	display  map[string]string
	order    []string
	patterns []pattern
}

// New builds a catalog from configured entries. Each entry matches on
// its display name plus any configured aliases.
func New(entries []config.ProductEntry) *Catalog {
	c := &Catalog{display: make(map[string]string, len(entries))}
	for _, e := range entries {
		code := strings.TrimSpace(e.Code)
		if code == "" {
			continue
		}
		if _, dup := c.display[code]; dup {
			continue
		}
		c.display[code] = e.Display
		c.order = append(c.order, code)
		names := append([]string{e.Display}, e.Match...)
		for _, n := range names {
			n = strings.ToLower(strings.TrimSpace(n))
			if n != "" {
				c.patterns = append(c.patterns, pattern{text: n, code: code})
			}
		}
	}
	sort.SliceStable(c.patterns, func(i, j int) bool {
		return len(c.patterns[i].text) > len(c.patterns[j].text)
	})
	return c
}

// Match resolves a free-text item name to a product code. Unrecognized
// and sold-out lines return ok=false and are dropped silently by the
// pivot.
func (c *Catalog) Match(item string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(item))
	if s == "" {
		return "", false
	}
	for {
		stripped := strings.TrimSpace(packSizePattern.ReplaceAllString(s, ""))
		if stripped == s {
			break
		}
		s = stripped
	}
	for _, p := range c.patterns {
		if strings.Contains(s, p.text) {
			return p.code, true
		}
	}
	return "", false
}

// Display expands a product code to its display name; unknown codes
// expand to themselves so a stale published file stays readable.
func (c *Catalog) Display(code string) string {
	if d, ok := c.display[code]; ok && d != "" {
		return d
	}
	return code
}

// Codes returns all catalog codes in configuration order.
func (c *Catalog) Codes() []string {
	return append([]string(nil), c.order...)
}

// Expand maps a list of codes to display names, preserving order.
func (c *Catalog) Expand(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		out = append(out, c.Display(code))
	}
	return out
}
