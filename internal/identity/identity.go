// Package identity derives the fuzzy keys that stand in for a primary
// key across independently-sourced store datasets.
package identity

import "strings"

// KeySeparator joins normalized fields. Normalization can never
// produce this character, so composite keys cannot collide across
// field boundaries.
const KeySeparator = "|"

// Normalize lower-cases the input and strips every character outside
// [a-z0-9]. ASCII-only: accents are not folded. Empty input yields the
// empty string, which is a valid (if degenerate) key component.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CompositeKey is the cross-batch reconciliation key. It deliberately
// ignores the street address: addresses get re-normalized by the
// external geocoding pass between snapshots, while name+city+state is
// assumed stable.
func CompositeKey(name, city, state string) string {
	return Normalize(name) + KeySeparator + Normalize(city) + KeySeparator + Normalize(state)
}

// AddressKey is the intra-batch pivot key. Raw export rows are keyed
// by address because account names vary per line item for the same
// physical location.
func AddressKey(address, city, state, zip string) string {
	return Normalize(address) + KeySeparator + Normalize(city) + KeySeparator +
		Normalize(state) + KeySeparator + Normalize(zip)
}
