package config

import "strings"

// Rules holds the hand-maintained pattern lists consumed by the junk
// classifier. They are domain tuning, not code: the ordered rule
// precedence lives in internal/classify, while the lists themselves can
// be replaced wholesale from config.yaml.
type Rules struct {
	// CompanyNames are lowered substrings identifying the operating
	// company itself appearing as an account name.
	CompanyNames []string `yaml:"company_names"`
	// HQStreetToken is a lowered substring of the company HQ street
	// line; a match means internal transfers were exported as sales.
	HQStreetToken string `yaml:"hq_street_token"`
	// DistributorNames are lowered substrings identifying distributor
	// or warehouse accounts.
	DistributorNames []string `yaml:"distributor_names"`
	// PersonalNames are exact (lowered) account names known to be
	// individuals rather than businesses.
	PersonalNames []string `yaml:"personal_names"`
	// OnlineRetailers are exact (lowered) account names of online-only
	// retailers that have no pin on the map.
	OnlineRetailers []string `yaml:"online_retailers"`
}

// ProductEntry maps a catalog code to its display name and the
// free-text item names the pivot matcher should recognize.
type ProductEntry struct {
	Code    string   `yaml:"code"`
	Display string   `yaml:"display"`
	Match   []string `yaml:"match"`
}

// DefaultRules returns the baked-in pattern lists for the shipped
// domain instance.
func DefaultRules() Rules {
	return Rules{
		CompanyNames:  []string{"filmland"},
		HQStreetToken: "olive ave",
		DistributorNames: []string{
			"southern glazer",
			"republic national",
			"breakthru beverage",
			"rndc",
		},
		PersonalNames: []string{},
		OnlineRetailers: []string{
			"drizly",
			"minibar delivery",
			"wine.com",
		},
	}
}

// DefaultCatalog returns the six-product catalog of the shipped domain
// instance. Treated as configuration, never inferred from data.
func DefaultCatalog() []ProductEntry {
	return []ProductEntry{
		{Code: "bourbon", Display: "Kentucky Straight Bourbon", Match: []string{"kentucky straight bourbon", "straight bourbon"}},
		{Code: "rye", Display: "Straight Rye Whiskey", Match: []string{"straight rye whiskey", "rye whiskey"}},
		{Code: "bib", Display: "Bottled in Bond Bourbon", Match: []string{"bottled in bond"}},
		{Code: "cask", Display: "Cask Strength Bourbon", Match: []string{"cask strength"}},
		{Code: "cream", Display: "Bourbon Cream Liqueur", Match: []string{"bourbon cream"}},
		{Code: "select", Display: "Single Barrel Select", Match: []string{"single barrel"}},
	}
}

// MergeRules overlays non-empty override lists onto the base rules.
// An override list replaces the base list entirely so curators can
// remove stale patterns, not only add new ones.
func MergeRules(base Rules, override Rules) Rules {
	if len(override.CompanyNames) > 0 {
		base.CompanyNames = override.CompanyNames
	}
	if strings.TrimSpace(override.HQStreetToken) != "" {
		base.HQStreetToken = override.HQStreetToken
	}
	if len(override.DistributorNames) > 0 {
		base.DistributorNames = override.DistributorNames
	}
	if len(override.PersonalNames) > 0 {
		base.PersonalNames = override.PersonalNames
	}
	if len(override.OnlineRetailers) > 0 {
		base.OnlineRetailers = override.OnlineRetailers
	}
	return base
}
