// Package classify tags ingested rows that do not represent a genuine
// retail or hospitality point of sale.
package classify

import (
	"strings"

	"storelocator/internal/config"
	"storelocator/internal/model"
)

// Reason is the junk reason code attached to a flagged row.
type Reason string

const (
	ReasonSamples          Reason = "samples"
	ReasonBreakage         Reason = "breakage"
	ReasonBillBack         Reason = "bill_back"
	ReasonOwnCompany       Reason = "own_company"
	ReasonHQAddress        Reason = "hq_address"
	ReasonDistributor      Reason = "distributor_or_warehouse"
	ReasonPersonalName     Reason = "personal_name"
	ReasonNoAddress        Reason = "no_address"
	ReasonCorporateAddress Reason = "corporate_address"
	ReasonOnlineRetailer   Reason = "online_retailer"
)

// Classifier applies an ordered list of pattern checks against the
// lower-cased name and address of a record. The first matching rule
// wins; order matters because some records match several patterns
// (a sample-labeled row at the company's own HQ address reports
// "samples", not "hq_address"). The classifier is pure and stateless:
// same rules, same record, same answer.
type Classifier struct {
	rules config.Rules
}

// New builds a classifier over the configured pattern lists.
func New(rules config.Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the junk reason for a record, or ok=false when the
// record looks like a genuine store.
func (c *Classifier) Classify(rec model.StoreRecord) (Reason, bool) {
	name := strings.ToLower(strings.TrimSpace(rec.Name))
	address := strings.ToLower(strings.TrimSpace(rec.Address))

	switch {
	case strings.Contains(name, "sample"):
		return ReasonSamples, true
	case strings.Contains(name, "breakage"):
		return ReasonBreakage, true
	case strings.Contains(name, "bill back") || strings.Contains(name, "billback"):
		return ReasonBillBack, true
	case containsAny(name, c.rules.CompanyNames):
		return ReasonOwnCompany, true
	case c.rules.HQStreetToken != "" && strings.Contains(address, strings.ToLower(c.rules.HQStreetToken)):
		return ReasonHQAddress, true
	case containsAny(name, c.rules.DistributorNames) || isWarehouse(name):
		return ReasonDistributor, true
	case equalsAny(name, c.rules.PersonalNames):
		return ReasonPersonalName, true
	case address == "" || address == "." || address == "total":
		return ReasonNoAddress, true
	case isCorporateAddress(address):
		return ReasonCorporateAddress, true
	case equalsAny(name, c.rules.OnlineRetailers):
		return ReasonOnlineRetailer, true
	}
	return "", false
}

// isWarehouse flags names ending in "warehouse" unless they contain
// "beverage" ("Beverage Warehouse" chains are real retail stores).
func isWarehouse(name string) bool {
	return strings.HasSuffix(name, "warehouse") && !strings.Contains(name, "beverage")
}

// isCorporateAddress is a heuristic for a corporate name entered in the
// address field instead of a street address: starts with a letter,
// mentions llc/inc, and contains no digit anywhere. Known to
// misclassify legitimate no-number addresses (a named plaza); the
// behavior is kept as-is because changing it changes which rows a
// reviewer sees.
func isCorporateAddress(address string) bool {
	if address == "" {
		return false
	}
	first := address[0]
	if first < 'a' || first > 'z' {
		return false
	}
	if !strings.Contains(address, "llc") && !strings.Contains(address, "inc") {
		return false
	}
	for i := 0; i < len(address); i++ {
		if address[i] >= '0' && address[i] <= '9' {
			return false
		}
	}
	return true
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func equalsAny(s string, names []string) bool {
	for _, n := range names {
		if s == strings.ToLower(strings.TrimSpace(n)) {
			return true
		}
	}
	return false
}
