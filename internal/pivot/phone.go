package pivot

import "fmt"

// NormalizePhone reduces a raw phone field to the fixed display format
// "(AAA) PPP-NNNN", or "" when a clean 10-digit number cannot be
// recovered. Partial or malformed numbers are never emitted.
//
// Spreadsheet numeric columns pad exported numbers with trailing
// zeros; when more than 11 digits survive, trailing zeros are treated
// as padding artifacts. An 11-digit number with a leading 1 loses the
// country code.
func NormalizePhone(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) > 11 {
		for len(digits) > 0 && digits[len(digits)-1] == '0' {
			digits = digits[:len(digits)-1]
		}
	}
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return ""
	}
	return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
}
