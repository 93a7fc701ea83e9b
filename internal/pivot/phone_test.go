package pivot

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"12125551234", "(212) 555-1234"},
		{"5551234", ""},
		{"21255512340000000000", "(212) 555-1234"},
		{"(212) 555-1234", "(212) 555-1234"},
		{"212-555-1234", "(212) 555-1234"},
		{"212.555.1234 ext 0", ""}, // 11 digits, no leading 1
		{"12125551230", "(212) 555-1230"},
		{"", ""},
		{"call the store", ""},
		{"2125551234", "(212) 555-1234"},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizePhoneNeverPartial(t *testing.T) {
	// Anything that cannot be reduced to exactly 10 digits yields "".
	for _, in := range []string{"123", "123456789", "123456789012", "1112223333444"} {
		if got := NormalizePhone(in); got != "" && len(got) != len("(123) 456-7890") {
			t.Errorf("NormalizePhone(%q) = %q, want full format or empty", in, got)
		}
	}
}
