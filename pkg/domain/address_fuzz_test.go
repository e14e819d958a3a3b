package domain

import (
	"strings"
	"testing"
)

// FuzzParsePaymentAddress verifies parsing never panics on arbitrary input
// and that every accepted value is in canonical lowercase form.
func FuzzParsePaymentAddress(f *testing.F) {
	f.Add("")
	f.Add("alice@okhdfc")
	f.Add("ALICE@OKHDFC")
	f.Add("a.b_c-d@oksbi")
	f.Add("@bank")
	f.Add("user@")
	f.Add("user@@bank")
	f.Add(strings.Repeat("a", 1024) + "@okbank")

	f.Fuzz(func(t *testing.T, input string) {
		addr, err := ParsePaymentAddress(input)
		if err != nil {
			return
		}
		s := addr.String()
		if s != strings.ToLower(s) {
			t.Errorf("accepted address %q is not lowercase", s)
		}
		if !strings.Contains(s, "@") {
			t.Errorf("accepted address %q has no separator", s)
		}
		if reparsed, err := ParsePaymentAddress(s); err != nil || reparsed != addr {
			t.Errorf("canonical form %q does not reparse to itself", s)
		}
	})
}
