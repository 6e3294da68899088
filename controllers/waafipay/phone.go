package waafipayControllers

import "regexp"

var (
	nonDigit   = regexp.MustCompile(`\D`)
	somaliE164 = regexp.MustCompile(`^252\d{9}$`)
)

// NormalizePhone converts user-entered Somali numbers into the international
// form WaafiPay expects. The trunk prefix "0" becomes "252", and a doubled
// country code (users pasting "252" onto an already-prefixed number) is
// collapsed.
func NormalizePhone(input string) string {
	p := nonDigit.ReplaceAllString(input, "")
	if len(p) > 0 && p[0] == '0' {
		p = "252" + p[1:]
	}
	if len(p) >= 6 && p[:6] == "252252" {
		p = p[3:]
	}
	return p
}

// IsValidPhone reports whether phone is in the 252XXXXXXXXX form
// (digits only, no "+" or spaces).
func IsValidPhone(phone string) bool {
	return somaliE164.MatchString(phone)
}
