package helpers

import "strings"

// MinPhoneDigits is the shortest number an SMS reminder is sent to
const MinPhoneDigits = 10

// PhoneDigits strips everything except digits
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone returns an E.164 number, or false when the phone has fewer
// than MinPhoneDigits digits. Ten-digit national numbers get countryCode.
func NormalizePhone(phone, countryCode string) (string, bool) {
	digits := PhoneDigits(phone)
	if len(digits) < MinPhoneDigits {
		return "", false
	}
	if len(digits) == MinPhoneDigits && !strings.HasPrefix(strings.TrimSpace(phone), "+") {
		return "+" + countryCode + digits, true
	}
	return "+" + digits, true
}
