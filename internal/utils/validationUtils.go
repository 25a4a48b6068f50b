package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// phone numbers are stored in a single international-prefix form: a leading
// "+" followed by 7 to 15 digits.
var phoneRegex = regexp.MustCompile(`^\+\d{7,15}$`)

func CheckEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// NormalizePhone ensures the number carries exactly one leading "+".
func NormalizePhone(phone string) string {
	return "+" + strings.TrimLeft(phone, "+")
}

func IsValidPhoneNumber(phone string) bool {
	return phoneRegex.MatchString(phone)
}
