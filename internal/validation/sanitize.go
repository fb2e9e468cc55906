package validation

import (
	"regexp"
	"strings"
)

var (
	emailRe        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	jsProtocolRe   = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRe = regexp.MustCompile(`(?i)on\w+=`)
)

// SanitizeString trims the input and strips basic HTML/script vectors
func SanitizeString(input string) string {
	s := strings.TrimSpace(input)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	s = jsProtocolRe.ReplaceAllString(s, "")
	s = eventHandlerRe.ReplaceAllString(s, "")
	return s
}

// NormalizeEmail trims, sanitizes and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(SanitizeString(email))
}

// ValidateEmail checks syntactic shape and a 255-character ceiling
func ValidateEmail(email string) bool {
	return emailRe.MatchString(email) && len(email) <= 255
}

// ValidatePhone checks a Brazilian phone number: 10 or 11 digits
func ValidatePhone(phone string) bool {
	n := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n >= 10 && n <= 11
}
