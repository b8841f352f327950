package shared

import (
	"regexp"
	"strings"
)

// phonePattern accepts international numbers: a plus sign followed by 8 to 15 digits.
var phonePattern = regexp.MustCompile(`^\+\d{8,15}$`)

// ValidatePhone trims the input and checks it against the E.164-like pattern.
func ValidatePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return "", ErrInvalidPhone
	}
	return phone, nil
}
