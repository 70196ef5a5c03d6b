package utils

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
	hasLetter  = regexp.MustCompile(`[A-Za-z]`)
	hasNumber  = regexp.MustCompile(`[0-9]`)

	plainTextPolicy = bluemonday.StrictPolicy()
	richTextPolicy  = newRichTextPolicy()
)

func newRichTextPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// SanitizeString strips every HTML tag and escapes what is left
func SanitizeString(input string) string {
	return strings.TrimSpace(plainTextPolicy.Sanitize(input))
}

// SanitizeRichText keeps basic formatting markup and drops scripts, styles and handlers
func SanitizeRichText(input string) string {
	return strings.TrimSpace(richTextPolicy.Sanitize(input))
}

// ValidateEmail checks if the email is well formed
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword checks length and that both letters and digits are present
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, "Password must be at least 8 characters long"
	}
	if len(password) > MaxPasswordLength {
		return false, "Password is too long"
	}
	if !hasLetter.MatchString(password) || !hasNumber.MatchString(password) {
		return false, "Password must contain letters and numbers"
	}
	return true, ""
}

// ValidateName checks a display name
func ValidateName(name string) (bool, string) {
	n := len([]rune(strings.TrimSpace(name)))
	if n < MinNameLength || n > MaxNameLength {
		return false, "Name must be between 2 and 50 characters"
	}
	return true, ""
}

// ValidatePhone accepts 9 to 15 digits with an optional leading plus
func ValidatePhone(phone string) (bool, string) {
	cleaned := strings.NewReplacer(" ", "", "-", "", ".", "").Replace(phone)
	if !phoneRegex.MatchString(cleaned) {
		return false, "Invalid phone number format"
	}
	return true, ""
}
