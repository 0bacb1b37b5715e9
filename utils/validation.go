package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxDescriptionWords is the advisory description limit. Submissions are
// never rejected for length; the board listing clamps descriptions to this
// many words and the item detail endpoint returns the full text.
const MaxDescriptionWords = 20

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// TruncateWords keeps at most limit words of text.
func TruncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.TrimSpace(text)
	}
	return strings.Join(words[:limit], " ")
}

// ValidateCampusEmail checks the address shape and, when allowedDomain is
// set, that the address belongs to it.
func ValidateCampusEmail(email, allowedDomain string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if allowedDomain != "" && !strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(allowedDomain)) {
		return fmt.Errorf("email not registered with the campus (%s)", allowedDomain)
	}
	return nil
}

// RollNumberFromEmail derives the reporter identity from a campus address,
// the local part of the email.
func RollNumberFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return email
	}
	return email[:at]
}

// IsAllowedImageType reports whether the declared MIME type is on the
// images-only allow-list.
func IsAllowedImageType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}
