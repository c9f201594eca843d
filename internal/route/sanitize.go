package route

import (
	"strings"
	"unicode"
)

// Sanitize converts a route name into a safe filename-prefix token: letters,
// digits, hyphen, and underscore pass through, every other character becomes
// an underscore. Leading and trailing whitespace is trimmed first. Two
// differently named routes can sanitize to the same token; the corridor
// builder detects and logs that case.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
