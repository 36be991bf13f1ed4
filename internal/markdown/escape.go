package markdown

import "strings"

// specialChars is the set of characters Escape prefixes with a backslash.
const specialChars = `*_{}[]()#+-.!|>`

// Escape backslash-escapes every Markdown-significant character in s.
// It works purely per character and is not idempotent: escaping twice
// doubles the backslashes.
func Escape(s string) string {
	if !strings.ContainsAny(s, specialChars) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for _, r := range s {
		if strings.ContainsRune(specialChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
