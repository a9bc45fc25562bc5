package common

import "unicode/utf8"

// TruncateChars shortens s to at most n runes, ending with an ellipsis
// when something was cut.
func TruncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
