package kgram

import "strings"

// Normalize lowercases token and drops every character that is not an
// ASCII letter, digit or space.
func Normalize(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == ' ':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}
