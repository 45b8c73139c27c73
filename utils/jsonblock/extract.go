// ABOUTME: Extracts the first balanced JSON object embedded in free-form text
// ABOUTME: Generative providers wrap JSON in prose despite instructions not to
package jsonblock

import (
	"errors"
)

// ErrNoObject indicates the text contains no balanced JSON object.
var ErrNoObject = errors.New("no balanced JSON object found")

// Extract returns the first balanced {...} span in text. Braces inside JSON
// strings (and escaped quotes inside those strings) do not affect the
// balance count. An unterminated object returns ErrNoObject.
func Extract(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	return "", ErrNoObject
}
