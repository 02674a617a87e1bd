// Package jsonc removes comments from JSON documents as written by hand in
// packet-forwarder configuration files.
package jsonc

import (
	"bytes"
)

var blockEnd = []byte("*/")

// Strip returns a copy of b with all block (/* */) and line (//) comments
// removed. Comment markers inside string literals are left untouched.
//
// A block comment ends at the first */ following its opening. It is replaced
// by a single space followed by the newlines it contained, so that offsets
// reported by the JSON decoder still point at the right line. A block comment
// that is never closed runs to the end of the input.
func Strip(b []byte) []byte {
	out := make([]byte, 0, len(b))

	for i := 0; i < len(b); i++ {
		c := b[i]

		switch {
		case c == '"':
			end := stringEnd(b, i)
			out = append(out, b[i:end]...)
			i = end - 1

		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			body := b[i+2:]
			end := bytes.Index(body, blockEnd)
			if end == -1 {
				i = len(b)
			} else {
				body = body[:end]
				i = i + 2 + end + 1
			}

			out = append(out, ' ')
			for n := bytes.Count(body, []byte{'\n'}); n > 0; n-- {
				out = append(out, '\n')
			}

		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			end := bytes.IndexByte(b[i:], '\n')
			if end == -1 {
				i = len(b)
			} else {
				// the newline itself is kept
				i = i + end - 1
			}

		default:
			out = append(out, c)
		}
	}

	return out
}

// stringEnd returns the index right after the closing quote of the string
// literal starting at b[start], or len(b) when it is never closed.
func stringEnd(b []byte, start int) int {
	for i := start + 1; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(b)
}
