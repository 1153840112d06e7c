// Package markup translates alternate color codes ("&a") into the host's native
// section-sign escapes ("§a") and renders translated text for terminals.
package markup

import (
	"strings"
	"unicode/utf8"
)

// DefaultMarker is the alternate color marker used in configuration and language files.
const DefaultMarker = '&'

// Escape is the host-native style escape character.
const Escape = '§'

const codes = "0123456789AaBbCcDdEeFfKkLlMmNnOoRr"

// IsCode reports whether c is a recognized color or format code.
func IsCode(c rune) bool {
	return c < 128 && strings.IndexByte(codes, byte(c)) >= 0
}

// Translate replaces every marker followed by a recognized code with Escape and
// the lower-cased code. Unrecognized pairs and invalid UTF-8 bytes pass through
// unchanged, so already translated text is returned as is.
func Translate(marker rune, s string) string {
	if !strings.ContainsRune(s, marker) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		if r == marker && s[i:i+n] == string(marker) {
			if c, m := utf8.DecodeRuneInString(s[i+n:]); m == 1 && IsCode(c) {
				b.WriteRune(Escape)
				b.WriteRune(toLower(c))
				i += n + m
				continue
			}
		}
		b.WriteString(s[i : i+n])
		i += n
	}
	return b.String()
}

// Colorize is Translate with DefaultMarker.
func Colorize(s string) string { return Translate(DefaultMarker, s) }

// Strip removes host escapes, leaving plain text. Other bytes are copied as is.
func Strip(s string) string {
	if !strings.ContainsRune(s, Escape) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		if r == Escape {
			if c, m := utf8.DecodeRuneInString(s[i+n:]); m == 1 && IsCode(c) {
				i += n + m
				continue
			}
		}
		b.WriteString(s[i : i+n])
		i += n
	}
	return b.String()
}

func toLower(c rune) rune {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
