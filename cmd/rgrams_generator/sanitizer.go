package main

import (
	"regexp"
	"strings"
)

var extraWhiteSpace = regexp.MustCompile("[[:space:]]+")

// SanitizeText cleans up whitespace issues in raw text before it is split
// into unigrams. Windows `\r` is dropped, escaped `\n` becomes a newline,
// runs of newlines collapse to one, tabs become spaces, colons lose their
// leading space, and every line is trimmed with inner whitespace collapsed.
func SanitizeText(text string) string {
	runes := make([]rune, 0, len(text))
	lastRune := rune(0)
	for _, r := range text {
		if r == '\r' {
			continue
		} else if r == '\n' && lastRune == '\n' {
			continue
		} else if r == 'n' && lastRune == '\\' {
			runes[len(runes)-1] = '\n'
		} else if r == ':' && lastRune == ' ' {
			runes[len(runes)-1] = ':'
		} else if r == '\t' {
			runes = append(runes, ' ')
		} else {
			runes = append(runes, r)
		}
		lastRune = runes[len(runes)-1]
	}
	lines := strings.Split(string(runes), "\n")
	for lineIdx := range lines {
		line := extraWhiteSpace.ReplaceAllString(lines[lineIdx], " ")
		lines[lineIdx] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
