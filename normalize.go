package fileconv

import (
	"regexp"
	"strings"
)

var (
	reFenceOpen  = regexp.MustCompile("^```[A-Za-z0-9_-]*[ \t]*\r?\n?")
	reFenceClose = regexp.MustCompile("\r?\n?```[ \t]*$")
)

// stripCodeFence removes a markdown code fence wrapped around a model reply.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = reFenceOpen.ReplaceAllString(s, "")
	s = reFenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// sanitizePrintable keeps printable ASCII plus newlines. Tabs become four
// spaces and carriage returns are dropped.
func sanitizePrintable(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", "    ")
	return strings.Map(func(r rune) rune {
		if r == '\n' || (r >= 0x20 && r <= 0x7E) {
			return r
		}
		return -1
	}, s)
}

// truncateRunes cuts s to at most n characters.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
