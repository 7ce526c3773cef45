package kb

import (
	"strings"
	"unicode/utf8"
)

// RootHeader labels content that appears before the first header line.
const RootHeader = "(root)"

// HeaderMarker starts a header line.
const HeaderMarker = '#'

// Section is a header-delimited span of a markdown document.
type Section struct {
	Header  string `json:"header"`
	Content string `json:"content"`
}

// Split segments text into sections. A line starting with '#' opens a new
// section labelled with the line minus its leading '#' characters and
// surrounding whitespace. Lines before the first header belong to RootHeader.
// A section is emitted only if at least one line was collected for it, so
// consecutive header lines produce nothing for the earlier header.
func Split(text string) []Section {
	var (
		sections []Section
		header   = RootHeader
		lines    []string
	)

	flush := func() {
		if len(lines) == 0 {
			return
		}
		sections = append(sections, Section{
			Header:  header,
			Content: strings.TrimSpace(strings.Join(lines, "\n")),
		})
	}

	for _, line := range splitLines(text) {
		if len(line) > 0 && line[0] == HeaderMarker {
			flush()
			header = strings.TrimSpace(strings.TrimLeft(line, string(HeaderMarker)))
			lines = nil
			continue
		}
		lines = append(lines, line)
	}
	flush()

	return sections
}

// splitLines breaks text on the universal line boundaries: \n, \r\n, \r,
// \v, \f, \x1c, \x1d, \x1e, U+0085, U+2028 and U+2029. A terminating
// boundary does not produce a trailing empty line.
func splitLines(text string) []string {
	var (
		lines []string
		start int
	)
	for i, r := range text {
		if i < start {
			continue
		}
		if !isLineBreak(r) {
			continue
		}
		lines = append(lines, text[start:i])
		start = i + utf8.RuneLen(r)
		if r == '\r' && start < len(text) && text[start] == '\n' {
			start++
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
