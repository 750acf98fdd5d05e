package parser

import (
	"regexp"
	"strconv"
)

// Regex patterns for position hints in error messages
var (
	lineRegex   = regexp.MustCompile(`(?i)\bline[: ]+(\d+)`)
	columnRegex = regexp.MustCompile(`(?i)\b(?:column|character|char)[: ]+(\d+)`)
	offsetRegex = regexp.MustCompile(`(?i)\b(?:position|offset)[: ]+(\d+)`)
)

// LocateInMessage scans an error message for position hints. It prefers
// an explicit line (with optional column), then falls back to converting
// a flat character offset against the source text. Returns zeros when
// nothing can be derived; positions are never fabricated.
func LocateInMessage(text, message string) (line, column int) {
	if m := lineRegex.FindStringSubmatch(message); m != nil {
		line, _ = strconv.Atoi(m[1])
		if c := columnRegex.FindStringSubmatch(message); c != nil {
			column, _ = strconv.Atoi(c[1])
		}
		return line, column
	}
	if m := offsetRegex.FindStringSubmatch(message); m != nil {
		offset, _ := strconv.Atoi(m[1])
		return offsetToLineCol(text, offset)
	}
	return 0, 0
}

// offsetToLineCol converts a 0-based byte offset into 1-based line and
// column numbers by counting newlines up to the offset.
func offsetToLineCol(text string, offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}
