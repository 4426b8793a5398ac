package ingest

import (
	"strings"
	"unicode"
)

// Clean normalizes extracted text for splitting. Control characters become
// spaces, runs of blank lines collapse to one, and each line is trimmed.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if r == '\n' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || r == '\uFEFF' {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}

	lines := strings.Split(b.String(), "\n")
	cleaned := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(collapseSpaces(line))
		if line == "" {
			if !blank && len(cleaned) > 0 {
				cleaned = append(cleaned, "")
			}
			blank = true
			continue
		}
		blank = false
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

func collapseSpaces(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	space := false
	for _, r := range line {
		if r == ' ' || r == '\t' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteRune(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
