package extract

import (
	"fmt"
	"strings"
)

const untitledVisual = "Untitled_Visual"

// SanitizeTitle keeps ASCII letters, digits, spaces and underscores, drops
// trailing spaces and turns the remaining spaces into underscores.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if isASCIIAlnum(r) || r == ' ' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimRight(b.String(), " "), " ", "_")
}

// FileName builds <type>_<title>_<index>.json. An empty sanitized type or
// title falls back to the given defaults.
func FileName(visualType, title, defaultTitle string, index int) string {
	safeType := SanitizeTitle(visualType)
	if safeType == "" {
		safeType = "unknown_type"
	}
	safeTitle := SanitizeTitle(title)
	if safeTitle == "" {
		safeTitle = SanitizeTitle(defaultTitle)
	}
	if safeTitle == "" {
		safeTitle = untitledVisual
	}
	return fmt.Sprintf("%s_%s_%d.json", safeType, safeTitle, index)
}

// PageDirName turns a page id into a single path segment. Characters other
// than ASCII letters, digits, '-', '_' and '.' become '_'.
func PageDirName(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case isASCIIAlnum(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if strings.Trim(name, ".") == "" {
		return "unknown_page"
	}
	return name
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
