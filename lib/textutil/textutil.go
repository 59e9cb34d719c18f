package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and strips all whitespace so that
// names differing only in casing or spacing compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// CollapseWhitespace trims a string and squashes inner whitespace runs
// down to single spaces, the way visible page text is flattened.
func CollapseWhitespace(s string) string {
	s = strings.Trim(s, " \t\n")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// FirstParenthesized returns the contents of the first parenthesized
// group in s, or "" when there is none.
func FirstParenthesized(s string) string {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return ""
	}
	length := strings.IndexByte(s[open:], ')')
	if length < 0 {
		return ""
	}
	return s[open+1 : open+length]
}

var dashSeparators = []string{" – ", " — ", " - "}

// BeforeDash returns the text preceding the first dash or en-dash
// separator, or the whole string when no separator is present.
func BeforeDash(s string) string {
	cut := len(s)
	for _, sep := range dashSeparators {
		if i := strings.Index(s, sep); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(s[:cut])
}
