// Package locales parses and normalizes POSIX locale identifiers as used
// by the locale(1) family of tools.
package locales

import (
	"fmt"
	"strings"
)

// Locale is a locale identifier broken into its components. The textual
// form is language[_territory][.codeset][@modifier] [charmap], for
// example "ca_ES.UTF-8@valencia UTF-8". The charmap is separated by a
// space and is only relevant when compiling a locale.
type Locale struct {
	Language  string
	Territory string
	Codeset   string
	Modifier  string
	Charmap   string
}

// splitOnce splits s at the first occurrence of sep. The second value is
// empty when sep does not occur.
func splitOnce(s, sep string) (string, string) {
	parts := strings.SplitN(s, sep, 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// Split breaks a locale identifier into its components. Components that
// are not present come back as empty strings; Split itself never fails.
func Split(locale string) Locale {
	var loc Locale
	rest, charmap := splitOnce(locale, " ")
	loc.Charmap = charmap
	rest, loc.Modifier = splitOnce(rest, "@")
	rest, loc.Codeset = splitOnce(rest, ".")
	loc.Language, loc.Territory = splitOnce(rest, "_")
	return loc
}

// String assembles the textual form of the locale. Empty components are
// omitted together with their separator.
func (l Locale) String() string {
	var b strings.Builder
	b.WriteString(l.Language)
	if l.Territory != "" {
		b.WriteString("_")
		b.WriteString(l.Territory)
	}
	if l.Codeset != "" {
		b.WriteString(".")
		b.WriteString(l.Codeset)
	}
	if l.Modifier != "" {
		b.WriteString("@")
		b.WriteString(l.Modifier)
	}
	if l.Charmap != "" {
		b.WriteString(" ")
		b.WriteString(l.Charmap)
	}
	return b.String()
}

// Normalize rewrites a locale identifier into the form reported by
// `locale -a`: the codeset is lowercased and stripped of dashes and the
// charmap is dropped, so "en_US.UTF-8" becomes "en_US.utf8". Identifiers
// without a language component cannot be normalized.
func Normalize(locale string) (string, error) {
	loc := Split(locale)
	if loc.Language == "" {
		return "", fmt.Errorf("malformed locale %q", locale)
	}
	loc.Codeset = strings.ReplaceAll(strings.ToLower(loc.Codeset), "-", "")
	loc.Charmap = ""
	return loc.String(), nil
}
