// Package pattern turns destination templates such as
// "Lights/{TARGET}/{DATE}/{FILTER}" into concrete archive paths.
//
// Resolution never fails. Tokens the lookup does not recognize stay in the
// output verbatim, and callers render absent metadata as Placeholder, so an
// incomplete frame still classifies somewhere predictable.
package pattern

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Placeholder is rendered in place of metadata that is unset or unknown.
const Placeholder = "None"

// DateLayout is the rendering of date tokens.
const DateLayout = "2006-01-02"

// Lookup resolves a token name (without braces) to its value. It reports false
// for tokens it does not recognize.
type Lookup func(token string) (string, bool)

var tokenPattern = regexp.MustCompile(`\{([A-Z0-9_]+)\}`)

// Resolve substitutes every recognized token in template and joins the result
// onto base. Template separators are forward slashes.
func Resolve(base, template string, lookup Lookup) string {
	resolved := Expand(template, lookup)
	return filepath.Join(base, filepath.FromSlash(resolved))
}

// Expand substitutes tokens without joining onto a base directory.
func Expand(template string, lookup Lookup) string {
	if lookup == nil {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := lookup(name)
		if !ok {
			return match
		}
		return sanitize(value)
	})
}

// Tokens lists the distinct token names used by template, in order of first use.
func Tokens(template string) []string {
	matches := tokenPattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]struct{}, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		tokens = append(tokens, m[1])
	}
	return tokens
}

// sanitize keeps a value inside a single path segment.
func sanitize(value string) string {
	value = norm.NFC.String(strings.TrimSpace(value))
	if value == "" {
		return Placeholder
	}
	value = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '-'
		}
		return r
	}, value)
	if value == "." || value == ".." {
		return Placeholder
	}
	return value
}

// Text renders free text, degrading an empty value to Placeholder.
func Text(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	return value
}

// FormatFloat renders a measurement with its natural decimal representation
// (300 -> "300", 0.5 -> "0.5", -10 -> "-10").
func FormatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatInt renders a count or gain.
func FormatInt(value int) string {
	return strconv.Itoa(value)
}

// FormatDate renders a capture date, degrading the zero time to Placeholder.
func FormatDate(value time.Time) string {
	if value.IsZero() {
		return Placeholder
	}
	return value.Format(DateLayout)
}

// Table builds a Lookup from a fixed set of token values.
func Table(values map[string]string) Lookup {
	return func(token string) (string, bool) {
		v, ok := values[token]
		return v, ok
	}
}
