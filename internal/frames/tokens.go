package frames

import (
	"fmt"
	"slices"

	"astrofiler/internal/config"
	"astrofiler/internal/pattern"
)

var kindTokens = map[Kind][]string{
	KindLight: {"CAMERA", "DATE", "TARGET", "FILTER", "FILTERTYPE", "TELESCOPE", "FLATTENER", "MOUNT", "LOCATION", "SUBLENGTH", "TOTALSUBS", "GAIN"},
	KindDark:  {"CAMERA", "CAMERATEMP", "SUBLENGTH", "TOTALSUBS", "GAIN"},
	KindBias:  {"CAMERA", "TOTALSUBS", "GAIN"},
	KindFlat:  {"CAMERA", "DATE", "FILTER", "FILTERTYPE", "TOTALSUBS", "GAIN"},
}

// Tokens returns the naming tokens a kind recognizes.
func Tokens(kind Kind) []string {
	return slices.Clone(kindTokens[kind])
}

// UnknownTokens lists tokens in the configured patterns that their frame kind
// does not recognize. Such tokens are kept verbatim in destination paths, so
// they usually indicate a typo.
func UnknownTokens(patterns config.Patterns) []string {
	checks := []struct {
		key      string
		kind     Kind
		template string
	}{
		{"patterns.light", KindLight, patterns.Light},
		{"patterns.dark", KindDark, patterns.Dark},
		{"patterns.bias", KindBias, patterns.Bias},
		{"patterns.flat", KindFlat, patterns.Flat},
		{"patterns.light_session", KindLight, patterns.LightSession},
	}
	var problems []string
	for _, check := range checks {
		known := kindTokens[check.kind]
		for _, token := range pattern.Tokens(check.template) {
			if !slices.Contains(known, token) {
				problems = append(problems, fmt.Sprintf("%s: {%s} is not a %s token", check.key, token, check.kind))
			}
		}
	}
	return problems
}
