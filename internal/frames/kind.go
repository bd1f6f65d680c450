package frames

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies a frame variant.
type Kind string

const (
	KindLight Kind = "light"
	KindDark  Kind = "dark"
	KindBias  Kind = "bias"
	KindFlat  Kind = "flat"
)

var titleCaser = cases.Title(language.English)

// Kinds lists every frame kind in catalog order.
func Kinds() []Kind {
	return []Kind{KindLight, KindDark, KindBias, KindFlat}
}

// ParseKind converts user input into a Kind. Plural forms are accepted.
func ParseKind(value string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "light", "lights":
		return KindLight, nil
	case "dark", "darks":
		return KindDark, nil
	case "bias", "biases":
		return KindBias, nil
	case "flat", "flats":
		return KindFlat, nil
	}
	return "", fmt.Errorf("unknown frame kind %q", value)
}

// Title returns the display form of the kind ("Light").
func (k Kind) Title() string {
	return titleCaser.String(string(k))
}

func (k Kind) order() int {
	for i, candidate := range Kinds() {
		if candidate == k {
			return i
		}
	}
	return len(Kinds())
}
