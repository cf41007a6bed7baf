package sanitizer

import (
	"strings"
	"unicode"
)

const (
	MaxTitleLength    = 120
	MaxLocationLength = 200
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeTitle(title string) string {
	return Pipeline{stripControl, TrimAndNormalize, truncate(MaxTitleLength)}.Apply(title)
}

// NormalizeLocation keeps the original casing; locations are shown to members as typed.
func NormalizeLocation(location string) string {
	return Pipeline{stripControl, TrimAndNormalize, truncate(MaxLocationLength)}.Apply(location)
}

func NormalizeRole(role string) string {
	return Pipeline{TrimAndNormalize, lower}.Apply(role)
}
