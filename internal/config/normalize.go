package config

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTaskTexts trims and NFC-normalizes user-supplied task labels
// and drops blank entries. Saves written on different platforms disagree
// on composed vs decomposed forms; normalizing keeps checklist lengths
// and comparisons stable.
func NormalizeTaskTexts(texts []string) []string {
	var out []string
	for _, text := range texts {
		text = strings.TrimSpace(norm.NFC.String(text))
		if text == "" {
			continue
		}
		out = append(out, text)
	}
	return out
}
