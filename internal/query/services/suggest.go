package services

import (
	"strings"

	"github.com/zatekoja/doctorfinder/internal/domain/entities"
)

// MaxSuggestions caps the number of autocomplete suggestions
const MaxSuggestions = 5

// Suggest returns up to MaxSuggestions providers whose name contains input,
// case-insensitively, in list order. Blank input yields no suggestions.
func Suggest(providers []entities.Provider, input string) []entities.Provider {
	out := []entities.Provider{}
	if strings.TrimSpace(input) == "" {
		return out
	}

	needle := strings.ToLower(input)
	for _, p := range providers {
		if !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		out = append(out, p)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

// SuggestNames is Suggest returning provider names only
func SuggestNames(providers []entities.Provider, input string) []string {
	matches := Suggest(providers, input)
	names := make([]string, len(matches))
	for i, p := range matches {
		names[i] = p.Name
	}
	return names
}
