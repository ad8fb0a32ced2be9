package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/zatekoja/doctorfinder/internal/domain/entities"
)

// Derive filters providers by params and then sorts the result.
// The input slice is never reordered or modified.
func Derive(providers []entities.Provider, params entities.QueryParameters) []entities.Provider {
	return SortProviders(FilterProviders(providers, params), params.SortKey)
}

// FilterProviders keeps the providers matching every active filter in params,
// preserving their relative order.
func FilterProviders(providers []entities.Provider, params entities.QueryParameters) []entities.Provider {
	search := strings.ToLower(params.SearchText)

	var specialties map[string]struct{}
	if len(params.Specialties) > 0 {
		specialties = make(map[string]struct{}, len(params.Specialties))
		for _, s := range params.Specialties {
			specialties[s] = struct{}{}
		}
	}

	out := make([]entities.Provider, 0, len(providers))
	for _, p := range providers {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if !p.ConsultationModes.Supports(params.ConsultationMode) {
			continue
		}
		if specialties != nil {
			if _, ok := specialties[p.Speciality]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// SortProviders returns a stably sorted copy of providers.
// Fees sort ascending, experience descending; an empty key keeps the order.
func SortProviders(providers []entities.Provider, key entities.SortKey) []entities.Provider {
	out := slices.Clone(providers)
	if out == nil {
		out = []entities.Provider{}
	}

	switch key {
	case entities.SortByFees:
		slices.SortStableFunc(out, func(a, b entities.Provider) int {
			return cmp.Compare(a.Fees, b.Fees)
		})
	case entities.SortByExperience:
		slices.SortStableFunc(out, func(a, b entities.Provider) int {
			return cmp.Compare(b.Experience, a.Experience)
		})
	}
	return out
}
