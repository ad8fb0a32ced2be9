package services

import (
	"slices"

	"github.com/zatekoja/doctorfinder/internal/domain/entities"
)

// UniqueSpecialties returns the distinct specialties in providers, sorted ascending
func UniqueSpecialties(providers []entities.Provider) []string {
	out := make([]string, 0, len(providers))
	for _, p := range providers {
		out = append(out, p.Speciality)
	}
	return sortedUnique(out)
}

// SpecialtyOptions is UniqueSpecialties unioned with the baseline specialty list
func SpecialtyOptions(providers []entities.Provider) []string {
	out := make([]string, 0, len(providers)+len(entities.DefaultSpecialties))
	out = append(out, entities.DefaultSpecialties...)
	for _, p := range providers {
		out = append(out, p.Speciality)
	}
	return sortedUnique(out)
}

func sortedUnique(values []string) []string {
	slices.Sort(values)
	return slices.Compact(values)
}
