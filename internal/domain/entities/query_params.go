package entities

import "slices"

// ConsultationMode filters providers by how they can be consulted
type ConsultationMode string

const (
	// ConsultationModeAny applies no mode filter
	ConsultationModeAny ConsultationMode = ""
	// ConsultationModeVideo keeps providers offering video consults
	ConsultationModeVideo ConsultationMode = "video"
	// ConsultationModeClinic keeps providers offering in-clinic visits
	ConsultationModeClinic ConsultationMode = "clinic"
)

// Valid reports whether m is a known mode (including the empty mode)
func (m ConsultationMode) Valid() bool {
	switch m {
	case ConsultationModeAny, ConsultationModeVideo, ConsultationModeClinic:
		return true
	}
	return false
}

// SortKey selects the ordering of the derived list
type SortKey string

const (
	// SortNone preserves the filtered order
	SortNone SortKey = ""
	// SortByFees orders by fees, lowest first
	SortByFees SortKey = "fees"
	// SortByExperience orders by experience, most experienced first
	SortByExperience SortKey = "experience"
)

// Valid reports whether k is a known sort key (including the empty key)
func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortByFees, SortByExperience:
		return true
	}
	return false
}

// QueryParameters is the user's current search, filter and sort intent.
// Values are replaced wholesale on every change; use Merge to derive the next one.
type QueryParameters struct {
	SearchText       string           `json:"searchText"`
	ConsultationMode ConsultationMode `json:"consultationMode"`
	Specialties      []string         `json:"specialties"`
	SortKey          SortKey          `json:"sortKey"`
}

// NewQueryParameters returns the defaults a view session starts with
func NewQueryParameters() QueryParameters {
	return QueryParameters{
		Specialties: []string{},
		SortKey:     SortByFees,
	}
}

// HasSpecialty reports whether s is among the selected specialties
func (q QueryParameters) HasSpecialty(s string) bool {
	return slices.Contains(q.Specialties, s)
}

// QueryPatch is a partial update of QueryParameters.
// A nil field is left untouched by Merge. A non-nil field always overwrites,
// so an empty string or an empty non-nil slice clears the field.
type QueryPatch struct {
	SearchText       *string           `json:"searchText,omitempty"`
	ConsultationMode *ConsultationMode `json:"consultationMode,omitempty" validate:"omitempty,oneof='' video clinic"`
	Specialties      []string          `json:"specialties"`
	SortKey          *SortKey          `json:"sortKey,omitempty" validate:"omitempty,oneof='' fees experience"`
}

// Merge applies patch over current field by field and returns the result.
// The returned value never shares its specialties slice with either argument.
func Merge(current QueryParameters, patch QueryPatch) QueryParameters {
	next := QueryParameters{
		SearchText:       current.SearchText,
		ConsultationMode: current.ConsultationMode,
		Specialties:      cloneSpecialties(current.Specialties),
		SortKey:          current.SortKey,
	}

	if patch.SearchText != nil {
		next.SearchText = *patch.SearchText
	}
	if patch.ConsultationMode != nil {
		next.ConsultationMode = *patch.ConsultationMode
	}
	if patch.Specialties != nil {
		next.Specialties = cloneSpecialties(patch.Specialties)
	}
	if patch.SortKey != nil {
		next.SortKey = *patch.SortKey
	}

	return next
}

// SetSearchText builds a patch that replaces the search text
func SetSearchText(text string) QueryPatch {
	return QueryPatch{SearchText: &text}
}

// SelectSuggestion builds the patch applied when a suggestion is picked
func SelectSuggestion(name string) QueryPatch {
	return SetSearchText(name)
}

// SetConsultationMode builds a patch that replaces the mode filter
func SetConsultationMode(mode ConsultationMode) QueryPatch {
	return QueryPatch{ConsultationMode: &mode}
}

// SetSortKey builds a patch that replaces the sort key
func SetSortKey(key SortKey) QueryPatch {
	return QueryPatch{SortKey: &key}
}

// ToggleSpecialty builds a patch that removes s when selected and appends it otherwise
func ToggleSpecialty(current QueryParameters, s string) QueryPatch {
	next := make([]string, 0, len(current.Specialties)+1)
	found := false
	for _, selected := range current.Specialties {
		if selected == s {
			found = true
			continue
		}
		next = append(next, selected)
	}
	if !found {
		next = append(next, s)
	}
	return QueryPatch{Specialties: next}
}

// ClearFilters builds a patch that drops the mode and specialty filters.
// Search text and sort key are kept.
func ClearFilters() QueryPatch {
	mode := ConsultationModeAny
	return QueryPatch{
		ConsultationMode: &mode,
		Specialties:      []string{},
	}
}

func cloneSpecialties(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
