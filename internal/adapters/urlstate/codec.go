// Package urlstate maps query parameters to and from URL query strings so a
// directory view can be bookmarked and shared.
package urlstate

import (
	"net/url"
	"strings"

	"github.com/zatekoja/doctorfinder/internal/domain/entities"
)

// Query string keys
const (
	KeySearch      = "search"
	KeyMode        = "mode"
	KeySpecialties = "specialties"
	KeySort        = "sort"
)

// Decode reads query parameters from values. Absent keys and unknown mode or
// sort values decode to the zero value of the field.
func Decode(values url.Values) entities.QueryParameters {
	params := entities.QueryParameters{
		SearchText:  values.Get(KeySearch),
		Specialties: []string{},
	}

	if mode := entities.ConsultationMode(values.Get(KeyMode)); mode.Valid() {
		params.ConsultationMode = mode
	}

	for _, raw := range values[KeySpecialties] {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s != "" && !params.HasSpecialty(s) {
				params.Specialties = append(params.Specialties, s)
			}
		}
	}

	if key := entities.SortKey(values.Get(KeySort)); key.Valid() {
		params.SortKey = key
	}

	return params
}

// Encode writes params as query values, omitting empty fields
func Encode(params entities.QueryParameters) url.Values {
	values := url.Values{}
	if params.SearchText != "" {
		values.Set(KeySearch, params.SearchText)
	}
	if params.ConsultationMode != entities.ConsultationModeAny {
		values.Set(KeyMode, string(params.ConsultationMode))
	}
	if len(params.Specialties) > 0 {
		values.Set(KeySpecialties, strings.Join(params.Specialties, ","))
	}
	if params.SortKey != entities.SortNone {
		values.Set(KeySort, string(params.SortKey))
	}
	return values
}
