package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctorfinder/internal/domain/entities"
)

func TestNormalizeProviders_DropsNonObjectsAndDefaults(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{},
		map[string]interface{}{"name": "Dr. X"},
		nil,
	}

	providers := NormalizeProviders(raw, NormalizeOptions{})

	require.Len(t, providers, 2)

	empty := providers[0]
	assert.Equal(t, DefaultProviderName, empty.Name)
	assert.Equal(t, DefaultQualifications, empty.Qualifications)
	assert.Equal(t, entities.SpecialtyAt(0), empty.Speciality)
	assert.Equal(t, DefaultExperience, empty.Experience)
	assert.Equal(t, DefaultLocation, empty.Location)
	assert.Equal(t, DefaultClinic, empty.Clinic)
	assert.Equal(t, DefaultFees, empty.Fees)
	assert.Empty(t, empty.PhotoURL)
	assert.Equal(t, entities.ConsultationModes{VideoConsult: true, InClinic: true}, empty.ConsultationModes)
	assert.NotEmpty(t, empty.ID)
	assert.False(t, empty.Synthetic)

	named := providers[1]
	assert.Equal(t, "Dr. X", named.Name)
	assert.Equal(t, entities.SpecialtyAt(1), named.Speciality)
	assert.Equal(t, DefaultFees, named.Fees)
	assert.NotEqual(t, empty.ID, named.ID)
}

func TestNormalizeProviders_KeepsWellTypedFields(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{
			"id":             "doc-1",
			"name":           "Alice Rao",
			"qualifications": "MBBS, MD",
			"speciality":     "Cardiologist",
			"experience":     12.0,
			"location":       "Bengaluru",
			"clinic":         "Heart Care",
			"fees":           700.0,
			"imageUrl":       "https://img.example.com/a.png",
			"consultationModes": map[string]interface{}{
				"videoConsult": false,
				"inClinic":     true,
			},
		},
	}

	providers := NormalizeProviders(raw, NormalizeOptions{})

	require.Len(t, providers, 1)
	assert.Equal(t, entities.Provider{
		ID:                "doc-1",
		Name:              "Alice Rao",
		Qualifications:    "MBBS, MD",
		Speciality:        "Cardiologist",
		Experience:        12,
		Location:          "Bengaluru",
		Clinic:            "Heart Care",
		Fees:              700,
		PhotoURL:          "https://img.example.com/a.png",
		ConsultationModes: entities.ConsultationModes{VideoConsult: false, InClinic: true},
	}, providers[0])
}

func TestNormalizeProviders_MalformedFieldsUseDefaults(t *testing.T) {
	raw := []interface{}{
		"not an object",
		42.0,
		[]interface{}{"nested"},
		map[string]interface{}{
			"name":              "   ",
			"experience":        "13 Years of experience",
			"fees":              -20.0,
			"speciality":        7.0,
			"consultationModes": "both",
		},
	}

	providers := NormalizeProviders(raw, NormalizeOptions{})

	require.Len(t, providers, 1)
	p := providers[0]
	assert.Equal(t, DefaultProviderName, p.Name)
	assert.Equal(t, DefaultExperience, p.Experience)
	assert.Equal(t, DefaultFees, p.Fees)
	// specialty cycling is keyed by the raw payload position
	assert.Equal(t, entities.SpecialtyAt(3), p.Speciality)
	assert.True(t, p.ConsultationModes.VideoConsult)
	assert.True(t, p.ConsultationModes.InClinic)
}

func TestNormalizeProviders_NumericStringsAndIDs(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"id": 17.0, "experience": "8", "fees": " 350 "},
	}

	providers := NormalizeProviders(raw, NormalizeOptions{})

	require.Len(t, providers, 1)
	assert.Equal(t, "17", providers[0].ID)
	assert.Equal(t, 8, providers[0].Experience)
	assert.Equal(t, 350.0, providers[0].Fees)
}

func TestNormalizeProviders_StrictModes(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"consultationModes": map[string]interface{}{"videoConsult": true}},
	}

	providers := NormalizeProviders(raw, NormalizeOptions{StrictModes: true})

	require.Len(t, providers, 1)
	assert.True(t, providers[0].ConsultationModes.VideoConsult)
	assert.False(t, providers[0].ConsultationModes.InClinic)
}

func TestNormalizeProviders_IDsAreStableAndUnique(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"id": "dup", "name": "A"},
		map[string]interface{}{"id": "dup", "name": "B"},
		map[string]interface{}{"name": "C"},
	}

	first := NormalizeProviders(raw, NormalizeOptions{})
	second := NormalizeProviders(raw, NormalizeOptions{})

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, "dup", first[0].ID)
	assert.Equal(t, "dup-1", first[1].ID)

	ids := map[string]bool{}
	for _, p := range first {
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true
	}
}

func TestPadRoster(t *testing.T) {
	genuine := NormalizeProviders([]interface{}{
		map[string]interface{}{"id": "a", "name": "Alice Rao"},
		map[string]interface{}{"id": "b", "name": "Bob Shah"},
	}, NormalizeOptions{})

	padded := PadRoster(genuine, MinRosterSize)

	require.Len(t, padded, MinRosterSize)
	assert.Len(t, genuine, 2)
	assert.Equal(t, genuine, padded[:2])

	for i, p := range padded[2:] {
		position := i + 2
		assert.True(t, strings.HasPrefix(p.ID, AdditionalIDPrefix+"-"))
		assert.True(t, p.Synthetic)
		assert.Equal(t, entities.SpecialtyAt(position), p.Speciality)
		if i > 0 {
			assert.Greater(t, p.Fees, padded[position-1].Fees)
			assert.Greater(t, p.Experience, padded[position-1].Experience)
		}
	}
	assert.Equal(t, "additional-2", padded[2].ID)
}

func TestPadRoster_LargeListUntouched(t *testing.T) {
	roster := FallbackRoster(6)
	assert.Equal(t, roster, PadRoster(roster, MinRosterSize))
}

func TestPadRoster_SyntheticIDsAvoidGenuineIDs(t *testing.T) {
	genuine := NormalizeProviders([]interface{}{
		map[string]interface{}{"id": "a", "name": "Alice Rao"},
		map[string]interface{}{"id": "additional-3", "name": "Bob Shah"},
	}, NormalizeOptions{})

	padded := PadRoster(genuine, MinRosterSize)

	require.Len(t, padded, MinRosterSize)
	ids := make(map[string]struct{}, len(padded))
	for _, p := range padded {
		ids[p.ID] = struct{}{}
	}
	assert.Len(t, ids, MinRosterSize)
	assert.Equal(t, "additional-3", padded[1].ID)
	assert.False(t, padded[1].Synthetic)
	assert.Equal(t, "additional-3-3", padded[3].ID)
}

func TestPadRoster_NegativeMinSize(t *testing.T) {
	genuine := FallbackRoster(2)
	assert.Equal(t, genuine, PadRoster(genuine, -1))
	assert.Empty(t, PadRoster(nil, -1))
}

func TestFallbackRoster_NonPositiveSize(t *testing.T) {
	assert.Len(t, FallbackRoster(0), FallbackRosterSize)
	assert.Len(t, FallbackRoster(-1), FallbackRosterSize)
}

func TestFallbackRoster(t *testing.T) {
	roster := FallbackRoster(FallbackRosterSize)

	require.Len(t, roster, FallbackRosterSize)
	assert.Equal(t, "default-0", roster[0].ID)
	assert.Equal(t, "default-9", roster[9].ID)
	assert.Equal(t, roster, FallbackRoster(FallbackRosterSize))

	var video, clinic int
	for _, p := range roster {
		assert.True(t, p.Synthetic)
		if p.ConsultationModes.VideoConsult {
			video++
		}
		if p.ConsultationModes.InClinic {
			clinic++
		}
	}
	assert.Less(t, video, FallbackRosterSize)
	assert.Less(t, clinic, FallbackRosterSize)
}
