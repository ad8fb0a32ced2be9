package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zatekoja/doctorfinder/internal/domain/entities"
	"github.com/zatekoja/doctorfinder/pkg/utils"
)

// Defaults substituted for absent or malformed provider fields
const (
	DefaultProviderName   = "Unknown Doctor"
	DefaultQualifications = "MBBS"
	DefaultLocation       = "Unknown"
	DefaultClinic         = "General Clinic"
	DefaultFees           = 500.0
	DefaultExperience     = 0

	// MinRosterSize is the size below which PadRoster adds filler records
	MinRosterSize = 5
	// FallbackRosterSize is the size of the roster used when fetching fails
	FallbackRosterSize = 10

	AdditionalIDPrefix = "additional"
	FallbackIDPrefix   = "default"
)

var providerIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("doctorfinder/provider"))

// NormalizeOptions tunes NormalizeProviders
type NormalizeOptions struct {
	// StrictModes treats an absent or non-boolean consultation mode as unavailable.
	// By default such modes are considered available.
	StrictModes bool
}

// NormalizeProviders converts a raw upstream payload into well-formed providers.
// Elements that are not JSON objects are dropped; every other field problem is
// replaced by its default. Default specialties cycle by payload position.
func NormalizeProviders(raw []interface{}, opts NormalizeOptions) []entities.Provider {
	out := make([]entities.Provider, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for position, item := range raw {
		obj, ok := utils.AsObject(item)
		if !ok {
			continue
		}

		provider := normalizeProvider(obj, position, opts)
		provider.ID = uniqueID(provider.ID, position, seen)
		out = append(out, provider)
	}

	return out
}

func normalizeProvider(obj map[string]interface{}, position int, opts NormalizeOptions) entities.Provider {
	p := entities.Provider{
		Name:           DefaultProviderName,
		Qualifications: DefaultQualifications,
		Speciality:     entities.SpecialtyAt(position),
		Experience:     DefaultExperience,
		Location:       DefaultLocation,
		Clinic:         DefaultClinic,
		Fees:           DefaultFees,
	}

	if name, ok := utils.NonBlankString(obj["name"]); ok {
		p.Name = name
	}
	if q, ok := utils.NonBlankString(obj["qualifications"]); ok {
		p.Qualifications = q
	}
	if s, ok := utils.NonBlankString(obj["speciality"]); ok {
		p.Speciality = s
	}
	if years, ok := utils.NonNegativeInt(obj["experience"]); ok {
		p.Experience = years
	}
	if loc, ok := utils.NonBlankString(obj["location"]); ok {
		p.Location = loc
	}
	if clinic, ok := utils.NonBlankString(obj["clinic"]); ok {
		p.Clinic = clinic
	}
	if fees, ok := utils.NonNegativeNumber(obj["fees"]); ok {
		p.Fees = fees
	}
	if photo, ok := utils.FirstNonBlankString(obj, "photoUrl", "imageUrl", "photo"); ok {
		p.PhotoURL = photo
	}

	p.ConsultationModes = normalizeModes(obj["consultationModes"], opts)

	if id, ok := utils.Identifier(obj["id"]); ok {
		p.ID = id
	} else {
		p.ID = uuid.NewSHA1(providerIDNamespace, []byte(fmt.Sprintf("%d:%s", position, p.Name))).String()
	}

	return p
}

func normalizeModes(v interface{}, opts NormalizeOptions) entities.ConsultationModes {
	fallback := !opts.StrictModes
	modes := entities.ConsultationModes{VideoConsult: fallback, InClinic: fallback}

	obj, ok := utils.AsObject(v)
	if !ok {
		return modes
	}
	if video, ok := utils.Bool(obj["videoConsult"]); ok {
		modes.VideoConsult = video
	}
	if clinic, ok := utils.Bool(obj["inClinic"]); ok {
		modes.InClinic = clinic
	}
	return modes
}

func uniqueID(id string, position int, seen map[string]struct{}) string {
	candidate := id
	for {
		if _, dup := seen[candidate]; !dup {
			seen[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", candidate, position)
	}
}

// PadRoster appends synthetic providers until the list holds minSize entries.
// Synthetic ids never collide with ids already in the list.
// The input slice is never modified.
func PadRoster(providers []entities.Provider, minSize int) []entities.Provider {
	out := make([]entities.Provider, len(providers), max(len(providers), minSize))
	copy(out, providers)
	if len(providers) >= minSize {
		return out
	}

	seen := make(map[string]struct{}, minSize)
	for _, p := range providers {
		seen[p.ID] = struct{}{}
	}
	for position := len(providers); position < minSize; position++ {
		filler := syntheticProvider(AdditionalIDPrefix, position)
		filler.ID = uniqueID(filler.ID, position, seen)
		out = append(out, filler)
	}
	return out
}

// FallbackRoster builds the deterministic roster shown when no data could be fetched.
// A non-positive size yields FallbackRosterSize entries.
func FallbackRoster(size int) []entities.Provider {
	if size <= 0 {
		size = FallbackRosterSize
	}
	out := make([]entities.Provider, 0, size)
	for position := 0; position < size; position++ {
		out = append(out, syntheticProvider(FallbackIDPrefix, position))
	}
	return out
}

func syntheticProvider(prefix string, position int) entities.Provider {
	return entities.Provider{
		ID:             fmt.Sprintf("%s-%d", prefix, position),
		Name:           fmt.Sprintf("Dr. Sample Provider %d", position+1),
		Qualifications: DefaultQualifications,
		Speciality:     entities.SpecialtyAt(position),
		Experience:     1 + 2*position,
		Location:       DefaultLocation,
		Clinic:         fmt.Sprintf("Sample Clinic %d", position+1),
		Fees:           300 + 100*float64(position),
		ConsultationModes: entities.ConsultationModes{
			VideoConsult: position%3 != 2,
			InClinic:     position%3 != 1,
		},
		Synthetic: true,
	}
}
