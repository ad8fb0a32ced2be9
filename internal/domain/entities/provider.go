package entities

// Provider represents a healthcare provider listed in the directory
type Provider struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Qualifications    string            `json:"qualifications"`
	Speciality        string            `json:"speciality"`
	Experience        int               `json:"experience"` // in years
	Location          string            `json:"location"`
	Clinic            string            `json:"clinic"`
	Fees              float64           `json:"fees"`
	PhotoURL          string            `json:"photoUrl,omitempty"`
	ConsultationModes ConsultationModes `json:"consultationModes"`
	Synthetic         bool              `json:"synthetic,omitempty"`
}

// ConsultationModes represents how a provider can be consulted
type ConsultationModes struct {
	VideoConsult bool `json:"videoConsult"`
	InClinic     bool `json:"inClinic"`
}

// Supports reports whether the provider offers the given consultation mode.
// An empty mode is supported by every provider.
func (m ConsultationModes) Supports(mode ConsultationMode) bool {
	switch mode {
	case ConsultationModeVideo:
		return m.VideoConsult
	case ConsultationModeClinic:
		return m.InClinic
	default:
		return true
	}
}

// DefaultSpecialties is the fixed specialty enumeration used for positional
// defaulting and as the baseline of the specialty filter options.
var DefaultSpecialties = []string{
	"General Physician",
	"Dentist",
	"Dermatologist",
	"Paediatrician",
	"Gynaecologist",
	"ENT",
	"Diabetologist",
	"Cardiologist",
	"Physiotherapist",
	"Endocrinologist",
	"Orthopaedic",
	"Ophthalmologist",
	"Gastroenterologist",
	"Pulmonologist",
	"Psychiatrist",
	"Urologist",
	"Dietitian/Nutritionist",
	"Psychologist",
	"Sexologist",
	"Nephrologist",
	"Neurologist",
	"Oncologist",
	"Ayurveda",
	"Homeopath",
}

// SpecialtyAt returns the default specialty for a payload position.
func SpecialtyAt(position int) string {
	if position < 0 {
		position = -position
	}
	return DefaultSpecialties[position%len(DefaultSpecialties)]
}
