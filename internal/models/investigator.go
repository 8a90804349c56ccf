package models

// Faculty is one of the six aptitude scores that drive check modifiers.
type Faculty string

const (
	FacultyReason     Faculty = "reason"
	FacultyPerception Faculty = "perception"
	FacultyNerve      Faculty = "nerve"
	FacultyVigor      Faculty = "vigor"
	FacultyInfluence  Faculty = "influence"
	FacultyLore       Faculty = "lore"
)

// AllFaculties lists the faculties in their canonical order.
var AllFaculties = []Faculty{ //nolint:gochecknoglobals // read-only registry
	FacultyReason,
	FacultyPerception,
	FacultyNerve,
	FacultyVigor,
	FacultyInfluence,
	FacultyLore,
}

// IsValid reports whether f names one of the six faculties.
func (f Faculty) IsValid() bool {
	switch f {
	case FacultyReason, FacultyPerception, FacultyNerve, FacultyVigor, FacultyInfluence, FacultyLore:
		return true
	default:
		return false
	}
}

type Archetype string

const (
	ArchetypeDeductionist Archetype = "deductionist"
	ArchetypeOccultist    Archetype = "occultist"
	ArchetypeOperator     Archetype = "operator"
	ArchetypeMesmerist    Archetype = "mesmerist"
)

func (a Archetype) IsValid() bool {
	switch a {
	case ArchetypeDeductionist, ArchetypeOccultist, ArchetypeOperator, ArchetypeMesmerist:
		return true
	default:
		return false
	}
}

// Faculties holds the six faculty scores of an investigator.
type Faculties struct {
	Reason     int `json:"reason"`
	Perception int `json:"perception"`
	Nerve      int `json:"nerve"`
	Vigor      int `json:"vigor"`
	Influence  int `json:"influence"`
	Lore       int `json:"lore"`
}

// Get returns the score for faculty. The boolean is false for an unknown faculty name.
func (f Faculties) Get(faculty Faculty) (int, bool) {
	switch faculty {
	case FacultyReason:
		return f.Reason, true
	case FacultyPerception:
		return f.Perception, true
	case FacultyNerve:
		return f.Nerve, true
	case FacultyVigor:
		return f.Vigor, true
	case FacultyInfluence:
		return f.Influence, true
	case FacultyLore:
		return f.Lore, true
	default:
		return 0, false
	}
}

// Set assigns score to faculty and reports whether the faculty exists.
func (f *Faculties) Set(faculty Faculty, score int) bool {
	switch faculty {
	case FacultyReason:
		f.Reason = score
	case FacultyPerception:
		f.Perception = score
	case FacultyNerve:
		f.Nerve = score
	case FacultyVigor:
		f.Vigor = score
	case FacultyInfluence:
		f.Influence = score
	case FacultyLore:
		f.Lore = score
	default:
		return false
	}
	return true
}

const (
	MinResource = 0
	MaxResource = 10
)

// Investigator is the player character.
//
// Composure and Vitality are kept within [MinResource, MaxResource] by AdjustComposure and AdjustVitality.
type Investigator struct {
	Name        string    `json:"name"`
	Archetype   Archetype `json:"archetype"`
	Faculties   Faculties `json:"faculties"`
	Composure   int       `json:"composure"`
	Vitality    int       `json:"vitality"`
	AbilityUsed bool      `json:"abilityUsed"`
}

func (i *Investigator) AdjustComposure(delta int) {
	i.Composure = Clamp(i.Composure+delta, MinResource, MaxResource)
}

func (i *Investigator) AdjustVitality(delta int) {
	i.Vitality = Clamp(i.Vitality+delta, MinResource, MaxResource)
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
