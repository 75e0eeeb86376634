package models

// Brand is an equipment manufacturer. The ID doubles as the document key
// and, in the oldest stats-key scheme, as the brand component of the key.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Machine is a selectable piece of equipment owned by exactly one brand.
// Older documents store the default weight under default_starting_weight,
// newer ones under default_weight; both fields decode leniently because
// the catalog is admin-curated and may contain malformed values.
type Machine struct {
	ID                    string    `json:"id"`
	BrandID               string    `json:"brand_id,omitempty"`
	Name                  string    `json:"name"`
	Type                  string    `json:"type"` // "machine" or "plate loaded"
	DefaultStartingWeight FlexFloat `json:"default_starting_weight,omitempty"`
	DefaultWeight         FlexFloat `json:"default_weight,omitempty"`
	Subtype               string    `json:"subtype,omitempty"`
}

// StartingWeight returns the machine's default weight, preferring the
// machine-style override field over the library-style one.
func (m Machine) StartingWeight() (float64, bool) {
	if m.DefaultStartingWeight.Present {
		return m.DefaultStartingWeight.Value, true
	}
	if m.DefaultWeight.Present {
		return m.DefaultWeight.Value, true
	}
	return 0, false
}

// Attachment is a cable attachment. Attachments form a flat set with no
// brand owner.
type Attachment struct {
	Name          string    `json:"name"`
	DefaultWeight FlexFloat `json:"default_weight,omitempty"`
}

// LibraryExercise is a generic exercise independent of any brand, used as
// the fallback catalog when no machine record matches.
type LibraryExercise struct {
	Name          string        `json:"name"`
	Type          EquipmentType `json:"type"`
	DefaultWeight FlexFloat     `json:"default_weight,omitempty"`
	Subtype       string        `json:"subtype,omitempty"`
}
