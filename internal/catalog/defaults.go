package catalog

import (
	"github.com/meltforce/terrapump/internal/models"
)

// barbellWeight is the only hardcoded per-type starting weight: an empty
// standard bar. Every other equipment type starts at zero.
const barbellWeight = 45.0

// TypeDefault returns the hardcoded starting weight for an equipment type.
func TypeDefault(t models.EquipmentType) float64 {
	if t == models.EquipmentBarbell {
		return barbellWeight
	}
	return 0
}

// ResolveDefaultWeight reads the default weight from a raw catalog
// document, preferring the machine-style default_starting_weight field
// over the library-style default_weight. Absent or malformed values return
// the fallback unchanged; the catalog is user-curated and a bad entry must
// never break the logging flow.
func ResolveDefaultWeight(doc map[string]any, fallback float64) float64 {
	if v, ok := models.CoerceFloat(doc["default_starting_weight"]); ok {
		return v
	}
	if v, ok := models.CoerceFloat(doc["default_weight"]); ok {
		return v
	}
	return fallback
}

// WeightResolver is one step in the default-weight chain. It receives the
// accumulated default and returns it unchanged unless its source record
// actually carries a value.
type WeightResolver func(current float64) float64

// LibraryResolver overrides the default with the library entry's weight.
func LibraryResolver(lib *models.LibraryExercise) WeightResolver {
	return func(current float64) float64 {
		if lib != nil && lib.DefaultWeight.Present {
			return lib.DefaultWeight.Value
		}
		return current
	}
}

// MachineResolver overrides the default with the chosen machine's weight.
func MachineResolver(m *models.Machine) WeightResolver {
	return func(current float64) float64 {
		if m == nil {
			return current
		}
		if w, ok := m.StartingWeight(); ok {
			return w
		}
		return current
	}
}

// AttachmentResolver overrides the default with the attachment's weight.
func AttachmentResolver(a *models.Attachment) WeightResolver {
	return func(current float64) float64 {
		if a != nil && a.DefaultWeight.Present {
			return a.DefaultWeight.Value
		}
		return current
	}
}

// StartingWeight applies the resolution chain left to right: hardcoded
// type constant, then the matching library entry, then the concrete
// machine or attachment record. Later steps win only when their record
// carries a value.
func StartingWeight(
	t models.EquipmentType,
	lib *models.LibraryExercise,
	machine *models.Machine,
	attachment *models.Attachment,
) float64 {
	weight := TypeDefault(t)
	for _, resolve := range []WeightResolver{
		LibraryResolver(lib),
		MachineResolver(machine),
		AttachmentResolver(attachment),
	} {
		weight = resolve(weight)
	}
	return weight
}
