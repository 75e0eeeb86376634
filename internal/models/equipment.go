package models

import (
	"fmt"
	"strings"
)

// EquipmentType classifies an exercise by the equipment it is performed on.
// The type drives which selection flow applies (brand/machine for machines,
// attachment for cables) and which default-weight rule seeds the form.
type EquipmentType string

const (
	EquipmentBodyweight  EquipmentType = "bodyweight"
	EquipmentBarbell     EquipmentType = "barbell"
	EquipmentCable       EquipmentType = "cable"
	EquipmentDumbbell    EquipmentType = "dumbbell"
	EquipmentMachine     EquipmentType = "machine"
	EquipmentPlateLoaded EquipmentType = "plate_loaded"
)

// EquipmentTypes lists all equipment types in display order.
var EquipmentTypes = []EquipmentType{
	EquipmentBodyweight,
	EquipmentBarbell,
	EquipmentCable,
	EquipmentDumbbell,
	EquipmentMachine,
	EquipmentPlateLoaded,
}

// ParseEquipmentType normalizes a user- or document-supplied type string.
// Historical documents use display spellings like "Plate-loaded" and
// "plate loaded"; all of them map to the canonical constant.
func ParseEquipmentType(s string) (EquipmentType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "bodyweight":
		return EquipmentBodyweight, nil
	case "barbell":
		return EquipmentBarbell, nil
	case "cable":
		return EquipmentCable, nil
	case "dumbbell":
		return EquipmentDumbbell, nil
	case "machine":
		return EquipmentMachine, nil
	case "plate_loaded", "plateloaded":
		return EquipmentPlateLoaded, nil
	}
	return "", fmt.Errorf("unknown equipment type %q", s)
}

// Display returns the spelling used in the UI and in legacy documents.
func (t EquipmentType) Display() string {
	switch t {
	case EquipmentPlateLoaded:
		return "Plate-loaded"
	case "":
		return ""
	default:
		return strings.ToUpper(string(t[:1])) + string(t[1:])
	}
}

// MachineDocType returns the type string stored on machine catalog
// documents ("machine" or "plate loaded"), or "" for types that have no
// machine records.
func (t EquipmentType) MachineDocType() string {
	switch t {
	case EquipmentMachine:
		return "machine"
	case EquipmentPlateLoaded:
		return "plate loaded"
	default:
		return ""
	}
}

// UsesBrand reports whether the selection flow for this type goes through
// the brand → machine hierarchy.
func (t EquipmentType) UsesBrand() bool {
	return t == EquipmentMachine || t == EquipmentPlateLoaded
}

// UsesAttachment reports whether the selection flow offers a cable attachment.
func (t EquipmentType) UsesAttachment() bool {
	return t == EquipmentCable
}
