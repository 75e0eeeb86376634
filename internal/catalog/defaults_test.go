package catalog

import (
	"testing"

	"github.com/meltforce/terrapump/internal/models"
)

func TestTypeDefault(t *testing.T) {
	if got := TypeDefault(models.EquipmentBarbell); got != 45 {
		t.Errorf("barbell default = %v, want 45", got)
	}
	for _, typ := range []models.EquipmentType{
		models.EquipmentBodyweight,
		models.EquipmentCable,
		models.EquipmentDumbbell,
		models.EquipmentMachine,
		models.EquipmentPlateLoaded,
	} {
		if got := TypeDefault(typ); got != 0 {
			t.Errorf("%s default = %v, want 0", typ, got)
		}
	}
}

func TestResolveDefaultWeight(t *testing.T) {
	tests := []struct {
		name     string
		doc      map[string]any
		fallback float64
		want     float64
	}{
		{"machine field wins", map[string]any{"default_starting_weight": 135.0, "default_weight": 20.0}, 0, 135},
		{"library field", map[string]any{"default_weight": 20.0}, 0, 20},
		{"numeric string", map[string]any{"default_weight": "25.5"}, 0, 25.5},
		{"explicit zero", map[string]any{"default_weight": 0.0}, 45, 0},
		{"malformed string falls back", map[string]any{"default_weight": "heavy"}, 45, 45},
		{"absent falls back", map[string]any{}, 45, 45},
		{"malformed machine field defers to library field", map[string]any{"default_starting_weight": "??", "default_weight": 30.0}, 0, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDefaultWeight(tt.doc, tt.fallback); got != tt.want {
				t.Errorf("ResolveDefaultWeight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartingWeightChain(t *testing.T) {
	lib := &models.LibraryExercise{Name: "Incline Press", Type: models.EquipmentBarbell, DefaultWeight: models.Flex(65)}
	machine := &models.Machine{Name: "Iso Incline", DefaultStartingWeight: models.Flex(90)}
	attachment := &models.Attachment{Name: "Rope", DefaultWeight: models.Flex(5)}

	tests := []struct {
		name       string
		typ        models.EquipmentType
		lib        *models.LibraryExercise
		machine    *models.Machine
		attachment *models.Attachment
		want       float64
	}{
		{"type default only", models.EquipmentBarbell, nil, nil, nil, 45},
		{"library overrides type", models.EquipmentBarbell, lib, nil, nil, 65},
		{"machine overrides library", models.EquipmentPlateLoaded, lib, machine, nil, 90},
		{"attachment overrides library", models.EquipmentCable, lib, nil, attachment, 5},
		{"empty records keep earlier value", models.EquipmentBarbell, &models.LibraryExercise{}, &models.Machine{}, nil, 45},
		{"machine zero override wins", models.EquipmentBarbell, lib, &models.Machine{DefaultStartingWeight: models.Flex(0)}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartingWeight(tt.typ, tt.lib, tt.machine, tt.attachment)
			if got != tt.want {
				t.Errorf("StartingWeight = %v, want %v", got, tt.want)
			}
		})
	}
}
