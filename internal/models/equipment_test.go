package models

import "testing"

func TestParseEquipmentTypeSpellings(t *testing.T) {
	tests := []struct {
		in   string
		want EquipmentType
	}{
		{"barbell", EquipmentBarbell},
		{"Barbell", EquipmentBarbell},
		{"plate_loaded", EquipmentPlateLoaded},
		{"Plate-loaded", EquipmentPlateLoaded},
		{"plate loaded", EquipmentPlateLoaded},
		{" cable ", EquipmentCable},
	}
	for _, tt := range tests {
		got, err := ParseEquipmentType(tt.in)
		if err != nil {
			t.Errorf("ParseEquipmentType(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEquipmentType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseEquipmentType("kettlebell"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestEquipmentTypeDisplay(t *testing.T) {
	if got := EquipmentPlateLoaded.Display(); got != "Plate-loaded" {
		t.Errorf("Display() = %q, want Plate-loaded", got)
	}
	if got := EquipmentBarbell.Display(); got != "Barbell" {
		t.Errorf("Display() = %q, want Barbell", got)
	}
}
