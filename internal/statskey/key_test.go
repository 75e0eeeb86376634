package statskey

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/meltforce/terrapump/internal/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tricep Pushdown", "tricep_pushdown"},
		{"V-Bar", "v_bar"},
		{"  Hammer  Strength! ", "hammer_strength"},
		{"EZ Bar (thick)", "ez_bar_thick"},
		{"legpress", "legpress"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildKey(t *testing.T) {
	tests := []struct {
		name       string
		typ        models.EquipmentType
		exercise   string
		brand      string
		attachment string
		want       string
	}{
		{"cable with attachment", models.EquipmentCable, "Tricep Pushdown", "", "V Bar", "tricep_pushdown--v_bar"},
		{"cable without attachment", models.EquipmentCable, "Tricep Pushdown", "", "", "tricep_pushdown--noattach"},
		{"cable attachment named none", models.EquipmentCable, "Tricep Pushdown", "", "None", "tricep_pushdown--noattach"},
		{"plate loaded with brand", models.EquipmentPlateLoaded, "Leg Press", "Hammer Strength", "", "hammer_strength--leg_press"},
		{"machine with brand", models.EquipmentMachine, "Pec Deck", "Life Fitness", "", "life_fitness--pec_deck"},
		{"machine without brand", models.EquipmentMachine, "Pec Deck", "", "", "pec_deck"},
		{"barbell", models.EquipmentBarbell, "Bench Press", "", "", "bench_press"},
		{"bodyweight ignores attachment", models.EquipmentBodyweight, "Pull Up", "", "V Bar", "pull_up"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildKey(tt.typ, tt.exercise, tt.brand, tt.attachment)
			if got != tt.want {
				t.Errorf("BuildKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLegacyVariantsBranded(t *testing.T) {
	got := LegacyVariants(models.EquipmentPlateLoaded, "Leg Press", "Hammer Strength", "hammer_strength")
	want := []string{
		"leg_press",
		"leg-press",
		"leg_press--noattach",
		"leg-press--noattach",
		"hammer_strength--leg_press",
		"hammer_strength--leg-press",
		"hammer-strength--leg_press",
		"hammer-strength--leg-press",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LegacyVariants mismatch (-want +got):\n%s", diff)
	}
}

func TestLegacyVariantsNoBrandForBarbell(t *testing.T) {
	got := LegacyVariants(models.EquipmentBarbell, "Bench Press", "Rogue", "rogue")
	want := []string{
		"bench_press",
		"bench-press",
		"bench_press--noattach",
		"bench-press--noattach",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LegacyVariants mismatch (-want +got):\n%s", diff)
	}
}

func TestCandidateKeysCanonicalFirst(t *testing.T) {
	got := CandidateKeys(models.EquipmentCable, "Tricep Pushdown", "", "", "V Bar")
	if got[0] != "tricep_pushdown--v_bar" {
		t.Errorf("first candidate = %q, want canonical key", got[0])
	}
	seen := map[string]bool{}
	for _, k := range got {
		if seen[k] {
			t.Errorf("duplicate candidate %q", k)
		}
		seen[k] = true
	}
	if !seen["tricep_pushdown--noattach"] {
		t.Error("legacy noattach variant missing")
	}
	if !seen["tricep_pushdown"] {
		t.Error("plain slug variant missing")
	}
}

func TestCandidateKeysSingleWordDedup(t *testing.T) {
	// A one-word exercise makes the hyphen and underscore styles collide.
	got := CandidateKeys(models.EquipmentBodyweight, "Dips", "", "", "")
	want := []string{"dips", "dips--noattach"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CandidateKeys mismatch (-want +got):\n%s", diff)
	}
}
