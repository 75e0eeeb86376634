package models

import (
	"encoding/json"
	"testing"
)

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float64", 42.5, 42.5, true},
		{"int", 45, 45, true},
		{"numeric string", "25.5", 25.5, true},
		{"json number", json.Number("10"), 10, true},
		{"non-numeric string", "heavy", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceFloat(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CoerceFloat(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFlexFloatDecodeLenient(t *testing.T) {
	type doc struct {
		Weight FlexFloat `json:"weight"`
	}
	tests := []struct {
		name string
		in   string
		want FlexFloat
	}{
		{"number", `{"weight": 45}`, Flex(45)},
		{"numeric string", `{"weight": "45"}`, Flex(45)},
		{"explicit zero", `{"weight": 0}`, Flex(0)},
		{"null", `{"weight": null}`, FlexFloat{}},
		{"garbage string", `{"weight": "n/a"}`, FlexFloat{}},
		{"object", `{"weight": {"lbs": 45}}`, FlexFloat{}},
		{"absent", `{}`, FlexFloat{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d doc
			if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
				t.Fatalf("malformed field must not fail the document: %v", err)
			}
			if d.Weight != tt.want {
				t.Errorf("weight = %+v, want %+v", d.Weight, tt.want)
			}
		})
	}
}

func TestFlexFloatMarshal(t *testing.T) {
	b, err := json.Marshal(Flex(42.5))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "42.5" {
		t.Errorf("present = %s, want 42.5", b)
	}

	b, err = json.Marshal(FlexFloat{})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "null" {
		t.Errorf("absent = %s, want null", b)
	}
}
