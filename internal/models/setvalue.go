package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// RepValue is the rep count for one set. Bilateral sets carry a single
// count; unilateral sets carry independent left/right counts. The JSON
// shape is preserved exactly as historical documents store it: a bare
// number for bilateral, {"left":…,"right":…} for unilateral.
type RepValue struct {
	Unilateral bool
	Count      int
	Left       int
	Right      int
}

// BilateralReps returns a bilateral rep value.
func BilateralReps(count int) RepValue {
	return RepValue{Count: count}
}

// UnilateralReps returns a unilateral rep value with independent sides.
func UnilateralReps(left, right int) RepValue {
	return RepValue{Unilateral: true, Left: left, Right: right}
}

func (v RepValue) MarshalJSON() ([]byte, error) {
	if v.Unilateral {
		return json.Marshal(sidedInt{Left: v.Left, Right: v.Right})
	}
	return []byte(strconv.Itoa(v.Count)), nil
}

func (v *RepValue) UnmarshalJSON(b []byte) error {
	if isObject(b) {
		var s sidedInt
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("unilateral reps: %w", err)
		}
		*v = UnilateralReps(s.Left, s.Right)
		return nil
	}
	// Legacy documents occasionally store rep counts as floats.
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("reps: %w", err)
	}
	*v = BilateralReps(int(math.Round(n)))
	return nil
}

// WeightValue is the weight for one set, with the same bilateral/unilateral
// split and JSON shape rules as RepValue.
type WeightValue struct {
	Unilateral bool
	Weight     float64
	Left       float64
	Right      float64
}

// BilateralWeight returns a bilateral weight value.
func BilateralWeight(weight float64) WeightValue {
	return WeightValue{Weight: weight}
}

// UnilateralWeight returns a unilateral weight value with independent sides.
func UnilateralWeight(left, right float64) WeightValue {
	return WeightValue{Unilateral: true, Left: left, Right: right}
}

func (v WeightValue) MarshalJSON() ([]byte, error) {
	if v.Unilateral {
		return json.Marshal(sidedFloat{Left: v.Left, Right: v.Right})
	}
	return json.Marshal(v.Weight)
}

func (v *WeightValue) UnmarshalJSON(b []byte) error {
	if isObject(b) {
		var s sidedFloat
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("unilateral weight: %w", err)
		}
		*v = UnilateralWeight(s.Left, s.Right)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("weight: %w", err)
	}
	*v = BilateralWeight(n)
	return nil
}

type sidedInt struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

type sidedFloat struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

func isObject(b []byte) bool {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// CoerceFloat converts a decoded JSON value to a float64. Catalog documents
// are user-curated and may store weights as numbers or numeric strings;
// anything else reports ok=false rather than an error.
func CoerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FlexFloat is an optional numeric document field that decodes leniently:
// numbers and numeric strings populate the value, anything malformed or
// null decodes as absent instead of failing the enclosing document.
type FlexFloat struct {
	Value   float64
	Present bool
}

// Flex returns a present FlexFloat.
func Flex(v float64) FlexFloat {
	return FlexFloat{Value: v, Present: true}
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Present {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*f = FlexFloat{}
		return nil //nolint:nilerr // malformed field decodes as absent
	}
	v, ok := CoerceFloat(raw)
	*f = FlexFloat{Value: v, Present: ok}
	return nil
}
