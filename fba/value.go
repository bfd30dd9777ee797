package fba

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Value is an optional float: the outcome of one optimization. An absent
// Value (Valid == false) means the solve was infeasible, unbounded or timed
// out, and is distinct from a feasible zero.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a present Value.
func Some(f float64) Value { return Value{Float: f, Valid: true} }

// None returns the absent Value.
func None() Value { return Value{} }

// Get returns the float and whether it is present.
func (v Value) Get() (float64, bool) { return v.Float, v.Valid }

// String renders present values with %g and absent ones as "NA".
func (v Value) String() string {
	if !v.Valid {
		return "NA"
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// MarshalJSON encodes absent values and non-finite floats as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid || math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.Float, 'g', -1, 64)), nil
}

// UnmarshalJSON decodes null as absent.
func (v *Value) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*v = None()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Some(f)

	return nil
}

// ParseValue reads the textual form used in tabular reports: an empty
// string, "NA", "nan" or "null" is absent.
func ParseValue(s string) (Value, error) {
	switch s {
	case "", "NA", "nan", "NaN", "null", "None":
		return None(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return None(), err
	}

	return Some(f), nil
}
