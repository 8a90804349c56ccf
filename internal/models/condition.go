package models

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/myrjola/gaslight/internal/errors"
)

// ConditionType discriminates the Condition union. Unknown types decode without error and evaluate false.
type ConditionType string

const (
	ConditionHasClue           ConditionType = "hasClue"
	ConditionHasDeduction      ConditionType = "hasDeduction"
	ConditionHasFlag           ConditionType = "hasFlag"
	ConditionFacultyMin        ConditionType = "facultyMin"
	ConditionArchetypeIs       ConditionType = "archetypeIs"
	ConditionNPCDisposition    ConditionType = "npcDisposition"
	ConditionNPCSuspicion      ConditionType = "npcSuspicion"
	ConditionFactionReputation ConditionType = "factionReputation"
)

// Condition is a single gating predicate over a GameState.
type Condition struct {
	Type   ConditionType `json:"type"`
	Target string        `json:"target"`
	Value  *Value        `json:"value,omitempty"`
}

type ValueKind uint8

const (
	ValueNumber ValueKind = iota + 1
	ValueBool
	ValueString
)

// Value is a JSON scalar: number, boolean or string.
type Value struct {
	Kind ValueKind
	num  float64
	b    bool
	s    string
}

func NumberValue(n float64) *Value { return &Value{Kind: ValueNumber, num: n} }
func BoolValue(b bool) *Value      { return &Value{Kind: ValueBool, b: b} }
func StringValue(s string) *Value  { return &Value{Kind: ValueString, s: s} }

// Number returns the numeric payload. The boolean is false when the value is not a number.
func (v *Value) Number() (float64, bool) {
	if v == nil || v.Kind != ValueNumber {
		return 0, false
	}
	return v.num, true
}

func (v *Value) Bool() (bool, bool) {
	if v == nil || v.Kind != ValueBool {
		return false, false
	}
	return v.b, true
}

func (v *Value) String() (string, bool) {
	if v == nil || v.Kind != ValueString {
		return "", false
	}
	return v.s, true
}

// Equal reports whether both values have the same kind and payload.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	return *v == *other
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case ValueBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case ValueString:
		b, err := json.Marshal(v.s)
		if err != nil {
			return nil, errors.Wrap(err, "marshal string value")
		}
		return b, nil
	default:
		return []byte("null"), nil
	}
}

var ErrInvalidValue = errors.NewSentinel("value must be a number, boolean or string")

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*v = Value{Kind: ValueBool, b: true}
	case bytes.Equal(data, []byte("false")):
		*v = Value{Kind: ValueBool, b: false}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "unmarshal string value")
		}
		*v = Value{Kind: ValueString, s: s}
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return errors.Wrap(ErrInvalidValue, "unmarshal value", slog.String("raw", string(data)))
		}
		*v = Value{Kind: ValueNumber, num: n}
	}
	return nil
}
