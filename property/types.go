package property

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/ifcgo/step"
)

// ValueKind is the kind of a property value.
type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	default:
		return "null"
	}
}

// MarshalText encodes the kind by name.
func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *ValueKind) UnmarshalText(b []byte) error {
	for _, c := range []ValueKind{ValueNull, ValueString, ValueNumber, ValueBool} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("property: unknown value kind %q", b)
}

// Value is a typed property value. Type holds the IFC wrapper type name of the
// source value, e.g. IFCLABEL, when there was one.
type Value struct {
	Kind   ValueKind `json:"kind"`
	Type   string    `json:"type,omitempty"`
	String string    `json:"string,omitempty"`
	Number float64   `json:"number,omitempty"`
	Bool   bool      `json:"bool,omitempty"`
}

// Text renders the value as display text. Null renders as "".
func (v Value) Text() string {
	switch v.Kind {
	case ValueString:
		return v.String
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case ValueBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// fromStep converts a decoded attribute. Enumerations become strings and
// aggregates are comma-joined.
func fromStep(sv step.Value) Value {
	v := Value{Type: sv.Type}
	inner := sv.Unwrap()
	switch inner.Kind {
	case step.KindString, step.KindEnum:
		v.Kind, v.String = ValueString, inner.Str
	case step.KindNumber:
		v.Kind, v.Number = ValueNumber, inner.Num
	case step.KindBool:
		v.Kind, v.Bool = ValueBool, inner.Bool
	case step.KindList:
		if text := joinValues(inner.List); text != "" {
			v.Kind, v.String = ValueString, text
		}
	}
	return v
}

func joinValues(values []step.Value) string {
	parts := make([]string, 0, len(values))
	for _, sv := range values {
		if t := fromStep(sv).Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ", ")
}

// Property is one named value of a property set.
type Property struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// QuantityKind is the measure kind of a quantity.
type QuantityKind uint8

const (
	Length QuantityKind = iota
	Area
	Volume
	Count
	Weight
	Time
)

var quantityKinds = map[string]QuantityKind{
	"IFCQUANTITYLENGTH": Length,
	"IFCQUANTITYAREA":   Area,
	"IFCQUANTITYVOLUME": Volume,
	"IFCQUANTITYCOUNT":  Count,
	"IFCQUANTITYWEIGHT": Weight,
	"IFCQUANTITYTIME":   Time,
}

func (k QuantityKind) String() string {
	switch k {
	case Length:
		return "length"
	case Area:
		return "area"
	case Volume:
		return "volume"
	case Count:
		return "count"
	case Weight:
		return "weight"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k QuantityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *QuantityKind) UnmarshalText(b []byte) error {
	for c := Length; c <= Time; c++ {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("property: unknown quantity kind %q", b)
}

// Quantity is one measured value of a quantity set.
type Quantity struct {
	Name    string       `json:"name"`
	Kind    QuantityKind `json:"kind"`
	Value   float64      `json:"value"`
	Formula string       `json:"formula,omitempty"`
}

// Set is a property set or a quantity set. Exactly one of Properties and
// Quantities is used, depending on the extractor that produced it.
type Set struct {
	ExpressID  uint32     `json:"expressId"`
	GlobalID   string     `json:"globalId,omitempty"`
	Name       string     `json:"name"`
	Properties []Property `json:"properties,omitempty"`
	Quantities []Quantity `json:"quantities,omitempty"`
}

// Property returns the property with the given name.
func (s *Set) Property(name string) (Value, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Quantity returns the quantity with the given name.
func (s *Set) Quantity(name string) (Quantity, bool) {
	for _, q := range s.Quantities {
		if q.Name == name {
			return q, true
		}
	}
	return Quantity{}, false
}
