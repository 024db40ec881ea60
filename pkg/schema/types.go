package schema

import (
	"encoding/json"
	"fmt"
	"math"
)

// Type defines the contract for a literal value type.
// Implementations determine how values are validated and normalized.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
	// Coerce validates the value and returns its canonical Go representation:
	// string, int, float64 or bool.
	Coerce(value any) (any, error)
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *StringType) Coerce(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", value)
	}
	return s, nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *IntType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return nil, fmt.Errorf("expected int, got %d (out of range)", v)
		}
		return int(v), nil
	case uint:
		if uint64(v) > math.MaxInt {
			return nil, fmt.Errorf("expected int, got %d (out of range)", v)
		}
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case float32:
		return wholeFloat(float64(v))
	case float64:
		// Accept floats that are whole numbers (from JSON unmarshaling)
		return wholeFloat(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("expected int, got number %s", v)
		}
		return int(i), nil
	default:
		return nil, fmt.Errorf("expected int, got %T", value)
	}
}

func wholeFloat(v float64) (any, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, fmt.Errorf("expected int, got float (not a whole number)")
	}
	// 1<<63 is exact as a float64; MaxInt is not.
	if v < math.MinInt || v >= -math.MinInt {
		return nil, fmt.Errorf("expected int, got %g (out of range)", v)
	}
	return int(v), nil
}

// FloatType validates floating-point values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *FloatType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("expected float, got number %s", v)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("expected float, got %T", value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *BoolType) Coerce(value any) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("expected bool, got %T", value)
	}
	return b, nil
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// ParseType converts a type name to a Type.
// Supports "string", "int", "float" and "bool".
func ParseType(typeStr string) (Type, error) {
	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}
