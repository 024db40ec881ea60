// Package schema provides the literal type system used by event binding parameters.
//
// It defines four built-in types (string, int, float, bool). Each type can
// validate a value and coerce it into a canonical Go representation, absorbing
// the numeric variations produced by YAML and JSON decoders (float64 for
// whole numbers, json.Number in strict mode).
//
// Basic usage:
//
//	values, err := schema.CoerceList(
//	    []string{"string", "int"},
//	    []any{"door-1", float64(3)},
//	)
//	// values == []any{"door-1", 3}
//
// Failures are reported as *ValidationError, or *AggregateError when more than
// one value is wrong.
//
// This package has zero external dependencies beyond the Go standard library.
package schema
