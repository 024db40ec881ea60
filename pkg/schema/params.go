package schema

import "fmt"

// CoerceList validates an ordered list of values against an ordered list of
// type names and returns the canonical values. Every failure is reported.
func CoerceList(typeNames []string, values []any) ([]any, error) {
	if len(typeNames) != len(values) {
		return nil, &ValidationError{
			Key:    "params",
			Reason: fmt.Sprintf("expected %d values, got %d", len(typeNames), len(values)),
		}
	}

	out := make([]any, len(values))
	var errs []error
	for i, name := range typeNames {
		key := fmt.Sprintf("params[%d]", i)

		typ, err := ParseType(name)
		if err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error()})
			continue
		}

		v, err := typ.Coerce(values[i])
		if err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: values[i]})
			continue
		}
		out[i] = v
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return out, nil
}
