// Package features defines the canonical soil and climate feature vector
// and resolves caller input (ordered samples or named fields) into it.
package features

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	cerrors "croprec/internal/errors"
)

// Count is the number of measurements in a feature vector.
const Count = 7

// Vector holds the measurements in canonical order.
type Vector [Count]decimal.Decimal

// Field is a canonical feature with the names accepted for it.
type Field struct {
	Name    string
	Aliases []string
}

// Fields lists the features in vector order. Lookups try aliases in order
// and the first one present wins.
var Fields = [Count]Field{
	{Name: "nitrogen", Aliases: []string{"nitrogen", "n", "N", "nitro"}},
	{Name: "phosphorus", Aliases: []string{"phosphorus", "p", "P", "phosph", "phosphorous"}},
	{Name: "potassium", Aliases: []string{"potassium", "k", "K", "potash"}},
	{Name: "temperature", Aliases: []string{"temperature", "temp", "t"}},
	{Name: "humidity", Aliases: []string{"humidity", "humid", "h"}},
	{Name: "ph", Aliases: []string{"ph", "pH", "PH"}},
	{Name: "rainfall", Aliases: []string{"rainfall", "rain", "precipitation"}},
}

// Names returns the canonical feature names in vector order.
func Names() []string {
	names := make([]string, Count)
	for i, f := range Fields {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of the field that accepts name, matching
// aliases exactly first and then case-insensitively.
func Index(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, f := range Fields {
		for _, a := range f.Aliases {
			if a == name {
				return i, true
			}
		}
	}
	for i, f := range Fields {
		for _, a := range f.Aliases {
			if strings.EqualFold(a, name) {
				return i, true
			}
		}
	}
	return -1, false
}

// FromSample builds a vector from an ordered list of values. At least Count
// values are required; trailing extras are ignored.
func FromSample(values []any) (Vector, error) {
	var v Vector
	if len(values) < Count {
		return v, cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("'sample' must be a list with at least %d numeric values, got %d", Count, len(values)),
			map[string]any{"expected": Count, "got": len(values)})
	}

	for i := 0; i < Count; i++ {
		d, err := ToDecimal(values[i])
		if err != nil {
			return v, cerrors.WrapWithContext(cerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("unable to convert sample value %d (%s) to a number", i, Fields[i].Name),
				err, map[string]any{"index": i, "field": Fields[i].Name})
		}
		v[i] = d
	}
	return v, nil
}

// FromNamed builds a vector from named fields. Every canonical field absent
// under all of its aliases is reported in a single error.
func FromNamed(payload map[string]any) (Vector, error) {
	var v Vector
	var missing []string

	for i, f := range Fields {
		raw, ok := lookup(payload, f)
		if !ok {
			missing = append(missing, f.Name)
			continue
		}
		d, err := ToDecimal(raw)
		if err != nil {
			return v, cerrors.WrapWithContext(cerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("unable to convert field %s to a number", f.Name),
				err, map[string]any{"field": f.Name})
		}
		v[i] = d
	}

	if len(missing) > 0 {
		return v, cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
			map[string]any{"missing": missing})
	}
	return v, nil
}

func lookup(payload map[string]any, f Field) (any, bool) {
	for _, a := range f.Aliases {
		if val, ok := payload[a]; ok && val != nil {
			return val, true
		}
	}
	return nil, false
}

// FromFloats is a convenience for callers that already hold numbers.
func FromFloats(values ...float64) (Vector, error) {
	in := make([]any, len(values))
	for i, f := range values {
		in[i] = f
	}
	return FromSample(in)
}

// ToDecimal converts a decoded JSON or CLI value into a decimal. Values
// outside the float64 range are rejected because distances are computed in
// float64.
func ToDecimal(val any) (decimal.Decimal, error) {
	d, err := toDecimal(val)
	if err != nil {
		return decimal.Zero, err
	}
	if math.IsInf(d.InexactFloat64(), 0) {
		return decimal.Zero, fmt.Errorf("value %s is out of range", d.String())
	}
	return d, nil
}

func toDecimal(val any) (decimal.Decimal, error) {
	switch x := val.(type) {
	case decimal.Decimal:
		return x, nil
	case json.Number:
		return decimal.NewFromString(x.String())
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, fmt.Errorf("value %v is not finite", x)
		}
		return decimal.NewFromFloat(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(x))
	case bool:
		return decimal.Zero, fmt.Errorf("boolean is not a number")
	case nil:
		return decimal.Zero, fmt.Errorf("value is null")
	default:
		return decimal.Zero, fmt.Errorf("unsupported value type %T", val)
	}
}

// Float64s returns the vector as plain floats.
func (v Vector) Float64s() []float64 {
	out := make([]float64, Count)
	for i, d := range v {
		out[i] = d.InexactFloat64()
	}
	return out
}

// Slice returns the vector as a decimal slice.
func (v Vector) Slice() []decimal.Decimal {
	out := make([]decimal.Decimal, Count)
	copy(out, v[:])
	return out
}

func (v Vector) String() string {
	parts := make([]string, Count)
	for i, d := range v {
		parts[i] = fmt.Sprintf("%s=%s", Fields[i].Name, d.String())
	}
	return strings.Join(parts, " ")
}
