package steam

import (
	"context"
	"math"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// StateInput is the user input for one state. It is immutable once built.
type StateInput struct {
	kind   PropertyKind
	values []float64
	units  UnitSystem
}

// NewStateInput builds a StateInput. values are ordered as Signature(kind),
// e.g. (pressure, enthalpy) for Enthalpy.
func NewStateInput(kind PropertyKind, units UnitSystem, values ...float64) StateInput {
	return StateInput{
		kind:   kind,
		values: append([]float64(nil), values...),
		units:  units,
	}
}

// ParseStateInput parses user entered text. raw holds one number, or two
// numbers separated by a comma, semicolon or whitespace.
func ParseStateInput(kind, raw, units string) (StateInput, error) {
	values, err := ParseValues(raw)
	if err != nil {
		return StateInput{}, err
	}
	k, err := ParsePropertyKind(kind)
	if err != nil {
		return StateInput{}, err
	}
	u, err := ParseUnitSystem(units)
	if err != nil {
		return StateInput{}, err
	}
	return NewStateInput(k, u, values...), nil
}

// ParseValues parses the numbers in raw. Anything that is not a finite number
// is ErrInvalidNumericInput.
func ParseValues(raw string) ([]float64, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, pkgerrors.Wrapf(ErrInvalidNumericInput, "empty value")
	}

	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, pkgerrors.Wrapf(ErrInvalidNumericInput, "%q", f)
		}
		values = append(values, v)
	}
	return values, nil
}

func (in StateInput) Kind() PropertyKind { return in.kind }

func (in StateInput) Units() UnitSystem { return in.units }

// Values returns a copy of the raw values.
func (in StateInput) Values() []float64 { return append([]float64(nil), in.values...) }

// Validate checks that every value is finite and that the number of values
// matches the kind.
func (in StateInput) Validate() error {
	for _, v := range in.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return pkgerrors.Wrapf(ErrInvalidNumericInput, "%v is not a finite number", v)
		}
	}
	inputs, err := Signature(in.kind)
	if err != nil {
		return err
	}
	if len(in.values) != len(inputs) {
		return pkgerrors.Wrapf(ErrMalformedInput, "%s needs %s, got %d value(s)", in.kind, describeInputs(inputs), len(in.values))
	}
	return nil
}

// Evaluate normalizes the input and resolves it into a PropertyBundle. No
// bundle is returned on error.
func Evaluate(ctx context.Context, in StateInput, provider Provider) (PropertyBundle, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	inputs, err := Signature(in.kind)
	if err != nil {
		return nil, err
	}

	normalized := make([]float64, len(in.values))
	for i, v := range in.values {
		var u UnitSystem
		normalized[i], u = Normalize(inputs[i], v, in.units)
		if u != SI {
			logrus.WithFields(logrus.Fields{
				"kind":  inputs[i],
				"value": v,
			}).Warn("no English to SI conversion, using value as is")
		}
	}

	return Resolve(ctx, in.kind, normalized, provider)
}
