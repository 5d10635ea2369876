package steam

import (
	"context"

	pkgerrors "github.com/pkg/errors"
)

// Provider is a steam table. Every query takes SI scalars (Pa, °C, kJ/kg,
// kJ/(kg·K), m³/kg) and returns a PropertyBundle in the same units.
//
// Implementations report inputs outside their correlation range as errors.
// They must not block beyond ctx.
type Provider interface {
	// SaturationTemperature returns the saturation state at pressure p.
	SaturationTemperature(ctx context.Context, p float64) (PropertyBundle, error)
	// PropertiesPT returns the state at pressure p and temperature t.
	PropertiesPT(ctx context.Context, p, t float64) (PropertyBundle, error)
	// PropertiesPH returns the state at pressure p and specific enthalpy h.
	PropertiesPH(ctx context.Context, p, h float64) (PropertyBundle, error)
	// PropertiesPS returns the state at pressure p and specific entropy s.
	PropertiesPS(ctx context.Context, p, s float64) (PropertyBundle, error)
	// PropertiesPV returns the state at pressure p and specific volume v.
	PropertiesPV(ctx context.Context, p, v float64) (PropertyBundle, error)
	// QualityPH returns the vapor quality at pressure p and specific enthalpy h.
	QualityPH(ctx context.Context, p, h float64) (PropertyBundle, error)
}

// Op names one Provider query.
type Op string

const (
	OpSaturationTemperature Op = "saturation-temperature"
	OpPT                    Op = "pt"
	OpPH                    Op = "ph"
	OpPS                    Op = "ps"
	OpPV                    Op = "pv"
	OpQualityPH             Op = "quality-ph"
)

type query struct {
	arity int
	call  func(ctx context.Context, p Provider, args []float64) (PropertyBundle, error)
}

var queries = map[Op]query{
	OpSaturationTemperature: {1, func(ctx context.Context, p Provider, a []float64) (PropertyBundle, error) {
		return p.SaturationTemperature(ctx, a[0])
	}},
	OpPT: {2, func(ctx context.Context, p Provider, a []float64) (PropertyBundle, error) {
		return p.PropertiesPT(ctx, a[0], a[1])
	}},
	OpPH: {2, func(ctx context.Context, p Provider, a []float64) (PropertyBundle, error) {
		return p.PropertiesPH(ctx, a[0], a[1])
	}},
	OpPS: {2, func(ctx context.Context, p Provider, a []float64) (PropertyBundle, error) {
		return p.PropertiesPS(ctx, a[0], a[1])
	}},
	OpPV: {2, func(ctx context.Context, p Provider, a []float64) (PropertyBundle, error) {
		return p.PropertiesPV(ctx, a[0], a[1])
	}},
	OpQualityPH: {2, func(ctx context.Context, p Provider, a []float64) (PropertyBundle, error) {
		return p.QualityPH(ctx, a[0], a[1])
	}},
}

// route is one dispatch table entry. inputs lists the kind of each scalar the
// query takes, in order; it drives both the arity check and normalization.
type route struct {
	op     Op
	inputs []PropertyKind
}

var dispatch = map[PropertyKind]route{
	Pressure:    {OpSaturationTemperature, []PropertyKind{Pressure}},
	Temperature: {OpPT, []PropertyKind{Pressure, Temperature}},
	Enthalpy:    {OpPH, []PropertyKind{Pressure, Enthalpy}},
	Entropy:     {OpPS, []PropertyKind{Pressure, Entropy}},
	Volume:      {OpPV, []PropertyKind{Pressure, Volume}},
	Quality:     {OpQualityPH, []PropertyKind{Pressure, Enthalpy}},
}

// Signature returns the kinds of the scalars a state of the given kind needs,
// in the order they must be supplied.
func Signature(kind PropertyKind) ([]PropertyKind, error) {
	r, ok := dispatch[kind]
	if !ok {
		return nil, pkgerrors.Wrapf(ErrUnsupportedProperty, "no steam table query for property kind %d", int(kind))
	}
	return append([]PropertyKind(nil), r.inputs...), nil
}

// Invoke runs a single provider query by name. Provider errors are returned
// as *ProviderError.
func Invoke(ctx context.Context, provider Provider, op Op, args []float64) (PropertyBundle, error) {
	q, ok := queries[op]
	if !ok {
		return nil, pkgerrors.Wrapf(ErrUnsupportedProperty, "unknown provider operation %q", op)
	}
	if len(args) != q.arity {
		return nil, pkgerrors.Wrapf(ErrMalformedInput, "%s takes %d value(s), got %d", op, q.arity, len(args))
	}

	bundle, err := q.call(ctx, provider, args)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: err}
	}
	return bundle.clone(), nil
}

// Resolve looks up the full property bundle for a state of the given kind.
// values must already be normalized to SI and ordered as Signature(kind).
func Resolve(ctx context.Context, kind PropertyKind, values []float64, provider Provider) (PropertyBundle, error) {
	r, ok := dispatch[kind]
	if !ok {
		return nil, pkgerrors.Wrapf(ErrUnsupportedProperty, "no steam table query for property kind %d", int(kind))
	}
	if len(values) != len(r.inputs) {
		return nil, pkgerrors.Wrapf(ErrMalformedInput, "%s needs %s, got %d value(s)", kind, describeInputs(r.inputs), len(values))
	}
	return Invoke(ctx, provider, r.op, values)
}

func describeInputs(inputs []PropertyKind) string {
	s := ""
	for i, k := range inputs {
		if i > 0 {
			s += " and "
		}
		s += k.String()
	}
	return s
}
