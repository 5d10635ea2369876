package iapws

import (
	"context"

	"github.com/charlie0129/steamcalc/pkg/steam"
)

const (
	paPerMPa     = 1e6
	kelvinOffset = 273.15
)

// Provider answers steam table queries in process. Its zero value is ready
// to use.
type Provider struct{}

var _ steam.Provider = Provider{}

func NewProvider() Provider { return Provider{} }

func (Provider) SaturationTemperature(ctx context.Context, p float64) (steam.PropertyBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pMPa := p / paPerMPa
	ts, err := SaturationTemperature(pMPa)
	if err != nil {
		return nil, err
	}

	b := steam.PropertyBundle{
		steam.KeyPressure:    p,
		steam.KeyTemperature: ts - kelvinOffset,
	}
	// Near the critical point the saturated liquid is in region 3; report
	// the temperature alone there.
	if liquid, vapor, err := Saturation(pMPa); err == nil {
		b[steam.KeyLiquidEnthalpy] = liquid.H
		b[steam.KeyVaporEnthalpy] = vapor.H
		b[steam.KeyLiquidEntropy] = liquid.S
		b[steam.KeyVaporEntropy] = vapor.S
		b[steam.KeyLiquidVolume] = liquid.V
		b[steam.KeyVaporVolume] = vapor.V
	}
	return b, nil
}

func (Provider) PropertiesPT(ctx context.Context, p, t float64) (steam.PropertyBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := StatePT(p/paPerMPa, t+kelvinOffset)
	if err != nil {
		return nil, err
	}
	return Bundle(s), nil
}

func (Provider) PropertiesPH(ctx context.Context, p, h float64) (steam.PropertyBundle, error) {
	return statePBundle(ctx, p, Enthalpy, h)
}

func (Provider) PropertiesPS(ctx context.Context, p, s float64) (steam.PropertyBundle, error) {
	return statePBundle(ctx, p, Entropy, s)
}

func (Provider) PropertiesPV(ctx context.Context, p, v float64) (steam.PropertyBundle, error) {
	return statePBundle(ctx, p, Volume, v)
}

func (Provider) QualityPH(ctx context.Context, p, h float64) (steam.PropertyBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x, liquid, _, err := QualityPH(p/paPerMPa, h)
	if err != nil {
		return nil, err
	}
	return steam.PropertyBundle{
		steam.KeyPressure:    p,
		steam.KeyTemperature: liquid.T - kelvinOffset,
		steam.KeyEnthalpy:    h,
		steam.KeyQuality:     x,
	}, nil
}

func statePBundle(ctx context.Context, p float64, prop Property, target float64) (steam.PropertyBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := StateP(p/paPerMPa, prop, target)
	if err != nil {
		return nil, err
	}
	return Bundle(s), nil
}

// Bundle converts a state to a steam.PropertyBundle in SI units.
func Bundle(s State) steam.PropertyBundle {
	b := steam.PropertyBundle{
		steam.KeyPressure:       s.P * paPerMPa,
		steam.KeyTemperature:    s.T - kelvinOffset,
		steam.KeyEnthalpy:       s.H,
		steam.KeyEntropy:        s.S,
		steam.KeyVolume:         s.V,
		steam.KeyInternalEnergy: s.U,
		steam.KeyDensity:        1 / s.V,
	}
	if s.HasQuality {
		b[steam.KeyQuality] = s.Quality
	}
	return b
}
