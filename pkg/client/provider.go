package client

import (
	"context"
	"errors"

	"github.com/charlie0129/steamcalc/pkg/steam"
)

// RemoteProvider answers steam table queries through the daemon.
type RemoteProvider struct {
	c *Client
}

var _ steam.Provider = (*RemoteProvider)(nil)

func NewRemoteProvider(c *Client) *RemoteProvider {
	return &RemoteProvider{c: c}
}

func (p *RemoteProvider) invoke(ctx context.Context, op steam.Op, args ...float64) (steam.PropertyBundle, error) {
	b, err := p.c.Invoke(ctx, op, args...)
	if err != nil {
		// steam.Invoke wraps the result again; don't report the op twice.
		var pe *steam.ProviderError
		if errors.As(err, &pe) && pe.Op == op {
			return nil, pe.Err
		}
		return nil, err
	}
	return b, nil
}

func (p *RemoteProvider) SaturationTemperature(ctx context.Context, pressure float64) (steam.PropertyBundle, error) {
	return p.invoke(ctx, steam.OpSaturationTemperature, pressure)
}

func (p *RemoteProvider) PropertiesPT(ctx context.Context, pressure, t float64) (steam.PropertyBundle, error) {
	return p.invoke(ctx, steam.OpPT, pressure, t)
}

func (p *RemoteProvider) PropertiesPH(ctx context.Context, pressure, h float64) (steam.PropertyBundle, error) {
	return p.invoke(ctx, steam.OpPH, pressure, h)
}

func (p *RemoteProvider) PropertiesPS(ctx context.Context, pressure, s float64) (steam.PropertyBundle, error) {
	return p.invoke(ctx, steam.OpPS, pressure, s)
}

func (p *RemoteProvider) PropertiesPV(ctx context.Context, pressure, v float64) (steam.PropertyBundle, error) {
	return p.invoke(ctx, steam.OpPV, pressure, v)
}

func (p *RemoteProvider) QualityPH(ctx context.Context, pressure, h float64) (steam.PropertyBundle, error) {
	return p.invoke(ctx, steam.OpQualityPH, pressure, h)
}
