package steam

import (
	"context"
	"errors"
	"sync"
)

// fakeProvider records every query and answers with a bundle built from the
// arguments, so tests can see exactly what reached the steam table.
type fakeProvider struct {
	mu    sync.Mutex
	calls []fakeCall
	err   error
	block bool
}

type fakeCall struct {
	op   Op
	args []float64
}

var errOutOfRange = errors.New("pressure out of range")

func (f *fakeProvider) record(ctx context.Context, op Op, args ...float64) (PropertyBundle, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{op: op, args: args})
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}

	b := PropertyBundle{"pressure": args[0]}
	switch op {
	case OpSaturationTemperature:
		// Linear stand-in for the saturation curve: 100 °C at 1 bar, +20 °C per bar.
		b["temperature"] = 100 + (args[0]-1e5)/1e5*20
	case OpPT:
		b["temperature"] = args[1]
		b["enthalpy"] = 4.2 * args[1]
	case OpPH, OpQualityPH:
		b["enthalpy"] = args[1]
		b["quality"] = 0.5
	case OpPS:
		b["entropy"] = args[1]
	case OpPV:
		b["volume"] = args[1]
	}
	return b, nil
}

func (f *fakeProvider) SaturationTemperature(ctx context.Context, p float64) (PropertyBundle, error) {
	return f.record(ctx, OpSaturationTemperature, p)
}

func (f *fakeProvider) PropertiesPT(ctx context.Context, p, t float64) (PropertyBundle, error) {
	return f.record(ctx, OpPT, p, t)
}

func (f *fakeProvider) PropertiesPH(ctx context.Context, p, h float64) (PropertyBundle, error) {
	return f.record(ctx, OpPH, p, h)
}

func (f *fakeProvider) PropertiesPS(ctx context.Context, p, s float64) (PropertyBundle, error) {
	return f.record(ctx, OpPS, p, s)
}

func (f *fakeProvider) PropertiesPV(ctx context.Context, p, v float64) (PropertyBundle, error) {
	return f.record(ctx, OpPV, p, v)
}

func (f *fakeProvider) QualityPH(ctx context.Context, p, h float64) (PropertyBundle, error) {
	return f.record(ctx, OpQualityPH, p, h)
}
