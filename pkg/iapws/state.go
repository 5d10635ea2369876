package iapws

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrOutOfRange is returned for states outside regions 1, 2 and 4.
var ErrOutOfRange = errors.New("outside the supported IAPWS-IF97 range")

// State is one thermodynamic state. P is in MPa, T in K, V in m³/kg, H and U
// in kJ/kg, S in kJ/(kg·K).
type State struct {
	Region int
	P      float64
	T      float64
	V      float64
	H      float64
	S      float64
	U      float64

	// Quality is the vapor mass fraction. It is 0 for compressed liquid and 1
	// for superheated vapor below the critical pressure, as steam tables
	// usually report it. HasQuality is false above the critical pressure.
	Quality    float64
	HasQuality bool
}

// StatePT returns the state at pressure p in MPa and temperature t in K.
func StatePT(p, t float64) (State, error) {
	region, err := regionPT(p, t)
	if err != nil {
		return State{}, err
	}
	if region == 1 {
		return region1(p, t), nil
	}
	return region2(p, t), nil
}

func regionPT(p, t float64) (int, error) {
	if t < Tmin || t > Tmax {
		return 0, pkgerrors.Wrapf(ErrOutOfRange, "temperature %.6g K outside [%g, %g] K", t, Tmin, Tmax)
	}
	if p <= 0 || p > Pmax {
		return 0, pkgerrors.Wrapf(ErrOutOfRange, "pressure %.6g MPa outside (0, %g] MPa", p, Pmax)
	}

	switch {
	case t <= t13:
		ps, err := SaturationPressure(t)
		if err != nil {
			return 0, err
		}
		if p >= ps {
			return 1, nil
		}
		return 2, nil
	case t <= t23max:
		if p <= boundary23Pressure(t) {
			return 2, nil
		}
		return 0, pkgerrors.Wrapf(ErrOutOfRange, "p=%.6g MPa, T=%.6g K is in region 3, which is not supported", p, t)
	default:
		return 2, nil
	}
}

// mix returns the two-phase state with vapor fraction x between the
// saturated liquid l and the saturated vapor g.
func mix(l, g State, x float64) State {
	return State{
		Region:     4,
		P:          l.P,
		T:          l.T,
		V:          l.V + x*(g.V-l.V),
		H:          l.H + x*(g.H-l.H),
		S:          l.S + x*(g.S-l.S),
		U:          l.U + x*(g.U-l.U),
		Quality:    x,
		HasQuality: true,
	}
}

// Saturation returns the saturated liquid and vapor states at p in MPa.
func Saturation(p float64) (liquid, vapor State, err error) {
	t, err := SaturationTemperature(p)
	if err != nil {
		return State{}, State{}, err
	}
	if t > t13 {
		return State{}, State{}, pkgerrors.Wrapf(ErrOutOfRange, "saturated liquid at %.6g MPa is in region 3, which is not supported", p)
	}
	return region1(p, t), region2(p, t), nil
}

// Property selects one property of a state, for inversion.
type Property struct {
	Name string
	Of   func(State) float64
	// Tlow is the lowest temperature the property increases monotonically
	// from along a liquid isobar.
	Tlow float64
}

var (
	Enthalpy = Property{Name: "enthalpy", Of: func(s State) float64 { return s.H }, Tlow: Tmin}
	Entropy  = Property{Name: "entropy", Of: func(s State) float64 { return s.S }, Tlow: Tmin}
	// Liquid water is densest near 4 °C.
	Volume = Property{Name: "volume", Of: func(s State) float64 { return s.V }, Tlow: 277.13}
)

// segment is a temperature interval of an isobar that lies in one region.
type segment struct {
	region   int
	tLo, tHi float64
}

// StateP returns the state at pressure p in MPa where prop equals target.
// Two-phase states are returned as region 4 with their quality.
func StateP(p float64, prop Property, target float64) (State, error) {
	if p <= 0 || p > Pmax {
		return State{}, pkgerrors.Wrapf(ErrOutOfRange, "pressure %.6g MPa outside (0, %g] MPa", p, Pmax)
	}

	var liquid, vapor segment
	switch {
	case p < PsatMin:
		// Below the triple point pressure the whole isobar is vapor.
		return solveSegment(p, prop, target, segment{2, Tmin, Tmax})
	case p <= Pc:
		ts, err := SaturationTemperature(p)
		if err != nil {
			return State{}, err
		}
		if ts <= t13 {
			l, g := region1(p, ts), region2(p, ts)
			yl, yg := prop.Of(l), prop.Of(g)
			if target >= yl && target <= yg {
				return mix(l, g, (target-yl)/(yg-yl)), nil
			}
			liquid = segment{1, prop.Tlow, ts}
			vapor = segment{2, ts, Tmax}
			break
		}
		fallthrough
	default:
		// The saturation dome, or the supercritical region above it, is in region 3.
		liquid = segment{1, prop.Tlow, t13}
		vapor = segment{2, boundary23Temperature(p), Tmax}
	}

	if prop.Of(stateIn(liquid.region, p, liquid.tHi)) >= target {
		return solveSegment(p, prop, target, liquid)
	}
	if prop.Of(stateIn(vapor.region, p, vapor.tLo)) <= target {
		return solveSegment(p, prop, target, vapor)
	}
	return State{}, pkgerrors.Wrapf(ErrOutOfRange, "%s %.6g at %.6g MPa is in region 3, which is not supported", prop.Name, target, p)
}

func stateIn(region int, p, t float64) State {
	if region == 1 {
		return region1(p, t)
	}
	return region2(p, t)
}

const (
	maxIterations = 200
	tolerance     = 1e-10 // K
)

// solveSegment bisects for the temperature in seg where prop equals target.
// prop must increase with temperature within seg.
func solveSegment(p float64, prop Property, target float64, seg segment) (State, error) {
	lo, hi := seg.tLo, seg.tHi
	sLo, sHi := stateIn(seg.region, p, lo), stateIn(seg.region, p, hi)
	if target < prop.Of(sLo) || target > prop.Of(sHi) {
		return State{}, pkgerrors.Wrapf(ErrOutOfRange, "%s %.6g at %.6g MPa outside [%.6g, %.6g]",
			prop.Name, target, p, prop.Of(sLo), prop.Of(sHi))
	}

	var mid State
	for i := 0; i < maxIterations && hi-lo > tolerance; i++ {
		mid = stateIn(seg.region, p, (lo+hi)/2)
		if prop.Of(mid) < target {
			lo = mid.T
		} else {
			hi = mid.T
		}
	}
	return stateIn(seg.region, p, (lo+hi)/2), nil
}

// QualityPH returns the vapor quality at p in MPa and h in kJ/kg, clamped to
// [0, 1] outside the two-phase region.
func QualityPH(p, h float64) (x float64, liquid, vapor State, err error) {
	liquid, vapor, err = Saturation(p)
	if err != nil {
		return 0, State{}, State{}, err
	}
	switch {
	case h <= liquid.H:
		x = 0
	case h >= vapor.H:
		x = 1
	default:
		x = (h - liquid.H) / (vapor.H - liquid.H)
	}
	return x, liquid, vapor, nil
}

func (s State) String() string {
	return fmt.Sprintf("region %d: p=%.6g MPa T=%.6g K h=%.6g kJ/kg s=%.6g kJ/(kg K) v=%.6g m3/kg",
		s.Region, s.P, s.T, s.H, s.S, s.V)
}
