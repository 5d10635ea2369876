package iapws

import (
	"math"

	pkgerrors "github.com/pkg/errors"
)

const (
	// R is the specific gas constant of water, kJ/(kg·K).
	R = 0.461526
	// Tc is the critical temperature, K.
	Tc = 647.096
	// Pc is the critical pressure, MPa.
	Pc = 22.064

	// Tmin and Tmax bound regions 1, 2 and 4, K.
	Tmin = 273.15
	Tmax = 1073.15
	// Pmax bounds regions 1 and 2, MPa.
	Pmax = 100.0
	// PsatMin is psat(Tmin), MPa.
	PsatMin = 611.212677e-6

	// t13 is the boundary temperature between regions 1 and 3, K.
	t13 = 623.15
	// t23max is the highest temperature on the region 2/3 boundary, K.
	t23max = 863.15
)

var n4 = [11]float64{
	0, // 1-based to match the published table
	0.11670521452767e4,
	-0.72421316703206e6,
	-0.17073846940092e2,
	0.12020824702470e5,
	-0.32325550322333e7,
	0.14915108613530e2,
	-0.48232657361591e4,
	0.40511340542057e6,
	-0.23855557567849,
	0.65017534844798e3,
}

// SaturationPressure returns psat in MPa at temperature t in K.
func SaturationPressure(t float64) (float64, error) {
	if t < Tmin || t > Tc {
		return 0, pkgerrors.Wrapf(ErrOutOfRange, "saturation temperature %.6g K outside [%g, %g] K", t, Tmin, Tc)
	}
	theta := t + n4[9]/(t-n4[10])
	a := theta*theta + n4[1]*theta + n4[2]
	b := n4[3]*theta*theta + n4[4]*theta + n4[5]
	c := n4[6]*theta*theta + n4[7]*theta + n4[8]
	return math.Pow(2*c/(-b+math.Sqrt(b*b-4*a*c)), 4), nil
}

// SaturationTemperature returns Tsat in K at pressure p in MPa.
func SaturationTemperature(p float64) (float64, error) {
	if p < PsatMin || p > Pc {
		return 0, pkgerrors.Wrapf(ErrOutOfRange, "saturation pressure %.6g MPa outside [%g, %g] MPa", p, PsatMin, Pc)
	}
	beta := math.Pow(p, 0.25)
	e := beta*beta + n4[3]*beta + n4[6]
	f := n4[1]*beta*beta + n4[4]*beta + n4[7]
	g := n4[2]*beta*beta + n4[5]*beta + n4[8]
	d := 2 * g / (-f - math.Sqrt(f*f-4*e*g))
	return (n4[10] + d - math.Sqrt((n4[10]+d)*(n4[10]+d)-4*(n4[9]+n4[10]*d))) / 2, nil
}

var nB23 = [6]float64{
	0,
	0.34805185628969e3,
	-0.11671859879975e1,
	0.10192970039326e-2,
	0.57254459862746e3,
	0.13918839778870e2,
}

// boundary23Pressure returns the pressure in MPa on the region 2/3 boundary at t in K.
func boundary23Pressure(t float64) float64 {
	return nB23[1] + nB23[2]*t + nB23[3]*t*t
}

// boundary23Temperature returns the temperature in K on the region 2/3 boundary at p in MPa.
func boundary23Temperature(p float64) float64 {
	return nB23[4] + math.Sqrt((p-nB23[5])/nB23[3])
}
