// Package iapws implements the parts of the IAPWS Industrial Formulation 1997
// (IAPWS-IF97) needed by steamcalc:
//
//   - region 1: compressed liquid, basic equation g(p, T)
//   - region 2: superheated vapor, basic equation g(p, T)
//   - region 4: saturation line, psat(T) and Tsat(p)
//
// Regions 3 and 5 are not implemented; states there are reported as
// ErrOutOfRange. States given by (p, h), (p, s) or (p, v) are found by
// inverting the basic equations along the isobar.
//
// Internally pressures are in MPa and temperatures in K. Provider converts
// from and to the SI units used by package steam (Pa and °C).
package iapws
