// Package steam is the computation core of steamcalc. It turns a user supplied
// independent property into a complete set of steam properties and compares two
// such states. It contains:
//
//   - Normalize: unit normalization from English to SI units
//   - Resolve: dispatch from a PropertyKind to one steam table query
//   - Evaluate: normalization followed by resolution for one state
//   - Diff: per-property differences between two states
//
// The steam table itself is not part of this package. Callers supply a Provider,
// e.g. the in-process IAPWS-IF97 implementation in package iapws or the daemon
// backed one in package client.
package steam
