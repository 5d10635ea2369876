package config

import "time"

type Config interface {
	// Precision is the number of decimals results are rounded to.
	Precision() int
	// Units is the unit system used for states entered without one.
	Units() string
	ProviderTimeout() time.Duration
	AllowNonRootAccess() bool

	SetPrecision(int)
	SetUnits(string)
	SetProviderTimeout(time.Duration)
	SetAllowNonRootAccess(bool)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}

const (
	MinPrecision = 0
	MaxPrecision = 10
)
