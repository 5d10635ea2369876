package steam

import (
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// PropertyKind identifies the physical quantity a user supplied to anchor a state.
type PropertyKind int

const (
	Pressure PropertyKind = iota
	Temperature
	Enthalpy
	Entropy
	Volume
	Quality
)

var kindNames = map[PropertyKind]string{
	Pressure:    "pressure",
	Temperature: "temperature",
	Enthalpy:    "enthalpy",
	Entropy:     "entropy",
	Volume:      "volume",
	Quality:     "quality",
}

// Kinds returns all property kinds in display order.
func Kinds() []PropertyKind {
	return []PropertyKind{Pressure, Temperature, Enthalpy, Entropy, Volume, Quality}
}

func (k PropertyKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParsePropertyKind parses a kind case-insensitively, e.g. "Pressure" or "enthalpy".
func ParsePropertyKind(s string) (PropertyKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, pkgerrors.Wrapf(ErrUnsupportedProperty, "%q", s)
}

// UnitSystem is the unit system a raw value was entered in.
type UnitSystem int

const (
	SI UnitSystem = iota
	English
)

func (u UnitSystem) String() string {
	switch u {
	case SI:
		return "SI"
	case English:
		return "English"
	default:
		return "unknown"
	}
}

// ParseUnitSystem parses "SI" or "English", case-insensitively.
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si":
		return SI, nil
	case "english":
		return English, nil
	default:
		return 0, pkgerrors.Wrapf(ErrMalformedInput, "unknown unit system %q, expected SI or English", s)
	}
}

// Bundle keys used by the providers in this module.
const (
	KeyPressure       = "pressure"        // Pa
	KeyTemperature    = "temperature"     // °C
	KeyEnthalpy       = "enthalpy"        // kJ/kg
	KeyEntropy        = "entropy"         // kJ/(kg·K)
	KeyVolume         = "volume"          // m³/kg
	KeyQuality        = "quality"         // -
	KeyInternalEnergy = "internal energy" // kJ/kg
	KeyDensity        = "density"         // kg/m³

	KeyLiquidEnthalpy = "liquid enthalpy"
	KeyVaporEnthalpy  = "vapor enthalpy"
	KeyLiquidEntropy  = "liquid entropy"
	KeyVaporEntropy   = "vapor entropy"
	KeyLiquidVolume   = "liquid volume"
	KeyVaporVolume    = "vapor volume"
)

// PropertyBundle maps a property name (e.g. "temperature") to its SI value.
type PropertyBundle map[string]float64

// DeltaBundle maps a property name to state2 - state1.
type DeltaBundle map[string]float64

func (b PropertyBundle) clone() PropertyBundle {
	out := make(PropertyBundle, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
