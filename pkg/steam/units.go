package steam

// Conversion converts a value from English units to SI units.
type Conversion func(float64) float64

const psiToPa = 6894.76

// englishToSI lists the kinds that have an English to SI conversion. Kinds
// missing here are passed through unconverted. Add an entry to support a new
// kind; dispatch does not need to change.
var englishToSI = map[PropertyKind]Conversion{
	Temperature: FahrenheitToCelsius,
	Pressure:    PSIToPascal,
}

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// PSIToPascal converts psi to Pa.
func PSIToPascal(psi float64) float64 {
	return psi * psiToPa
}

// Normalize converts value of the given kind to SI. It returns the unit system
// the returned value is expressed in: SI when the value was already SI or was
// converted, English when no conversion exists for kind.
func Normalize(kind PropertyKind, value float64, units UnitSystem) (float64, UnitSystem) {
	if units != English {
		return value, units
	}
	conv, ok := englishToSI[kind]
	if !ok {
		return value, English
	}
	return conv(value), SI
}
