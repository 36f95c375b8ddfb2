package units

// AbsoluteZeroCelsius is 0 K expressed in degrees Celsius.
const AbsoluteZeroCelsius = -273.15

// KelvinToCelsius converts an absolute temperature to Celsius.
func KelvinToCelsius(kelvin float64) float64 {
	return kelvin + AbsoluteZeroCelsius
}
