package psychro

import (
	"errors"
	"math"
)

// Magnus-Tetens coefficients.
const (
	magnusA = 17.27
	magnusB = 237.3
	svpBase = 0.6108
)

// ErrDewPointUndefined is returned when relative humidity is zero or below; ln(0) has no value.
var ErrDewPointUndefined = errors.New("dew point undefined at or below 0% relative humidity")

// SaturationVaporPressure returns SVP in kPa. The formula is singular at -237.3°C.
func SaturationVaporPressure(tempC float64) float64 {
	return svpBase * math.Exp(magnusA*tempC/(tempC+magnusB))
}

// ActualVaporPressure returns AVP in kPa.
func ActualVaporPressure(tempC, rh float64) float64 {
	return SaturationVaporPressure(tempC) * (rh / 100)
}

// VPD returns the vapor pressure deficit in kPa.
func VPD(tempC, rh float64) float64 {
	return SaturationVaporPressure(tempC) - ActualVaporPressure(tempC, rh)
}

// LeafVPD measures the deficit at the leaf surface: saturation at leaf temperature
// against the vapor actually present in the surrounding air.
func LeafVPD(airC, leafC, rh float64) float64 {
	return SaturationVaporPressure(leafC) - ActualVaporPressure(airC, rh)
}

// DewPoint inverts the Magnus formula.
func DewPoint(tempC, rh float64) (float64, error) {
	if rh <= 0 {
		return math.NaN(), ErrDewPointUndefined
	}
	gamma := math.Log(rh/100) + magnusA*tempC/(magnusB+tempC)
	return magnusB * gamma / (magnusA - gamma), nil
}

// IsLeafTempUnderDewPoint flags condensation risk on the leaf.
func IsLeafTempUnderDewPoint(leafTempC, dewPointC float64) bool {
	return leafTempC < dewPointC
}
