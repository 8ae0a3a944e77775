package psychro

// Conditions is the full input of one calculation. It is a value: derive a
// new Reading whenever any field changes instead of patching an old one.
type Conditions struct {
	Temperature float64
	Unit        Unit
	Humidity    float64
	// LeafOffset is leaf temperature minus air temperature, in Unit degrees.
	LeafOffset float64
}

// Reading holds everything derived from Conditions.
type Reading struct {
	Conditions Conditions

	TempC float64
	TempF float64

	SaturationVaporPressure float64
	ActualVaporPressure     float64
	VPD                     float64

	LeafTempC float64
	LeafVPD   float64

	// DewPointC is NaN when DewPointDefined is false.
	DewPointC        float64
	DewPointDefined  bool
	CondensationRisk bool

	Zone Zone
}

// Derive computes a Reading from Conditions. It never clamps.
func Derive(c Conditions) Reading {
	tempC := ToCelsius(c.Temperature, c.Unit)
	leafC := ToCelsius(c.Temperature+c.LeafOffset, c.Unit)

	svp := SaturationVaporPressure(tempC)
	avp := svp * (c.Humidity / 100)
	vpd := svp - avp

	r := Reading{
		Conditions:              c,
		TempC:                   tempC,
		TempF:                   CelsiusToFahrenheit(tempC),
		SaturationVaporPressure: svp,
		ActualVaporPressure:     avp,
		VPD:                     vpd,
		LeafTempC:               leafC,
		LeafVPD:                 LeafVPD(tempC, leafC, c.Humidity),
		Zone:                    Classify(vpd),
	}
	if dp, err := DewPoint(tempC, c.Humidity); err == nil {
		r.DewPointC = dp
		r.DewPointDefined = true
		r.CondensationRisk = IsLeafTempUnderDewPoint(leafC, dp)
	} else {
		r.DewPointC = dp
	}
	return r
}
