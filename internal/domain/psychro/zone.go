package psychro

import "math"

// ZoneKey names one growth-stage band.
type ZoneKey string

const (
	ZoneUnderTranspiration ZoneKey = "under_transpiration"
	ZoneEarlyVeg           ZoneKey = "early_veg"
	ZoneLateVegEarlyFlower ZoneKey = "late_veg_early_flower"
	ZoneMidLateFlower      ZoneKey = "mid_late_flower"
	ZoneOverTranspiration  ZoneKey = "over_transpiration"
)

// Zone is a half-open VPD interval [Min, Max) with the texts shown for it.
// The last zone has Max = +Inf.
type Zone struct {
	Key            ZoneKey
	Min            float64
	Max            float64
	Status         string
	Class          string
	Range          string
	Recommendation string
}

// Contains applies the [Min, Max) convention.
func (z Zone) Contains(vpd float64) bool {
	return vpd >= z.Min && vpd < z.Max
}

var zones = [...]Zone{
	{
		Key:            ZoneUnderTranspiration,
		Min:            0,
		Max:            0.4,
		Status:         "Too Low - Under-transpiration",
		Class:          "danger",
		Range:          "< 0.4",
		Recommendation: "Warning: VPD too low. Danger Zone (Under Transpiration).",
	},
	{
		Key:            ZoneEarlyVeg,
		Min:            0.4,
		Max:            0.8,
		Status:         "Low - Early Veg",
		Class:          "low",
		Range:          "0.4 - 0.8",
		Recommendation: "Early Vegetative Growth / Propagation (Low Transpiration).",
	},
	{
		Key:            ZoneLateVegEarlyFlower,
		Min:            0.8,
		Max:            1.2,
		Status:         "Ideal - Late Veg/Early Flower",
		Class:          "healthy",
		Range:          "0.8 - 1.2",
		Recommendation: "Late Vegetative / Early Flower (Healthy Transpiration).",
	},
	{
		Key:            ZoneMidLateFlower,
		Min:            1.2,
		Max:            1.6,
		Status:         "High - Mid/Late Flower",
		Class:          "high",
		Range:          "1.2 - 1.6",
		Recommendation: "Mid / Late Flower (High Transpiration).",
	},
	{
		Key:            ZoneOverTranspiration,
		Min:            1.6,
		Max:            math.Inf(1),
		Status:         "Too High - Over-transpiration",
		Class:          "danger",
		Range:          "> 1.6",
		Recommendation: "Warning: VPD too high. Danger Zone (Over Transpiration).",
	},
}

// Zones lists every zone ordered from lowest to highest VPD.
func Zones() []Zone {
	out := make([]Zone, len(zones))
	copy(out, zones[:])
	return out
}

// Classify maps a VPD in kPa onto its zone. A value on a boundary belongs to
// the zone above it. Anything that fails every lower bound check, NaN
// included, lands in the top zone.
func Classify(vpd float64) Zone {
	switch {
	case vpd < 0.4:
		return zones[0]
	case vpd < 0.8:
		return zones[1]
	case vpd < 1.2:
		return zones[2]
	case vpd < 1.6:
		return zones[3]
	default:
		return zones[4]
	}
}
