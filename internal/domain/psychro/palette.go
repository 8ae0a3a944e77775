package psychro

import (
	"fmt"
	"image/color"
	"sort"
)

// Swatch is how one zone is painted and labelled.
type Swatch struct {
	Color color.NRGBA
	Label string
}

// Hex renders the color as #rrggbb, dropping alpha.
func (s Swatch) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", s.Color.R, s.Color.G, s.Color.B)
}

// CSS renders the color as an rgba() string.
func (s Swatch) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.2g)", s.Color.R, s.Color.G, s.Color.B, float64(s.Color.A)/255)
}

// Palette assigns a swatch to every zone. Palettes are presentation data;
// classification never depends on them.
type Palette struct {
	Name     string
	Swatches map[ZoneKey]Swatch
}

// Swatch returns the swatch of a zone, or an opaque grey one if the palette lacks it.
func (p Palette) Swatch(key ZoneKey) Swatch {
	if s, ok := p.Swatches[key]; ok {
		return s
	}
	return Swatch{Color: color.NRGBA{R: 128, G: 128, B: 128, A: 255}, Label: string(key)}
}

const (
	PaletteCanonical = "canonical"
	PaletteClassic   = "classic"
)

var palettes = map[string]Palette{
	PaletteCanonical: {
		Name: PaletteCanonical,
		Swatches: map[ZoneKey]Swatch{
			ZoneUnderTranspiration: {Color: color.NRGBA{R: 120, G: 86, B: 115, A: 255}, Label: "Danger Zone (Under Transpiration)"},
			ZoneEarlyVeg:           {Color: color.NRGBA{R: 163, G: 176, B: 58, A: 255}, Label: "Early Vegetative Growth / Propagation (Low Transpiration)"},
			ZoneLateVegEarlyFlower: {Color: color.NRGBA{R: 87, G: 135, B: 53, A: 255}, Label: "Late Vegetative / Early Flower (Healthy Transpiration)"},
			ZoneMidLateFlower:      {Color: color.NRGBA{R: 244, G: 187, B: 74, A: 255}, Label: "Mid / Late Flower (High Transpiration)"},
			ZoneOverTranspiration:  {Color: color.NRGBA{R: 78, G: 140, B: 214, A: 255}, Label: "Danger Zone (Over Transpiration)"},
		},
	},
	PaletteClassic: {
		Name: PaletteClassic,
		Swatches: map[ZoneKey]Swatch{
			ZoneUnderTranspiration: {Color: color.NRGBA{R: 255, G: 0, B: 0, A: 77}, Label: "Danger"},
			ZoneEarlyVeg:           {Color: color.NRGBA{R: 255, G: 255, B: 0, A: 77}, Label: "Early Veg"},
			ZoneLateVegEarlyFlower: {Color: color.NRGBA{R: 0, G: 255, B: 0, A: 77}, Label: "Late Veg / Early Flower"},
			ZoneMidLateFlower:      {Color: color.NRGBA{R: 255, G: 165, B: 0, A: 77}, Label: "Mid / Late Flower"},
			ZoneOverTranspiration:  {Color: color.NRGBA{R: 255, G: 0, B: 0, A: 77}, Label: "Danger"},
		},
	},
}

// LookupPalette finds a registered palette by name.
func LookupPalette(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// DefaultPalette is the five-color scheme the calculator ships with.
func DefaultPalette() Palette {
	return palettes[PaletteCanonical]
}

// PaletteNames lists registered palettes in lexical order.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
