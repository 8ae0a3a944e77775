package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanqian/vpd-calculator/internal/domain/heatmap"
	"github.com/yanqian/vpd-calculator/internal/domain/psychro"
	"github.com/yanqian/vpd-calculator/internal/infra/config"
	"github.com/yanqian/vpd-calculator/internal/infra/render"
	"github.com/yanqian/vpd-calculator/pkg/logger"
)

type pointFlags struct {
	temperature float64
	unit        string
	humidity    float64
	leafOffset  float64
}

func (p *pointFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&p.temperature, "temperature", "t", 75, "air temperature in --unit degrees")
	cmd.Flags().StringVarP(&p.unit, "unit", "u", "F", "temperature unit, C or F")
	cmd.Flags().Float64VarP(&p.humidity, "humidity", "r", 50, "relative humidity in percent")
	cmd.Flags().Float64Var(&p.leafOffset, "leaf-offset", 0, "leaf minus air temperature in --unit degrees")
}

func (p *pointFlags) conditions() (psychro.Conditions, error) {
	unit, err := psychro.ParseUnit(p.unit)
	if err != nil {
		return psychro.Conditions{}, err
	}
	if math.IsNaN(p.temperature) || math.IsInf(p.temperature, 0) || math.IsNaN(p.humidity) || math.IsInf(p.humidity, 0) {
		return psychro.Conditions{}, errors.New("temperature and humidity must be finite")
	}
	return psychro.Conditions{
		Temperature: psychro.Domain(unit).Clamp(p.temperature),
		Unit:        unit,
		Humidity:    psychro.ClampHumidity(p.humidity),
		LeafOffset:  p.leafOffset,
	}, nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "vpdctl",
		Short:        "Vapor pressure deficit calculator and heatmap renderer",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.AddCommand(newCalcCmd(), newChartCmd(), newZonesCmd())
	return root
}

type calcOutput struct {
	TemperatureC     float64  `json:"temperatureC"`
	TemperatureF     float64  `json:"temperatureF"`
	Humidity         float64  `json:"humidity"`
	VPD              float64  `json:"vpd"`
	LeafVPD          float64  `json:"leafVpd"`
	DewPointC        *float64 `json:"dewPointC"`
	CondensationRisk bool     `json:"condensationRisk"`
	Zone             string   `json:"zone"`
	Status           string   `json:"status"`
	Recommendation   string   `json:"recommendation"`
}

func newCalcCmd() *cobra.Command {
	var point pointFlags
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Print VPD, dew point and growth zone for one operating point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := point.conditions()
			if err != nil {
				return err
			}
			r := psychro.Derive(c)
			result := calcOutput{
				TemperatureC:     r.TempC,
				TemperatureF:     r.TempF,
				Humidity:         c.Humidity,
				VPD:              r.VPD,
				LeafVPD:          r.LeafVPD,
				CondensationRisk: r.CondensationRisk,
				Zone:             string(r.Zone.Key),
				Status:           r.Zone.Status,
				Recommendation:   r.Zone.Recommendation,
			}
			if r.DewPointDefined {
				dp := r.DewPointC
				result.DewPointC = &dp
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	point.bind(cmd)
	return cmd
}

func newZonesCmd() *cobra.Command {
	var paletteName string
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List growth zones and their chart colors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			palette, ok := psychro.LookupPalette(paletteName)
			if !ok {
				return fmt.Errorf("unknown palette %q, want one of %v", paletteName, psychro.PaletteNames())
			}
			for _, z := range psychro.Zones() {
				swatch := palette.Swatch(z.Key)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-12s %s %s\n", z.Key, z.Range, swatch.Hex(), z.Status); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&paletteName, "palette", psychro.PaletteCanonical, "zone color palette")
	return cmd
}

type chartFlags struct {
	point      pointFlags
	width      float64
	viewport   float64
	format     string
	out        string
	palette    string
	resolution int
}

func newChartCmd() *cobra.Command {
	var flags chartFlags
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the VPD heatmap with the operating point marked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("palette") {
				flags.palette = cfg.Chart.Palette
			}
			if !cmd.Flags().Changed("resolution") {
				flags.resolution = cfg.Chart.Resolution
			}
			return runChart(cmd.OutOrStdout(), flags, logger.NewWithWriter(cmd.ErrOrStderr(), os.Getenv("LOG_LEVEL")))
		},
	}
	flags.point.bind(cmd)
	cmd.Flags().Float64VarP(&flags.width, "width", "w", 800, "container width in pixels")
	cmd.Flags().Float64Var(&flags.viewport, "viewport", 1280, "viewport width in pixels; 768 or less selects the mobile layout")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "png", "output format, png or svg")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output file, stdout when empty")
	cmd.Flags().StringVar(&flags.palette, "palette", psychro.PaletteCanonical, "zone color palette")
	cmd.Flags().IntVar(&flags.resolution, "resolution", heatmap.DefaultResolution, "grid cells per axis")
	return cmd
}

func runChart(stdout io.Writer, flags chartFlags, log *slog.Logger) (err error) {
	c, perr := flags.point.conditions()
	if perr != nil {
		return perr
	}
	format, ok := render.Lookup(flags.format)
	if !ok {
		return fmt.Errorf("unknown format %q", flags.format)
	}
	palette, ok := psychro.LookupPalette(flags.palette)
	if !ok {
		return fmt.Errorf("unknown palette %q, want one of %v", flags.palette, psychro.PaletteNames())
	}
	if math.IsNaN(flags.width) || flags.width <= 0 || flags.width > heatmap.MaxContainerWidth {
		return fmt.Errorf("width must be between 1 and %d", heatmap.MaxContainerWidth)
	}
	if math.IsNaN(flags.viewport) || math.IsInf(flags.viewport, 0) {
		return errors.New("viewport must be a finite number")
	}
	if flags.resolution <= 0 || flags.resolution > heatmap.MaxResolution {
		return fmt.Errorf("resolution must be between 1 and %d", heatmap.MaxResolution)
	}

	var frame heatmap.Frame
	chart := heatmap.NewChart(heatmap.ChartConfig{
		Options: heatmap.Options{Resolution: flags.resolution, Palette: palette},
	}, heatmap.SinkFunc(func(f heatmap.Frame) { frame = f }), nil)
	defer chart.Unmount()

	chart.Mount(flags.width, flags.viewport)
	chart.Update(heatmap.Input{Temperature: c.Temperature, Unit: c.Unit, Humidity: c.Humidity})
	if frame.Empty() {
		return fmt.Errorf("container width %.0f leaves no room for the chart", flags.width)
	}

	w := stdout
	if flags.out != "" {
		file, cerr := os.Create(flags.out)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		w = file
	}
	if encErr := format.Encode(w, frame); encErr != nil {
		return fmt.Errorf("encode %s: %w", format.Name, encErr)
	}
	log.Info("chart rendered",
		"format", format.Name,
		"size", frame.Geometry.Width,
		"cells", len(frame.Cells),
		"out", flags.out,
	)
	return nil
}
