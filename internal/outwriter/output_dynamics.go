package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/parquet"
	"github.com/huangsam/ridestats/schema"
)

// TimeSeries is a chart series over wall-clock time.
type TimeSeries = []schema.ChartPoint[time.Time, float64]

// WriteRideDynamics outputs the detail series of a single ride, dispatching
// based on the output format configured. Parquet writes the ride's track points.
func WriteRideDynamics(d schema.RideDynamics, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, d)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVRows(w, []string{"time", "speed_kmh", "running_avg_kmh", "elevation_m", "acceleration", "deceleration"},
				dynamicsRows(d, fmtFloat, contract.DateTimeFormat))
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertTrackPoints([]schema.Ride{d.Ride}))
		}, "Wrote Parquet")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDynamicsCharts(w, d)
		}, "Wrote HTML")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDynamicsTable(w, d, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// valueAt tolerates series shorter than the track.
func valueAt(series TimeSeries, i int) float64 {
	if i < len(series) {
		return series[i].Value
	}
	return 0
}

func dynamicsRows(d schema.RideDynamics, fmtFloat func(float64) string, layout string) [][]string {
	rows := make([][]string, len(d.Speed))
	for i, p := range d.Speed {
		rows[i] = []string{
			p.Label.Format(layout),
			fmtFloat(p.Value),
			fmtFloat(valueAt(d.RunningAverage, i)),
			fmtFloat(valueAt(d.Elevation, i)),
			fmtFloat(valueAt(d.Acceleration, i)),
			fmtFloat(valueAt(d.Deceleration, i)),
		}
	}
	return rows
}

func writeDynamicsTable(w io.Writer, d schema.RideDynamics, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	r := d.Ride
	if _, err := fmt.Fprintf(w, "Ride %s (%s): %s km in %v, %s\n", r.ID, r.Label, fmtFloat(r.Distance), r.Duration(), severityLabel(r.ManeuverCount(), cfg)); err != nil {
		return err
	}
	headers := []string{"Time", "Speed km/h", "Avg km/h", "Elevation m", "Accel m/s²", "Decel m/s²"}
	if err := writeTable(w, headers, dynamicsRows(d, fmtFloat, time.TimeOnly)); err != nil {
		return err
	}
	return writeQueryFooter(w, cfg, duration)
}

// lineSeries splits a time series into axis labels and line values.
func lineSeries(series TimeSeries) ([]string, []opts.LineData) {
	labels := make([]string, len(series))
	values := make([]opts.LineData, len(series))
	for i, p := range series {
		labels[i] = p.Label.Format(time.TimeOnly)
		values[i] = opts.LineData{Value: p.Value}
	}
	return labels, values
}

func newDynamicsLine(title, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	return line
}

// writeDynamicsCharts renders speed, elevation and maneuver charts on one page.
func writeDynamicsCharts(w io.Writer, d schema.RideDynamics) error {
	labels, speed := lineSeries(d.Speed)
	_, avg := lineSeries(d.RunningAverage)
	speedLine := newDynamicsLine("Speed", "km/h")
	speedLine.SetXAxis(labels).
		AddSeries("speed", speed).
		AddSeries("running average", avg, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	elevLabels, elevation := lineSeries(d.Elevation)
	elevationLine := newDynamicsLine("Elevation", "m")
	elevationLine.SetXAxis(elevLabels).AddSeries("elevation", elevation)

	accelLabels, accel := lineSeries(d.Acceleration)
	_, decel := lineSeries(d.Deceleration)
	maneuverLine := newDynamicsLine("Acceleration", "m/s²")
	maneuverLine.SetXAxis(accelLabels).
		AddSeries("acceleration", accel).
		AddSeries("deceleration", decel)

	charters := []components.Charter{speedLine, elevationLine, maneuverLine}
	return renderPage(w, "Ride "+d.Ride.Label, charters...)
}
