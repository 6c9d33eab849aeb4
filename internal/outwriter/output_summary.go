package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/schema"
)

// summaryRow is one metric of the dashboard summary.
type summaryRow struct {
	key   string
	label string
	value string
}

// WriteSummary outputs the dashboard summary, dispatching based on the output format configured.
func WriteSummary(summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, summary, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryChart(w, summary)
		}, "Wrote HTML")
	case schema.ParquetOut:
		return unsupportedOutput(cfg.Output, "summary")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summary, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
}

func summaryRows(s schema.Summary, fmtFloat func(float64) string, intFmt string) []summaryRow {
	return []summaryRow{
		{"ride_count", "Rides", fmt.Sprintf(intFmt, s.RideCount)},
		{"total_distance_km", "Total distance (km)", fmtFloat(s.TotalDistance)},
		{"total_duration", "Total duration", s.TotalDuration.String()},
		{"average_trip_minutes", "Average trip (min)", fmtFloat(s.AverageTripMinutes)},
		{"average_speed_kmh", "Average speed (km/h)", fmtFloat(s.AverageSpeedKmh)},
		{"max_speed_kmh", "Max speed (km/h)", fmtFloat(s.MaxSpeedKmh)},
		{"hard_braking_events", "Hard braking events", fmt.Sprintf(intFmt, s.HardBrakingEvents)},
		{"gforce_alerts", "G-force alerts", fmt.Sprintf(intFmt, s.GForceAlerts)},
		{"smoothness_score", "Smoothness score", fmtFloat(s.SmoothnessScore)},
	}
}

// writeSummaryTable generates and writes the human-readable summary.
func writeSummaryTable(w io.Writer, s schema.Summary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	var data [][]string
	for _, row := range summaryRows(s, fmtFloat, intFmt) {
		data = append(data, []string{row.label, row.value})
	}
	if err := writeTable(w, []string{"Metric", "Value"}, data); err != nil {
		return err
	}
	return writeQueryFooter(w, cfg, duration)
}

func writeSummaryCSV(w io.Writer, s schema.Summary, fmtFloat func(float64) string, intFmt string) error {
	var data [][]string
	for _, row := range summaryRows(s, fmtFloat, intFmt) {
		data = append(data, []string{row.key, row.value})
	}
	return writeCSVRows(w, []string{"metric", "value"}, data)
}

// writeSummaryChart draws the event counters of the summary as a bar chart.
func writeSummaryChart(w io.Writer, s schema.Summary) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Ride Summary", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Ride Summary",
			Subtitle: fmt.Sprintf("rides=%d distance=%.1fkm", s.RideCount, s.TotalDistance),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis([]string{"Rides", "Hard braking", "G-force alerts"}).
		AddSeries("events", []opts.BarData{
			{Value: s.RideCount},
			{Value: s.HardBrakingEvents},
			{Value: s.GForceAlerts},
		}, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return renderPage(w, "Ride Summary", bar)
}
