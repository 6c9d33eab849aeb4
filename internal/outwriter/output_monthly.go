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

// MonthlySeries is a month-labeled chart series.
type MonthlySeries = []schema.ChartPoint[string, float64]

// WriteMonthly outputs a monthly series, dispatching based on the output format configured.
func WriteMonthly(series MonthlySeries, metric schema.MonthlyMetric, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, series)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMonthlyCSV(w, series, metric, fmtFloat)
		}, "Wrote CSV")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMonthlyChart(w, series, metric, cfg.PerRide)
		}, "Wrote HTML")
	case schema.ParquetOut:
		return unsupportedOutput(cfg.Output, "monthly series")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMonthlyTable(w, series, metric, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// monthlyColumn names the value column for a metric.
func monthlyColumn(metric schema.MonthlyMetric) (header, csvHeader string) {
	if metric == schema.SpeedMetric {
		return "Avg speed (km/h)", "avg_speed_kmh"
	}
	return "Distance (km)", "distance_km"
}

func writeMonthlyTable(w io.Writer, series MonthlySeries, metric schema.MonthlyMetric, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	header, _ := monthlyColumn(metric)
	var data [][]string
	for _, p := range series {
		data = append(data, []string{p.Label, fmtFloat(p.Value)})
	}
	if err := writeTable(w, []string{"Month", header}, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d months of %s\n", len(series), metric); err != nil {
		return err
	}
	return writeQueryFooter(w, cfg, duration)
}

func writeMonthlyCSV(w io.Writer, series MonthlySeries, metric schema.MonthlyMetric, fmtFloat func(float64) string) error {
	_, header := monthlyColumn(metric)
	data := make([][]string, len(series))
	for i, p := range series {
		data[i] = []string{p.Label, fmtFloat(p.Value)}
	}
	return writeCSVRows(w, []string{"month", header}, data)
}

func writeMonthlyChart(w io.Writer, series MonthlySeries, metric schema.MonthlyMetric, perRide bool) error {
	header, _ := monthlyColumn(metric)
	subtitle := "per point"
	if perRide {
		subtitle = "per ride"
	}

	months := make([]string, len(series))
	values := make([]opts.BarData, len(series))
	for i, p := range series {
		months[i] = p.Label
		values[i] = opts.BarData{Value: p.Value}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Monthly " + string(metric), Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: header + " by month", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(months).AddSeries(string(metric), values)
	return renderPage(w, "Monthly "+string(metric), bar)
}
