package outwriter

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/schema"
	"gonum.org/v1/gonum/stat"
)

type (
	// HistogramBins are speed bins labeled by their lower edge in km/h.
	HistogramBins = []schema.ChartPoint[float64, int]

	// SpeedSamples are unbucketed speeds in km/h.
	SpeedSamples = []schema.ChartValue[float64]
)

// WriteHistogram outputs the binned speed histogram, dispatching based on the output format configured.
func WriteHistogram(bins HistogramBins, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	width := binWidth(bins, cfg.BinSize)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, bins)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			data := make([][]string, len(bins))
			for i, b := range bins {
				data[i] = []string{fmtFloat(b.Label), fmtFloat(b.Label + width), fmt.Sprintf(intFmt, b.Value)}
			}
			return writeCSVRows(w, []string{"speed_from_kmh", "speed_to_kmh", "count"}, data)
		}, "Wrote CSV")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistogramChart(w, bins, width)
		}, "Wrote HTML")
	case schema.ParquetOut:
		return unsupportedOutput(cfg.Output, "speed histogram")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistogramTable(w, bins, width, cfg, intFmt, duration)
		}, "Wrote table")
	}
}

// binWidth infers the bin width from contiguous labels, else uses the configured size.
func binWidth(bins HistogramBins, configured int) float64 {
	if len(bins) >= 2 {
		return bins[1].Label - bins[0].Label
	}
	if configured > 0 {
		return float64(configured)
	}
	return 5
}

func histogramLabel(lower, width float64) string {
	return fmt.Sprintf("%g-%g", lower, lower+width)
}

func writeHistogramTable(w io.Writer, bins HistogramBins, width float64, cfg *contract.Config, intFmt string, duration time.Duration) error {
	total := 0
	var data [][]string
	for _, b := range bins {
		total += b.Value
		data = append(data, []string{histogramLabel(b.Label, width), fmt.Sprintf(intFmt, b.Value)})
	}
	if err := writeTable(w, []string{"Speed (km/h)", "Points"}, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d bins of %g km/h (total points: %d)\n", len(bins), width, total); err != nil {
		return err
	}
	return writeQueryFooter(w, cfg, duration)
}

func writeHistogramChart(w io.Writer, bins HistogramBins, width float64) error {
	labels := make([]string, len(bins))
	values := make([]opts.BarData, len(bins))
	for i, b := range bins {
		labels[i] = histogramLabel(b.Label, width)
		values[i] = opts.BarData{Value: b.Value}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Speed Histogram", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Speed Histogram", Subtitle: fmt.Sprintf("bin=%g km/h", width)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("points", values)
	return renderPage(w, "Speed Histogram", bar)
}

// WriteDistribution outputs raw speed samples, dispatching based on the output format configured.
// The text view summarizes the samples by quantile since the raw list is long.
func WriteDistribution(samples SpeedSamples, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, samples)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			data := make([][]string, len(samples))
			for i, s := range samples {
				data[i] = []string{fmtFloat(s.Value)}
			}
			return writeCSVRows(w, []string{"speed_kmh"}, data)
		}, "Wrote CSV")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDistributionChart(w, samples)
		}, "Wrote HTML")
	case schema.ParquetOut:
		return unsupportedOutput(cfg.Output, "speed distribution")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDistributionTable(w, samples, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// sortedSpeeds copies the sample values into ascending order.
func sortedSpeeds(samples SpeedSamples) []float64 {
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	slices.Sort(values)
	return values
}

// quantile picks the empirical quantile of sorted at q in [0, 1].
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

func writeDistributionTable(w io.Writer, samples SpeedSamples, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	sorted := sortedSpeeds(samples)
	quantiles := []struct {
		label string
		q     float64
	}{
		{"Min", 0},
		{"P25", 0.25},
		{"Median", 0.5},
		{"P75", 0.75},
		{"P95", 0.95},
		{"Max", 1},
	}

	data := [][]string{{"Samples", strconv.Itoa(len(sorted))}}
	for _, q := range quantiles {
		data = append(data, []string{q.label + " (km/h)", fmtFloat(quantile(sorted, q.q))})
	}
	if err := writeTable(w, []string{"Statistic", "Value"}, data); err != nil {
		return err
	}
	return writeQueryFooter(w, cfg, duration)
}

// writeDistributionChart plots the samples in ascending order.
func writeDistributionChart(w io.Writer, samples SpeedSamples) error {
	sorted := sortedSpeeds(samples)
	ranks := make([]int, len(sorted))
	values := make([]opts.LineData, len(sorted))
	for i, v := range sorted {
		ranks[i] = i + 1
		values[i] = opts.LineData{Value: v}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Speed Distribution", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Speed Distribution", Subtitle: fmt.Sprintf("samples=%d", len(sorted))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "km/h"}),
	)
	line.SetXAxis(ranks).AddSeries("speed", values)
	return renderPage(w, "Speed Distribution", line)
}
