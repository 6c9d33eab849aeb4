package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/parquet"
	"github.com/huangsam/ridestats/internal/units"
	"github.com/huangsam/ridestats/schema"
)

// WriteRidePage outputs one page of rides, dispatching based on the output format configured.
func WriteRidePage(page schema.RidePage, cfg *contract.Config, duration time.Duration) error {
	offset := max(page.Page-1, 0) * page.PageSize
	return writeRides(page.Rides, offset, cfg, page, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "Showing page %d (%d of %d rides)\n", page.Page, len(page.Rides), page.Total); err != nil {
			return err
		}
		return writeQueryFooter(w, cfg, duration)
	})
}

// WriteIngestReport outputs the rides stored by one upload.
func WriteIngestReport(report schema.IngestReport, cfg *contract.Config, duration time.Duration) error {
	return writeRides(report.Rides, 0, cfg, report, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Ingested %d rides in %v (generation %d). Ride backend: %s\n",
			len(report.Rides), duration, report.Generation, cfg.RideBackend)
		return err
	})
}

// writeRides is the dispatcher shared by every ride listing. The JSON view
// wraps the enriched rides in envelope fields taken from the listing itself.
func writeRides(rides []schema.Ride, offset int, cfg *contract.Config, listing any, footer func(io.Writer) error) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ridesJSON(listing, schema.EnrichRides(rides, offset)))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRidesCSV(w, rides, offset, cfg, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertRides(rides))
		}, "Wrote Parquet")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRidesChart(w, rides, offset)
		}, "Wrote HTML")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeRidesTable(w, rides, offset, cfg, fmtFloat, intFmt); err != nil {
				return err
			}
			return footer(w)
		}, "Wrote table")
	}
}

// ridesJSON replaces the plain rides of a listing with their enriched form.
func ridesJSON(listing any, enriched []schema.EnrichedRide) any {
	switch l := listing.(type) {
	case schema.RidePage:
		return struct {
			Page     int                   `json:"page"`
			PageSize int                   `json:"page_size"`
			Total    int                   `json:"total"`
			Rides    []schema.EnrichedRide `json:"rides"`
		}{l.Page, l.PageSize, l.Total, enriched}
	case schema.IngestReport:
		return struct {
			Generation int64                 `json:"generation"`
			Rides      []schema.EnrichedRide `json:"rides"`
		}{l.Generation, enriched}
	default:
		return enriched
	}
}

// writeRidesTable generates and writes the human-readable ride table.
func writeRidesTable(w io.Writer, rides []schema.Ride, offset int, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	unit := speedUnit(cfg)
	suffix := units.Suffix(unit)
	headers := []string{"Rank", "ID", "Label", "Start", "Min", "Km", "Avg " + suffix, "Max " + suffix, "Maneuvers", "Severity"}

	labelWidth := getMaxTableLabelWidth(cfg)
	var data [][]string
	for i, r := range rides {
		data = append(data, []string{
			strconv.Itoa(offset + i + 1),
			r.ID,
			contract.TruncateLabel(r.Label, labelWidth),
			r.Start.Format(time.DateTime),
			fmtFloat(r.Duration().Minutes()),
			fmtFloat(r.Distance),
			fmtFloat(units.ConvertSpeed(r.AvgSpeed(), unit)),
			fmtFloat(units.ConvertSpeed(r.MaxSpeed, unit)),
			fmt.Sprintf(intFmt, r.ManeuverCount()),
			severityLabel(r.ManeuverCount(), cfg),
		})
	}
	return writeTable(w, headers, data)
}

func writeRidesCSV(w io.Writer, rides []schema.Ride, offset int, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	unit := speedUnit(cfg)
	header := []string{
		"rank",
		"id",
		"label",
		"start",
		"end",
		"duration_minutes",
		"distance_km",
		"avg_speed",
		"max_speed",
		"speed_unit",
		"elevation_gain",
		"elevation_loss",
		"fast_accelerations",
		"fast_decelerations",
		"smoothness_score",
		"severity",
	}
	data := make([][]string, len(rides))
	for i, r := range rides {
		data[i] = []string{
			strconv.Itoa(offset + i + 1),
			r.ID,
			r.Label,
			r.Start.Format(contract.DateTimeFormat),
			r.End.Format(contract.DateTimeFormat),
			fmtFloat(r.Duration().Minutes()),
			fmtFloat(r.Distance),
			fmtFloat(units.ConvertSpeed(r.AvgSpeed(), unit)),
			fmtFloat(units.ConvertSpeed(r.MaxSpeed, unit)),
			unit,
			fmtFloat(r.ElevationGain),
			fmtFloat(r.ElevationLoss),
			fmt.Sprintf(intFmt, r.FastAccelerationCount),
			fmt.Sprintf(intFmt, r.FastDecelerationCount),
			fmt.Sprintf(intFmt, r.SmoothnessScore),
			schema.GetManeuverLabel(r.ManeuverCount()),
		}
	}
	return writeCSVRows(w, header, data)
}

// writeRidesChart draws ride distances as bars labeled by rank.
func writeRidesChart(w io.Writer, rides []schema.Ride, offset int) error {
	labels := make([]string, len(rides))
	distances := make([]opts.BarData, len(rides))
	for i, r := range rides {
		labels[i] = fmt.Sprintf("#%d %s", offset+i+1, r.Label)
		distances[i] = opts.BarData{Value: r.Distance}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Rides", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Ride Distance", Subtitle: fmt.Sprintf("rides=%d", len(rides))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "km"}),
	)
	bar.SetXAxis(labels).AddSeries("distance", distances)
	return renderPage(w, "Rides", bar)
}
