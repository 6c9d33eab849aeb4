// Package main provides a performance benchmarking tool for the ridestats CLI.
// It generates synthetic GPX rides of different sizes, ingests them into a scratch
// SQLite ride store and times each query command multiple times, treating the
// first successful cached run as cold and averaging the rest as warm.
// Results are written to CSV for performance analysis and documentation.
//
// Prerequisites:
// - ridestats binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Scratch directory for generated GPX files and databases
package main

import (
	"encoding/csv"
	"fmt"
	"maps"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// Dataset describes one synthetic ride collection.
type Dataset struct {
	Name           string
	Rides          int
	PointsPerRide  int
	IngestPerBatch int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	Datasets    []Dataset
	Commands    map[string]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		Workers:     8,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Datasets: []Dataset{
			{Name: "small", Rides: 10, PointsPerRide: 600, IngestPerBatch: 10},
			{Name: "medium", Rides: 50, PointsPerRide: 3600, IngestPerBatch: 10},
			{Name: "large", Rides: 200, PointsPerRide: 7200, IngestPerBatch: 10},
		},
		Commands: map[string]string{
			"summary":         "summary",
			"months-distance": "months distance",
			"months-speed":    "months speed --per-ride",
			"speeds":          "speeds histogram --bin-size 5",
			"rides":           "rides list --page 1",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config)
}

// checkPrerequisites verifies that the ridestats binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("ridestats"); err != nil {
		return fmt.Errorf("ridestats binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("work dir %s is not usable: %w", config.WorkDir, err)
	}
	return nil
}

// runBenchmarks prepares each dataset and runs every command against it
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Datasets), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, ds := range config.Datasets {
		fmt.Printf("Preparing %s (%d rides x %d points)\n", ds.Name, ds.Rides, ds.PointsPerRide)

		dir := filepath.Join(config.WorkDir, ds.Name)
		env, err := prepareDataset(config, ds, dir)
		if err != nil {
			fmt.Printf("  Skipping %s: %v\n", ds.Name, err)
			continue
		}

		for _, name := range sortedCommands(config.Commands) {
			result := runBenchmarkSuite(config, ds.Name, env, name, config.Commands[name])
			results = append(results, result)
		}
	}

	return results
}

// prepareDataset writes the GPX files, ingests them and returns the env for queries
func prepareDataset(config BenchmarkConfig, ds Dataset, dir string) ([]string, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var files []string
	start := time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC)
	for i := range ds.Rides {
		path := filepath.Join(dir, fmt.Sprintf("ride_%04d.gpx", i))
		rideStart := start.Add(time.Duration(i) * 26 * time.Hour)
		if err := writeSyntheticGPX(path, rideStart, ds.PointsPerRide, i); err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	env := []string{
		"RIDESTATS_RIDE_BACKEND=sqlite",
		"RIDESTATS_RIDE_DB_CONNECT=" + filepath.Join(dir, "rides.db"),
		"RIDESTATS_CACHE_DB_CONNECT=" + filepath.Join(dir, "cache.db"),
	}

	ingestStart := time.Now()
	for from := 0; from < len(files); from += ds.IngestPerBatch {
		to := min(from+ds.IngestPerBatch, len(files))
		args := append([]string{"ingest", "--workers", fmt.Sprint(config.Workers), "--cache-backend", "none"}, files[from:to]...)
		cmd := exec.Command("ridestats", args...)
		cmd.Env = append(os.Environ(), env...)
		if output, err := cmd.CombinedOutput(); err != nil {
			return nil, fmt.Errorf("ingest failed: %w\nOutput: %s", err, string(output))
		}
	}
	fmt.Printf("  Ingested %d rides in %.3fs\n", len(files), time.Since(ingestStart).Seconds())

	return env, nil
}

// writeSyntheticGPX writes a looping track sampled once per second
func writeSyntheticGPX(path string, start time.Time, points, seed int) error {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<gpx version="1.1" creator="ridestats-benchmark" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>` + "\n")

	lat0, lon0 := 52.2297, 21.0122
	radius := 0.01 + float64(seed%5)*0.002
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(points)
		lat := lat0 + radius*math.Sin(angle)
		lon := lon0 + radius*math.Cos(angle)
		ele := 100 + 10*math.Sin(angle*3)
		ts := start.Add(time.Duration(i) * time.Second).Format(time.RFC3339)
		fmt.Fprintf(&b, `<trkpt lat="%.6f" lon="%.6f"><ele>%.1f</ele><time>%s</time></trkpt>`+"\n", lat, lon, ele, ts)
	}
	b.WriteString("</trkseg></trk></gpx>\n")

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset string, env []string, command, args string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, env, args, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs start from an empty cache
	clearCmd := exec.Command("ridestats", "cache", "clear")
	clearCmd.Env = append(os.Environ(), env...)
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a ridestats command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, env []string, argsStr, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append(strings.Fields(argsStr), "--cache-backend", cacheBackend, "--output", "text")

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("ridestats", args...)
		cmd.Env = append(os.Environ(), env...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Query completed in") &&
		strings.Contains(outputStr, "workers")
}

// sortedCommands returns command names in a stable order
func sortedCommands(commands map[string]string) []string {
	return slices.Sorted(maps.Keys(commands))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/ridestats_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, config BenchmarkConfig) {
	fmt.Printf("Benchmark complete\n")

	for _, name := range sortedCommands(config.Commands) {
		fmt.Printf("%s:\n", name)
		for _, result := range results {
			if result.Command == name {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
