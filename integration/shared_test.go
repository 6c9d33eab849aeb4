//go:build basic || database

package integration

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	// sharedRidestatsPath holds the path to a shared ridestats binary built once for all tests.
	sharedRidestatsPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getRidestatsBinary returns the path to the ridestats binary, building it once if needed.
func getRidestatsBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "ridestats-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		ridestatsPath := filepath.Join(tempDir, "ridestats")
		buildCmd := exec.Command("go", "build", "-o", ridestatsPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build ridestats: %v", err))
		}

		sharedRidestatsPath = ridestatsPath
	})

	return sharedRidestatsPath
}

// runRidestats runs the CLI with extra environment and returns its stdout.
func runRidestats(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getRidestatsBinary(), args...)
	cmd.Env = append(os.Environ(), env...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), string(output), stderr.String())
	}
	return string(output), err
}

// writeTrack writes a straight northbound GPX track sampled once per second.
// Each step of 0.0001 degrees latitude is about 11.1 meters.
func writeTrack(t *testing.T, dir, name string, start time.Time, points int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<gpx version="1.1" creator="integration" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>` + "\n")
	for i := range points {
		fmt.Fprintf(&b, `<trkpt lat="%.6f" lon="21.012200"><ele>%d</ele><time>%s</time></trkpt>`+"\n",
			52.0+0.0001*float64(i), 100+i%3, start.Add(time.Duration(i)*time.Second).Format(time.RFC3339))
	}
	b.WriteString("</trkseg></trk></gpx>\n")

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// summaryOutput is the subset of the summary JSON checked by the tests.
type summaryOutput struct {
	RideCount     int     `json:"ride_count"`
	TotalDistance float64 `json:"total_distance"`
}

// rideListOutput is the subset of the ride page JSON checked by the tests.
type rideListOutput struct {
	Total int `json:"total"`
	Rides []struct {
		Rank  int    `json:"rank"`
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"rides"`
}

func decodeJSON[T any](t *testing.T, raw string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(raw), &out), "output: %s", raw)
	return out
}
