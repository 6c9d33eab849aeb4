package thumbnail

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/ridestats/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func track(coords ...[2]float64) []schema.TrackPoint {
	points := make([]schema.TrackPoint, len(coords))
	for i, c := range coords {
		points[i] = schema.TrackPoint{Latitude: c[0], Longitude: c[1]}
	}
	return points
}

func TestProject(t *testing.T) {
	tests := []struct {
		name     string
		points   []schema.TrackPoint
		size     int
		expected []Pixel
	}{
		{
			name:     "empty track",
			points:   nil,
			size:     50,
			expected: nil,
		},
		{
			name:     "single point is centered",
			points:   track([2]float64{10, 10}),
			size:     50,
			expected: []Pixel{{25, 25}},
		},
		{
			name:     "corner turn fills the square",
			points:   track([2]float64{0, 0}, [2]float64{0, 0.001}, [2]float64{0.001, 0.001}),
			size:     50,
			expected: []Pixel{{0, 0}, {49, 0}, {49, 49}},
		},
		{
			name:     "north south line is centered horizontally",
			points:   track([2]float64{0, 0}, [2]float64{0.001, 0}),
			size:     50,
			expected: []Pixel{{25, 0}, {25, 49}},
		},
		{
			name:     "repeated pixels are collapsed",
			points:   track([2]float64{0, 0}, [2]float64{0, 0}, [2]float64{0, 0.0000001}, [2]float64{0, 0.001}, [2]float64{0, 0.001}),
			size:     50,
			expected: []Pixel{{0, 25}, {49, 25}},
		},
		{
			name:     "non-positive size uses the default",
			points:   track([2]float64{0, 0}, [2]float64{0, 0.001}),
			size:     0,
			expected: []Pixel{{0, 25}, {49, 25}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Project(tt.points, tt.size))
		})
	}
}

func TestProjectStaysInBounds(t *testing.T) {
	points := track([2]float64{48.1, 11.5}, [2]float64{48.2, 11.7}, [2]float64{48.05, 11.9}, [2]float64{48.3, 11.4})
	for _, size := range []int{1, 16, 64} {
		for _, px := range Project(points, size) {
			assert.GreaterOrEqual(t, px.X, 0)
			assert.Less(t, px.X, size)
			assert.GreaterOrEqual(t, px.Y, 0)
			assert.Less(t, px.Y, size)
		}
	}
}

func TestRender(t *testing.T) {
	t.Run("writes a png of the requested size", func(t *testing.T) {
		var buf bytes.Buffer
		points := track([2]float64{0, 0}, [2]float64{0, 0.001}, [2]float64{0.001, 0.001})
		require.NoError(t, Render(&buf, points, 64))

		cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.InDelta(t, 64, cfg.Width, 1)
		assert.InDelta(t, 64, cfg.Height, 1)
	})

	t.Run("single point", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, track([2]float64{1, 1}), 50))
		_, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
	})

	t.Run("empty track is an error", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, Render(&buf, nil, 50), ErrEmptyTrack)
		assert.Zero(t, buf.Len())
	})
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, RenderFile(path, track([2]float64{0, 0}, [2]float64{0.002, 0.001}), 50))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()
	_, err = png.Decode(file)
	require.NoError(t, err)

	missing := filepath.Join(t.TempDir(), "none.png")
	assert.ErrorIs(t, RenderFile(missing, nil, 50), ErrEmptyTrack)
	_, err = os.Stat(missing)
	assert.True(t, os.IsNotExist(err))
}
