// Package thumbnail draws ride tracks as small PNG icons.
package thumbnail

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/huangsam/ridestats/core/geo"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrEmptyTrack is returned when a ride has no track points to draw.
var ErrEmptyTrack = errors.New("cannot render thumbnail of an empty track")

// pointsPerPixel converts icon pixels to plot lengths at the default 96 DPI.
const pointsPerPixel = 72.0 / 96.0

// Pixel is a position on the icon. X grows right and Y grows up.
type Pixel struct {
	X, Y int
}

// Project maps a track onto a size×size pixel square. Points are projected to
// a local plane around the first point, the bounding box is scaled uniformly so
// its larger side fills the square, and the shorter side is centered.
// Consecutive points landing on the same pixel are collapsed.
func Project(points []schema.TrackPoint, size int) []Pixel {
	if len(points) == 0 {
		return nil
	}
	if size <= 0 {
		size = contract.DefaultThumbnailSize
	}

	lat0, lon0 := points[0].Coordinates()
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for i, p := range points {
		lat, lon := p.Coordinates()
		xs[i], ys[i] = geo.LatLonToLocal(lat, lon, lat0, lon0)
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}

	width, height := maxX-minX, maxY-minY
	scale := 0.0
	if extent := max(width, height); extent > 0 {
		scale = float64(size) / extent
	}
	xOffset := (float64(size) - width*scale) / 2
	yOffset := (float64(size) - height*scale) / 2

	out := make([]Pixel, 0, len(points)/2+1)
	for i := range xs {
		px := Pixel{
			X: clamp(int((xs[i]-minX)*scale+xOffset), size),
			Y: clamp(int((ys[i]-minY)*scale+yOffset), size),
		}
		if len(out) > 0 && out[len(out)-1] == px {
			continue
		}
		out = append(out, px)
	}
	return out
}

// clamp keeps a pixel coordinate inside [0, size).
func clamp(v, size int) int {
	return max(0, min(v, size-1))
}

// Render draws the projected track as a PNG line on a transparent background.
func Render(w io.Writer, points []schema.TrackPoint, size int) error {
	if len(points) == 0 {
		return ErrEmptyTrack
	}
	if size <= 0 {
		size = contract.DefaultThumbnailSize
	}
	pixels := Project(points, size)

	xys := make(plotter.XYs, len(pixels))
	for i, px := range pixels {
		xys[i] = plotter.XY{X: float64(px.X), Y: float64(px.Y)}
	}

	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.Transparent
	p.X.Min, p.X.Max = 0, float64(size)
	p.Y.Min, p.Y.Max = 0, float64(size)

	if len(xys) == 1 {
		dot, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("failed to plot track: %w", err)
		}
		dot.GlyphStyle.Color = color.White
		dot.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(dot)
	} else {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("failed to plot track: %w", err)
		}
		line.Width = vg.Points(1)
		line.Color = color.White
		p.Add(line)
	}

	side := vg.Points(float64(size) * pointsPerPixel)
	wt, err := p.WriterTo(side, side, "png")
	if err != nil {
		return fmt.Errorf("failed to create PNG writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write PNG: %w", err)
	}
	return nil
}

// RenderFile renders the track into a PNG file at path.
func RenderFile(path string, points []schema.TrackPoint, size int) error {
	if len(points) == 0 {
		return ErrEmptyTrack
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	if err := Render(file, points, size); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
