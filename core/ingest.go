package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/ridestats/core/ride"
	"github.com/huangsam/ridestats/internal/contract"
	"github.com/huangsam/ridestats/internal/gpx"
	"github.com/huangsam/ridestats/schema"
	"golang.org/x/sync/errgroup"
)

// IngestFiles parses GPX files into rides and stores them as one batch.
// Files are parsed concurrently with at most cfg.Workers in flight. Any failure
// rejects the whole upload and nothing is stored.
func IngestFiles(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, paths []string) (schema.IngestReport, error) {
	start := time.Now()
	store, err := rideStoreFrom(mgr)
	if err != nil {
		return schema.IngestReport{}, err
	}

	uploads := make([]contract.UploadFile, len(paths))
	for i, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return schema.IngestReport{}, fmt.Errorf("unable to read %s: %w", path, err)
		}
		if info.IsDir() {
			return schema.IngestReport{}, fmt.Errorf("%s is a directory", path)
		}
		uploads[i] = contract.UploadFile{Name: filepath.Base(path), Size: info.Size()}
	}
	if err := contract.ValidateUpload(uploads); err != nil {
		return schema.IngestReport{}, err
	}

	created := time.Now().UTC()
	rides := make([]schema.Ride, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := gpx.Parse(path)
			if err != nil {
				return fmt.Errorf("error parsing %s: %w", uploads[i].Name, err)
			}
			rides[i] = ride.BuildWithMeta(doc.RawPoints(), ride.Meta{
				Label:   contract.SanitizeFileName(uploads[i].Name),
				Created: created,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return schema.IngestReport{}, err
	}

	generation, saved, err := store.SaveRides(rides)
	if err != nil {
		return schema.IngestReport{}, fmt.Errorf("error saving rides: %w", err)
	}

	memo := memoizerFor(cfg, mgr)
	if generation <= 0 || !memo.Signal().Advance(uint64(generation)) {
		memo.Invalidate()
	}
	contract.Log().Debug().Int("files", len(saved)).Int64("generation", generation).Dur("elapsed", time.Since(start)).Msg("ingested rides")

	return schema.IngestReport{Generation: generation, Rides: saved}, nil
}
