package core

// housekeeping.go removes stale data in the background:
//  1. sessions idle longer than MaxSessionAge
//  2. log rows older than MaxLogAge
//  3. cache files older than MaxCacheAge
//  4. thumbnails older than MaxThumbnailAge
//
// A pass runs after a random fraction of requests (see the web middleware)
// and on a ticker. Individual task failures are logged and do not stop the
// other tasks.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// HousekeepingConfig holds retention settings for housekeeping.
// Zero values take the defaults.
type HousekeepingConfig struct {
	Fs              afero.Fs      // default: the OS filesystem
	CacheDir        string        // cache files; skipped when empty
	ThumbnailDir    string        // thumbnails; skipped when empty
	MaxCacheAge     time.Duration // default: 1h
	MaxThumbnailAge time.Duration // default: 90 days
	MaxLogAge       time.Duration // default: 90 days
	MaxSessionAge   time.Duration // default: 24h
	Probability     int           // one pass per N requests (default: 100)
}

func (c HousekeepingConfig) withDefaults() HousekeepingConfig {
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	if c.MaxCacheAge <= 0 {
		c.MaxCacheAge = time.Hour
	}
	if c.MaxThumbnailAge <= 0 {
		c.MaxThumbnailAge = 90 * 24 * time.Hour
	}
	if c.MaxLogAge <= 0 {
		c.MaxLogAge = 90 * 24 * time.Hour
	}
	if c.MaxSessionAge <= 0 {
		c.MaxSessionAge = 24 * time.Hour
	}
	if c.Probability <= 0 {
		c.Probability = 100
	}
	return c
}

// HousekeepingResult counts what one pass removed.
type HousekeepingResult struct {
	Sessions   int64
	Logs       int64
	CacheFiles int64
	Thumbnails int64
	Errors     []error
}

// Housekeeping runs one pass. The returned error joins every task failure;
// the counts of successful tasks are filled in regardless.
func (s *Service) Housekeeping(ctx context.Context) (HousekeepingResult, error) {
	cfg := s.housekeeping
	now := s.now()
	start := time.Now()

	if s.metrics != nil {
		s.metrics.HousekeepingRuns.Inc()
	}

	var result HousekeepingResult
	errs := make([]error, 4)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Sessions, errs[0] = s.q.DeleteSessionsBefore(gctx, timestamptz(now.Add(-cfg.MaxSessionAge)))
		return nil
	})
	g.Go(func() error {
		result.Logs, errs[1] = s.q.DeleteLogsBefore(gctx, timestamptz(now.Add(-cfg.MaxLogAge)))
		return nil
	})
	g.Go(func() error {
		result.CacheFiles, errs[2] = deleteOldFiles(cfg.Fs, cfg.CacheDir, now.Add(-cfg.MaxCacheAge))
		return nil
	})
	g.Go(func() error {
		result.Thumbnails, errs[3] = deleteOldFiles(cfg.Fs, cfg.ThumbnailDir, now.Add(-cfg.MaxThumbnailAge))
		return nil
	})
	_ = g.Wait()

	kinds := []string{"sessions", "logs", "cache_files", "thumbnails"}
	counts := []int64{result.Sessions, result.Logs, result.CacheFiles, result.Thumbnails}
	for i, err := range errs {
		if err != nil {
			err = fmt.Errorf("housekeeping %s: %w", kinds[i], err)
			result.Errors = append(result.Errors, err)
			slog.Error("housekeeping task failed", "task", kinds[i], "error", err)
			continue
		}
		s.metrics.Deleted(kinds[i], counts[i])
	}

	slog.Info("housekeeping completed",
		"sessions_deleted", result.Sessions,
		"logs_deleted", result.Logs,
		"cache_files_deleted", result.CacheFiles,
		"thumbnails_deleted", result.Thumbnails,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, errors.Join(result.Errors...)
}

// MaybeHousekeeping starts a pass in the background with a probability of
// one in HousekeepingConfig.Probability. It never runs two passes at once
// and reports whether a pass was started.
func (s *Service) MaybeHousekeeping() bool {
	if rand.IntN(s.housekeeping.Probability) != 0 {
		return false
	}
	if !s.housekeepingRunning.CompareAndSwap(false, true) {
		return false
	}

	go func() {
		defer s.housekeepingRunning.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), QueryTimeout)
		defer cancel()
		s.Housekeeping(ctx) //nolint:errcheck // failures are logged
	}()
	return true
}

// StartHousekeeping runs a pass immediately, then every interval, until ctx
// is cancelled.
func (s *Service) StartHousekeeping(ctx context.Context, interval time.Duration) {
	slog.Info("housekeeping scheduler started",
		"interval", interval.String(),
		"max_session_age", s.housekeeping.MaxSessionAge.String(),
		"max_log_age", s.housekeeping.MaxLogAge.String(),
	)

	s.runScheduledHousekeeping(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("housekeeping scheduler stopped")
			return
		case <-ticker.C:
			s.runScheduledHousekeeping(ctx)
		}
	}
}

func (s *Service) runScheduledHousekeeping(ctx context.Context) {
	if !s.housekeepingRunning.CompareAndSwap(false, true) {
		slog.Debug("housekeeping already running, skipping tick")
		return
	}
	defer s.housekeepingRunning.Store(false)
	s.Housekeeping(ctx) //nolint:errcheck // failures are logged
}

// deleteOldFiles removes regular files under dir last modified before
// cutoff. A missing directory is not an error.
func deleteOldFiles(fsys afero.Fs, dir string, cutoff time.Time) (int64, error) {
	if dir == "" {
		return 0, nil
	}

	exists, err := afero.DirExists(fsys, dir)
	if err != nil || !exists {
		return 0, err
	}

	var deleted int64
	err = afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := fsys.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		deleted++
		return nil
	})
	return deleted, err
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
