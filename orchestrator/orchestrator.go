// Package orchestrator wires the collaborators into one harvesting cycle:
// discover publications, drop exact repeats, normalize fields, derive
// filenames and records, download PDFs, persist, and optionally mirror to
// S3 and publish to Kafka. Per-report failures are logged and skipped; only
// discovery failure aborts the run.
package orchestrator

import (
	"context"
	"errors"
	"os"
	"time"

	"ecbpress/category"
	"ecbpress/config"
	"ecbpress/dedup"
	"ecbpress/download"
	"ecbpress/naming"
	"ecbpress/normalize"
	"ecbpress/publish"
	"ecbpress/scraper"
	"ecbpress/storage"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Stats summarizes one harvesting cycle.
type Stats struct {
	Discovered int
	Repeats    int
	Malformed  int
	Saved      int
	Skipped    int // non-PDF publications
	Failed     int
	Uploaded   int
	Published  int
}

// RunOnce executes a single end-to-end cycle.
func RunOnce(ctx context.Context, cfg *config.Config, log *logrus.Logger) (Stats, error) {
	var stats Stats

	runLog := log.WithField("run_id", uuid.NewString()[:8])
	runLog.WithFields(logrus.Fields{
		"source": cfg.Source.URL,
		"mode":   cfg.Source.Mode,
		"max":    cfg.Source.MaxReports,
	}).Info("starting harvest cycle")

	mapper := category.New(cfg.Category.Rules, cfg.Category.Fallback)
	sc := scraper.New(cfg.Source, mapper, runLog)

	raws, err := sc.Fetch(ctx)
	if err != nil {
		return stats, err
	}
	stats.Discovered = len(raws)
	runLog.WithField("count", len(raws)).Info("discovered publications")

	seen := newSeenStore(ctx, cfg.Dedup, runLog)
	registry := naming.NewRegistry()
	builder := naming.NewBuilder(time.Now().In(normalize.ReferenceZone()))
	dl := download.New(cfg.Download, cfg.Source.UserAgent)

	local, err := storage.NewLocal(cfg.Download.OutputDir)
	if err != nil {
		return stats, err
	}

	uploader, err := storage.UploaderFromEnv(ctx)
	if err != nil {
		runLog.WithError(err).Warn("S3 not available, continuing local-only")
	} else if uploader != nil {
		runLog.WithField("bucket", uploader.Bucket()).Info("S3 mirroring enabled")
	}

	producer, err := publish.FromEnv()
	if err != nil {
		runLog.WithError(err).Warn("kafka not available, continuing without publishing")
	} else if producer != nil {
		defer producer.Close()
		runLog.Info("kafka publishing enabled")
	}

	for _, raw := range raws {
		if ctx.Err() != nil {
			runLog.Warn("interrupted")
			break
		}
		repLog := runLog.WithField("url", raw.SourceURL)

		if seen.Seen(ctx, raw.SourceURL) {
			stats.Repeats++
			continue
		}
		seen.Mark(ctx, raw.SourceURL)

		if cfg.Source.FetchCreators && raw.CreatorText == "" {
			raw.CreatorText = sc.CreatorFor(ctx, raw.SourceURL)
		}

		rep, err := normalize.Normalize(raw)
		if err != nil {
			// The only normalization failure is an unparseable date.
			repLog.WithError(err).Warn("skipping report with unparseable date")
			stats.Malformed++
			continue
		}

		filename, record := builder.Build(rep, registry)

		if cfg.Download.Skip {
			if _, err := local.WriteMetadata(filename, record); err != nil {
				repLog.WithError(err).Error("write metadata failed")
				stats.Failed++
				continue
			}
			stats.Saved++
			continue
		}

		pdf, err := dl.Fetch(ctx, raw.SourceURL)
		if errors.Is(err, download.ErrNotPDF) {
			repLog.Info("not a direct PDF, skipping download")
			stats.Skipped++
			continue
		}
		if err != nil {
			repLog.WithError(err).Error("download failed")
			stats.Failed++
			continue
		}

		if err := local.WritePDF(filename, pdf); err != nil {
			repLog.WithError(err).Error("write PDF failed")
			stats.Failed++
			continue
		}
		if _, err := local.WriteMetadata(filename, record); err != nil {
			repLog.WithError(err).Error("write metadata failed")
			stats.Failed++
			continue
		}
		stats.Saved++
		repLog.WithField("filename", filename).Info("saved publication")

		if uploader != nil {
			if err := uploader.UploadReport(ctx, filename, pdf, record); err != nil {
				repLog.WithError(err).Warn("S3 upload failed")
			} else {
				stats.Uploaded++
			}
		}
		if producer != nil {
			if err := producer.PublishRecord(record); err != nil {
				repLog.WithError(err).Warn("kafka publish failed")
			} else {
				stats.Published++
			}
		}
	}

	runLog.WithFields(logrus.Fields{
		"discovered": stats.Discovered,
		"repeats":    stats.Repeats,
		"malformed":  stats.Malformed,
		"saved":      stats.Saved,
		"skipped":    stats.Skipped,
		"failed":     stats.Failed,
		"uploaded":   stats.Uploaded,
		"published":  stats.Published,
	}).Info("harvest cycle complete")

	return stats, nil
}

// newSeenStore builds the in-run repeat filter, attaching Redis history when
// REDIS_ADDR is configured.
func newSeenStore(ctx context.Context, cfg config.DedupConfig, log *logrus.Entry) *dedup.Store {
	store := dedup.New(cfg.MaxKeys)

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return store
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, dedup history disabled")
		return store
	}
	log.WithField("addr", addr).Info("redis dedup history enabled")
	return store.WithRedis(client, cfg.TTL)
}
