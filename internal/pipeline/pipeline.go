package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/covid-dashboard/internal/domain"
	"github.com/couchcryptid/covid-dashboard/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	publishRetries = 5
)

// Source reads the raw daily records.
type Source interface {
	Load(ctx context.Context) ([]domain.DailyRegionRecord, error)
}

// Publisher emits region totals to a downstream consumer.
type Publisher interface {
	Publish(ctx context.Context, totals []domain.RegionTotal) error
}

// Pipeline loads the dataset once and hands it to readers.
type Pipeline struct {
	source    Source
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	dataset   atomic.Pointer[domain.Dataset]
}

// New creates a Pipeline. publisher may be nil.
func New(src Source, pub Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:    src,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
	}
}

// Dataset returns the loaded dataset, or nil before the first load completes.
func (p *Pipeline) Dataset() *domain.Dataset {
	return p.dataset.Load()
}

// CheckReadiness returns nil once a dataset is being served.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.dataset.Load() == nil {
		return errors.New("dataset not loaded yet")
	}
	return nil
}

// Run loads the dataset and, when a publisher is configured, publishes the
// region totals. Only a load failure is returned.
func (p *Pipeline) Run(ctx context.Context) error {
	ds, err := p.Load(ctx)
	if err != nil {
		return err
	}
	if p.publisher != nil {
		p.publish(ctx, ds)
	}
	return nil
}

// Load reads the source, resolves country codes and stores the new dataset.
func (p *Pipeline) Load(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()

	raw, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	records, unresolved := domain.ResolveCodes(raw)
	ds := domain.NewDataset(records, unresolved)

	if len(unresolved) > 0 {
		p.logger.Warn("country codes without alpha-3 mapping are hidden from maps",
			"codes", unresolved,
			"count", len(unresolved),
		)
	}

	p.metrics.DatasetRecords.Set(float64(ds.Len()))
	p.metrics.UnresolvedCodes.Set(float64(len(unresolved)))
	p.metrics.LoadDuration.Observe(time.Since(start).Seconds())

	p.dataset.Store(ds)
	p.metrics.DatasetLoaded.Set(1)

	p.logger.Info("dataset loaded",
		"records", ds.Len(),
		"first_date", ds.FirstDate().Format(domain.DateLayout),
		"last_date", ds.LastDate().Format(domain.DateLayout),
		"duration", time.Since(start),
	)
	return ds, nil
}

// publish writes the region totals, retrying with exponential backoff.
// Failure is logged only; the dataset stays served.
func (p *Pipeline) publish(ctx context.Context, ds *domain.Dataset) {
	totals := ds.RegionTotals()
	if len(totals) == 0 {
		return
	}

	backoff := initialBackoff
	for attempt := 1; attempt <= publishRetries; attempt++ {
		err := p.publisher.Publish(ctx, domain.StampPublished(totals))
		if err == nil {
			p.metrics.SummariesPublished.Add(float64(len(totals)))
			p.logger.Info("region totals published", "regions", len(totals), "attempt", attempt)
			return
		}
		if ctx.Err() != nil {
			return
		}

		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish region totals failed", "error", err, "attempt", attempt)

		if attempt == publishRetries || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	p.logger.Error("giving up on region totals", "attempts", publishRetries)
}
