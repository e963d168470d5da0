package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
	"github.com/99minutos/club-admin/internal/metrics"
)

const defaultReportTimeout = 30 * time.Second

// ReportService hands a snapshot to the report generator. The snapshot is
// taken before the call so a slow generator never holds the store lock.
type ReportService struct {
	store   snapshotReader
	gen     ports.ReportGenerator
	timeout time.Duration
	log     zerolog.Logger
}

func NewReportService(store snapshotReader, gen ports.ReportGenerator, timeout time.Duration, log zerolog.Logger) *ReportService {
	if timeout <= 0 {
		timeout = defaultReportTimeout
	}
	return &ReportService{store: store, gen: gen, timeout: timeout, log: log}
}

// Generate returns the generator text unmodified, empty text included. Any
// generator failure, including the timeout, is reported as
// domain.ErrReportUnavailable.
func (s *ReportService) Generate(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap := s.store.Snapshot()
	start := time.Now()
	text, err := s.gen.Generate(ctx, snap)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		metrics.ReportDuration.WithLabelValues("timeout").Observe(elapsed.Seconds())
		s.log.Warn().Dur("elapsed", elapsed).Msg("report generation timed out")
		return "", fmt.Errorf("%w: timed out after %s", domain.ErrReportUnavailable, s.timeout)
	case err != nil:
		metrics.ReportDuration.WithLabelValues("error").Observe(elapsed.Seconds())
		s.log.Error().Err(err).Msg("report generation failed")
		return "", fmt.Errorf("%w: %w", domain.ErrReportUnavailable, err)
	}

	metrics.ReportDuration.WithLabelValues("ok").Observe(elapsed.Seconds())
	return text, nil
}
