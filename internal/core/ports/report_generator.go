package ports

import (
	"context"

	"github.com/99minutos/club-admin/internal/core/domain"
)

// ReportGenerator turns a snapshot into a club activity report. It may call
// out to a remote service and must honour ctx cancellation.
type ReportGenerator interface {
	Generate(ctx context.Context, snapshot domain.Snapshot) (string, error)
}

// ReportService generates a report of the current club state.
type ReportService interface {
	Generate(ctx context.Context) (string, error)
}
