package reports

import (
	"context"
	"time"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
)

// Repository defines the data access contract for reports. Every method
// takes the owning tenant id except ListDue, which feeds the cross-tenant
// scheduler sweep.
type Repository interface {
	// Get returns a single report. Returns ErrNotFound if it doesn't exist
	// within the tenant.
	Get(ctx context.Context, tenantID, id string) (*domain.Report, error)

	// List returns reports matching the filter, ordered by created_at DESC,
	// plus the unpaginated total.
	List(ctx context.Context, tenantID string, f ListFilter, page domain.PageRequest) ([]domain.Report, int, error)

	// Create inserts a new report request.
	Create(ctx context.Context, r *domain.Report) error

	// Update persists the full aggregate. When expectStatus is non-empty the
	// write only applies if the stored row is still in that status; a miss
	// returns ErrStaleState.
	Update(ctx context.Context, r *domain.Report, expectStatus domain.ReportStatus) error

	// Delete removes a report and its request history.
	Delete(ctx context.Context, tenantID, id string) error

	// ListDue returns reports, across all tenants, whose active schedule has
	// a next run at or before now.
	ListDue(ctx context.Context, now time.Time) ([]domain.Report, error)
}

// ListFilter narrows a report listing.
type ListFilter struct {
	Type   string
	Status string
}

// Generator produces the tabular data for one report run. Implementations
// query the tenant's business data; they never mutate the aggregate.
type Generator interface {
	Generate(ctx context.Context, r *domain.Report) (columns []string, rows [][]any, err error)
}

// PayloadStore persists encoded report payloads outside the database and
// returns an opaque reference for later retrieval.
type PayloadStore interface {
	Put(ctx context.Context, tenantID, reportID string, payload []byte) (ref string, err error)
	Get(ctx context.Context, ref string) ([]byte, error)
}
