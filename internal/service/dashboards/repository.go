package dashboards

import (
	"context"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
)

// Repository defines the data access contract for dashboards. Every method
// takes the owning tenant id; rows outside that tenant are invisible.
type Repository interface {
	// Get returns a single dashboard with its widgets. Returns ErrNotFound
	// if it doesn't exist within the tenant.
	Get(ctx context.Context, tenantID, id string) (*domain.Dashboard, error)

	// List returns the tenant's dashboards, ordered by created_at DESC, plus
	// the unpaginated total.
	List(ctx context.Context, tenantID string, page domain.PageRequest) ([]domain.Dashboard, int, error)

	// Create inserts a new dashboard.
	Create(ctx context.Context, d *domain.Dashboard) error

	// Update persists the full aggregate, widgets included.
	Update(ctx context.Context, d *domain.Dashboard) error

	// Delete removes a dashboard and its widgets.
	Delete(ctx context.Context, tenantID, id string) error
}
