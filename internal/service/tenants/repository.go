package tenants

import (
	"context"
	"time"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
)

// Repository defines the data access contract for tenant accounts.
// Implementations must be safe for concurrent use. Tenants are never
// physically deleted, so there is no Delete; retirement goes through status.
type Repository interface {
	// Get returns a single tenant. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Tenant, error)

	// GetBySlug returns a tenant by its unique slug, regardless of status.
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)

	// List returns tenants matching the filter, ordered by created_at DESC,
	// plus the unpaginated total.
	List(ctx context.Context, f ListFilter, page domain.PageRequest) ([]domain.Tenant, int, error)

	// Create inserts a new tenant. Returns ErrSlugTaken when the slug is
	// already claimed.
	Create(ctx context.Context, t *domain.Tenant) error

	// Update persists the full aggregate state.
	Update(ctx context.Context, t *domain.Tenant) error

	// ListTrialsEndingBefore returns TRIAL tenants whose window ends at or
	// before the cutoff. Used by the expiry sweep.
	ListTrialsEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.Tenant, error)
}

// ListFilter narrows a tenant listing.
type ListFilter struct {
	Status string
	PlanID string
	Search string
}
