package campaigns

import (
	"context"
	"time"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
)

// Repository defines the data access contract for campaigns. Every method
// takes the owning tenant id; rows outside that tenant are invisible.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist
	// within the tenant.
	Get(ctx context.Context, tenantID, id string) (*domain.Campaign, error)

	// List returns campaigns matching the filter, ordered by created_at DESC,
	// plus the unpaginated total.
	List(ctx context.Context, tenantID string, f ListFilter, page domain.PageRequest) ([]domain.Campaign, int, error)

	// Create inserts a new campaign.
	Create(ctx context.Context, c *domain.Campaign) error

	// Update persists the full aggregate. When expectStatus is non-empty the
	// write only applies if the stored row is still in that status; a miss
	// returns ErrStaleState.
	Update(ctx context.Context, c *domain.Campaign, expectStatus domain.CampaignStatus) error

	// AddMetrics increments the delivery counters by delta in place. The
	// increment is relative so concurrent recorders never clobber each
	// other's counts. Returns ErrNotFound if the campaign doesn't exist
	// within the tenant.
	AddMetrics(ctx context.Context, tenantID, id string, delta domain.CampaignMetrics, now time.Time) error

	// Delete removes a campaign. Only DRAFT campaigns can be deleted.
	Delete(ctx context.Context, tenantID, id string) error

	// CountAudience resolves how many of the tenant's clients match the
	// segment right now.
	CountAudience(ctx context.Context, tenantID string, seg domain.Segment) (int, error)

	// ListScheduledDue returns SCHEDULED campaigns, across all tenants, whose
	// send time has arrived. Used by the scheduler sweep.
	ListScheduledDue(ctx context.Context, now time.Time) ([]domain.Campaign, error)
}

// ListFilter narrows a campaign listing.
type ListFilter struct {
	Status  string
	Type    string
	Channel string
	Search  string
}
