package campaigns

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/cqrs"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/events"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/pkg/logger"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/tenant"
)

// Handlers owns the campaign command and query handlers. The tenant id is
// read from request context on every call; there is no way to address
// another tenant's campaigns.
type Handlers struct {
	repo  Repository
	clock domain.Clock
	pub   events.Publisher
}

func NewHandlers(repo Repository, clock domain.Clock, pub events.Publisher) *Handlers {
	if pub == nil {
		pub = events.LogPublisher{}
	}
	return &Handlers{repo: repo, clock: clock, pub: pub}
}

// Register wires every campaign command and query onto the bus.
func (h *Handlers) Register(bus *cqrs.Bus) {
	bus.MustRegisterCommand(CmdCreateCampaign, cqrs.CommandFunc(h.Create))
	bus.MustRegisterCommand(CmdUpdateCampaignDetails, cqrs.CommandFunc(h.UpdateDetails))
	bus.MustRegisterCommand(CmdUpdateCampaignSegment, cqrs.CommandFunc(h.UpdateSegment))
	bus.MustRegisterCommand(CmdScheduleCampaign, cqrs.CommandFunc(h.Schedule))
	bus.MustRegisterCommand(CmdLaunchCampaign, cqrs.CommandFunc(h.Launch))
	bus.MustRegisterCommand(CmdPauseCampaign, cqrs.CommandFunc(h.Pause))
	bus.MustRegisterCommand(CmdResumeCampaign, cqrs.CommandFunc(h.Resume))
	bus.MustRegisterCommand(CmdCompleteCampaign, cqrs.CommandFunc(h.Complete))
	bus.MustRegisterCommand(CmdCancelCampaign, cqrs.CommandFunc(h.Cancel))
	bus.MustRegisterCommand(CmdDeleteCampaign, cqrs.CommandFunc(h.Delete))
	bus.MustRegisterCommand(CmdRecordCampaignMetrics, cqrs.CommandFunc(h.RecordMetrics))

	bus.MustRegisterQuery(QryGetCampaign, cqrs.QueryFunc(h.Get))
	bus.MustRegisterQuery(QryListCampaigns, cqrs.QueryFunc(h.List))
	bus.MustRegisterQuery(QryPreviewMessage, cqrs.QueryFunc(h.Preview))
	bus.MustRegisterQuery(QryCampaignMetrics, cqrs.QueryFunc(h.Metrics))
}

func (h *Handlers) publish(ctx context.Context, c *domain.Campaign) {
	evs := c.DrainEvents()
	if len(evs) == 0 {
		return
	}
	if err := h.pub.Publish(ctx, c.TenantID, c.ID, evs); err != nil {
		logger.Warn("event publish failed", "tenant_id", c.TenantID, "aggregate_id", c.ID, "error", err.Error())
	}
}

// Create validates and persists a new campaign in DRAFT.
func (h *Handlers) Create(ctx context.Context, cmd CreateCampaign) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	c, err := domain.NewCampaign(uuid.New().String(), tc.TenantID, cmd.Name, cmd.Type, cmd.Channel, cmd.Segment, cmd.Template, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	h.publish(ctx, c)
	return c, nil
}

// mutate loads the tenant's campaign, applies fn, and persists guarded on
// the status the row was loaded in. A concurrent transition surfaces as
// ErrStaleState rather than silently overwriting.
func (h *Handlers) mutate(ctx context.Context, campaignID string, fn func(*domain.Campaign) error) (*domain.Campaign, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.repo.Get(ctx, tc.TenantID, campaignID)
	if err != nil {
		return nil, err
	}
	loadedStatus := c.Status
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := h.repo.Update(ctx, c, loadedStatus); err != nil {
		return nil, err
	}
	h.publish(ctx, c)
	return c, nil
}

func (h *Handlers) UpdateDetails(ctx context.Context, cmd UpdateCampaignDetails) (any, error) {
	return h.mutate(ctx, cmd.CampaignID, func(c *domain.Campaign) error {
		return c.UpdateDetails(cmd.Name, cmd.Template, h.clock.Now())
	})
}

func (h *Handlers) UpdateSegment(ctx context.Context, cmd UpdateCampaignSegment) (any, error) {
	return h.mutate(ctx, cmd.CampaignID, func(c *domain.Campaign) error {
		return c.UpdateTargetSegment(cmd.Segment, h.clock.Now())
	})
}

func (h *Handlers) Schedule(ctx context.Context, cmd ScheduleCampaign) (any, error) {
	return h.mutate(ctx, cmd.CampaignID, func(c *domain.Campaign) error {
		return c.Schedule(cmd.At, h.clock.Now())
	})
}

// Launch resolves the audience size for the campaign's segment, then moves
// it to SENDING with that count stamped on it.
func (h *Handlers) Launch(ctx context.Context, cmd LaunchCampaign) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.repo.Get(ctx, tc.TenantID, cmd.CampaignID)
	if err != nil {
		return nil, err
	}
	target, err := h.repo.CountAudience(ctx, tc.TenantID, c.Segment)
	if err != nil {
		return nil, fmt.Errorf("resolve audience: %w", err)
	}
	loadedStatus := c.Status
	if err := c.Launch(target, h.clock.Now()); err != nil {
		return nil, err
	}
	if err := h.repo.Update(ctx, c, loadedStatus); err != nil {
		return nil, err
	}
	h.publish(ctx, c)
	logger.Info("campaign launched", "tenant_id", c.TenantID, "campaign_id", c.ID, "target_count", target)
	return c, nil
}

func (h *Handlers) Pause(ctx context.Context, cmd PauseCampaign) (any, error) {
	return h.mutate(ctx, cmd.CampaignID, func(c *domain.Campaign) error {
		return c.Pause(h.clock.Now())
	})
}

func (h *Handlers) Resume(ctx context.Context, cmd ResumeCampaign) (any, error) {
	return h.mutate(ctx, cmd.CampaignID, func(c *domain.Campaign) error {
		return c.Resume(h.clock.Now())
	})
}

func (h *Handlers) Complete(ctx context.Context, cmd CompleteCampaign) (any, error) {
	return h.mutate(ctx, cmd.CampaignID, func(c *domain.Campaign) error {
		return c.Complete(h.clock.Now())
	})
}

func (h *Handlers) Cancel(ctx context.Context, cmd CancelCampaign) (any, error) {
	return h.mutate(ctx, cmd.CampaignID, func(c *domain.Campaign) error {
		return c.Cancel(h.clock.Now())
	})
}

// Delete removes a DRAFT campaign outright. Anything past DRAFT must be
// cancelled instead so its history survives.
func (h *Handlers) Delete(ctx context.Context, cmd DeleteCampaign) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.repo.Get(ctx, tc.TenantID, cmd.CampaignID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.CampaignDraft {
		return nil, domain.InvariantError{Op: "delete campaign", State: string(c.Status)}
	}
	if err := h.repo.Delete(ctx, tc.TenantID, cmd.CampaignID); err != nil {
		return nil, err
	}
	return nil, nil
}

// RecordMetrics applies delivery counter deltas. The counters are
// incremented in place by the repository, so recorders running against the
// same campaign compose instead of overwriting each other.
func (h *Handlers) RecordMetrics(ctx context.Context, cmd RecordCampaignMetrics) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.repo.Get(ctx, tc.TenantID, cmd.CampaignID)
	if err != nil {
		return nil, err
	}
	now := h.clock.Now()
	if err := c.AddMetrics(cmd.Delta, now); err != nil {
		return nil, err
	}
	if err := h.repo.AddMetrics(ctx, tc.TenantID, c.ID, cmd.Delta, now); err != nil {
		return nil, err
	}
	return c, nil
}

func (h *Handlers) Get(ctx context.Context, q GetCampaign) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	return h.repo.Get(ctx, tc.TenantID, q.CampaignID)
}

func (h *Handlers) List(ctx context.Context, q ListCampaigns) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	items, total, err := h.repo.List(ctx, tc.TenantID, q.Filter, q.Page)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, q.Page), nil
}

// Preview renders the campaign template against sample recipient attributes.
func (h *Handlers) Preview(ctx context.Context, q PreviewMessage) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.repo.Get(ctx, tc.TenantID, q.CampaignID)
	if err != nil {
		return nil, err
	}
	return c.Template.Render(q.Recipient), nil
}

func (h *Handlers) Metrics(ctx context.Context, q GetCampaignMetrics) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.repo.Get(ctx, tc.TenantID, q.CampaignID)
	if err != nil {
		return nil, err
	}
	return c.Metrics, nil
}

// LaunchDueScheduled launches every SCHEDULED campaign whose send time has
// arrived. Called by the scheduler sweep with no tenant scope; each campaign
// carries its own tenant id.
func (h *Handlers) LaunchDueScheduled(ctx context.Context) (int, error) {
	now := h.clock.Now()
	due, err := h.repo.ListScheduledDue(ctx, now)
	if err != nil {
		return 0, err
	}
	launched := 0
	for i := range due {
		c := &due[i]
		target, err := h.repo.CountAudience(ctx, c.TenantID, c.Segment)
		if err != nil {
			logger.Warn("audience resolution failed", "tenant_id", c.TenantID, "campaign_id", c.ID, "error", err.Error())
			continue
		}
		loadedStatus := c.Status
		if err := c.Launch(target, now); err != nil {
			logger.Warn("scheduled launch rejected", "campaign_id", c.ID, "error", err.Error())
			continue
		}
		if err := h.repo.Update(ctx, c, loadedStatus); err != nil {
			return launched, err
		}
		h.publish(ctx, c)
		launched++
	}
	return launched, nil
}
