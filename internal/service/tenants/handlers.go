package tenants

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/cqrs"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/events"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/pkg/logger"
)

// Handlers owns the tenant command and query handlers. All mutations follow
// the same shape: load, call the aggregate, persist, then publish whatever
// events the aggregate queued. Publishing is best-effort; a failed publish is
// logged and never fails the command.
type Handlers struct {
	repo  Repository
	clock domain.Clock
	pub   events.Publisher
	cache ResolutionCache
}

// ResolutionCache evicts cached tenant resolutions by slug. Implemented by
// tenant.RedisCache; nil means no cache is wired.
type ResolutionCache interface {
	Invalidate(ctx context.Context, slug string) error
}

func NewHandlers(repo Repository, clock domain.Clock, pub events.Publisher) *Handlers {
	if pub == nil {
		pub = events.LogPublisher{}
	}
	return &Handlers{repo: repo, clock: clock, pub: pub}
}

// WithResolutionCache wires the resolver cache so tenant mutations evict
// their cached resolution immediately instead of waiting out the TTL. A
// suspended tenant must stop resolving on the next request.
func (h *Handlers) WithResolutionCache(c ResolutionCache) *Handlers {
	h.cache = c
	return h
}

// Register wires every tenant command and query onto the bus.
func (h *Handlers) Register(bus *cqrs.Bus) {
	bus.MustRegisterCommand(CmdProvisionTenant, cqrs.CommandFunc(h.Provision))
	bus.MustRegisterCommand(CmdChangeTenantStatus, cqrs.CommandFunc(h.ChangeStatus))
	bus.MustRegisterCommand(CmdChangeTenantPlan, cqrs.CommandFunc(h.ChangePlan))
	bus.MustRegisterCommand(CmdExtendTenantTrial, cqrs.CommandFunc(h.ExtendTrial))
	bus.MustRegisterCommand(CmdUpdateTenantProfile, cqrs.CommandFunc(h.UpdateProfile))
	bus.MustRegisterCommand(CmdSetTenantFeature, cqrs.CommandFunc(h.SetFeature))
	bus.MustRegisterCommand(CmdUpdateTenantSettings, cqrs.CommandFunc(h.UpdateSettings))
	bus.MustRegisterCommand(CmdSetTenantLimits, cqrs.CommandFunc(h.SetLimits))

	bus.MustRegisterQuery(QryGetTenant, cqrs.QueryFunc(h.Get))
	bus.MustRegisterQuery(QryGetTenantBySlug, cqrs.QueryFunc(h.GetBySlug))
	bus.MustRegisterQuery(QryListTenants, cqrs.QueryFunc(h.List))
}

func (h *Handlers) publish(ctx context.Context, t *domain.Tenant) {
	evs := t.DrainEvents()
	if len(evs) == 0 {
		return
	}
	if err := h.pub.Publish(ctx, t.ID, t.ID, evs); err != nil {
		logger.Warn("event publish failed", "aggregate_id", t.ID, "error", err.Error())
	}
}

// Provision creates a new tenant account.
func (h *Handlers) Provision(ctx context.Context, cmd ProvisionTenant) (any, error) {
	t, err := domain.NewTenant(uuid.New().String(), cmd.Name, cmd.Slug, cmd.PlanID, cmd.TrialDays, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	h.publish(ctx, t)
	return t, nil
}

// evict drops the cached resolution for slug. Any persisted mutation can
// alter the resolved snapshot (status, plan, display name), so every mutate
// evicts; eviction failure is logged, the cache entry then ages out on TTL.
func (h *Handlers) evict(ctx context.Context, slug string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, slug); err != nil {
		logger.Warn("tenant resolution evict failed", "slug", slug, "error", err.Error())
	}
}

// mutate loads a tenant, applies fn, and persists on success.
func (h *Handlers) mutate(ctx context.Context, id string, fn func(*domain.Tenant) error) (*domain.Tenant, error) {
	t, err := h.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(t); err != nil {
		return nil, err
	}
	if err := h.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	h.publish(ctx, t)
	h.evict(ctx, t.Slug)
	return t, nil
}

func (h *Handlers) ChangeStatus(ctx context.Context, cmd ChangeTenantStatus) (any, error) {
	return h.mutate(ctx, cmd.TenantID, func(t *domain.Tenant) error {
		return t.ChangeStatus(cmd.Status, cmd.Reason, h.clock.Now())
	})
}

func (h *Handlers) ChangePlan(ctx context.Context, cmd ChangeTenantPlan) (any, error) {
	return h.mutate(ctx, cmd.TenantID, func(t *domain.Tenant) error {
		return t.ChangePlan(cmd.PlanID, h.clock.Now())
	})
}

func (h *Handlers) ExtendTrial(ctx context.Context, cmd ExtendTenantTrial) (any, error) {
	return h.mutate(ctx, cmd.TenantID, func(t *domain.Tenant) error {
		return t.ExtendTrial(cmd.Days, h.clock.Now())
	})
}

func (h *Handlers) UpdateProfile(ctx context.Context, cmd UpdateTenantProfile) (any, error) {
	return h.mutate(ctx, cmd.TenantID, func(t *domain.Tenant) error {
		return t.UpdateProfile(cmd.Profile, h.clock.Now())
	})
}

func (h *Handlers) SetFeature(ctx context.Context, cmd SetTenantFeature) (any, error) {
	return h.mutate(ctx, cmd.TenantID, func(t *domain.Tenant) error {
		return t.SetFeature(cmd.Feature, cmd.Enabled, h.clock.Now())
	})
}

func (h *Handlers) UpdateSettings(ctx context.Context, cmd UpdateTenantSettings) (any, error) {
	return h.mutate(ctx, cmd.TenantID, func(t *domain.Tenant) error {
		t.UpdateSettings(cmd.Settings, h.clock.Now())
		return nil
	})
}

func (h *Handlers) SetLimits(ctx context.Context, cmd SetTenantLimits) (any, error) {
	return h.mutate(ctx, cmd.TenantID, func(t *domain.Tenant) error {
		return t.SetUsageLimits(cmd.Limits, h.clock.Now())
	})
}

// ExpireOverdueTrials moves every TRIAL tenant whose window has passed to
// EXPIRED. Called by the scheduler sweep, not the bus. Returns how many
// tenants were expired; the first persistence failure aborts the sweep.
func (h *Handlers) ExpireOverdueTrials(ctx context.Context) (int, error) {
	now := h.clock.Now()
	due, err := h.repo.ListTrialsEndingBefore(ctx, now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range due {
		t := &due[i]
		if !t.IsTrialExpired(now) {
			continue
		}
		if err := t.ChangeStatus(domain.TenantExpired, "trial window passed", now); err != nil {
			logger.Warn("trial expiry transition rejected", "tenant_id", t.ID, "error", err.Error())
			continue
		}
		if err := h.repo.Update(ctx, t); err != nil {
			return expired, err
		}
		h.publish(ctx, t)
		h.evict(ctx, t.Slug)
		expired++
	}
	return expired, nil
}

func (h *Handlers) Get(ctx context.Context, q GetTenant) (any, error) {
	return h.repo.Get(ctx, q.TenantID)
}

func (h *Handlers) GetBySlug(ctx context.Context, q GetTenantBySlug) (any, error) {
	return h.repo.GetBySlug(ctx, q.Slug)
}

func (h *Handlers) List(ctx context.Context, q ListTenants) (any, error) {
	items, total, err := h.repo.List(ctx, q.Filter, q.Page)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, q.Page), nil
}
