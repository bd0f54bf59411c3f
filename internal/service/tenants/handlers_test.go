package tenants_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/cqrs"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/tenants"
)

// memRepo is an in-memory tenant repository for unit testing.
type memRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Tenant
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]*domain.Tenant)}
}

func (m *memRepo) Get(_ context.Context, id string) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok {
		return nil, tenants.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memRepo) GetBySlug(_ context.Context, slug string) (*domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.byID {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, tenants.ErrNotFound
}

func (m *memRepo) List(_ context.Context, f tenants.ListFilter, page domain.PageRequest) ([]domain.Tenant, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Tenant
	for _, t := range m.byID {
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		out = append(out, *t)
	}
	total := len(out)
	n := page.Normalize()
	off := n.Offset()
	if off >= len(out) {
		return nil, total, nil
	}
	end := off + n.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[off:end], total, nil
}

func (m *memRepo) Create(_ context.Context, t *domain.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Slug == t.Slug {
			return tenants.ErrSlugTaken
		}
	}
	cp := *t
	m.byID[cp.ID] = &cp
	return nil
}

func (m *memRepo) Update(_ context.Context, t *domain.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[t.ID]; !ok {
		return tenants.ErrNotFound
	}
	cp := *t
	m.byID[cp.ID] = &cp
	return nil
}

func (m *memRepo) ListTrialsEndingBefore(_ context.Context, cutoff time.Time) ([]domain.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Tenant
	for _, t := range m.byID {
		if t.Status == domain.TenantTrial && t.TrialEndsAt != nil && !t.TrialEndsAt.After(cutoff) {
			out = append(out, *t)
		}
	}
	return out, nil
}

// fixedClock returns a settable instant.
type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

// capturingPublisher records every published event batch.
type capturingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *capturingPublisher) Publish(_ context.Context, _, _ string, evs []domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	return nil
}

// capturingCache records resolution evictions.
type capturingCache struct {
	mu      sync.Mutex
	evicted []string
}

func (c *capturingCache) Invalidate(_ context.Context, slug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evicted = append(c.evicted, slug)
	return nil
}

func newHarness() (*tenants.Handlers, *memRepo, *fixedClock, *capturingPublisher, *cqrs.Bus) {
	repo := newMemRepo()
	clock := &fixedClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	pub := &capturingPublisher{}
	h := tenants.NewHandlers(repo, clock, pub)
	bus := cqrs.NewBus()
	h.Register(bus)
	return h, repo, clock, pub, bus
}

func TestProvisionTrialTenant(t *testing.T) {
	_, _, clock, pub, bus := newHarness()

	res, err := bus.Dispatch(context.Background(), tenants.ProvisionTenant{
		Name: "Glow Studio", Slug: "glow-studio", PlanID: "plan-basic", TrialDays: 14,
	})
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	ten := res.(*domain.Tenant)
	if ten.Status != domain.TenantTrial {
		t.Fatalf("expected trial, got %s", ten.Status)
	}
	want := clock.now.AddDate(0, 0, 14)
	if ten.TrialEndsAt == nil || !ten.TrialEndsAt.Equal(want) {
		t.Fatalf("trial end = %v, want %v", ten.TrialEndsAt, want)
	}
	if len(pub.events) != 1 || pub.events[0].EventName() != "tenant.created" {
		t.Fatalf("expected tenant.created published, got %+v", pub.events)
	}
	if len(ten.PendingEvents()) != 0 {
		t.Fatal("events must be drained after publish")
	}
}

func TestProvisionDuplicateSlug(t *testing.T) {
	_, _, _, _, bus := newHarness()

	cmd := tenants.ProvisionTenant{Name: "A", Slug: "glow", PlanID: "p1"}
	if _, err := bus.Dispatch(context.Background(), cmd); err != nil {
		t.Fatalf("first provision: %v", err)
	}
	cmd.Name = "B"
	_, err := bus.Dispatch(context.Background(), cmd)
	if !errors.Is(err, tenants.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestChangeStatusLifecycle(t *testing.T) {
	_, repo, _, pub, bus := newHarness()

	res, _ := bus.Dispatch(context.Background(), tenants.ProvisionTenant{
		Name: "Glow", Slug: "glow", PlanID: "p1", TrialDays: 7,
	})
	id := res.(*domain.Tenant).ID

	if _, err := bus.Dispatch(context.Background(), tenants.ChangeTenantStatus{
		TenantID: id, Status: domain.TenantActive, Reason: "card on file",
	}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	got, _ := repo.Get(context.Background(), id)
	if got.Status != domain.TenantActive || !got.IsActive {
		t.Fatalf("expected active tenant, got %s (is_active=%v)", got.Status, got.IsActive)
	}

	// TRIAL cannot follow SUSPENDED back; pick an illegal jump and confirm
	// nothing is persisted.
	_, err := bus.Dispatch(context.Background(), tenants.ChangeTenantStatus{
		TenantID: id, Status: domain.TenantStatus("bogus"),
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, _ = repo.Get(context.Background(), id)
	if got.Status != domain.TenantActive {
		t.Fatalf("rejected transition must not persist, got %s", got.Status)
	}

	var statusEvents int
	for _, ev := range pub.events {
		if ev.EventName() == "tenant.status_changed" {
			statusEvents++
		}
	}
	if statusEvents != 1 {
		t.Fatalf("expected exactly one status_changed event, got %d", statusEvents)
	}
}

func TestChangeStatusNotFound(t *testing.T) {
	_, _, _, _, bus := newHarness()
	_, err := bus.Dispatch(context.Background(), tenants.ChangeTenantStatus{
		TenantID: "missing", Status: domain.TenantActive,
	})
	if !errors.Is(err, tenants.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExpireOverdueTrials(t *testing.T) {
	h, repo, clock, pub, bus := newHarness()

	res, _ := bus.Dispatch(context.Background(), tenants.ProvisionTenant{
		Name: "Glow", Slug: "glow", PlanID: "p1", TrialDays: 7,
	})
	id := res.(*domain.Tenant).ID
	bus.Dispatch(context.Background(), tenants.ProvisionTenant{
		Name: "Other", Slug: "other", PlanID: "p1", TrialDays: 30,
	})

	clock.now = clock.now.AddDate(0, 0, 8)
	n, err := h.ExpireOverdueTrials(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expiry, got %d", n)
	}
	got, _ := repo.Get(context.Background(), id)
	if got.Status != domain.TenantExpired {
		t.Fatalf("expected expired, got %s", got.Status)
	}

	last := pub.events[len(pub.events)-1]
	sc, ok := last.(domain.TenantStatusChanged)
	if !ok || sc.New != domain.TenantExpired {
		t.Fatalf("expected status_changed to expired, got %+v", last)
	}
}

func TestUpdateSettingsAndFeatures(t *testing.T) {
	_, repo, _, _, bus := newHarness()

	res, _ := bus.Dispatch(context.Background(), tenants.ProvisionTenant{
		Name: "Glow", Slug: "glow", PlanID: "p1",
	})
	id := res.(*domain.Tenant).ID

	bus.Dispatch(context.Background(), tenants.SetTenantFeature{TenantID: id, Feature: "online_booking", Enabled: true})
	bus.Dispatch(context.Background(), tenants.UpdateTenantSettings{TenantID: id, Settings: map[string]string{
		"booking_window": "30d",
		"reminders":      "on",
	}})
	bus.Dispatch(context.Background(), tenants.UpdateTenantSettings{TenantID: id, Settings: map[string]string{
		"reminders": "",
	}})

	got, _ := repo.Get(context.Background(), id)
	if !got.HasFeature("online_booking") {
		t.Fatal("feature not enabled")
	}
	if got.Settings["booking_window"] != "30d" {
		t.Fatalf("settings = %+v", got.Settings)
	}
	if _, ok := got.Settings["reminders"]; ok {
		t.Fatal("empty value must delete the key")
	}
}

func TestMutationsEvictCachedResolution(t *testing.T) {
	h, _, _, _, bus := newHarness()
	cache := &capturingCache{}
	h.WithResolutionCache(cache)

	res, _ := bus.Dispatch(context.Background(), tenants.ProvisionTenant{
		Name: "Glow", Slug: "glow-studio", PlanID: "p1", TrialDays: 7,
	})
	id := res.(*domain.Tenant).ID

	if _, err := bus.Dispatch(context.Background(), tenants.ChangeTenantStatus{
		TenantID: id, Status: domain.TenantActive,
	}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(cache.evicted) != 1 || cache.evicted[0] != "glow-studio" {
		t.Fatalf("status change must evict the cached resolution, got %v", cache.evicted)
	}

	if _, err := bus.Dispatch(context.Background(), tenants.ChangeTenantPlan{
		TenantID: id, PlanID: "p2",
	}); err != nil {
		t.Fatalf("change plan: %v", err)
	}
	if len(cache.evicted) != 2 {
		t.Fatalf("plan change must evict the cached resolution, got %v", cache.evicted)
	}

	// a rejected transition persists nothing and must not evict
	before := len(cache.evicted)
	bus.Dispatch(context.Background(), tenants.ChangeTenantStatus{
		TenantID: id, Status: domain.TenantStatus("bogus"),
	})
	if len(cache.evicted) != before {
		t.Fatalf("rejected transition must not evict, got %v", cache.evicted)
	}
}

func TestExpirySweepEvictsCachedResolution(t *testing.T) {
	h, _, clock, _, bus := newHarness()
	cache := &capturingCache{}
	h.WithResolutionCache(cache)

	bus.Dispatch(context.Background(), tenants.ProvisionTenant{
		Name: "Glow", Slug: "glow-studio", PlanID: "p1", TrialDays: 7,
	})

	clock.now = clock.now.AddDate(0, 0, 8)
	if _, err := h.ExpireOverdueTrials(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(cache.evicted) != 1 || cache.evicted[0] != "glow-studio" {
		t.Fatalf("expiry must evict the cached resolution, got %v", cache.evicted)
	}
}

func TestListTenantsPaged(t *testing.T) {
	_, _, _, _, bus := newHarness()

	for _, slug := range []string{"a", "b", "c"} {
		if _, err := bus.Dispatch(context.Background(), tenants.ProvisionTenant{
			Name: "Salon " + slug, Slug: slug, PlanID: "p1",
		}); err != nil {
			t.Fatalf("provision %s: %v", slug, err)
		}
	}

	res, err := bus.Ask(context.Background(), tenants.ListTenants{
		Page: domain.PageRequest{Page: 1, Limit: 2},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	page := res.(domain.Page[domain.Tenant])
	if page.Total != 3 || len(page.Items) != 2 || page.TotalPages != 2 {
		t.Fatalf("page = total %d items %d pages %d", page.Total, len(page.Items), page.TotalPages)
	}
}
