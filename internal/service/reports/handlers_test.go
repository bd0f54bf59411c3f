package reports_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/cqrs"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/reports"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/tenant"
)

// memRepo is an in-memory report repository for unit testing.
type memRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Report
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]*domain.Report)}
}

func (m *memRepo) Get(_ context.Context, tenantID, id string) (*domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok || r.TenantID != tenantID {
		return nil, reports.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, tenantID string, f reports.ListFilter, page domain.PageRequest) ([]domain.Report, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Report
	for _, r := range m.byID {
		if r.TenantID != tenantID {
			continue
		}
		if f.Status != "" && string(r.Status) != f.Status {
			continue
		}
		out = append(out, *r)
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

func (m *memRepo) Create(_ context.Context, r *domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.byID[cp.ID] = &cp
	return nil
}

func (m *memRepo) Update(_ context.Context, r *domain.Report, expectStatus domain.ReportStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[r.ID]
	if !ok || stored.TenantID != r.TenantID {
		return reports.ErrNotFound
	}
	if expectStatus != "" && stored.Status != expectStatus {
		return reports.ErrStaleState
	}
	cp := *r
	m.byID[cp.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok || r.TenantID != tenantID {
		return reports.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memRepo) ListDue(_ context.Context, now time.Time) ([]domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Report
	for _, r := range m.byID {
		if r.IsDue(now) {
			out = append(out, *r)
		}
	}
	return out, nil
}

// fakeGen serves canned tabular data, or an error.
type fakeGen struct {
	err  error
	runs int
}

func (g *fakeGen) Generate(_ context.Context, _ *domain.Report) ([]string, [][]any, error) {
	g.runs++
	if g.err != nil {
		return nil, nil, g.err
	}
	return []string{"service", "revenue"}, [][]any{
		{"manicure", 420.5},
		{"haircut", 1280},
	}, nil
}

// memStore keeps payloads in a map keyed by a synthetic ref.
type memStore struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	serial int
}

func newMemStore() *memStore { return &memStore{blobs: make(map[string][]byte)} }

func (s *memStore) Put(_ context.Context, tenantID, reportID string, payload []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serial++
	ref := fmt.Sprintf("mem://%s/%s/%d", tenantID, reportID, s.serial)
	s.blobs[ref] = payload
	return ref, nil
}

func (s *memStore) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[ref]
	if !ok {
		return nil, fmt.Errorf("no blob at %s", ref)
	}
	return b, nil
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

const testTenant = "ten-1"

func tenantCtx() context.Context {
	return tenant.With(context.Background(), &tenant.Context{TenantID: testTenant, Slug: "glow"})
}

func newHarness() (*reports.Handlers, *memRepo, *fakeGen, *memStore, *fixedClock, *cqrs.Bus) {
	repo := newMemRepo()
	gen := &fakeGen{}
	store := newMemStore()
	clock := &fixedClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	h := reports.NewHandlers(repo, gen, store, clock, nil)
	bus := cqrs.NewBus()
	h.Register(bus)
	return h, repo, gen, store, clock, bus
}

func salesRange(clock *fixedClock) domain.ReportFilters {
	return domain.ReportFilters{
		DateRange: &domain.DateRange{From: clock.now.AddDate(0, -1, 0), To: clock.now},
	}
}

func TestRequestAndGenerateJSON(t *testing.T) {
	_, _, _, _, clock, bus := newHarness()
	ctx := tenantCtx()

	res, err := bus.Dispatch(ctx, reports.RequestReport{
		Type: domain.ReportSales, Filters: salesRange(clock), Format: domain.FormatJSON,
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	r := res.(*domain.Report)
	if r.Status != domain.ReportPending {
		t.Fatalf("expected pending, got %s", r.Status)
	}

	res, err = bus.Dispatch(ctx, reports.GenerateReport{ReportID: r.ID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	done := res.(*domain.Report)
	if done.Status != domain.ReportCompleted || done.PayloadRef == "" || done.GeneratedAt == nil {
		t.Fatalf("report after run = %+v", done)
	}

	pl, err := bus.Ask(ctx, reports.GetReportPayload{ReportID: r.ID})
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	payload := pl.(reports.Payload)
	var rows []map[string]any
	if err := json.Unmarshal(payload.Data, &rows); err != nil {
		t.Fatalf("payload not json: %v", err)
	}
	if len(rows) != 2 || rows[0]["service"] != "manicure" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestGenerateCSV(t *testing.T) {
	_, _, _, store, clock, bus := newHarness()
	ctx := tenantCtx()

	res, _ := bus.Dispatch(ctx, reports.RequestReport{
		Type: domain.ReportSales, Filters: salesRange(clock), Format: domain.FormatCSV,
	})
	r := res.(*domain.Report)
	if _, err := bus.Dispatch(ctx, reports.GenerateReport{ReportID: r.ID}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, _ := bus.Ask(ctx, reports.GetReport{ReportID: r.ID})
	ref := got.(*domain.Report).PayloadRef
	data, err := store.Get(context.Background(), ref)
	if err != nil {
		t.Fatalf("blob: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || lines[0] != "service,revenue" {
		t.Fatalf("csv = %q", string(data))
	}
}

func TestGenerateGatingByFilters(t *testing.T) {
	_, _, gen, _, _, bus := newHarness()
	ctx := tenantCtx()

	// Sales without a date range is created fine but cannot run.
	res, err := bus.Dispatch(ctx, reports.RequestReport{
		Type: domain.ReportSales, Format: domain.FormatJSON,
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	r := res.(*domain.Report)
	_, err = bus.Dispatch(ctx, reports.GenerateReport{ReportID: r.ID})
	if !domain.IsInvariant(err) {
		t.Fatalf("expected invariant error, got %v", err)
	}
	if gen.runs != 0 {
		t.Fatal("generator must not run when gating fails")
	}
}

func TestGenerateFailureMarksFailed(t *testing.T) {
	_, _, gen, _, clock, bus := newHarness()
	ctx := tenantCtx()
	gen.err = errors.New("warehouse offline")

	res, _ := bus.Dispatch(ctx, reports.RequestReport{
		Type: domain.ReportSales, Filters: salesRange(clock), Format: domain.FormatJSON,
	})
	r := res.(*domain.Report)
	if _, err := bus.Dispatch(ctx, reports.GenerateReport{ReportID: r.ID}); err != nil {
		t.Fatalf("generate returned transport error: %v", err)
	}

	got, _ := bus.Ask(ctx, reports.GetReport{ReportID: r.ID})
	failed := got.(*domain.Report)
	if failed.Status != domain.ReportFailed || failed.FailureReason != "warehouse offline" {
		t.Fatalf("after failure = %s %q", failed.Status, failed.FailureReason)
	}

	// Retry succeeds and clears the failure.
	gen.err = nil
	if _, err := bus.Dispatch(ctx, reports.GenerateReport{ReportID: r.ID}); err != nil {
		t.Fatalf("retry: %v", err)
	}
	got, _ = bus.Ask(ctx, reports.GetReport{ReportID: r.ID})
	if got.(*domain.Report).Status != domain.ReportCompleted {
		t.Fatalf("retry status = %s", got.(*domain.Report).Status)
	}
	if got.(*domain.Report).FailureReason != "" {
		t.Fatal("failure reason must be cleared on retry")
	}
}

func TestPDFRunFails(t *testing.T) {
	_, _, _, _, clock, bus := newHarness()
	ctx := tenantCtx()

	res, _ := bus.Dispatch(ctx, reports.RequestReport{
		Type: domain.ReportSales, Filters: salesRange(clock), Format: domain.FormatPDF,
	})
	r := res.(*domain.Report)
	bus.Dispatch(ctx, reports.GenerateReport{ReportID: r.ID})

	got, _ := bus.Ask(ctx, reports.GetReport{ReportID: r.ID})
	failed := got.(*domain.Report)
	if failed.Status != domain.ReportFailed || !strings.Contains(failed.FailureReason, "pdf") {
		t.Fatalf("after pdf run = %s %q", failed.Status, failed.FailureReason)
	}
}

func TestScheduledRunAdvances(t *testing.T) {
	h, repo, _, _, clock, bus := newHarness()
	ctx := tenantCtx()

	res, err := bus.Dispatch(ctx, reports.RequestReport{
		Type: domain.ReportClients, Format: domain.FormatJSON,
		Schedule: &domain.ReportSchedule{Frequency: domain.FreqDaily, IsActive: true},
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	r := res.(*domain.Report)

	n, err := h.RunDue(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("sweep: n=%d err=%v", n, err)
	}

	got, _ := repo.Get(context.Background(), testTenant, r.ID)
	if got.Status != domain.ReportCompleted {
		t.Fatalf("status = %s", got.Status)
	}
	wantNext := clock.now.AddDate(0, 0, 1)
	if got.Schedule.NextRunAt == nil || !got.Schedule.NextRunAt.Equal(wantNext) {
		t.Fatalf("next run = %v, want %v", got.Schedule.NextRunAt, wantNext)
	}

	// Nothing due until tomorrow.
	n, _ = h.RunDue(context.Background())
	if n != 0 {
		t.Fatalf("second sweep ran %d", n)
	}

	clock.now = wantNext.Add(time.Minute)
	n, _ = h.RunDue(context.Background())
	if n != 1 {
		t.Fatalf("next-day sweep ran %d", n)
	}
}

func TestOnceScheduleDeactivates(t *testing.T) {
	h, repo, _, _, _, bus := newHarness()
	ctx := tenantCtx()

	res, _ := bus.Dispatch(ctx, reports.RequestReport{
		Type: domain.ReportInventory, Format: domain.FormatJSON,
		Schedule: &domain.ReportSchedule{Frequency: domain.FreqOnce, IsActive: true},
	})
	r := res.(*domain.Report)

	if n, _ := h.RunDue(context.Background()); n != 1 {
		t.Fatal("once schedule did not run")
	}
	got, _ := repo.Get(context.Background(), testTenant, r.ID)
	if got.Schedule.IsActive {
		t.Fatal("once schedule must deactivate after its run")
	}
}

func TestPayloadBeforeGeneration(t *testing.T) {
	_, _, _, _, clock, bus := newHarness()
	ctx := tenantCtx()

	res, _ := bus.Dispatch(ctx, reports.RequestReport{
		Type: domain.ReportSales, Filters: salesRange(clock), Format: domain.FormatJSON,
	})
	r := res.(*domain.Report)

	_, err := bus.Ask(ctx, reports.GetReportPayload{ReportID: r.ID})
	if !errors.Is(err, reports.ErrNoPayload) {
		t.Fatalf("expected ErrNoPayload, got %v", err)
	}
}

func TestTenantIsolation(t *testing.T) {
	_, _, _, _, clock, bus := newHarness()

	res, _ := bus.Dispatch(tenantCtx(), reports.RequestReport{
		Type: domain.ReportSales, Filters: salesRange(clock), Format: domain.FormatJSON,
	})
	r := res.(*domain.Report)

	other := tenant.With(context.Background(), &tenant.Context{TenantID: "ten-2", Slug: "rival"})
	_, err := bus.Ask(other, reports.GetReport{ReportID: r.ID})
	if !errors.Is(err, reports.ErrNotFound) {
		t.Fatalf("cross-tenant read must be not found, got %v", err)
	}
}
