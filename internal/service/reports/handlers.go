package reports

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/cqrs"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/events"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/pkg/logger"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/tenant"
)

// Handlers owns the report command and query handlers.
type Handlers struct {
	repo  Repository
	gen   Generator
	store PayloadStore
	clock domain.Clock
	pub   events.Publisher
}

func NewHandlers(repo Repository, gen Generator, store PayloadStore, clock domain.Clock, pub events.Publisher) *Handlers {
	if pub == nil {
		pub = events.LogPublisher{}
	}
	return &Handlers{repo: repo, gen: gen, store: store, clock: clock, pub: pub}
}

// Register wires every report command and query onto the bus.
func (h *Handlers) Register(bus *cqrs.Bus) {
	bus.MustRegisterCommand(CmdRequestReport, cqrs.CommandFunc(h.Request))
	bus.MustRegisterCommand(CmdGenerateReport, cqrs.CommandFunc(h.Generate))
	bus.MustRegisterCommand(CmdSetReportSchedule, cqrs.CommandFunc(h.SetSchedule))
	bus.MustRegisterCommand(CmdDeleteReport, cqrs.CommandFunc(h.Delete))

	bus.MustRegisterQuery(QryGetReport, cqrs.QueryFunc(h.Get))
	bus.MustRegisterQuery(QryListReports, cqrs.QueryFunc(h.List))
	bus.MustRegisterQuery(QryReportPayload, cqrs.QueryFunc(h.Payload))
}

func (h *Handlers) publish(ctx context.Context, r *domain.Report) {
	evs := r.DrainEvents()
	if len(evs) == 0 {
		return
	}
	if err := h.pub.Publish(ctx, r.TenantID, r.ID, evs); err != nil {
		logger.Warn("event publish failed", "tenant_id", r.TenantID, "aggregate_id", r.ID, "error", err.Error())
	}
}

// Request creates a PENDING report for the current tenant.
func (h *Handlers) Request(ctx context.Context, cmd RequestReport) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	r, err := domain.NewReport(uuid.New().String(), tc.TenantID, cmd.Type, cmd.Filters, cmd.Format, cmd.Schedule, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Generate runs one generation pass for the tenant's report.
func (h *Handlers) Generate(ctx context.Context, cmd GenerateReport) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	r, err := h.repo.Get(ctx, tc.TenantID, cmd.ReportID)
	if err != nil {
		return nil, err
	}
	if err := h.run(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// run is the shared generation pass: claim the report, gather and encode the
// data, store the payload, and record the outcome. Claiming uses the status
// guard so two workers cannot run the same report at once.
func (h *Handlers) run(ctx context.Context, r *domain.Report) error {
	loadedStatus := r.Status
	if err := r.StartProcessing(h.clock.Now()); err != nil {
		return err
	}
	if err := h.repo.Update(ctx, r, loadedStatus); err != nil {
		return err
	}

	columns, rows, err := h.gen.Generate(ctx, r)
	if err == nil {
		var payload []byte
		payload, err = encodePayload(r.Format, columns, rows)
		if err == nil {
			var ref string
			ref, err = h.store.Put(ctx, r.TenantID, r.ID, payload)
			if err == nil {
				if mgErr := r.MarkGenerated(ref, h.clock.Now()); mgErr != nil {
					return mgErr
				}
				if upErr := h.repo.Update(ctx, r, domain.ReportProcessing); upErr != nil {
					return upErr
				}
				h.publish(ctx, r)
				logger.Info("report generated", "tenant_id", r.TenantID, "report_id", r.ID, "payload_ref", ref)
				return nil
			}
		}
	}

	if mfErr := r.MarkFailed(err.Error(), h.clock.Now()); mfErr != nil {
		return mfErr
	}
	if upErr := h.repo.Update(ctx, r, domain.ReportProcessing); upErr != nil {
		return upErr
	}
	logger.Warn("report generation failed", "tenant_id", r.TenantID, "report_id", r.ID, "error", err.Error())
	return nil
}

func (h *Handlers) SetSchedule(ctx context.Context, cmd SetReportSchedule) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	r, err := h.repo.Get(ctx, tc.TenantID, cmd.ReportID)
	if err != nil {
		return nil, err
	}
	if err := r.SetSchedule(cmd.Schedule, h.clock.Now()); err != nil {
		return nil, err
	}
	if err := h.repo.Update(ctx, r, ""); err != nil {
		return nil, err
	}
	return r, nil
}

func (h *Handlers) Delete(ctx context.Context, cmd DeleteReport) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	return nil, h.repo.Delete(ctx, tc.TenantID, cmd.ReportID)
}

func (h *Handlers) Get(ctx context.Context, q GetReport) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	return h.repo.Get(ctx, tc.TenantID, q.ReportID)
}

func (h *Handlers) List(ctx context.Context, q ListReports) (any, error) {
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

// Payload fetches the stored payload of a COMPLETED report.
func (h *Handlers) Payload(ctx context.Context, q GetReportPayload) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	r, err := h.repo.Get(ctx, tc.TenantID, q.ReportID)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.ReportCompleted || r.PayloadRef == "" {
		return nil, ErrNoPayload
	}
	data, err := h.store.Get(ctx, r.PayloadRef)
	if err != nil {
		return nil, err
	}
	return Payload{Format: r.Format, Data: data}, nil
}

// RunDue generates every report, across tenants, whose active schedule is
// due. Called by the scheduler sweep. Returns how many runs completed,
// counting failed runs as completed sweeps.
func (h *Handlers) RunDue(ctx context.Context) (int, error) {
	due, err := h.repo.ListDue(ctx, h.clock.Now())
	if err != nil {
		return 0, err
	}
	ran := 0
	for i := range due {
		r := &due[i]
		if err := h.run(ctx, r); err != nil {
			logger.Warn("scheduled report run skipped", "report_id", r.ID, "error", err.Error())
			continue
		}
		ran++
	}
	return ran, nil
}
