package dashboards

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/cqrs"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/tenant"
)

// Handlers owns the dashboard command and query handlers. Dashboards queue
// no domain events, so there is no publisher here.
type Handlers struct {
	repo  Repository
	clock domain.Clock
}

func NewHandlers(repo Repository, clock domain.Clock) *Handlers {
	return &Handlers{repo: repo, clock: clock}
}

// Register wires every dashboard command and query onto the bus.
func (h *Handlers) Register(bus *cqrs.Bus) {
	bus.MustRegisterCommand(CmdCreateDashboard, cqrs.CommandFunc(h.Create))
	bus.MustRegisterCommand(CmdRenameDashboard, cqrs.CommandFunc(h.Rename))
	bus.MustRegisterCommand(CmdDeleteDashboard, cqrs.CommandFunc(h.Delete))
	bus.MustRegisterCommand(CmdAddWidget, cqrs.CommandFunc(h.AddWidget))
	bus.MustRegisterCommand(CmdUpdateWidget, cqrs.CommandFunc(h.UpdateWidget))
	bus.MustRegisterCommand(CmdRemoveWidget, cqrs.CommandFunc(h.RemoveWidget))
	bus.MustRegisterCommand(CmdReorderWidgets, cqrs.CommandFunc(h.Reorder))

	bus.MustRegisterQuery(QryGetDashboard, cqrs.QueryFunc(h.Get))
	bus.MustRegisterQuery(QryListDashboards, cqrs.QueryFunc(h.List))
}

// Create creates an empty dashboard for the current tenant.
func (h *Handlers) Create(ctx context.Context, cmd CreateDashboard) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	d, err := domain.NewDashboard(uuid.New().String(), tc.TenantID, cmd.Name, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// mutate loads the tenant's dashboard, applies fn, and persists on success.
func (h *Handlers) mutate(ctx context.Context, dashboardID string, fn func(*domain.Dashboard) error) (*domain.Dashboard, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	d, err := h.repo.Get(ctx, tc.TenantID, dashboardID)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := h.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (h *Handlers) Rename(ctx context.Context, cmd RenameDashboard) (any, error) {
	return h.mutate(ctx, cmd.DashboardID, func(d *domain.Dashboard) error {
		return d.Rename(cmd.Name, h.clock.Now())
	})
}

func (h *Handlers) Delete(ctx context.Context, cmd DeleteDashboard) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	return nil, h.repo.Delete(ctx, tc.TenantID, cmd.DashboardID)
}

func (h *Handlers) AddWidget(ctx context.Context, cmd AddWidget) (any, error) {
	return h.mutate(ctx, cmd.DashboardID, func(d *domain.Dashboard) error {
		return d.AddWidget(cmd.Widget, h.clock.Now())
	})
}

func (h *Handlers) UpdateWidget(ctx context.Context, cmd UpdateWidget) (any, error) {
	return h.mutate(ctx, cmd.DashboardID, func(d *domain.Dashboard) error {
		return d.UpdateWidget(cmd.Widget, h.clock.Now())
	})
}

func (h *Handlers) RemoveWidget(ctx context.Context, cmd RemoveWidget) (any, error) {
	return h.mutate(ctx, cmd.DashboardID, func(d *domain.Dashboard) error {
		return d.RemoveWidget(cmd.WidgetID, h.clock.Now())
	})
}

func (h *Handlers) Reorder(ctx context.Context, cmd ReorderWidgets) (any, error) {
	return h.mutate(ctx, cmd.DashboardID, func(d *domain.Dashboard) error {
		return d.ReorderWidgets(cmd.WidgetIDs, h.clock.Now())
	})
}

func (h *Handlers) Get(ctx context.Context, q GetDashboard) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	return h.repo.Get(ctx, tc.TenantID, q.DashboardID)
}

func (h *Handlers) List(ctx context.Context, q ListDashboards) (any, error) {
	tc, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	items, total, err := h.repo.List(ctx, tc.TenantID, q.Page)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, q.Page), nil
}
