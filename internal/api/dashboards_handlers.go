package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/dashboards"
)

// Dashboard endpoints, tenant-scoped.

// HandleCreateDashboard creates an empty dashboard.
//
//	POST /api/dashboards
func (h *Handlers) HandleCreateDashboard(w http.ResponseWriter, r *http.Request) {
	var cmd dashboards.CreateDashboard
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	h.dispatch(w, r, cmd, http.StatusCreated)
}

// HandleGetDashboard fetches one dashboard with its widgets.
//
//	GET /api/dashboards/{dashboardID}
func (h *Handlers) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, dashboards.GetDashboard{DashboardID: chi.URLParam(r, "dashboardID")})
}

// HandleListDashboards pages through the tenant's dashboards.
//
//	GET /api/dashboards?page=&limit=
func (h *Handlers) HandleListDashboards(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, dashboards.ListDashboards{Page: pageFrom(r)})
}

// HandleRenameDashboard changes the display name.
//
//	PUT /api/dashboards/{dashboardID}
func (h *Handlers) HandleRenameDashboard(w http.ResponseWriter, r *http.Request) {
	var cmd dashboards.RenameDashboard
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.DashboardID = chi.URLParam(r, "dashboardID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleDeleteDashboard removes a dashboard and its widgets.
//
//	DELETE /api/dashboards/{dashboardID}
func (h *Handlers) HandleDeleteDashboard(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, dashboards.DeleteDashboard{DashboardID: chi.URLParam(r, "dashboardID")}, http.StatusOK)
}

// HandleAddWidget appends a widget to the dashboard grid.
//
//	POST /api/dashboards/{dashboardID}/widgets
func (h *Handlers) HandleAddWidget(w http.ResponseWriter, r *http.Request) {
	var cmd dashboards.AddWidget
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.DashboardID = chi.URLParam(r, "dashboardID")
	h.dispatch(w, r, cmd, http.StatusCreated)
}

// HandleUpdateWidget replaces a widget in place.
//
//	PUT /api/dashboards/{dashboardID}/widgets/{widgetID}
func (h *Handlers) HandleUpdateWidget(w http.ResponseWriter, r *http.Request) {
	var cmd dashboards.UpdateWidget
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.DashboardID = chi.URLParam(r, "dashboardID")
	cmd.Widget.ID = chi.URLParam(r, "widgetID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleRemoveWidget deletes one widget.
//
//	DELETE /api/dashboards/{dashboardID}/widgets/{widgetID}
func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, dashboards.RemoveWidget{
		DashboardID: chi.URLParam(r, "dashboardID"),
		WidgetID:    chi.URLParam(r, "widgetID"),
	}, http.StatusOK)
}

// HandleReorderWidgets rearranges the widget list.
//
//	POST /api/dashboards/{dashboardID}/widgets/reorder
func (h *Handlers) HandleReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var cmd dashboards.ReorderWidgets
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.DashboardID = chi.URLParam(r, "dashboardID")
	h.dispatch(w, r, cmd, http.StatusOK)
}
