package dashboards

import "github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"

// Command names.
const (
	CmdCreateDashboard = "dashboards.create"
	CmdRenameDashboard = "dashboards.rename"
	CmdDeleteDashboard = "dashboards.delete"
	CmdAddWidget       = "dashboards.add_widget"
	CmdUpdateWidget    = "dashboards.update_widget"
	CmdRemoveWidget    = "dashboards.remove_widget"
	CmdReorderWidgets  = "dashboards.reorder_widgets"
)

// CreateDashboard creates an empty dashboard for the current tenant.
type CreateDashboard struct {
	Name string `json:"name"`
}

func (CreateDashboard) CommandName() string { return CmdCreateDashboard }

// RenameDashboard changes the display name.
type RenameDashboard struct {
	DashboardID string `json:"dashboard_id"`
	Name        string `json:"name"`
}

func (RenameDashboard) CommandName() string { return CmdRenameDashboard }

// DeleteDashboard removes a dashboard and its widgets.
type DeleteDashboard struct {
	DashboardID string `json:"dashboard_id"`
}

func (DeleteDashboard) CommandName() string { return CmdDeleteDashboard }

// AddWidget appends a widget; its rectangle must not overlap any existing
// widget.
type AddWidget struct {
	DashboardID string        `json:"dashboard_id"`
	Widget      domain.Widget `json:"widget"`
}

func (AddWidget) CommandName() string { return CmdAddWidget }

// UpdateWidget replaces a widget in place.
type UpdateWidget struct {
	DashboardID string        `json:"dashboard_id"`
	Widget      domain.Widget `json:"widget"`
}

func (UpdateWidget) CommandName() string { return CmdUpdateWidget }

// RemoveWidget deletes one widget by id.
type RemoveWidget struct {
	DashboardID string `json:"dashboard_id"`
	WidgetID    string `json:"widget_id"`
}

func (RemoveWidget) CommandName() string { return CmdRemoveWidget }

// ReorderWidgets rearranges the widget list; the ids must be an exact
// permutation of the current set.
type ReorderWidgets struct {
	DashboardID string   `json:"dashboard_id"`
	WidgetIDs   []string `json:"widget_ids"`
}

func (ReorderWidgets) CommandName() string { return CmdReorderWidgets }
