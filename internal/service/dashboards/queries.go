package dashboards

import "github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"

// Query names.
const (
	QryGetDashboard   = "dashboards.get"
	QryListDashboards = "dashboards.list"
)

// GetDashboard fetches one dashboard with its widgets.
type GetDashboard struct {
	DashboardID string `json:"dashboard_id"`
}

func (GetDashboard) QueryName() string { return QryGetDashboard }

// ListDashboards pages through the tenant's dashboards.
type ListDashboards struct {
	Page domain.PageRequest `json:"page"`
}

func (ListDashboards) QueryName() string { return QryListDashboards }
