package tenants

import "github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"

// Query names.
const (
	QryGetTenant       = "tenants.get"
	QryGetTenantBySlug = "tenants.get_by_slug"
	QryListTenants     = "tenants.list"
)

// GetTenant fetches one tenant by id.
type GetTenant struct {
	TenantID string `json:"tenant_id"`
}

func (GetTenant) QueryName() string { return QryGetTenant }

// GetTenantBySlug fetches one tenant by slug, any status.
type GetTenantBySlug struct {
	Slug string `json:"slug"`
}

func (GetTenantBySlug) QueryName() string { return QryGetTenantBySlug }

// ListTenants pages through accounts, optionally filtered.
type ListTenants struct {
	Filter ListFilter         `json:"filter"`
	Page   domain.PageRequest `json:"page"`
}

func (ListTenants) QueryName() string { return QryListTenants }
