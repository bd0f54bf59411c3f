package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/tenants"
)

// Tenant administration endpoints. These are platform-operator routes: the
// tenant is always named explicitly in the path, never resolved from the
// request.

// HandleProvisionTenant creates a tenant account.
//
//	POST /admin/tenants
func (h *Handlers) HandleProvisionTenant(w http.ResponseWriter, r *http.Request) {
	var cmd tenants.ProvisionTenant
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	h.dispatch(w, r, cmd, http.StatusCreated)
}

// HandleGetTenant fetches one tenant by id.
//
//	GET /admin/tenants/{tenantID}
func (h *Handlers) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, tenants.GetTenant{TenantID: chi.URLParam(r, "tenantID")})
}

// HandleGetTenantBySlug fetches one tenant by slug, regardless of status.
//
//	GET /admin/tenants/slug/{slug}
func (h *Handlers) HandleGetTenantBySlug(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, tenants.GetTenantBySlug{Slug: chi.URLParam(r, "slug")})
}

// HandleListTenants pages through tenant accounts.
//
//	GET /admin/tenants?status=&plan_id=&search=&page=&limit=
func (h *Handlers) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.ask(w, r, tenants.ListTenants{
		Filter: tenants.ListFilter{
			Status: q.Get("status"),
			PlanID: q.Get("plan_id"),
			Search: q.Get("search"),
		},
		Page: pageFrom(r),
	})
}

// HandleChangeTenantStatus moves a tenant through its lifecycle.
//
//	POST /admin/tenants/{tenantID}/status
func (h *Handlers) HandleChangeTenantStatus(w http.ResponseWriter, r *http.Request) {
	var cmd tenants.ChangeTenantStatus
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.TenantID = chi.URLParam(r, "tenantID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleChangeTenantPlan switches the tenant's plan.
//
//	POST /admin/tenants/{tenantID}/plan
func (h *Handlers) HandleChangeTenantPlan(w http.ResponseWriter, r *http.Request) {
	var cmd tenants.ChangeTenantPlan
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.TenantID = chi.URLParam(r, "tenantID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleExtendTenantTrial pushes a trial window out.
//
//	POST /admin/tenants/{tenantID}/trial/extend
func (h *Handlers) HandleExtendTenantTrial(w http.ResponseWriter, r *http.Request) {
	var cmd tenants.ExtendTenantTrial
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.TenantID = chi.URLParam(r, "tenantID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleUpdateTenantProfile applies profile edits.
//
//	PUT /admin/tenants/{tenantID}/profile
func (h *Handlers) HandleUpdateTenantProfile(w http.ResponseWriter, r *http.Request) {
	var cmd tenants.UpdateTenantProfile
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.TenantID = chi.URLParam(r, "tenantID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleSetTenantFeature flips one feature flag.
//
//	PUT /admin/tenants/{tenantID}/features
func (h *Handlers) HandleSetTenantFeature(w http.ResponseWriter, r *http.Request) {
	var cmd tenants.SetTenantFeature
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.TenantID = chi.URLParam(r, "tenantID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleUpdateTenantSettings merges settings keys.
//
//	PUT /admin/tenants/{tenantID}/settings
func (h *Handlers) HandleUpdateTenantSettings(w http.ResponseWriter, r *http.Request) {
	var cmd tenants.UpdateTenantSettings
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.TenantID = chi.URLParam(r, "tenantID")
	h.dispatch(w, r, cmd, http.StatusOK)
}

// HandleSetTenantLimits replaces the usage caps.
//
//	PUT /admin/tenants/{tenantID}/limits
func (h *Handlers) HandleSetTenantLimits(w http.ResponseWriter, r *http.Request) {
	var cmd tenants.SetTenantLimits
	if err := decode(r, &cmd); err != nil {
		respondError(w, r, err)
		return
	}
	cmd.TenantID = chi.URLParam(r, "tenantID")
	h.dispatch(w, r, cmd, http.StatusOK)
}
