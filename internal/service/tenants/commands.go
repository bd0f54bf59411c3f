package tenants

import "github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"

// Command names, used as dispatch keys and in logs.
const (
	CmdProvisionTenant      = "tenants.provision"
	CmdChangeTenantStatus   = "tenants.change_status"
	CmdChangeTenantPlan     = "tenants.change_plan"
	CmdExtendTenantTrial    = "tenants.extend_trial"
	CmdUpdateTenantProfile  = "tenants.update_profile"
	CmdSetTenantFeature     = "tenants.set_feature"
	CmdUpdateTenantSettings = "tenants.update_settings"
	CmdSetTenantLimits      = "tenants.set_limits"
)

// ProvisionTenant creates a new tenant account. A positive TrialDays starts
// the account in TRIAL.
type ProvisionTenant struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PlanID    string `json:"plan_id"`
	TrialDays int    `json:"trial_days"`
}

func (ProvisionTenant) CommandName() string { return CmdProvisionTenant }

// ChangeTenantStatus moves a tenant through its lifecycle.
type ChangeTenantStatus struct {
	TenantID string              `json:"tenant_id"`
	Status   domain.TenantStatus `json:"status"`
	Reason   string              `json:"reason"`
}

func (ChangeTenantStatus) CommandName() string { return CmdChangeTenantStatus }

// ChangeTenantPlan switches the tenant to a different plan.
type ChangeTenantPlan struct {
	TenantID string `json:"tenant_id"`
	PlanID   string `json:"plan_id"`
}

func (ChangeTenantPlan) CommandName() string { return CmdChangeTenantPlan }

// ExtendTenantTrial pushes a trial window out by Days.
type ExtendTenantTrial struct {
	TenantID string `json:"tenant_id"`
	Days     int    `json:"days"`
}

func (ExtendTenantTrial) CommandName() string { return CmdExtendTenantTrial }

// UpdateTenantProfile applies the non-nil profile fields.
type UpdateTenantProfile struct {
	TenantID string               `json:"tenant_id"`
	Profile  domain.TenantProfile `json:"profile"`
}

func (UpdateTenantProfile) CommandName() string { return CmdUpdateTenantProfile }

// SetTenantFeature flips one feature flag.
type SetTenantFeature struct {
	TenantID string `json:"tenant_id"`
	Feature  string `json:"feature"`
	Enabled  bool   `json:"enabled"`
}

func (SetTenantFeature) CommandName() string { return CmdSetTenantFeature }

// UpdateTenantSettings merges keys into the settings map; empty values
// delete their key.
type UpdateTenantSettings struct {
	TenantID string            `json:"tenant_id"`
	Settings map[string]string `json:"settings"`
}

func (UpdateTenantSettings) CommandName() string { return CmdUpdateTenantSettings }

// SetTenantLimits replaces the plan usage caps.
type SetTenantLimits struct {
	TenantID string             `json:"tenant_id"`
	Limits   domain.UsageLimits `json:"limits"`
}

func (SetTenantLimits) CommandName() string { return CmdSetTenantLimits }
