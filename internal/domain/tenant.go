package domain

import (
	"regexp"
	"strings"
	"time"
)

// TenantStatus enumerates the lifecycle states of a tenant account.
type TenantStatus string

const (
	TenantTrial     TenantStatus = "trial"
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
	TenantCancelled TenantStatus = "cancelled"
	TenantExpired   TenantStatus = "expired"
)

// tenantTransitions is the legal status graph: TRIAL and ACTIVE convert both
// ways, ACTIVE and SUSPENDED convert both ways, and any non-terminal state
// may move to CANCELLED or EXPIRED. CANCELLED and EXPIRED are terminal.
var tenantTransitions = map[TenantStatus][]TenantStatus{
	TenantTrial:     {TenantActive, TenantCancelled, TenantExpired},
	TenantActive:    {TenantTrial, TenantSuspended, TenantCancelled, TenantExpired},
	TenantSuspended: {TenantActive, TenantCancelled, TenantExpired},
	TenantCancelled: {},
	TenantExpired:   {},
}

var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// UsageLimits caps what a tenant's plan allows it to create.
type UsageLimits struct {
	MaxUsers     int `json:"max_users" db:"max_users"`
	MaxClients   int `json:"max_clients" db:"max_clients"`
	MaxLocations int `json:"max_locations" db:"max_locations"`
}

// TenantProfile holds the mutable contact/locale fields. Nil pointers are
// not applied on update.
type TenantProfile struct {
	Name         *string
	ContactEmail *string
	ContactPhone *string
	Timezone     *string
	Locale       *string
}

// Tenant is an isolated customer account (a salon). All business data in the
// system is scoped to exactly one tenant. Tenants are never physically
// deleted; retirement is expressed through status.
type Tenant struct {
	Entity
	Name         string       `json:"name" db:"name"`
	Slug         string       `json:"slug" db:"slug"`
	ContactEmail string       `json:"contact_email" db:"contact_email"`
	ContactPhone string       `json:"contact_phone" db:"contact_phone"`
	Timezone     string       `json:"timezone" db:"timezone"`
	Locale       string       `json:"locale" db:"locale"`
	Status       TenantStatus `json:"status" db:"status"`
	// IsActive is derived: true iff Status == TenantActive. It is recomputed
	// on every status transition and never set independently.
	IsActive           bool              `json:"is_active" db:"is_active"`
	PlanID             string            `json:"plan_id" db:"plan_id"`
	TrialEndsAt        *time.Time        `json:"trial_ends_at" db:"trial_ends_at"`
	SubscriptionEndsAt *time.Time        `json:"subscription_ends_at" db:"subscription_ends_at"`
	Limits             UsageLimits       `json:"limits"`
	Features           []string          `json:"features"`
	Settings           map[string]string `json:"settings"`
}

// TenantCreated is queued once by NewTenant.
type TenantCreated struct {
	TenantID string
	Slug     string
	PlanID   string
	At       time.Time
}

func (e TenantCreated) EventName() string     { return "tenant.created" }
func (e TenantCreated) OccurredAt() time.Time { return e.At }

// TenantStatusChanged is queued on every effective status transition.
type TenantStatusChanged struct {
	TenantID string
	Old      TenantStatus
	New      TenantStatus
	Reason   string
	At       time.Time
}

func (e TenantStatusChanged) EventName() string     { return "tenant.status_changed" }
func (e TenantStatusChanged) OccurredAt() time.Time { return e.At }

// TenantPlanChanged is queued when a tenant moves to a different plan.
type TenantPlanChanged struct {
	TenantID string
	OldPlan  string
	NewPlan  string
	At       time.Time
}

func (e TenantPlanChanged) EventName() string     { return "tenant.plan_changed" }
func (e TenantPlanChanged) OccurredAt() time.Time { return e.At }

// NewTenant creates a tenant account. A positive trialDays starts the tenant
// in TRIAL with a trial window; otherwise it starts ACTIVE.
func NewTenant(id, name, slug, planID string, trialDays int, now time.Time) (*Tenant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalid("name", "must not be empty")
	}
	if !slugRe.MatchString(slug) {
		return nil, invalid("slug", "must be lowercase letters, digits, and hyphens")
	}
	if planID == "" {
		return nil, invalid("planId", "must not be empty")
	}
	if trialDays < 0 {
		return nil, invalid("trialDays", "must not be negative")
	}

	t := &Tenant{
		Entity:   NewEntity(id, now),
		Name:     name,
		Slug:     slug,
		Status:   TenantActive,
		PlanID:   planID,
		Timezone: "UTC",
		Locale:   "en",
		Settings: map[string]string{},
	}
	if trialDays > 0 {
		t.Status = TenantTrial
		end := now.AddDate(0, 0, trialDays)
		t.TrialEndsAt = &end
	}
	t.IsActive = t.Status == TenantActive
	t.Record(TenantCreated{TenantID: id, Slug: slug, PlanID: planID, At: now})
	return t, nil
}

// ChangeStatus moves the tenant through its lifecycle. A no-op transition
// (new == old) succeeds silently without an event. A disallowed transition
// fails and leaves the tenant unchanged. IsActive is recomputed on every
// effective transition.
func (t *Tenant) ChangeStatus(next TenantStatus, reason string, now time.Time) error {
	if next == t.Status {
		return nil
	}
	if _, ok := tenantTransitions[next]; !ok {
		return invalid("status", "unknown status "+string(next))
	}
	allowed := false
	for _, s := range tenantTransitions[t.Status] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return InvariantError{Op: "transition tenant to " + string(next), State: string(t.Status)}
	}
	old := t.Status
	t.Status = next
	t.IsActive = t.Status == TenantActive
	t.Touch(now)
	t.Record(TenantStatusChanged{TenantID: t.ID, Old: old, New: next, Reason: reason, At: now})
	return nil
}

// ChangePlan moves the tenant to a different plan. Changing to the current
// plan is a silent no-op, mirroring status transitions.
func (t *Tenant) ChangePlan(planID string, now time.Time) error {
	if planID == "" {
		return invalid("planId", "must not be empty")
	}
	if planID == t.PlanID {
		return nil
	}
	old := t.PlanID
	t.PlanID = planID
	t.Touch(now)
	t.Record(TenantPlanChanged{TenantID: t.ID, OldPlan: old, NewPlan: planID, At: now})
	return nil
}

// ExtendTrial pushes the trial window out by the given number of days from
// its current end (or from now when no window exists yet).
func (t *Tenant) ExtendTrial(days int, now time.Time) error {
	if days <= 0 {
		return invalid("days", "must be positive")
	}
	if t.Status != TenantTrial {
		return InvariantError{Op: "extend trial", State: string(t.Status)}
	}
	base := now
	if t.TrialEndsAt != nil {
		base = *t.TrialEndsAt
	}
	end := base.AddDate(0, 0, days)
	t.TrialEndsAt = &end
	t.Touch(now)
	return nil
}

// IsTrialExpired reports whether a trial tenant's window has passed.
func (t *Tenant) IsTrialExpired(now time.Time) bool {
	return t.Status == TenantTrial && t.TrialEndsAt != nil && now.After(*t.TrialEndsAt)
}

// UpdateProfile applies the non-nil profile fields.
func (t *Tenant) UpdateProfile(p TenantProfile, now time.Time) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if p.ContactEmail != nil && *p.ContactEmail != "" && !strings.Contains(*p.ContactEmail, "@") {
		return invalid("contactEmail", "must be an email address")
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.ContactEmail != nil {
		t.ContactEmail = *p.ContactEmail
	}
	if p.ContactPhone != nil {
		t.ContactPhone = *p.ContactPhone
	}
	if p.Timezone != nil {
		t.Timezone = *p.Timezone
	}
	if p.Locale != nil {
		t.Locale = *p.Locale
	}
	t.Touch(now)
	return nil
}

// HasFeature reports whether a feature flag is enabled for the tenant.
func (t *Tenant) HasFeature(name string) bool {
	for _, f := range t.Features {
		if f == name {
			return true
		}
	}
	return false
}

// SetFeature enables or disables a feature flag.
func (t *Tenant) SetFeature(name string, enabled bool, now time.Time) error {
	if strings.TrimSpace(name) == "" {
		return invalid("feature", "must not be empty")
	}
	if enabled {
		if !t.HasFeature(name) {
			t.Features = append(t.Features, name)
		}
	} else {
		out := t.Features[:0]
		for _, f := range t.Features {
			if f != name {
				out = append(out, f)
			}
		}
		t.Features = out
	}
	t.Touch(now)
	return nil
}

// UpdateSettings merges the given keys into the tenant's settings map.
// An empty value removes the key.
func (t *Tenant) UpdateSettings(settings map[string]string, now time.Time) {
	if t.Settings == nil {
		t.Settings = map[string]string{}
	}
	for k, v := range settings {
		if v == "" {
			delete(t.Settings, k)
			continue
		}
		t.Settings[k] = v
	}
	t.Touch(now)
}

// SetUsageLimits replaces the tenant's plan caps.
func (t *Tenant) SetUsageLimits(l UsageLimits, now time.Time) error {
	if l.MaxUsers < 0 || l.MaxClients < 0 || l.MaxLocations < 0 {
		return invalid("limits", "caps must not be negative")
	}
	t.Limits = l
	t.Touch(now)
	return nil
}
