package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/tenants"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/tenant"
)

// TenantRepo implements tenants.Repository against PostgreSQL. It also
// serves as the tenant.Directory used by request resolution.
type TenantRepo struct{ db *sql.DB }

// NewTenantRepo creates a Postgres-backed tenant repository.
func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{db: db} }

const tenantColumns = `
	id, name, slug, contact_email, contact_phone, timezone, locale,
	status, is_active, plan_id, trial_ends_at, subscription_ends_at,
	max_users, max_clients, max_locations, features, settings,
	created_at, updated_at`

func scanTenant(row interface{ Scan(...any) error }) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	var settings []byte
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.ContactEmail, &t.ContactPhone, &t.Timezone, &t.Locale,
		&t.Status, &t.IsActive, &t.PlanID, &t.TrialEndsAt, &t.SubscriptionEndsAt,
		&t.Limits.MaxUsers, &t.Limits.MaxClients, &t.Limits.MaxLocations,
		pq.Array(&t.Features), &settings,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Settings = map[string]string{}
	if err := fromJSON(settings, &t.Settings); err != nil {
		return nil, fmt.Errorf("decode tenant settings: %w", err)
	}
	return t, nil
}

func (r *TenantRepo) Get(ctx context.Context, id string) (*domain.Tenant, error) {
	t, err := scanTenant(r.db.QueryRowContext(ctx,
		`SELECT`+tenantColumns+` FROM tenants WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, tenants.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

func (r *TenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	t, err := scanTenant(r.db.QueryRowContext(ctx,
		`SELECT`+tenantColumns+` FROM tenants WHERE slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, tenants.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant by slug: %w", err)
	}
	return t, nil
}

func (r *TenantRepo) List(ctx context.Context, f tenants.ListFilter, page domain.PageRequest) ([]domain.Tenant, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	idx := 1
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.PlanID != "" {
		where += fmt.Sprintf(" AND plan_id = $%d", idx)
		args = append(args, f.PlanID)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR slug ILIKE $%d)", idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	n := page.Normalize()
	q := `SELECT` + tenantColumns + ` FROM tenants` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, n.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var out []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, *t)
	}
	return out, total, rows.Err()
}

// Create persists a new account. Replaying the same id is an idempotent
// upsert; a different tenant reusing the slug still maps to ErrSlugTaken
// through the slug unique index.
func (r *TenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tenants (`+tenantColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, contact_email = EXCLUDED.contact_email,
			contact_phone = EXCLUDED.contact_phone, timezone = EXCLUDED.timezone,
			locale = EXCLUDED.locale, status = EXCLUDED.status,
			is_active = EXCLUDED.is_active, plan_id = EXCLUDED.plan_id,
			trial_ends_at = EXCLUDED.trial_ends_at,
			subscription_ends_at = EXCLUDED.subscription_ends_at,
			max_users = EXCLUDED.max_users, max_clients = EXCLUDED.max_clients,
			max_locations = EXCLUDED.max_locations, features = EXCLUDED.features,
			settings = EXCLUDED.settings, updated_at = EXCLUDED.updated_at
	`, t.ID, t.Name, t.Slug, t.ContactEmail, t.ContactPhone, t.Timezone, t.Locale,
		t.Status, t.IsActive, t.PlanID, t.TrialEndsAt, t.SubscriptionEndsAt,
		t.Limits.MaxUsers, t.Limits.MaxClients, t.Limits.MaxLocations,
		pq.Array(t.Features), mustJSON(t.Settings),
		t.CreatedAt, t.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return tenants.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (r *TenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET
			name = $2, contact_email = $3, contact_phone = $4, timezone = $5,
			locale = $6, status = $7, is_active = $8, plan_id = $9,
			trial_ends_at = $10, subscription_ends_at = $11,
			max_users = $12, max_clients = $13, max_locations = $14,
			features = $15, settings = $16, updated_at = $17
		WHERE id = $1
	`, t.ID, t.Name, t.ContactEmail, t.ContactPhone, t.Timezone,
		t.Locale, t.Status, t.IsActive, t.PlanID,
		t.TrialEndsAt, t.SubscriptionEndsAt,
		t.Limits.MaxUsers, t.Limits.MaxClients, t.Limits.MaxLocations,
		pq.Array(t.Features), mustJSON(t.Settings), t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tenants.ErrNotFound
	}
	return nil
}

func (r *TenantRepo) ListTrialsEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.Tenant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+tenantColumns+`
		FROM tenants
		WHERE status = 'trial' AND trial_ends_at IS NOT NULL AND trial_ends_at <= $1
		ORDER BY trial_ends_at ASC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list expiring trials: %w", err)
	}
	defer rows.Close()

	var out []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// FindActiveBySlug implements tenant.Directory: only ACTIVE tenants resolve,
// with their plan entitlements joined in. A miss is (nil, nil).
func (r *TenantRepo) FindActiveBySlug(ctx context.Context, slug string) (*tenant.Context, error) {
	tc := &tenant.Context{}
	err := r.db.QueryRowContext(ctx, `
		SELECT t.id, t.slug, t.name, p.id, p.name, p.modules, p.features
		FROM tenants t
		JOIN plans p ON p.id = t.plan_id
		WHERE t.slug = $1 AND t.status = 'active'
	`, slug).Scan(
		&tc.TenantID, &tc.Slug, &tc.Name,
		&tc.Plan.ID, &tc.Plan.Name, pq.Array(&tc.Plan.Modules), pq.Array(&tc.Plan.Features),
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve tenant %q: %w", slug, err)
	}
	return tc, nil
}
