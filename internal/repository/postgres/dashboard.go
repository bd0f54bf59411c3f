package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/dashboards"
)

// DashboardRepo implements dashboards.Repository against PostgreSQL. The
// widget list lives in one JSONB column; layout invariants are enforced by
// the aggregate before any write reaches here.
type DashboardRepo struct{ db *sql.DB }

// NewDashboardRepo creates a Postgres-backed dashboard repository.
func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{db: db} }

const dashboardColumns = `id, tenant_id, name, widgets, created_at, updated_at`

func scanDashboard(row interface{ Scan(...any) error }) (*domain.Dashboard, error) {
	d := &domain.Dashboard{}
	var widgets []byte
	err := row.Scan(&d.ID, &d.TenantID, &d.Name, &widgets, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(widgets, &d.Widgets); err != nil {
		return nil, fmt.Errorf("decode dashboard widgets: %w", err)
	}
	return d, nil
}

func (r *DashboardRepo) Get(ctx context.Context, tenantID, id string) (*domain.Dashboard, error) {
	d, err := scanDashboard(r.db.QueryRowContext(ctx,
		`SELECT `+dashboardColumns+` FROM dashboards WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, dashboards.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	return d, nil
}

func (r *DashboardRepo) List(ctx context.Context, tenantID string, page domain.PageRequest) ([]domain.Dashboard, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dashboards WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count dashboards: %w", err)
	}

	n := page.Normalize()
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+dashboardColumns+`
		FROM dashboards
		WHERE tenant_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, tenantID, n.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list dashboards: %w", err)
	}
	defer rows.Close()

	var out []domain.Dashboard
	for rows.Next() {
		d, err := scanDashboard(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan dashboard: %w", err)
		}
		out = append(out, *d)
	}
	return out, total, rows.Err()
}

// Create persists a new dashboard; replaying the same id is an idempotent
// upsert scoped to the owning tenant.
func (r *DashboardRepo) Create(ctx context.Context, d *domain.Dashboard) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dashboards (`+dashboardColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, widgets = EXCLUDED.widgets,
			updated_at = EXCLUDED.updated_at
		WHERE dashboards.tenant_id = EXCLUDED.tenant_id
	`, d.ID, d.TenantID, d.Name, mustJSON(d.Widgets), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create dashboard: %w", err)
	}
	return nil
}

func (r *DashboardRepo) Update(ctx context.Context, d *domain.Dashboard) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dashboards SET name = $3, widgets = $4, updated_at = $5
		WHERE id = $1 AND tenant_id = $2
	`, d.ID, d.TenantID, d.Name, mustJSON(d.Widgets), d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update dashboard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dashboards.ErrNotFound
	}
	return nil
}

func (r *DashboardRepo) Delete(ctx context.Context, tenantID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM dashboards WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete dashboard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dashboards.ErrNotFound
	}
	return nil
}
