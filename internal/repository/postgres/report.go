package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/reports"
)

// ReportRepo implements reports.Repository against PostgreSQL.
type ReportRepo struct{ db *sql.DB }

// NewReportRepo creates a Postgres-backed report repository.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

const reportColumns = `
	id, tenant_id, type, filters, format, status, schedule,
	payload_ref, generated_at, failure_reason, created_at, updated_at`

func scanReport(row interface{ Scan(...any) error }) (*domain.Report, error) {
	r := &domain.Report{}
	var filters, schedule []byte
	err := row.Scan(
		&r.ID, &r.TenantID, &r.Type, &filters, &r.Format, &r.Status, &schedule,
		&r.PayloadRef, &r.GeneratedAt, &r.FailureReason, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(filters, &r.Filters); err != nil {
		return nil, fmt.Errorf("decode report filters: %w", err)
	}
	if len(schedule) > 0 {
		r.Schedule = &domain.ReportSchedule{}
		if err := fromJSON(schedule, r.Schedule); err != nil {
			return nil, fmt.Errorf("decode report schedule: %w", err)
		}
	}
	return r, nil
}

// scheduleJSON keeps a nil schedule as SQL NULL rather than JSON null.
func scheduleJSON(s *domain.ReportSchedule) any {
	if s == nil {
		return nil
	}
	return mustJSON(s)
}

func (r *ReportRepo) Get(ctx context.Context, tenantID, id string) (*domain.Report, error) {
	rep, err := scanReport(r.db.QueryRowContext(ctx,
		`SELECT`+reportColumns+` FROM reports WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, reports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

func (r *ReportRepo) List(ctx context.Context, tenantID string, f reports.ListFilter, page domain.PageRequest) ([]domain.Report, int, error) {
	where := ` WHERE tenant_id = $1`
	args := []any{tenantID}
	idx := 2
	if f.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", idx)
		args = append(args, f.Type)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	n := page.Normalize()
	q := `SELECT` + reportColumns + ` FROM reports` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, n.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, *rep)
	}
	return out, total, rows.Err()
}

// Create persists a new report request; replaying the same id is an
// idempotent upsert scoped to the owning tenant.
func (r *ReportRepo) Create(ctx context.Context, rep *domain.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			filters = EXCLUDED.filters, format = EXCLUDED.format,
			status = EXCLUDED.status, schedule = EXCLUDED.schedule,
			payload_ref = EXCLUDED.payload_ref, generated_at = EXCLUDED.generated_at,
			failure_reason = EXCLUDED.failure_reason, updated_at = EXCLUDED.updated_at
		WHERE reports.tenant_id = EXCLUDED.tenant_id
	`, rep.ID, rep.TenantID, rep.Type, mustJSON(rep.Filters), rep.Format, rep.Status,
		scheduleJSON(rep.Schedule), rep.PayloadRef, rep.GeneratedAt, rep.FailureReason,
		rep.CreatedAt, rep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// Update persists the aggregate, optionally compare-and-set on status.
func (r *ReportRepo) Update(ctx context.Context, rep *domain.Report, expectStatus domain.ReportStatus) error {
	q := `
		UPDATE reports SET
			filters = $3, format = $4, status = $5, schedule = $6,
			payload_ref = $7, generated_at = $8, failure_reason = $9, updated_at = $10
		WHERE id = $1 AND tenant_id = $2`
	args := []any{rep.ID, rep.TenantID, mustJSON(rep.Filters), rep.Format, rep.Status,
		scheduleJSON(rep.Schedule), rep.PayloadRef, rep.GeneratedAt, rep.FailureReason, rep.UpdatedAt}
	if expectStatus != "" {
		q += " AND status = $11"
		args = append(args, expectStatus)
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}
	if expectStatus == "" {
		return reports.ErrNotFound
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reports WHERE id = $1 AND tenant_id = $2)`,
		rep.ID, rep.TenantID).Scan(&exists); err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if !exists {
		return reports.ErrNotFound
	}
	return reports.ErrStaleState
}

func (r *ReportRepo) Delete(ctx context.Context, tenantID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reports WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return reports.ErrNotFound
	}
	return nil
}

func (r *ReportRepo) ListDue(ctx context.Context, now time.Time) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+reportColumns+`
		FROM reports
		WHERE schedule IS NOT NULL
		  AND (schedule->>'is_active')::boolean
		  AND (schedule->>'next_run_at')::timestamptz <= $1
		ORDER BY (schedule->>'next_run_at')::timestamptz ASC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("list due reports: %w", err)
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}
