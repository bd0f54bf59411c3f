package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
)

// ReportDataSource implements reports.Generator with aggregate queries over
// the tenant's business tables. Each report type has a fixed column set; the
// service layer handles encoding and storage.
type ReportDataSource struct{ db *sql.DB }

// NewReportDataSource creates a Postgres-backed report generator.
func NewReportDataSource(db *sql.DB) *ReportDataSource { return &ReportDataSource{db: db} }

func (g *ReportDataSource) Generate(ctx context.Context, r *domain.Report) ([]string, [][]any, error) {
	switch r.Type {
	case domain.ReportSales:
		return g.sales(ctx, r)
	case domain.ReportFinancial:
		return g.financial(ctx, r)
	case domain.ReportClients:
		return g.clients(ctx, r)
	case domain.ReportStaffPerformance:
		return g.staffPerformance(ctx, r)
	case domain.ReportInventory:
		return g.inventory(ctx, r)
	default:
		return nil, nil, fmt.Errorf("unknown report type %q", r.Type)
	}
}

func collect(rows *sql.Rows, width int) ([][]any, error) {
	defer rows.Close()
	var out [][]any
	for rows.Next() {
		row := make([]any, width)
		ptrs := make([]any, width)
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (g *ReportDataSource) sales(ctx context.Context, r *domain.Report) ([]string, [][]any, error) {
	cols := []string{"service", "appointments", "revenue"}
	rows, err := g.db.QueryContext(ctx, `
		SELECT a.service_name, COUNT(*), COALESCE(SUM(p.amount), 0)
		FROM appointments a
		LEFT JOIN payments p ON p.appointment_id = a.id
		WHERE a.tenant_id = $1 AND a.starts_at >= $2 AND a.starts_at < $3
		GROUP BY a.service_name
		ORDER BY 3 DESC
	`, r.TenantID, r.Filters.DateRange.From, r.Filters.DateRange.To)
	if err != nil {
		return nil, nil, fmt.Errorf("sales report: %w", err)
	}
	data, err := collect(rows, len(cols))
	return cols, data, err
}

func (g *ReportDataSource) financial(ctx context.Context, r *domain.Report) ([]string, [][]any, error) {
	cols := []string{"day", "payments", "gross"}
	rows, err := g.db.QueryContext(ctx, `
		SELECT DATE(paid_at), COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments
		WHERE tenant_id = $1 AND paid_at >= $2 AND paid_at < $3
		GROUP BY DATE(paid_at)
		ORDER BY 1
	`, r.TenantID, r.Filters.DateRange.From, r.Filters.DateRange.To)
	if err != nil {
		return nil, nil, fmt.Errorf("financial report: %w", err)
	}
	data, err := collect(rows, len(cols))
	return cols, data, err
}

func (g *ReportDataSource) clients(ctx context.Context, r *domain.Report) ([]string, [][]any, error) {
	cols := []string{"client_id", "name", "visits", "last_visit"}
	q := `
		SELECT c.id, c.name, COUNT(a.id), MAX(a.starts_at)
		FROM clients c
		LEFT JOIN appointments a ON a.client_id = c.id
		WHERE c.tenant_id = $1`
	args := []any{r.TenantID}
	if len(r.Filters.ClientIDs) > 0 {
		q += ` AND c.id = ANY($2)`
		args = append(args, pq.Array(r.Filters.ClientIDs))
	}
	q += ` GROUP BY c.id, c.name ORDER BY 3 DESC`
	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("clients report: %w", err)
	}
	data, err := collect(rows, len(cols))
	return cols, data, err
}

func (g *ReportDataSource) staffPerformance(ctx context.Context, r *domain.Report) ([]string, [][]any, error) {
	cols := []string{"staff_id", "appointments", "revenue"}
	q := `
		SELECT a.staff_id, COUNT(*), COALESCE(SUM(p.amount), 0)
		FROM appointments a
		LEFT JOIN payments p ON p.appointment_id = a.id
		WHERE a.tenant_id = $1 AND a.staff_id = ANY($2)`
	args := []any{r.TenantID, pq.Array(r.Filters.StaffIDs)}
	if r.Filters.DateRange != nil {
		q += ` AND a.starts_at >= $3 AND a.starts_at < $4`
		args = append(args, r.Filters.DateRange.From, r.Filters.DateRange.To)
	}
	q += ` GROUP BY a.staff_id ORDER BY 3 DESC`
	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("staff performance report: %w", err)
	}
	data, err := collect(rows, len(cols))
	return cols, data, err
}

func (g *ReportDataSource) inventory(ctx context.Context, r *domain.Report) ([]string, [][]any, error) {
	cols := []string{"product", "stock", "unit_price"}
	rows, err := g.db.QueryContext(ctx, `
		SELECT name, stock, unit_price
		FROM products
		WHERE tenant_id = $1
		ORDER BY name
	`, r.TenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("inventory report: %w", err)
	}
	data, err := collect(rows, len(cols))
	return cols, data, err
}
