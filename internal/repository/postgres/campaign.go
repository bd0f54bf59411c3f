package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/campaigns"
)

// CampaignRepo implements campaigns.Repository against PostgreSQL.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

const campaignColumns = `
	id, tenant_id, name, type, channel, segment, template, status,
	sent_count, delivered_count, opened_count, clicked_count, converted_count,
	target_count, scheduled_at, started_at, completed_at, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	var segment, template []byte
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Type, &c.Channel, &segment, &template, &c.Status,
		&c.Metrics.Sent, &c.Metrics.Delivered, &c.Metrics.Opened, &c.Metrics.Clicked, &c.Metrics.Converted,
		&c.TargetCount, &c.ScheduledAt, &c.StartedAt, &c.CompletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(segment, &c.Segment); err != nil {
		return nil, fmt.Errorf("decode campaign segment: %w", err)
	}
	if err := fromJSON(template, &c.Template); err != nil {
		return nil, fmt.Errorf("decode campaign template: %w", err)
	}
	return c, nil
}

func (r *CampaignRepo) Get(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx,
		`SELECT`+campaignColumns+` FROM campaigns WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, campaigns.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepo) List(ctx context.Context, tenantID string, f campaigns.ListFilter, page domain.PageRequest) ([]domain.Campaign, int, error) {
	where := ` WHERE tenant_id = $1`
	args := []any{tenantID}
	idx := 2
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", idx)
		args = append(args, f.Type)
		idx++
	}
	if f.Channel != "" {
		where += fmt.Sprintf(" AND channel = $%d", idx)
		args = append(args, f.Channel)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM campaigns`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	n := page.Normalize()
	q := `SELECT` + campaignColumns + ` FROM campaigns` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, n.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

// Create persists a new aggregate. Replaying the same id is an idempotent
// upsert, so a retried command never fails on the id collision; the tenant
// guard keeps a replay from ever touching another tenant's row.
func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (`+campaignColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, segment = EXCLUDED.segment,
			template = EXCLUDED.template, status = EXCLUDED.status,
			sent_count = EXCLUDED.sent_count, delivered_count = EXCLUDED.delivered_count,
			opened_count = EXCLUDED.opened_count, clicked_count = EXCLUDED.clicked_count,
			converted_count = EXCLUDED.converted_count, target_count = EXCLUDED.target_count,
			scheduled_at = EXCLUDED.scheduled_at, started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at, updated_at = EXCLUDED.updated_at
		WHERE campaigns.tenant_id = EXCLUDED.tenant_id
	`, c.ID, c.TenantID, c.Name, c.Type, c.Channel,
		mustJSON(c.Segment), mustJSON(c.Template), c.Status,
		c.Metrics.Sent, c.Metrics.Delivered, c.Metrics.Opened, c.Metrics.Clicked, c.Metrics.Converted,
		c.TargetCount, c.ScheduledAt, c.StartedAt, c.CompletedAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

// Update persists the aggregate. A non-empty expectStatus turns the write
// into a compare-and-set on the status column; losing the race returns
// ErrStaleState.
func (r *CampaignRepo) Update(ctx context.Context, c *domain.Campaign, expectStatus domain.CampaignStatus) error {
	q := `
		UPDATE campaigns SET
			name = $3, segment = $4, template = $5, status = $6,
			sent_count = $7, delivered_count = $8, opened_count = $9,
			clicked_count = $10, converted_count = $11, target_count = $12,
			scheduled_at = $13, started_at = $14, completed_at = $15, updated_at = $16
		WHERE id = $1 AND tenant_id = $2`
	args := []any{c.ID, c.TenantID, c.Name, mustJSON(c.Segment), mustJSON(c.Template), c.Status,
		c.Metrics.Sent, c.Metrics.Delivered, c.Metrics.Opened,
		c.Metrics.Clicked, c.Metrics.Converted, c.TargetCount,
		c.ScheduledAt, c.StartedAt, c.CompletedAt, c.UpdatedAt}
	if expectStatus != "" {
		q += " AND status = $17"
		args = append(args, expectStatus)
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}
	if expectStatus == "" {
		return campaigns.ErrNotFound
	}
	// Distinguish a vanished row from a raced status.
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM campaigns WHERE id = $1 AND tenant_id = $2)`,
		c.ID, c.TenantID).Scan(&exists); err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if !exists {
		return campaigns.ErrNotFound
	}
	return campaigns.ErrStaleState
}

// AddMetrics increments the delivery counters in place. The arithmetic runs
// in the database so concurrent recorders compose instead of overwriting
// each other with stale absolute values.
func (r *CampaignRepo) AddMetrics(ctx context.Context, tenantID, id string, delta domain.CampaignMetrics, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns SET
			sent_count = sent_count + $3,
			delivered_count = delivered_count + $4,
			opened_count = opened_count + $5,
			clicked_count = clicked_count + $6,
			converted_count = converted_count + $7,
			updated_at = $8
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, delta.Sent, delta.Delivered, delta.Opened, delta.Clicked, delta.Converted, now)
	if err != nil {
		return fmt.Errorf("add campaign metrics: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return campaigns.ErrNotFound
	}
	return nil
}

func (r *CampaignRepo) Delete(ctx context.Context, tenantID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM campaigns WHERE id = $1 AND tenant_id = $2 AND status = 'draft'`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return campaigns.ErrNotFound
	}
	return nil
}

// CountAudience loads the tenant's client attributes and evaluates the
// segment in process. Segment operators work on loosely typed attribute
// maps, which SQL cannot reproduce faithfully.
func (r *CampaignRepo) CountAudience(ctx context.Context, tenantID string, seg domain.Segment) (int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT attributes FROM clients WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, fmt.Errorf("load client attributes: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return 0, fmt.Errorf("scan client attributes: %w", err)
		}
		attrs := map[string]any{}
		if err := fromJSON(raw, &attrs); err != nil {
			return 0, fmt.Errorf("decode client attributes: %w", err)
		}
		if seg.Matches(attrs) {
			count++
		}
	}
	return count, rows.Err()
}

func (r *CampaignRepo) ListScheduledDue(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+campaignColumns+`
		FROM campaigns
		WHERE status = 'scheduled' AND scheduled_at IS NOT NULL AND scheduled_at <= $1
		ORDER BY scheduled_at ASC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("list due campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
