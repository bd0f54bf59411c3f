package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/campaigns"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return db, mock, func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	}
}

var campaignRows = []string{
	"id", "tenant_id", "name", "type", "channel", "segment", "template", "status",
	"sent_count", "delivered_count", "opened_count", "clicked_count", "converted_count",
	"target_count", "scheduled_at", "started_at", "completed_at", "created_at", "updated_at",
}

func sampleCampaignRow(now time.Time) *sqlmock.Rows {
	segment := `{"logic":"AND","conditions":[{"field":"visits","operator":"gte","value":3}]}`
	template := `{"body":"Hi {{name}}","variables":{"name":"there"}}`
	return sqlmock.NewRows(campaignRows).AddRow(
		"cmp-1", "ten-1", "Spring promo", "promotional", "email", []byte(segment), []byte(template), "draft",
		0, 0, 0, 0, 0, 0, nil, nil, nil, now, now,
	)
}

func TestCampaignRepoGet(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewCampaignRepo(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT(.+)FROM campaigns WHERE id = \\$1 AND tenant_id = \\$2").
		WithArgs("cmp-1", "ten-1").
		WillReturnRows(sampleCampaignRow(now))

	c, err := repo.Get(context.Background(), "ten-1", "cmp-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.Name != "Spring promo" || c.Status != domain.CampaignDraft {
		t.Fatalf("campaign = %+v", c)
	}
	if len(c.Segment.Conditions) != 1 || c.Segment.Conditions[0].Field != "visits" {
		t.Fatalf("segment not decoded: %+v", c.Segment)
	}
	if c.Template.Body != "Hi {{name}}" {
		t.Fatalf("template not decoded: %+v", c.Template)
	}
}

func TestCampaignRepoGetNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewCampaignRepo(db)

	mock.ExpectQuery("SELECT(.+)FROM campaigns WHERE id = \\$1 AND tenant_id = \\$2").
		WithArgs("cmp-9", "ten-1").
		WillReturnRows(sqlmock.NewRows(campaignRows))

	_, err := repo.Get(context.Background(), "ten-1", "cmp-9")
	if !errors.Is(err, campaigns.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCampaignRepoUpdateStatusGuard(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewCampaignRepo(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	seg := domain.Segment{Logic: domain.LogicAnd, Conditions: []domain.Condition{
		{Field: "visits", Operator: domain.OpGte, Value: 3},
	}}
	tmpl := domain.MessageTemplate{Body: "Hi {{name}}", Variables: map[string]any{"name": "there"}}
	c, err := domain.NewCampaign("cmp-1", "ten-1", "Spring promo", domain.CampaignPromotional, domain.ChannelEmail, seg, tmpl, now)
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}
	if err := c.Launch(10, now); err != nil {
		t.Fatalf("launch: %v", err)
	}

	// Guarded write misses: zero rows affected, row still exists.
	mock.ExpectExec("UPDATE campaigns SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("cmp-1", "ten-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err = repo.Update(context.Background(), c, domain.CampaignDraft)
	if !errors.Is(err, campaigns.ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}

	// Guarded write misses because the row is gone.
	mock.ExpectExec("UPDATE campaigns SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("cmp-1", "ten-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err = repo.Update(context.Background(), c, domain.CampaignDraft)
	if !errors.Is(err, campaigns.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Guarded write lands.
	mock.ExpectExec("UPDATE campaigns SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Update(context.Background(), c, domain.CampaignDraft); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestCampaignRepoAddMetricsIsRelative(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewCampaignRepo(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Counters must be incremented in the database, never written back as
	// absolute values computed from a read.
	mock.ExpectExec("UPDATE campaigns SET(.+)sent_count = sent_count \\+ \\$3(.+)converted_count = converted_count \\+ \\$7").
		WithArgs("cmp-1", "ten-1", 5, 4, 3, 2, 1, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err := repo.AddMetrics(context.Background(), "ten-1", "cmp-1",
		domain.CampaignMetrics{Sent: 5, Delivered: 4, Opened: 3, Clicked: 2, Converted: 1}, now)
	if err != nil {
		t.Fatalf("add metrics: %v", err)
	}

	mock.ExpectExec("UPDATE campaigns SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.AddMetrics(context.Background(), "ten-1", "gone",
		domain.CampaignMetrics{Sent: 1}, now)
	if !errors.Is(err, campaigns.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCampaignRepoCreateIsIdempotentUpsert(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewCampaignRepo(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	seg := domain.Segment{Logic: domain.LogicAnd, Conditions: []domain.Condition{
		{Field: "visits", Operator: domain.OpGte, Value: 3},
	}}
	tmpl := domain.MessageTemplate{Body: "Hi {{name}}", Variables: map[string]any{"name": "there"}}
	c, err := domain.NewCampaign("cmp-1", "ten-1", "Spring promo", domain.CampaignPromotional, domain.ChannelEmail, seg, tmpl, now)
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}

	// A retried save replays the same row: the insert must carry the
	// conflict clause with the tenant guard so it lands instead of failing.
	upsert := "INSERT INTO campaigns(.+)ON CONFLICT \\(id\\) DO UPDATE SET(.+)WHERE campaigns.tenant_id = EXCLUDED.tenant_id"
	mock.ExpectExec(upsert).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	mock.ExpectExec(upsert).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("retried create must not fail: %v", err)
	}
}

func TestCampaignRepoDeleteDraftOnly(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewCampaignRepo(db)

	mock.ExpectExec("DELETE FROM campaigns WHERE id = \\$1 AND tenant_id = \\$2 AND status = 'draft'").
		WithArgs("cmp-1", "ten-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ten-1", "cmp-1")
	if !errors.Is(err, campaigns.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-draft delete, got %v", err)
	}
}

func TestCampaignRepoCountAudience(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewCampaignRepo(db)

	mock.ExpectQuery("SELECT attributes FROM clients WHERE tenant_id = \\$1").
		WithArgs("ten-1").
		WillReturnRows(sqlmock.NewRows([]string{"attributes"}).
			AddRow([]byte(`{"visits": 5, "city": "Lima"}`)).
			AddRow([]byte(`{"visits": 1, "city": "Lima"}`)).
			AddRow([]byte(`{"visits": 9}`)))

	seg := domain.Segment{Logic: domain.LogicAnd, Conditions: []domain.Condition{
		{Field: "visits", Operator: domain.OpGte, Value: 3},
	}}
	n, err := repo.CountAudience(context.Background(), "ten-1", seg)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("audience = %d, want 2", n)
	}
}

func TestCampaignRepoListFiltersAndPages(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewCampaignRepo(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM campaigns WHERE tenant_id = \\$1 AND status = \\$2").
		WithArgs("ten-1", "draft").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("SELECT(.+)FROM campaigns WHERE tenant_id = \\$1 AND status = \\$2 ORDER BY created_at DESC LIMIT \\$3 OFFSET \\$4").
		WithArgs("ten-1", "draft", 5, 5).
		WillReturnRows(sampleCampaignRow(now))

	out, total, err := repo.List(context.Background(), "ten-1",
		campaigns.ListFilter{Status: "draft"}, domain.PageRequest{Page: 2, Limit: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 7 || len(out) != 1 {
		t.Fatalf("total=%d len=%d", total, len(out))
	}
}
