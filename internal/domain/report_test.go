package domain

import (
	"testing"
	"time"
)

func salesRange() *DateRange {
	return &DateRange{From: t0.AddDate(0, -1, 0), To: t0}
}

func TestReportCanBeGenerated(t *testing.T) {
	noRange, err := NewReport("rep-1", "ten-1", ReportSales, ReportFilters{}, FormatJSON, nil, t0)
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	if noRange.CanBeGenerated() {
		t.Fatal("sales report without a date range must not be generatable")
	}

	withRange, _ := NewReport("rep-2", "ten-1", ReportSales, ReportFilters{DateRange: salesRange()}, FormatJSON, nil, t0)
	if !withRange.CanBeGenerated() {
		t.Fatal("sales report with a date range must be generatable")
	}

	staff, _ := NewReport("rep-3", "ten-1", ReportStaffPerformance, ReportFilters{}, FormatJSON, nil, t0)
	if staff.CanBeGenerated() {
		t.Fatal("staff report without staff ids must not be generatable")
	}
	staff.Filters.StaffIDs = []string{"stf-1"}
	if !staff.CanBeGenerated() {
		t.Fatal("staff report with a staff id must be generatable")
	}

	clients, _ := NewReport("rep-4", "ten-1", ReportClients, ReportFilters{}, FormatCSV, nil, t0)
	if !clients.CanBeGenerated() {
		t.Fatal("clients report has no extra requirements")
	}
}

func TestReportGenerationGate(t *testing.T) {
	r, _ := NewReport("rep-1", "ten-1", ReportFinancial, ReportFilters{}, FormatJSON, nil, t0)
	if err := r.StartProcessing(t0); !IsInvariant(err) {
		t.Fatalf("ungated start: expected invariant error, got %v", err)
	}
	if r.Status != ReportPending {
		t.Fatalf("rejected start must not change status, got %s", r.Status)
	}
}

func TestReportLifecycleWithDailySchedule(t *testing.T) {
	sched := &ReportSchedule{Frequency: FreqDaily, IsActive: true}
	r, err := NewReport("rep-1", "ten-1", ReportSales, ReportFilters{DateRange: salesRange()}, FormatJSON, sched, t0)
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	if r.Schedule.NextRunAt == nil {
		t.Fatal("active schedule without explicit first run must be due immediately")
	}
	if !r.IsDue(t0) {
		t.Fatal("report should be due")
	}

	if err := r.StartProcessing(t0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := r.MarkGenerated("reports/ten-1/rep-1.json", t0); err != nil {
		t.Fatalf("mark generated: %v", err)
	}
	if r.Status != ReportCompleted || r.GeneratedAt == nil {
		t.Fatalf("generation not recorded: %s %v", r.Status, r.GeneratedAt)
	}
	wantNext := t0.AddDate(0, 0, 1)
	if r.Schedule.NextRunAt == nil || !r.Schedule.NextRunAt.Equal(wantNext) {
		t.Fatalf("daily schedule must advance one day, got %v", r.Schedule.NextRunAt)
	}
	if r.Schedule.LastRunAt == nil || !r.Schedule.LastRunAt.Equal(t0) {
		t.Fatalf("lastRunAt not stamped: %v", r.Schedule.LastRunAt)
	}
	evs := r.DrainEvents()
	if len(evs) != 1 || evs[0].EventName() != "report.generated" {
		t.Fatalf("expected report.generated, got %v", evs)
	}

	// recurring report can start its next run from COMPLETED
	if err := r.StartProcessing(wantNext); err != nil {
		t.Fatalf("recurring restart: %v", err)
	}
}

func TestScheduleArithmetic(t *testing.T) {
	from := time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		freq ScheduleFrequency
		want *time.Time
	}{
		{FreqDaily, timePtr(from.AddDate(0, 0, 1))},
		{FreqWeekly, timePtr(from.AddDate(0, 0, 7))},
		{FreqMonthly, timePtr(from.AddDate(0, 1, 0))},
		{FreqQuarterly, timePtr(from.AddDate(0, 3, 0))},
		{FreqYearly, timePtr(from.AddDate(1, 0, 0))},
		{FreqOnce, nil},
	}
	for _, tc := range cases {
		s := ReportSchedule{Frequency: tc.freq}
		got := s.nextRun(from)
		if (got == nil) != (tc.want == nil) {
			t.Errorf("%s: got %v, want %v", tc.freq, got, tc.want)
			continue
		}
		if got != nil && !got.Equal(*tc.want) {
			t.Errorf("%s: got %v, want %v", tc.freq, got, tc.want)
		}
	}
}

func TestReportOnceScheduleDeactivates(t *testing.T) {
	sched := &ReportSchedule{Frequency: FreqOnce, IsActive: true}
	r, _ := NewReport("rep-1", "ten-1", ReportInventory, ReportFilters{}, FormatJSON, sched, t0)
	r.StartProcessing(t0)
	r.MarkGenerated("ref", t0)
	if r.Schedule.IsActive {
		t.Fatal("ONCE schedule must deactivate after its run")
	}
	if r.Schedule.NextRunAt != nil {
		t.Fatalf("ONCE schedule has no next run, got %v", r.Schedule.NextRunAt)
	}
}

func TestReportFailure(t *testing.T) {
	r, _ := NewReport("rep-1", "ten-1", ReportClients, ReportFilters{}, FormatJSON, nil, t0)
	if err := r.MarkFailed("boom", t0); !IsInvariant(err) {
		t.Fatalf("fail before processing: got %v", err)
	}
	r.StartProcessing(t0)
	if err := r.MarkFailed("warehouse unavailable", t0); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if r.Status != ReportFailed || r.FailureReason == "" {
		t.Fatalf("failure not recorded: %s %q", r.Status, r.FailureReason)
	}
	// retry clears the previous failure
	if err := r.StartProcessing(t0); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if r.FailureReason != "" {
		t.Fatal("retry must clear the failure reason")
	}
}

func timePtr(t time.Time) *time.Time { return &t }
