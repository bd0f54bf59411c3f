package domain

import (
	"time"
)

// ReportType classifies what a report aggregates.
type ReportType string

const (
	ReportSales            ReportType = "sales"
	ReportFinancial        ReportType = "financial"
	ReportClients          ReportType = "clients"
	ReportStaffPerformance ReportType = "staff_performance"
	ReportInventory        ReportType = "inventory"
)

// ReportStatus enumerates the generation lifecycle.
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportProcessing ReportStatus = "processing"
	ReportCompleted  ReportStatus = "completed"
	ReportFailed     ReportStatus = "failed"
)

// ReportFormat is the requested output encoding.
type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatCSV  ReportFormat = "csv"
	FormatPDF  ReportFormat = "pdf"
)

var validReportTypes = map[ReportType]bool{
	ReportSales: true, ReportFinancial: true, ReportClients: true,
	ReportStaffPerformance: true, ReportInventory: true,
}

var validReportFormats = map[ReportFormat]bool{
	FormatJSON: true, FormatCSV: true, FormatPDF: true,
}

// DateRange bounds a report's data window.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// IsValid reports whether both bounds are set and ordered.
func (r DateRange) IsValid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && !r.To.Before(r.From)
}

// ReportFilters narrow what a report covers.
type ReportFilters struct {
	DateRange   *DateRange `json:"date_range,omitempty"`
	StaffIDs    []string   `json:"staff_ids,omitempty"`
	LocationIDs []string   `json:"location_ids,omitempty"`
	ClientIDs   []string   `json:"client_ids,omitempty"`
}

// ScheduleFrequency is how often a recurring report re-runs.
type ScheduleFrequency string

const (
	FreqOnce      ScheduleFrequency = "once"
	FreqDaily     ScheduleFrequency = "daily"
	FreqWeekly    ScheduleFrequency = "weekly"
	FreqMonthly   ScheduleFrequency = "monthly"
	FreqQuarterly ScheduleFrequency = "quarterly"
	FreqYearly    ScheduleFrequency = "yearly"
)

var validFrequencies = map[ScheduleFrequency]bool{
	FreqOnce: true, FreqDaily: true, FreqWeekly: true,
	FreqMonthly: true, FreqQuarterly: true, FreqYearly: true,
}

// ReportSchedule makes a report recurring.
type ReportSchedule struct {
	Frequency ScheduleFrequency `json:"frequency"`
	NextRunAt *time.Time        `json:"next_run_at,omitempty"`
	LastRunAt *time.Time        `json:"last_run_at,omitempty"`
	IsActive  bool              `json:"is_active"`
}

// nextRun advances a schedule from the given run time. ONCE has no next run.
func (s ReportSchedule) nextRun(from time.Time) *time.Time {
	var next time.Time
	switch s.Frequency {
	case FreqDaily:
		next = from.AddDate(0, 0, 1)
	case FreqWeekly:
		next = from.AddDate(0, 0, 7)
	case FreqMonthly:
		next = from.AddDate(0, 1, 0)
	case FreqQuarterly:
		next = from.AddDate(0, 3, 0)
	case FreqYearly:
		next = from.AddDate(1, 0, 0)
	default:
		return nil
	}
	return &next
}

// Report is a tenant-scoped reporting request and its generation state. The
// core never computes the figures itself; a collaborator supplies the
// payload and the aggregate tracks lifecycle and scheduling.
type Report struct {
	Entity
	TenantID      string          `json:"tenant_id" db:"tenant_id"`
	Type          ReportType      `json:"type" db:"type"`
	Filters       ReportFilters   `json:"filters"`
	Format        ReportFormat    `json:"format" db:"format"`
	Status        ReportStatus    `json:"status" db:"status"`
	Schedule      *ReportSchedule `json:"schedule,omitempty"`
	PayloadRef    string          `json:"payload_ref" db:"payload_ref"`
	GeneratedAt   *time.Time      `json:"generated_at" db:"generated_at"`
	FailureReason string          `json:"failure_reason" db:"failure_reason"`
}

// ReportGenerated is queued when a report run completes.
type ReportGenerated struct {
	ReportID   string
	TenantID   string
	Type       ReportType
	PayloadRef string
	At         time.Time
}

func (e ReportGenerated) EventName() string     { return "report.generated" }
func (e ReportGenerated) OccurredAt() time.Time { return e.At }

// NewReport creates a PENDING report request. A recurring schedule without
// an explicit first run time is due immediately.
func NewReport(id, tenantID string, rtype ReportType, filters ReportFilters, format ReportFormat, schedule *ReportSchedule, now time.Time) (*Report, error) {
	if tenantID == "" {
		return nil, invalid("tenantId", "must not be empty")
	}
	if !validReportTypes[rtype] {
		return nil, invalid("type", "unknown report type "+string(rtype))
	}
	if !validReportFormats[format] {
		return nil, invalid("format", "unknown report format "+string(format))
	}
	if filters.DateRange != nil && !filters.DateRange.IsValid() {
		return nil, invalid("filters.dateRange", "from/to must be set and ordered")
	}
	if schedule != nil {
		if !validFrequencies[schedule.Frequency] {
			return nil, invalid("schedule.frequency", "unknown frequency "+string(schedule.Frequency))
		}
		if schedule.IsActive && schedule.NextRunAt == nil {
			first := now
			schedule.NextRunAt = &first
		}
	}
	return &Report{
		Entity:   NewEntity(id, now),
		TenantID: tenantID,
		Type:     rtype,
		Filters:  filters,
		Format:   format,
		Status:   ReportPending,
		Schedule: schedule,
	}, nil
}

// CanBeGenerated checks the type-specific filter requirements that must hold
// before generation is permitted.
func (r *Report) CanBeGenerated() bool {
	switch r.Type {
	case ReportSales, ReportFinancial:
		return r.Filters.DateRange != nil && r.Filters.DateRange.IsValid()
	case ReportStaffPerformance:
		return len(r.Filters.StaffIDs) > 0
	default:
		return true
	}
}

// StartProcessing begins a generation run. A run may start from PENDING, or
// from COMPLETED/FAILED for recurring or retried reports, never while one is
// already in flight, and only when the filter requirements hold.
func (r *Report) StartProcessing(now time.Time) error {
	if r.Status == ReportProcessing {
		return invariant("start report generation", string(r.Status))
	}
	if !r.CanBeGenerated() {
		return InvariantError{
			Op:     "start report generation",
			State:  string(r.Status),
			Reason: "filter requirements for " + string(r.Type) + " not met",
		}
	}
	r.Status = ReportProcessing
	r.FailureReason = ""
	r.Touch(now)
	return nil
}

// MarkGenerated completes the in-flight run: it stamps the payload reference
// and GeneratedAt, advances an active recurring schedule, and queues
// ReportGenerated.
func (r *Report) MarkGenerated(payloadRef string, now time.Time) error {
	if r.Status != ReportProcessing {
		return invariant("mark report generated", string(r.Status))
	}
	if payloadRef == "" {
		return invalid("payloadRef", "must not be empty")
	}
	r.Status = ReportCompleted
	r.PayloadRef = payloadRef
	r.GeneratedAt = &now
	if r.Schedule != nil && r.Schedule.IsActive {
		run := now
		r.Schedule.LastRunAt = &run
		r.Schedule.NextRunAt = r.Schedule.nextRun(now)
		if r.Schedule.Frequency == FreqOnce {
			r.Schedule.IsActive = false
		}
	}
	r.Touch(now)
	r.Record(ReportGenerated{
		ReportID:   r.ID,
		TenantID:   r.TenantID,
		Type:       r.Type,
		PayloadRef: payloadRef,
		At:         now,
	})
	return nil
}

// SetSchedule replaces or clears the recurring schedule. An active schedule
// without an explicit first run time becomes due immediately.
func (r *Report) SetSchedule(s *ReportSchedule, now time.Time) error {
	if s != nil {
		if !validFrequencies[s.Frequency] {
			return invalid("schedule.frequency", "unknown frequency "+string(s.Frequency))
		}
		if s.IsActive && s.NextRunAt == nil {
			first := now
			s.NextRunAt = &first
		}
	}
	r.Schedule = s
	r.Touch(now)
	return nil
}

// MarkFailed records a failed run.
func (r *Report) MarkFailed(reason string, now time.Time) error {
	if r.Status != ReportProcessing {
		return invariant("mark report failed", string(r.Status))
	}
	r.Status = ReportFailed
	r.FailureReason = reason
	r.Touch(now)
	return nil
}

// IsDue reports whether an active recurring schedule has a run time at or
// before now.
func (r *Report) IsDue(now time.Time) bool {
	return r.Schedule != nil && r.Schedule.IsActive &&
		r.Schedule.NextRunAt != nil && !r.Schedule.NextRunAt.After(now)
}
