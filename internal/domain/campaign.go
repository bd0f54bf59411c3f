package domain

import (
	"strings"
	"time"
)

// CampaignStatus enumerates the lifecycle states of a marketing campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// CampaignType classifies what the campaign is for.
type CampaignType string

const (
	CampaignPromotional CampaignType = "promotional"
	CampaignNewsletter  CampaignType = "newsletter"
	CampaignWinback     CampaignType = "winback"
	CampaignReminder    CampaignType = "reminder"
)

// Channel is the delivery medium.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

var validCampaignTypes = map[CampaignType]bool{
	CampaignPromotional: true, CampaignNewsletter: true,
	CampaignWinback: true, CampaignReminder: true,
}

var validChannels = map[Channel]bool{
	ChannelEmail: true, ChannelSMS: true, ChannelPush: true,
}

// CampaignMetrics are delivery counters. They are monotonically
// non-decreasing; AddMetrics rejects negative deltas.
type CampaignMetrics struct {
	Sent      int `json:"sent" db:"sent_count"`
	Delivered int `json:"delivered" db:"delivered_count"`
	Opened    int `json:"opened" db:"opened_count"`
	Clicked   int `json:"clicked" db:"clicked_count"`
	Converted int `json:"converted" db:"converted_count"`
}

// Campaign is a marketing campaign owned exclusively by one tenant. Its
// template and target segment are only mutable while status is DRAFT.
type Campaign struct {
	Entity
	TenantID    string          `json:"tenant_id" db:"tenant_id"`
	Name        string          `json:"name" db:"name"`
	Type        CampaignType    `json:"type" db:"type"`
	Channel     Channel         `json:"channel" db:"channel"`
	Segment     Segment         `json:"segment"`
	Template    MessageTemplate `json:"template"`
	Status      CampaignStatus  `json:"status" db:"status"`
	Metrics     CampaignMetrics `json:"metrics"`
	TargetCount int             `json:"target_count" db:"target_count"`
	ScheduledAt *time.Time      `json:"scheduled_at" db:"scheduled_at"`
	StartedAt   *time.Time      `json:"started_at" db:"started_at"`
	CompletedAt *time.Time      `json:"completed_at" db:"completed_at"`
}

// CampaignLaunched is queued when a campaign starts sending.
type CampaignLaunched struct {
	CampaignID  string
	TenantID    string
	TargetCount int
	Channel     Channel
	At          time.Time
}

func (e CampaignLaunched) EventName() string     { return "campaign.launched" }
func (e CampaignLaunched) OccurredAt() time.Time { return e.At }

// CampaignCompletedEvent is queued when sending finishes, with a final
// metrics snapshot.
type CampaignCompletedEvent struct {
	CampaignID string
	TenantID   string
	Metrics    CampaignMetrics
	At         time.Time
}

func (e CampaignCompletedEvent) EventName() string     { return "campaign.completed" }
func (e CampaignCompletedEvent) OccurredAt() time.Time { return e.At }

// CampaignCancelled is queued when a campaign is cancelled.
type CampaignCancelledEvent struct {
	CampaignID string
	TenantID   string
	From       CampaignStatus
	At         time.Time
}

func (e CampaignCancelledEvent) EventName() string     { return "campaign.cancelled" }
func (e CampaignCancelledEvent) OccurredAt() time.Time { return e.At }

// NewCampaign creates a campaign in DRAFT.
func NewCampaign(id, tenantID, name string, ctype CampaignType, channel Channel, seg Segment, tmpl MessageTemplate, now time.Time) (*Campaign, error) {
	if tenantID == "" {
		return nil, invalid("tenantId", "must not be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, invalid("name", "must not be empty")
	}
	if !validCampaignTypes[ctype] {
		return nil, invalid("type", "unknown campaign type "+string(ctype))
	}
	if !validChannels[channel] {
		return nil, invalid("channel", "unknown channel "+string(channel))
	}
	if err := seg.Validate(); err != nil {
		return nil, err
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &Campaign{
		Entity:   NewEntity(id, now),
		TenantID: tenantID,
		Name:     name,
		Type:     ctype,
		Channel:  channel,
		Segment:  seg,
		Template: tmpl,
		Status:   CampaignDraft,
	}, nil
}

// UpdateDetails changes name and/or template. Only DRAFT campaigns are
// editable.
func (c *Campaign) UpdateDetails(name *string, tmpl *MessageTemplate, now time.Time) error {
	if c.Status != CampaignDraft {
		return invariant("edit campaign", string(c.Status))
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return invalid("name", "must not be empty")
	}
	if tmpl != nil {
		if err := tmpl.Validate(); err != nil {
			return err
		}
	}
	if name != nil {
		c.Name = *name
	}
	if tmpl != nil {
		c.Template = *tmpl
	}
	c.Touch(now)
	return nil
}

// UpdateTargetSegment replaces the target segment. Only DRAFT campaigns are
// editable.
func (c *Campaign) UpdateTargetSegment(seg Segment, now time.Time) error {
	if c.Status != CampaignDraft {
		return invariant("edit campaign segment", string(c.Status))
	}
	if err := seg.Validate(); err != nil {
		return err
	}
	c.Segment = seg
	c.Touch(now)
	return nil
}

// Schedule moves DRAFT → SCHEDULED for a future send time.
func (c *Campaign) Schedule(at time.Time, now time.Time) error {
	if c.Status != CampaignDraft {
		return invariant("schedule campaign", string(c.Status))
	}
	if !at.After(now) {
		return invalid("scheduledAt", "must be in the future")
	}
	c.Status = CampaignScheduled
	c.ScheduledAt = &at
	c.Touch(now)
	return nil
}

// Launch moves DRAFT or SCHEDULED → SENDING, stamps the start time, records
// the resolved audience size, and queues CampaignLaunched.
func (c *Campaign) Launch(targetCount int, now time.Time) error {
	if c.Status != CampaignDraft && c.Status != CampaignScheduled {
		return invariant("launch campaign", string(c.Status))
	}
	if targetCount < 0 {
		return invalid("targetCount", "must not be negative")
	}
	c.Status = CampaignSending
	c.StartedAt = &now
	c.TargetCount = targetCount
	c.Touch(now)
	c.Record(CampaignLaunched{
		CampaignID:  c.ID,
		TenantID:    c.TenantID,
		TargetCount: targetCount,
		Channel:     c.Channel,
		At:          now,
	})
	return nil
}

// Pause suspends an in-flight send.
func (c *Campaign) Pause(now time.Time) error {
	if c.Status != CampaignSending {
		return invariant("pause campaign", string(c.Status))
	}
	c.Status = CampaignPaused
	c.Touch(now)
	return nil
}

// Resume continues a paused send.
func (c *Campaign) Resume(now time.Time) error {
	if c.Status != CampaignPaused {
		return invariant("resume campaign", string(c.Status))
	}
	c.Status = CampaignSending
	c.Touch(now)
	return nil
}

// Complete finishes a send, stamps the end time, and queues
// CampaignCompleted with the final metrics snapshot.
func (c *Campaign) Complete(now time.Time) error {
	if c.Status != CampaignSending {
		return invariant("complete campaign", string(c.Status))
	}
	c.Status = CampaignCompleted
	c.CompletedAt = &now
	c.Touch(now)
	c.Record(CampaignCompletedEvent{
		CampaignID: c.ID,
		TenantID:   c.TenantID,
		Metrics:    c.Metrics,
		At:         now,
	})
	return nil
}

// Cancel aborts the campaign from any state except COMPLETED or CANCELLED.
func (c *Campaign) Cancel(now time.Time) error {
	if c.Status == CampaignCompleted || c.Status == CampaignCancelled {
		return invariant("cancel campaign", string(c.Status))
	}
	from := c.Status
	c.Status = CampaignCancelled
	c.Touch(now)
	c.Record(CampaignCancelledEvent{CampaignID: c.ID, TenantID: c.TenantID, From: from, At: now})
	return nil
}

// AddMetrics applies delivery counter deltas. Counters are monotonically
// non-decreasing, so every delta must be non-negative.
func (c *Campaign) AddMetrics(delta CampaignMetrics, now time.Time) error {
	if delta.Sent < 0 || delta.Delivered < 0 || delta.Opened < 0 || delta.Clicked < 0 || delta.Converted < 0 {
		return invalid("metrics", "counter deltas must not be negative")
	}
	c.Metrics.Sent += delta.Sent
	c.Metrics.Delivered += delta.Delivered
	c.Metrics.Opened += delta.Opened
	c.Metrics.Clicked += delta.Clicked
	c.Metrics.Converted += delta.Converted
	c.Touch(now)
	return nil
}

// IsTerminal reports whether the campaign reached a final state.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignCompleted || c.Status == CampaignCancelled
}
