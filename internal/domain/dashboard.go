package domain

import (
	"strings"
	"time"
)

// WidgetType identifies what a dashboard widget renders.
type WidgetType string

const (
	WidgetMetricCard  WidgetType = "metric_card"
	WidgetChart       WidgetType = "chart"
	WidgetTable       WidgetType = "table"
	WidgetAppointment WidgetType = "appointments"
)

// GridRect is a widget's position on the dashboard's 2-D grid.
type GridRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Intersects reports whether two rectangles overlap. Touching edges do not
// overlap.
func (r GridRect) Intersects(o GridRect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Widget is one tile on a dashboard.
type Widget struct {
	ID       string            `json:"id"`
	Type     WidgetType        `json:"type"`
	Title    string            `json:"title"`
	Position GridRect          `json:"position"`
	Config   map[string]string `json:"config,omitempty"`
}

func (w Widget) validate() error {
	if w.ID == "" {
		return invalid("widget.id", "must not be empty")
	}
	if strings.TrimSpace(w.Title) == "" {
		return invalid("widget.title", "must not be empty")
	}
	if w.Position.W <= 0 || w.Position.H <= 0 {
		return invalid("widget.position", "width and height must be positive")
	}
	if w.Position.X < 0 || w.Position.Y < 0 {
		return invalid("widget.position", "x and y must not be negative")
	}
	return nil
}

// Dashboard is a tenant-scoped, ordered list of widgets. No two widgets may
// overlap their grid rectangles.
type Dashboard struct {
	Entity
	TenantID string   `json:"tenant_id" db:"tenant_id"`
	Name     string   `json:"name" db:"name"`
	Widgets  []Widget `json:"widgets"`
}

// NewDashboard creates an empty dashboard.
func NewDashboard(id, tenantID, name string, now time.Time) (*Dashboard, error) {
	if tenantID == "" {
		return nil, invalid("tenantId", "must not be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, invalid("name", "must not be empty")
	}
	return &Dashboard{
		Entity:   NewEntity(id, now),
		TenantID: tenantID,
		Name:     name,
	}, nil
}

// Rename changes the display name.
func (d *Dashboard) Rename(name string, now time.Time) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "must not be empty")
	}
	d.Name = name
	d.Touch(now)
	return nil
}

// AddWidget appends a widget. The widget's rectangle must not intersect any
// existing widget's rectangle.
func (d *Dashboard) AddWidget(w Widget, now time.Time) error {
	if err := w.validate(); err != nil {
		return err
	}
	for _, existing := range d.Widgets {
		if existing.ID == w.ID {
			return invalid("widget.id", "duplicate widget id "+w.ID)
		}
		if existing.Position.Intersects(w.Position) {
			return InvariantError{
				Op:     "add widget " + w.ID,
				State:  "dashboard",
				Reason: "position overlaps widget " + existing.ID,
			}
		}
	}
	d.Widgets = append(d.Widgets, w)
	d.Touch(now)
	return nil
}

// UpdateWidget replaces a widget in place. Overlap is checked against every
// other widget, excluding the one being updated.
func (d *Dashboard) UpdateWidget(w Widget, now time.Time) error {
	if err := w.validate(); err != nil {
		return err
	}
	idx := -1
	for i, existing := range d.Widgets {
		if existing.ID == w.ID {
			idx = i
			continue
		}
		if existing.Position.Intersects(w.Position) {
			return InvariantError{
				Op:     "update widget " + w.ID,
				State:  "dashboard",
				Reason: "position overlaps widget " + existing.ID,
			}
		}
	}
	if idx < 0 {
		return invalid("widget.id", "unknown widget "+w.ID)
	}
	d.Widgets[idx] = w
	d.Touch(now)
	return nil
}

// RemoveWidget deletes a widget by id.
func (d *Dashboard) RemoveWidget(id string, now time.Time) error {
	for i, w := range d.Widgets {
		if w.ID == id {
			d.Widgets = append(d.Widgets[:i], d.Widgets[i+1:]...)
			d.Touch(now)
			return nil
		}
	}
	return invalid("widget.id", "unknown widget "+id)
}

// ReorderWidgets rearranges the widget list. The supplied ids must be a
// permutation of the exact current widget-id set; any mismatch is rejected.
func (d *Dashboard) ReorderWidgets(ids []string, now time.Time) error {
	if len(ids) != len(d.Widgets) {
		return invalid("widgetIds", "must list every widget exactly once")
	}
	byID := make(map[string]Widget, len(d.Widgets))
	for _, w := range d.Widgets {
		byID[w.ID] = w
	}
	reordered := make([]Widget, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		w, ok := byID[id]
		if !ok || seen[id] {
			return invalid("widgetIds", "must list every widget exactly once")
		}
		seen[id] = true
		reordered = append(reordered, w)
	}
	d.Widgets = reordered
	d.Touch(now)
	return nil
}
