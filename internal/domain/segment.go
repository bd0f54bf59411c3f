package domain

import (
	"fmt"
	"strings"
)

// SegmentLogic combines a segment's conditions.
type SegmentLogic string

const (
	LogicAnd SegmentLogic = "AND"
	LogicOr  SegmentLogic = "OR"
)

// Operator is a comparison applied to one client attribute.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpGt          Operator = "gt"
	OpGte         Operator = "gte"
	OpLt          Operator = "lt"
	OpLte         Operator = "lte"
	OpIn          Operator = "in"
	OpExists      Operator = "exists"
)

var validOperators = map[Operator]bool{
	OpEquals: true, OpNotEquals: true,
	OpContains: true, OpNotContains: true,
	OpGt: true, OpGte: true, OpLt: true, OpLte: true,
	OpIn: true, OpExists: true,
}

// Condition is one filter over client attributes.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Segment selects the subset of clients a campaign targets: a set of filter
// conditions combined with AND or OR.
type Segment struct {
	Conditions []Condition  `json:"conditions"`
	Logic      SegmentLogic `json:"logic"`
}

// Validate rejects empty segments, unknown operators, and unknown logic.
func (s Segment) Validate() error {
	if len(s.Conditions) == 0 {
		return invalid("segment.conditions", "at least one condition is required")
	}
	if s.Logic != LogicAnd && s.Logic != LogicOr {
		return invalid("segment.logic", "must be AND or OR")
	}
	for i, c := range s.Conditions {
		if strings.TrimSpace(c.Field) == "" {
			return invalid(fmt.Sprintf("segment.conditions[%d].field", i), "must not be empty")
		}
		if !validOperators[c.Operator] {
			return invalid(fmt.Sprintf("segment.conditions[%d].operator", i), "unknown operator "+string(c.Operator))
		}
	}
	return nil
}

// Matches evaluates the segment against one client's attribute map.
func (s Segment) Matches(attrs map[string]any) bool {
	if len(s.Conditions) == 0 {
		return false
	}
	for _, c := range s.Conditions {
		ok := c.matches(attrs)
		if s.Logic == LogicOr && ok {
			return true
		}
		if s.Logic != LogicOr && !ok {
			return false
		}
	}
	return s.Logic != LogicOr
}

func (c Condition) matches(attrs map[string]any) bool {
	val, present := attrs[c.Field]

	switch c.Operator {
	case OpExists:
		want := true
		if b, ok := c.Value.(bool); ok {
			want = b
		}
		return present == want
	case OpEquals:
		return present && looseEqual(val, c.Value)
	case OpNotEquals:
		return !present || !looseEqual(val, c.Value)
	case OpContains:
		return present && containsValue(val, c.Value)
	case OpNotContains:
		return !present || !containsValue(val, c.Value)
	case OpIn:
		return present && containsValue(c.Value, val)
	case OpGt, OpGte, OpLt, OpLte:
		if !present {
			return false
		}
		a, aok := toFloat(val)
		b, bok := toFloat(c.Value)
		if !aok || !bok {
			return false
		}
		switch c.Operator {
		case OpGt:
			return a > b
		case OpGte:
			return a >= b
		case OpLt:
			return a < b
		default:
			return a <= b
		}
	}
	return false
}

// containsValue handles the two shapes the operator meets in practice:
// a string attribute containing a substring, or a list attribute containing
// an element.
func containsValue(haystack, needle any) bool {
	switch h := haystack.(type) {
	case string:
		return strings.Contains(h, fmt.Sprintf("%v", needle))
	case []string:
		for _, item := range h {
			if looseEqual(item, needle) {
				return true
			}
		}
	case []any:
		for _, item := range h {
			if looseEqual(item, needle) {
				return true
			}
		}
	}
	return false
}

// looseEqual compares across the numeric types JSON decoding produces.
func looseEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
		return false
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
