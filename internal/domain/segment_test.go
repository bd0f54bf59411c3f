package domain

import "testing"

func TestSegmentValidate(t *testing.T) {
	if err := (Segment{}).Validate(); !IsValidation(err) {
		t.Fatalf("empty segment: got %v", err)
	}
	bad := Segment{Conditions: []Condition{{Field: "tags", Operator: "wat", Value: 1}}, Logic: LogicAnd}
	if err := bad.Validate(); !IsValidation(err) {
		t.Fatalf("unknown operator: got %v", err)
	}
	badLogic := Segment{Conditions: []Condition{{Field: "tags", Operator: OpEquals, Value: 1}}, Logic: "XOR"}
	if err := badLogic.Validate(); !IsValidation(err) {
		t.Fatalf("unknown logic: got %v", err)
	}
	ok := Segment{Conditions: []Condition{{Field: "tags", Operator: OpContains, Value: "vip"}}, Logic: LogicAnd}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid segment: %v", err)
	}
}

func TestSegmentMatches(t *testing.T) {
	attrs := map[string]any{
		"tags":        []string{"vip", "regular"},
		"city":        "berlin",
		"visits":      12,
		"total_spent": 340.5,
	}

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"contains in list", Condition{"tags", OpContains, "vip"}, true},
		{"contains miss", Condition{"tags", OpContains, "lapsed"}, false},
		{"not_contains", Condition{"tags", OpNotContains, "lapsed"}, true},
		{"contains substring", Condition{"city", OpContains, "ber"}, true},
		{"equals", Condition{"city", OpEquals, "berlin"}, true},
		{"not_equals", Condition{"city", OpNotEquals, "hamburg"}, true},
		{"gt", Condition{"visits", OpGt, 10}, true},
		{"gte boundary", Condition{"visits", OpGte, 12}, true},
		{"lt miss", Condition{"visits", OpLt, 12}, false},
		{"lte float", Condition{"total_spent", OpLte, 340.5}, true},
		{"in", Condition{"city", OpIn, []any{"berlin", "hamburg"}}, true},
		{"in miss", Condition{"city", OpIn, []any{"munich"}}, false},
		{"exists", Condition{"city", OpExists, true}, true},
		{"exists false", Condition{"birthday", OpExists, true}, false},
		{"missing field numeric", Condition{"age", OpGt, 1}, false},
	}
	for _, tc := range cases {
		seg := Segment{Conditions: []Condition{tc.cond}, Logic: LogicAnd}
		if got := seg.Matches(attrs); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSegmentLogicCombination(t *testing.T) {
	attrs := map[string]any{"tags": []string{"vip"}, "visits": 2}

	and := Segment{
		Conditions: []Condition{
			{"tags", OpContains, "vip"},
			{"visits", OpGte, 10},
		},
		Logic: LogicAnd,
	}
	if and.Matches(attrs) {
		t.Fatal("AND with one failing condition must not match")
	}

	or := and
	or.Logic = LogicOr
	if !or.Matches(attrs) {
		t.Fatal("OR with one passing condition must match")
	}
}
