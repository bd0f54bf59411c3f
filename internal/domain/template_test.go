package domain

import (
	"strings"
	"testing"
)

func TestTemplateValidate(t *testing.T) {
	tmpl := MessageTemplate{
		Body:      "Hi {{first_name}}, your {{service}} is booked.",
		Variables: map[string]any{"first_name": "there", "service": "appointment"},
	}
	if err := tmpl.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	tmpl.Variables = map[string]any{"first_name": "there"}
	err := tmpl.Validate()
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "service") {
		t.Fatalf("error should name the missing placeholder: %v", err)
	}

	if err := (MessageTemplate{Body: "  "}).Validate(); !IsValidation(err) {
		t.Fatalf("empty body: got %v", err)
	}
}

func TestRenderFullSubstitution(t *testing.T) {
	tmpl := MessageTemplate{
		Body:      "Hi {{ first_name }}, {{discount}} off {{service}}!",
		Variables: map[string]any{"first_name": "there", "discount": "20%", "service": "facials"},
	}
	out := tmpl.Render(nil)
	if strings.Contains(out, "{{") {
		t.Fatalf("fully bound template left a token: %q", out)
	}
	if out != "Hi there, 20% off facials!" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderRecipientWins(t *testing.T) {
	tmpl := MessageTemplate{
		Body:      "Hi {{first_name}}",
		Variables: map[string]any{"first_name": "there"},
	}
	out := tmpl.Render(map[string]any{"first_name": "Mara"})
	if out != "Hi Mara" {
		t.Fatalf("recipient data must win: %q", out)
	}
}

func TestRenderMissingPlaceholderVerbatim(t *testing.T) {
	tmpl := MessageTemplate{
		Body:      "Hi {{first_name}}, see you at {{location}}",
		Variables: map[string]any{"first_name": "there"},
	}
	out := tmpl.Render(nil)
	if !strings.Contains(out, "{{location}}") {
		t.Fatalf("missing placeholder must stay verbatim: %q", out)
	}
	if strings.Contains(out, "{{first_name}}") {
		t.Fatalf("bound placeholder must be substituted: %q", out)
	}
}

func TestRenderValueKinds(t *testing.T) {
	tmpl := MessageTemplate{
		Body: "n={{n}} b={{b}} obj={{obj}} list={{list}} none={{none}}",
		Variables: map[string]any{
			"n":    3,
			"b":    true,
			"obj":  map[string]any{"a": 1},
			"list": []string{"x", "y"},
			"none": nil,
		},
	}
	out := tmpl.Render(nil)
	want := `n=3 b=true obj={"a":1} list=["x","y"] none=`
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestPlaceholders(t *testing.T) {
	tmpl := MessageTemplate{Body: "{{a}} {{b}} {{a}} {{ c }}"}
	got := tmpl.Placeholders()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
