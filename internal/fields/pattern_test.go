package fields

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cv-backend/internal/cvs"
)

func TestPatternExtractExample(t *testing.T) {
	got, err := Pattern{}.Extract(context.Background(), "Name: Jane Doe\nEmail: jane@x.com\nSkills: Go, SQL")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := cvs.Candidate{
		"name":       "Jane Doe",
		"email":      "jane@x.com",
		"phone":      "N/A",
		"skills":     []string{"Go", "SQL"},
		"experience": "N/A",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternEmailIsExactSubstring(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "contact: john.smith+cv@mail.example.co.uk, thanks", want: "john.smith+cv@mail.example.co.uk"},
		{text: "Reach me at a_b%c@x-y.io.", want: "a_b%c@x-y.io"},
		{text: "first@one.com then second@two.com", want: "first@one.com"},
	}
	for _, tt := range tests {
		got, _ := Pattern{}.Extract(context.Background(), tt.text)
		if got["email"] != tt.want {
			t.Fatalf("email for %q = %v, want %q", tt.text, got["email"], tt.want)
		}
	}
}

func TestPatternNoSkillsLabelGivesEmptyList(t *testing.T) {
	got, err := Pattern{}.Extract(context.Background(), "Name: Jane\nLanguages: Go")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	skills, ok := got["skills"].([]string)
	if !ok || skills == nil || len(skills) != 0 {
		t.Fatalf("expected empty non-nil skills, got %#v", got["skills"])
	}
}

func TestPatternLabelsAndPhones(t *testing.T) {
	text := "Full Name: John Smith\r\nPhone: +1 5551234567\nTechnologies: Go,  Kafka ,,SQL\nWork History: Acme 2019-2024\n"
	got, err := Pattern{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := cvs.Candidate{
		"name":       "John Smith",
		"email":      "N/A",
		"phone":      "+1 5551234567",
		"skills":     []string{"Go", "Kafka", "SQL"},
		"experience": "Acme 2019-2024",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract mismatch (-want +got):\n%s", diff)
	}

	for text, want := range map[string]string{
		"call 555-123-4567 now": "555-123-4567",
		"tel (555) 123 4567":    "(555) 123 4567",
		"+44-2071234567":        "+44-2071234567",
		"no digits here":        "N/A",
	} {
		got, _ := Pattern{}.Extract(context.Background(), text)
		if got["phone"] != want {
			t.Fatalf("phone for %q = %v, want %q", text, got["phone"], want)
		}
	}
}
