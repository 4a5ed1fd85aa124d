package fields

import (
	"context"
	"regexp"
	"strings"

	"cv-backend/internal/cvs"
)

// StrategyPattern names the regex strategy in config and metrics.
const StrategyPattern = "pattern"

var (
	nameRe       = regexp.MustCompile(`(?i)(Name|Full Name):?\s*(.+)`)
	emailRe      = regexp.MustCompile(`[\w._%+-]+@[\w.-]+\.[a-zA-Z]{2,}`)
	phoneRe      = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?(\d{10}|\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4})`)
	skillsRe     = regexp.MustCompile(`(?i)(Skills|Technologies|Expertise):?\s*(.+)`)
	experienceRe = regexp.MustCompile(`(?i)(Experience|Work History):?\s*(.+)`)
)

// Pattern extracts a narrow set of fields with labelled regular expressions.
// It never builds experience, education or project entries; the experience
// label is captured as one free-text summary.
type Pattern struct{}

// Extract implements cvs.FieldExtractor. It never fails.
func (Pattern) Extract(ctx context.Context, text string) (cvs.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cvs.Candidate{
		"name":       labelled(nameRe, text),
		"email":      whole(emailRe, text),
		"phone":      whole(phoneRe, text),
		"skills":     skills(text),
		"experience": labelled(experienceRe, text),
	}, nil
}

func labelled(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return cvs.NotFound
	}
	if v := strings.TrimSpace(m[2]); v != "" {
		return v
	}
	return cvs.NotFound
}

func whole(re *regexp.Regexp, text string) string {
	if m := re.FindString(text); m != "" {
		return m
	}
	return cvs.NotFound
}

func skills(text string) []string {
	out := []string{}
	m := skillsRe.FindStringSubmatch(text)
	if m == nil {
		return out
	}
	for _, part := range strings.Split(m[2], ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var _ cvs.FieldExtractor = Pattern{}
