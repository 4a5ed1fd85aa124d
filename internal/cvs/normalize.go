package cvs

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

var (
	nameKeys       = []string{"name", "fullname", "candidatename"}
	emailKeys      = []string{"email", "emailaddress"}
	phoneKeys      = []string{"phone", "phonenumber", "mobile", "contactnumber"}
	skillKeys      = []string{"skills", "technologies", "expertise"}
	totalExpKeys   = []string{"totalexperience", "yearsofexperience"}
	summaryKeys    = []string{"experiencesummary"}
	experienceKeys = []string{"experience", "workhistory", "workexperience"}
	educationKeys  = []string{"education"}
	projectKeys    = []string{"projects", "project"}

	companyKeys     = []string{"company", "employer", "organization"}
	jobTitleKeys    = []string{"jobtitle", "title", "role", "position"}
	durationKeys    = []string{"duration", "period", "dates"}
	degreeKeys      = []string{"degree", "qualification"}
	universityKeys  = []string{"university", "institution", "school", "college"}
	yearKeys        = []string{"year", "graduationyear"}
	projTitleKeys   = []string{"title", "name"}
	projSummaryKeys = []string{"description", "summary"}
)

// FoldKey lowercases a field name and drops '_', '-' and spaces so that
// "Total_Experience", "totalExperience" and "total experience" compare equal.
func FoldKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range strings.ToLower(key) {
		switch r {
		case '_', '-', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FoldKeys returns a copy of m with folded keys. When two keys fold to the
// same name the first in sorted order wins.
func FoldKeys(m map[string]any) map[string]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(m))
	for _, k := range keys {
		fk := FoldKey(k)
		if _, ok := out[fk]; ok {
			continue
		}
		out[fk] = m[k]
	}
	return out
}

// Normalize reconciles a strategy candidate with the canonical record shape.
// It never fails; absent scalars become Unknown and absent lists are empty.
func Normalize(candidate Candidate, rawText string) ExtractedRecord {
	folded := FoldKeys(candidate)

	rec := ExtractedRecord{
		Name:              scalarField(folded, nameKeys),
		Email:             scalarField(folded, emailKeys),
		Phone:             scalarField(folded, phoneKeys),
		Skills:            skillList(lookup(folded, skillKeys)),
		TotalExperience:   scalarField(folded, totalExpKeys),
		ExperienceSummary: Unknown,
		Experience:        []ExperienceEntry{},
		Education:         []EducationEntry{},
		Projects:          []ProjectEntry{},
		RawText:           rawText,
	}

	if v := lookup(folded, summaryKeys); v != nil {
		rec.ExperienceSummary = scalar(v)
	}
	switch exp := lookup(folded, experienceKeys).(type) {
	case nil:
	case string:
		if rec.ExperienceSummary == Unknown {
			rec.ExperienceSummary = scalar(exp)
		}
	default:
		for _, item := range items(exp) {
			f, text := entryFields(item)
			if text != "" {
				rec.Experience = append(rec.Experience, ExperienceEntry{Company: text, JobTitle: Unknown, Duration: Unknown})
				continue
			}
			rec.Experience = append(rec.Experience, ExperienceEntry{
				Company:  scalarField(f, companyKeys),
				JobTitle: scalarField(f, jobTitleKeys),
				Duration: scalarField(f, durationKeys),
			})
		}
	}

	for _, item := range items(lookup(folded, educationKeys)) {
		f, text := entryFields(item)
		if text != "" {
			rec.Education = append(rec.Education, EducationEntry{Degree: text, University: Unknown, Year: Unknown})
			continue
		}
		rec.Education = append(rec.Education, EducationEntry{
			Degree:     scalarField(f, degreeKeys),
			University: scalarField(f, universityKeys),
			Year:       scalarField(f, yearKeys),
		})
	}

	for _, item := range items(lookup(folded, projectKeys)) {
		f, text := entryFields(item)
		if text != "" {
			rec.Projects = append(rec.Projects, ProjectEntry{Title: text, Description: Unknown})
			continue
		}
		rec.Projects = append(rec.Projects, ProjectEntry{
			Title:       scalarField(f, projTitleKeys),
			Description: scalarField(f, projSummaryKeys),
		})
	}

	return rec
}

// lookup returns the first non-nil value among the aliases.
func lookup(folded map[string]any, aliases []string) any {
	for _, k := range aliases {
		if v, ok := folded[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func scalarField(folded map[string]any, aliases []string) string {
	return scalar(lookup(folded, aliases))
}

func scalar(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return Unknown
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return Unknown
		}
		s = string(raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}

func skillList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
	case string:
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			if item == nil {
				continue
			}
			if s := scalar(item); s != Unknown {
				out = append(out, s)
			}
		}
	default:
		if s := scalar(t); s != Unknown {
			out = append(out, s)
		}
	}
	return out
}

// items treats a single object as a one-element list.
func items(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	default:
		return []any{t}
	}
}

// entryFields returns folded keys for object entries, or the text of a bare
// scalar entry.
func entryFields(item any) (map[string]any, string) {
	if m, ok := item.(map[string]any); ok {
		return FoldKeys(m), ""
	}
	if item == nil {
		return map[string]any{}, ""
	}
	return nil, scalar(item)
}
