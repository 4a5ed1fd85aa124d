package cvs

import "time"

const (
	// Unknown marks a canonical scalar the extraction strategy did not return.
	Unknown = "unknown"
	// NotFound marks a scalar the pattern strategy looked for and did not match.
	NotFound = "N/A"
)

// ExtractedRecord is the canonical CV shape produced by Normalize.
type ExtractedRecord struct {
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Skills            []string          `json:"skills"`
	TotalExperience   string            `json:"totalExperience"`
	ExperienceSummary string            `json:"experienceSummary"`
	Experience        []ExperienceEntry `json:"experience"`
	Education         []EducationEntry  `json:"education"`
	Projects          []ProjectEntry    `json:"projects"`
	RawText           string            `json:"rawText"`
}

type ExperienceEntry struct {
	Company  string `json:"company"`
	JobTitle string `json:"jobTitle"`
	Duration string `json:"duration"`
}

type EducationEntry struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
	Year       string `json:"year"`
}

type ProjectEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PersistedRecord is an ExtractedRecord owned by the repository.
type PersistedRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExtractedRecord
}

// Candidate is the unreconciled output of a field extraction strategy.
// Keys keep whatever casing the strategy produced.
type Candidate map[string]any

// Upload is a staged document handed to the pipeline.
type Upload struct {
	FileName string
	MimeType string
	Data     []byte
}
