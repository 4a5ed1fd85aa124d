package cvs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLRepo implements Repo over database/sql. Queries are shared between
// Postgres (JSONB columns) and SQLite (TEXT columns holding JSON).
type SQLRepo struct {
	DB *sql.DB
}

// Store inserts a record and returns it with its id and creation time.
func (r *SQLRepo) Store(ctx context.Context, rec ExtractedRecord) (PersistedRecord, error) {
	const query = `
INSERT INTO cvs (
    id,
    name,
    email,
    phone,
    skills,
    total_experience,
    experience_summary,
    experience,
    education,
    projects,
    raw_text,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	persisted := PersistedRecord{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
		ExtractedRecord: cloneRecord(rec),
	}

	skills, err := encodeJSONColumn(persisted.Skills)
	if err != nil {
		return PersistedRecord{}, err
	}
	experience, err := encodeJSONColumn(persisted.Experience)
	if err != nil {
		return PersistedRecord{}, err
	}
	education, err := encodeJSONColumn(persisted.Education)
	if err != nil {
		return PersistedRecord{}, err
	}
	projects, err := encodeJSONColumn(persisted.Projects)
	if err != nil {
		return PersistedRecord{}, err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		persisted.ID,
		persisted.Name,
		persisted.Email,
		persisted.Phone,
		skills,
		persisted.TotalExperience,
		persisted.ExperienceSummary,
		experience,
		education,
		projects,
		persisted.RawText,
		persisted.CreatedAt,
	)
	if err != nil {
		return PersistedRecord{}, fmt.Errorf("insert cv: %w", err)
	}
	return persisted, nil
}

// ListAll returns every record ordered by insertion sequence.
func (r *SQLRepo) ListAll(ctx context.Context) ([]PersistedRecord, error) {
	const query = `
SELECT id, name, email, phone, skills, total_experience, experience_summary, experience, education, projects, raw_text, created_at
FROM cvs
ORDER BY seq ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cvs: %w", err)
	}
	defer rows.Close()

	out := []PersistedRecord{}
	for rows.Next() {
		var (
			rec                                     PersistedRecord
			skills, experience, education, projects []byte
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Email,
			&rec.Phone,
			&skills,
			&rec.TotalExperience,
			&rec.ExperienceSummary,
			&experience,
			&education,
			&projects,
			&rec.RawText,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cv: %w", err)
		}
		rec.Skills = []string{}
		rec.Experience = []ExperienceEntry{}
		rec.Education = []EducationEntry{}
		rec.Projects = []ProjectEntry{}
		if err := decodeJSONColumn(skills, &rec.Skills); err != nil {
			return nil, fmt.Errorf("decode skills for %s: %w", rec.ID, err)
		}
		if err := decodeJSONColumn(experience, &rec.Experience); err != nil {
			return nil, fmt.Errorf("decode experience for %s: %w", rec.ID, err)
		}
		if err := decodeJSONColumn(education, &rec.Education); err != nil {
			return nil, fmt.Errorf("decode education for %s: %w", rec.ID, err)
		}
		if err := decodeJSONColumn(projects, &rec.Projects); err != nil {
			return nil, fmt.Errorf("decode projects for %s: %w", rec.ID, err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cvs: %w", err)
	}
	return out, nil
}

// encodeJSONColumn returns text so the same argument binds to JSONB and TEXT.
func encodeJSONColumn(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeJSONColumn(raw []byte, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
