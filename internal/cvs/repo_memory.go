package cvs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []PersistedRecord
	now     func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{now: time.Now}
}

// Store appends a record with a fresh id and timestamp.
func (r *MemoryRepo) Store(ctx context.Context, rec ExtractedRecord) (PersistedRecord, error) {
	if err := ctx.Err(); err != nil {
		return PersistedRecord{}, err
	}
	persisted := PersistedRecord{
		ID:              uuid.NewString(),
		CreatedAt:       r.now().UTC(),
		ExtractedRecord: cloneRecord(rec),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, persisted)
	return persisted, nil
}

// ListAll returns copies of all records in insertion order.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]PersistedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PersistedRecord, len(r.records))
	for i, rec := range r.records {
		out[i] = rec
		out[i].ExtractedRecord = cloneRecord(rec.ExtractedRecord)
	}
	return out, nil
}

func cloneRecord(rec ExtractedRecord) ExtractedRecord {
	rec.Skills = append([]string{}, rec.Skills...)
	rec.Experience = append([]ExperienceEntry{}, rec.Experience...)
	rec.Education = append([]EducationEntry{}, rec.Education...)
	rec.Projects = append([]ProjectEntry{}, rec.Projects...)
	return rec
}
