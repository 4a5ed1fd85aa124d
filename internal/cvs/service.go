package cvs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cv-backend/internal/shared/metrics"
	"cv-backend/internal/shared/telemetry"
)

// TextExtractor decodes document bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, mimeType, fileName string) (string, error)
}

// FieldExtractor turns plain text into a candidate record. Implementations
// are swapped at configuration time.
type FieldExtractor interface {
	Extract(ctx context.Context, text string) (Candidate, error)
}

// Service runs the upload pipeline: text, fields, normalize, store.
type Service struct {
	Text     TextExtractor
	Fields   FieldExtractor
	Strategy string
	Repo     Repo
}

// Process extracts and persists one upload. Any stage failure aborts the run
// and nothing is stored.
func (s *Service) Process(ctx context.Context, up Upload) (PersistedRecord, error) {
	start := time.Now()
	rec, err := s.process(ctx, up)
	outcome := outcomeFor(err)
	metrics.ObserveExtraction(s.Strategy, outcome, time.Since(start))

	fields := map[string]any{
		"strategy":    s.Strategy,
		"file_name":   up.FileName,
		"mime_type":   up.MimeType,
		"size_bytes":  len(up.Data),
		"outcome":     outcome,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err
		telemetry.Warn("cv.process_failed", fields)
		return PersistedRecord{}, err
	}
	fields["cv_id"] = rec.ID
	telemetry.Info("cv.processed", fields)
	return rec, nil
}

func (s *Service) process(ctx context.Context, up Upload) (PersistedRecord, error) {
	text, err := s.Text.Extract(ctx, up.Data, up.MimeType, up.FileName)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return PersistedRecord{}, ctxErr
		}
		if errors.Is(err, ErrUnreadableDocument) {
			return PersistedRecord{}, err
		}
		return PersistedRecord{}, fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
	}

	candidate, err := s.Fields.Extract(ctx, text)
	if err != nil {
		if errors.Is(err, ErrExtraction) {
			return PersistedRecord{}, err
		}
		return PersistedRecord{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	rec := Normalize(candidate, text)

	persisted, err := s.Repo.Store(ctx, rec)
	if err != nil {
		return PersistedRecord{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return persisted, nil
}

// List returns all stored records in insertion order.
func (s *Service) List(ctx context.Context) ([]PersistedRecord, error) {
	records, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return records, nil
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrUnreadableDocument):
		return metrics.OutcomeUnreadable
	case errors.Is(err, ErrStorage):
		return metrics.OutcomeStorage
	default:
		return metrics.OutcomeExtraction
	}
}
