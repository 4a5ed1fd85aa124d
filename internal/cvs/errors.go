package cvs

import (
	"errors"
	"fmt"

	"cv-backend/internal/extract"
	"cv-backend/internal/uploads"
)

var (
	ErrNoFile             = uploads.ErrNoFile
	ErrUnreadableDocument = extract.ErrUnreadableDocument
	ErrExtraction         = errors.New("extraction failed")
	ErrStorage            = errors.New("storage failure")

	ErrMalformedServiceReply = fmt.Errorf("%w: malformed service reply", ErrExtraction)
	ErrServiceUnavailable    = fmt.Errorf("%w: extraction service unavailable", ErrExtraction)
)
