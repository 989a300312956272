package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QueryLogEntry is one row of the operational audit log. It records what
// was asked and how the pipeline performed, never the retrieved documents
// themselves.
type QueryLogEntry struct {
	ID          uuid.UUID
	Query       string
	Lang        string
	Mode        SearchMode
	TopN        int
	ResultCount int
	AnswerChars int
	ElapsedMs   int64
	CreatedAt   time.Time
}

// QueryLogRepository persists query audit entries. The audit log is
// optional; implementations must be safe to skip entirely.
type QueryLogRepository interface {
	Insert(ctx context.Context, entry *QueryLogEntry) error
}
