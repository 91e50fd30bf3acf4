// Package probe defines the core types shared across the scan pipeline.
package probe

import (
	"time"

	"github.com/google/uuid"
)

// Job is one unit of scan work: a normalized target paired with the
// pattern set to test against it. Jobs are immutable after construction
// and delivered to exactly one worker.
type Job struct {
	RunID    uuid.UUID
	Target   string
	Patterns *PatternSet
}

// JobResult records a successful classification of a target. It is
// produced by a worker, forwarded to the sink, and discarded.
type JobResult struct {
	Target    string
	Pattern   string
	MatchedAt time.Time
}
