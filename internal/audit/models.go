package audit

import (
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a check ended.
type Outcome string

const (
	OutcomePass  Outcome = "pass"
	OutcomeFail  Outcome = "fail"
	OutcomeError Outcome = "error"
)

// Event is one completed background check, kept for operator review. It
// records the verdict, not the underlying metrics.
type Event struct {
	ID          uuid.UUID
	SubjectName string
	Outcome     Outcome
	Detail      string // error text for OutcomeError, empty otherwise
	Timestamp   time.Time
}
