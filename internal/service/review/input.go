package review

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// Due queue limits.
const (
	DefaultDueLimit = 10
	MaxDueLimit     = 200
)

// GetDueItemsInput holds the parameters for fetching due items.
// A zero Now means the service clock.
type GetDueItemsInput struct {
	Limit int
	Now   time.Time
}

// Validate checks all fields and collects all errors.
func (i *GetDueItemsInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 || i.Limit > MaxDueLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ScheduleReviewInput holds a graded recall for one item.
// Quality outside [0,5] is clamped by the scheduler.
type ScheduleReviewInput struct {
	ItemID  uuid.UUID
	Quality float64
}

// Validate checks all fields and collects all errors.
func (i *ScheduleReviewInput) Validate() error {
	var errs []domain.FieldError

	if i.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if math.IsNaN(i.Quality) || math.IsInf(i.Quality, 0) {
		errs = append(errs, domain.FieldError{Field: "quality", Message: "must be a finite number"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RecordOutcomeInput holds a binary review outcome for one item.
type RecordOutcomeInput struct {
	ItemID  uuid.UUID
	Correct bool
}

// Validate checks all fields and collects all errors.
func (i *RecordOutcomeInput) Validate() error {
	if i.ItemID == uuid.Nil {
		return domain.NewValidationError("item_id", "required")
	}
	return nil
}
