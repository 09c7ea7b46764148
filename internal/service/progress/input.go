package progress

import "github.com/heartmarshall/lexitrack/internal/domain"

// GetHistoryInput holds the parameters for fetching daily history.
type GetHistoryInput struct {
	Days int
}

// Validate checks all fields and collects all errors.
func (i *GetHistoryInput) Validate() error {
	var errs []domain.FieldError

	if i.Days <= 0 {
		errs = append(errs, domain.FieldError{Field: "days", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
