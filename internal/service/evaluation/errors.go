package evaluation

import "errors"

var (
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrInvalidStatus      = errors.New("invalid evaluation status")
	ErrEmptySnapshot      = errors.New("evaluation needs at least one answer")
	ErrInvalidReviewer    = errors.New("reviewer id is required")
	ErrNotesTooLong       = errors.New("notes must be 5000 characters or less")
)
