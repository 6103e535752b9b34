package notification

import "errors"

var (
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrPatientNotFound    = errors.New("patient not found")
)
