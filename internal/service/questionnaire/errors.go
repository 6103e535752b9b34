package questionnaire

import "errors"

var (
	ErrQuestionnaireNotFound    = errors.New("questionnaire not found")
	ErrQuestionNotFound         = errors.New("question not found")
	ErrNoActiveQuestionnaire    = errors.New("no active questionnaire")
	ErrQuestionnaireInactive    = errors.New("questionnaire is not active")
	ErrInvalidTitle             = errors.New("title must be at least 3 characters")
	ErrInvalidQuestionTitle     = errors.New("question title is required")
	ErrInvalidQuestionnaireType = errors.New("invalid questionnaire type")
	ErrInvalidQuestion          = errors.New("invalid question")
	ErrInvalidDisplayOrder      = errors.New("display order must not be negative")
)
