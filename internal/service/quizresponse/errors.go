package quizresponse

import "errors"

var (
	ErrInvalidQuizType = errors.New("quiz type is required")
	ErrNoAnswers       = errors.New("responses must contain at least one answer")
	ErrInvalidUser     = errors.New("user id is required")
)
