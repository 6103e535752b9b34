package quizsession

import "errors"

var (
	ErrSessionNotFound = errors.New("quiz session not found or expired")
	ErrSessionFinished = errors.New("quiz session is no longer accepting answers")
	ErrAtFirstQuestion = errors.New("already at the first question")

	// errSubmitFailed is what the client sees when saving answers fails;
	// the cause is only logged.
	errSubmitFailed = errors.New("could not save answers")
	// errEvaluationFailed means the bundle was stored but no evaluation
	// was opened for it.
	errEvaluationFailed = errors.New("answers saved, evaluation not opened")
)
