package constants

const (
	AppName      = "telecare"
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "TELECARE"
	DotEnvFile   = ".env"
)

// NATS subjects. Entity id is the last token.
const (
	SubjectQuizSubmitted      = "telecare.quiz.submitted"
	SubjectEvaluationCreated  = "telecare.evaluation.created"
	SubjectEvaluationReviewed = "telecare.evaluation.reviewed"
	SubjectCheckoutCompleted  = "telecare.checkout.completed"
)

// Redis key prefixes.
const (
	RedisAuthSessionPrefix = "session:"
	RedisQuizSessionPrefix = "quiz:session:"
	RedisCheckoutPrefix    = "checkout:cart:"
)
