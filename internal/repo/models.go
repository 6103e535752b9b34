package repo

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
)

// User is the read-only patient/staff profile owned by the identity provider.
type User struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Questionnaire struct {
	ID           uuid.UUID              `json:"id"`
	Title        string                 `json:"title"`
	Description  *string                `json:"description,omitempty"`
	Type         quiz.QuestionnaireType `json:"type"`
	Active       bool                   `json:"active"`
	DisplayOrder int                    `json:"displayOrder"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
	DeletedAt    *time.Time             `json:"deletedAt,omitempty"`

	Questions []*Question `json:"questions,omitempty"`
}

type Question struct {
	ID              uuid.UUID       `json:"id"`
	QuestionnaireID uuid.UUID       `json:"questionnaireId"`
	Title           string          `json:"title"`
	Description     *string         `json:"description,omitempty"`
	AnswerType      quiz.AnswerType `json:"answerType"`
	Options         []string        `json:"options,omitempty"`
	Required        bool            `json:"required"`
	DisplayOrder    int             `json:"displayOrder"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// QuizQuestion projects the stored question onto the validator's view.
func (q *Question) QuizQuestion() quiz.Question {
	return quiz.Question{
		ID:       q.ID.String(),
		Title:    q.Title,
		Type:     q.AnswerType,
		Options:  q.Options,
		Required: q.Required,
	}
}

// QuizResponse is the latest answer bundle of a user for one quiz type.
type QuizResponse struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"userId"`
	QuizType    string       `json:"quizType"`
	Responses   quiz.Answers `json:"responses"`
	CompletedAt time.Time    `json:"completedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// EvaluationStatus is the internal review state of a clinical evaluation.
type EvaluationStatus string

const (
	EvaluationAwaitingReview     EvaluationStatus = "aguardando_revisao"
	EvaluationInAnalysis         EvaluationStatus = "em_analise"
	EvaluationNeedsClarification EvaluationStatus = "necessita_esclarecimento"
	EvaluationApproved           EvaluationStatus = "aprovado"
	EvaluationDenied             EvaluationStatus = "negado"
)

var EvaluationStatuses = []EvaluationStatus{
	EvaluationAwaitingReview, EvaluationInAnalysis, EvaluationNeedsClarification,
	EvaluationApproved, EvaluationDenied,
}

func (s EvaluationStatus) Valid() bool {
	for _, v := range EvaluationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// EvaluationAnswer is one question/answer pair frozen at submission time.
type EvaluationAnswer struct {
	QuestionID string          `json:"questionId"`
	Question   string          `json:"question"`
	AnswerType quiz.AnswerType `json:"answerType"`
	Answer     string          `json:"answer"`
}

type ClinicalEvaluation struct {
	ID                   uuid.UUID          `json:"id"`
	UserID               uuid.UUID          `json:"userId"`
	QuestionnaireAnswers []EvaluationAnswer `json:"questionnaireAnswers"`
	MedicationRequested  string             `json:"medicationRequested"`
	Status               EvaluationStatus   `json:"status"`
	ReviewerID           *uuid.UUID         `json:"reviewerId,omitempty"`
	MedicalNotes         *string            `json:"medicalNotes,omitempty"`
	DenialReason         *string            `json:"denialReason,omitempty"`
	SubmittedAt          time.Time          `json:"submittedAt"`
	ReviewedAt           *time.Time         `json:"reviewedAt,omitempty"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

// EvaluationView is an evaluation joined with the patient profile and the
// reviewing clinician's name.
type EvaluationView struct {
	ClinicalEvaluation
	Patient      *User   `json:"patient,omitempty"`
	ReviewerName *string `json:"reviewerName,omitempty"`
}

type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

func (k DiscountKind) Valid() bool { return k == DiscountPercentage || k == DiscountFixed }

// Coupon amounts are percentage points for DiscountPercentage and cents for
// DiscountFixed. UsageCap 0 means unlimited.
type Coupon struct {
	ID             uuid.UUID    `json:"id"`
	Code           string       `json:"code"`
	DiscountAmount int64        `json:"discountAmount"`
	DiscountKind   DiscountKind `json:"discountKind"`
	ExpiresAt      time.Time    `json:"expiresAt"`
	Active         bool         `json:"active"`
	UsageCap       int          `json:"usageCap"`
	UsageCount     int          `json:"usageCount"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
