package events

import (
	"time"

	"github.com/google/uuid"
)

type QuizSubmitted struct {
	UserID   uuid.UUID `json:"userId"`
	BundleID uuid.UUID `json:"bundleId"`
	QuizType string    `json:"quizType"`
}

type EvaluationCreated struct {
	EvaluationID uuid.UUID `json:"evaluationId"`
	UserID       uuid.UUID `json:"userId"`
}

type EvaluationReviewed struct {
	EvaluationID uuid.UUID  `json:"evaluationId"`
	UserID       uuid.UUID  `json:"userId"`
	Status       string     `json:"status"`
	ReviewerID   *uuid.UUID `json:"reviewerId,omitempty"`
	ReviewedAt   time.Time  `json:"reviewedAt"`
}

type CheckoutCompleted struct {
	OrderID     uuid.UUID `json:"orderId"`
	UserID      uuid.UUID `json:"userId"`
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	CouponCode  string    `json:"couponCode,omitempty"`
	Subtotal    int64     `json:"subtotal"`
	Discount    int64     `json:"discount"`
	Total       int64     `json:"total"`
	Currency    string    `json:"currency"`
	PaidAt      time.Time `json:"paidAt"`
}
