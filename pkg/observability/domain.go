package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics are the business counters exported next to the HTTP ones. A nil
// *Metrics records nothing, so services can run without telemetry.
type Metrics struct {
	quizSubmissions       metric.Int64Counter
	evaluationTransitions metric.Int64Counter
	couponRedemptions     metric.Int64Counter
	checkouts             metric.Int64Counter
}

// NewMetrics registers the counters on the global meter provider. Call it
// after InitTelemetry so they reach the Prometheus exporter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(tracerName)
	m := &Metrics{}
	var err error

	if m.quizSubmissions, err = meter.Int64Counter("telecare_quiz_submissions_total",
		metric.WithDescription("Answer bundles stored, by quiz type")); err != nil {
		return nil, err
	}
	if m.evaluationTransitions, err = meter.Int64Counter("telecare_evaluation_transitions_total",
		metric.WithDescription("Clinical evaluation status writes, by internal status")); err != nil {
		return nil, err
	}
	if m.couponRedemptions, err = meter.Int64Counter("telecare_coupon_redemptions_total",
		metric.WithDescription("Coupon redemption attempts, by outcome")); err != nil {
		return nil, err
	}
	if m.checkouts, err = meter.Int64Counter("telecare_checkouts_total",
		metric.WithDescription("Completed checkouts")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) QuizSubmitted(ctx context.Context, quizType string) {
	if m == nil {
		return
	}
	m.quizSubmissions.Add(ctx, 1, metric.WithAttributes(attribute.String("quiz_type", quizType)))
}

func (m *Metrics) EvaluationTransitioned(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.evaluationTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *Metrics) CouponRedeemed(ctx context.Context, ok bool) {
	if m == nil {
		return
	}
	m.couponRedemptions.Add(ctx, 1, metric.WithAttributes(attribute.Bool("redeemed", ok)))
}

func (m *Metrics) CheckoutCompleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.checkouts.Add(ctx, 1)
}
