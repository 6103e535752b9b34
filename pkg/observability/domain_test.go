package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.QuizSubmitted(context.Background(), "initial_assessment")
		m.EvaluationTransitioned(context.Background(), "aprovado")
		m.CouponRedeemed(context.Background(), true)
		m.CheckoutCompleted(context.Background())
	})
}

func TestNewMetricsOnDefaultProvider(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	assert.NotPanics(t, func() { m.QuizSubmitted(context.Background(), "follow_up") })
}
