package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/pkg/email"
	"github.com/Alijeyrad/telecare_backend/pkg/events"
)

type stubUsers map[uuid.UUID]*repo.User

func (s stubUsers) Get(_ context.Context, id uuid.UUID) (*repo.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

type stubEvaluations map[uuid.UUID]*repo.EvaluationView

func (s stubEvaluations) Get(_ context.Context, id uuid.UUID) (*repo.EvaluationView, error) {
	if v, ok := s[id]; ok {
		return v, nil
	}
	return nil, repo.ErrNotFound
}

type recordingEmail struct {
	sent []email.Message
	err  error
}

func (r *recordingEmail) Send(_ context.Context, m email.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m)
	return nil
}

type smsCall struct {
	phone    string
	approved bool
	name     string
}

type recordingSMS struct {
	enabled bool
	calls   []smsCall
}

func (r *recordingSMS) SendDecision(_ context.Context, phone string, approved bool, name string) error {
	r.calls = append(r.calls, smsCall{phone, approved, name})
	return nil
}

func (r *recordingSMS) IsEnabled() bool { return r.enabled }

func strPtr(s string) *string { return &s }

type fixture struct {
	svc   Service
	users stubUsers
	evals stubEvaluations
	mail  *recordingEmail
	sms   *recordingSMS
}

func newFixture() *fixture {
	f := &fixture{
		users: stubUsers{},
		evals: stubEvaluations{},
		mail:  &recordingEmail{},
		sms:   &recordingSMS{enabled: true},
	}
	f.svc = New(Params{Users: f.users, Evaluations: f.evals, Email: f.mail, SMS: f.sms})
	return f
}

func (f *fixture) evaluation(status repo.EvaluationStatus, patient *repo.User) *repo.EvaluationView {
	v := &repo.EvaluationView{
		ClinicalEvaluation: repo.ClinicalEvaluation{ID: uuid.New(), UserID: patient.ID, Status: status},
		Patient:            patient,
	}
	f.evals[v.ID] = v
	return v
}

func TestDecisionApproved(t *testing.T) {
	f := newFixture()
	patient := &repo.User{ID: uuid.New(), FullName: "Maria Souza", Email: "maria@example.com", Phone: strPtr("11 98765-4321")}
	v := f.evaluation(repo.EvaluationApproved, patient)

	err := f.svc.EvaluationReviewed(context.Background(), events.EvaluationReviewed{EvaluationID: v.ID, Status: string(v.Status)})
	require.NoError(t, err)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, []string{"maria@example.com"}, f.mail.sent[0].To)
	assert.Contains(t, f.mail.sent[0].TextBody, "aprovada")
	require.Len(t, f.sms.calls, 1)
	assert.Equal(t, smsCall{"11 98765-4321", true, "Maria Souza"}, f.sms.calls[0])
}

func TestDecisionDeniedIncludesReason(t *testing.T) {
	f := newFixture()
	patient := &repo.User{ID: uuid.New(), FullName: "João", Email: "joao@example.com"}
	v := f.evaluation(repo.EvaluationDenied, patient)
	v.DenialReason = strPtr("contraindicação")

	err := f.svc.EvaluationReviewed(context.Background(), events.EvaluationReviewed{EvaluationID: v.ID})
	require.NoError(t, err)

	require.Len(t, f.mail.sent, 1)
	assert.Contains(t, f.mail.sent[0].TextBody, "Motivo: contraindicação")
	assert.Empty(t, f.sms.calls, "no phone on file")
}

func TestNonFinalStatusIsIgnored(t *testing.T) {
	for _, st := range []repo.EvaluationStatus{repo.EvaluationAwaitingReview, repo.EvaluationInAnalysis, repo.EvaluationNeedsClarification} {
		f := newFixture()
		patient := &repo.User{ID: uuid.New(), Email: "p@example.com", Phone: strPtr("+5511987654321")}
		v := f.evaluation(st, patient)

		require.NoError(t, f.svc.EvaluationReviewed(context.Background(), events.EvaluationReviewed{EvaluationID: v.ID}))
		assert.Empty(t, f.mail.sent, st)
		assert.Empty(t, f.sms.calls, st)
	}
}

func TestPatientFallsBackToUserStore(t *testing.T) {
	f := newFixture()
	patient := &repo.User{ID: uuid.New(), Email: "p@example.com"}
	f.users[patient.ID] = patient
	v := f.evaluation(repo.EvaluationApproved, patient)
	v.Patient = nil

	require.NoError(t, f.svc.EvaluationReviewed(context.Background(), events.EvaluationReviewed{EvaluationID: v.ID}))
	assert.Len(t, f.mail.sent, 1)

	delete(f.users, patient.ID)
	err := f.svc.EvaluationReviewed(context.Background(), events.EvaluationReviewed{EvaluationID: v.ID})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestUnknownEvaluation(t *testing.T) {
	f := newFixture()
	err := f.svc.EvaluationReviewed(context.Background(), events.EvaluationReviewed{EvaluationID: uuid.New()})
	assert.ErrorIs(t, err, ErrEvaluationNotFound)
}

func TestDisabledChannelsAreSkipped(t *testing.T) {
	f := newFixture()
	f.mail.err = email.ErrDisabled{}
	f.sms.enabled = false
	patient := &repo.User{ID: uuid.New(), Email: "p@example.com", Phone: strPtr("+5511987654321")}
	v := f.evaluation(repo.EvaluationDenied, patient)

	require.NoError(t, f.svc.EvaluationReviewed(context.Background(), events.EvaluationReviewed{EvaluationID: v.ID}))
	assert.Empty(t, f.sms.calls)
}

func TestEmailFailureIsReported(t *testing.T) {
	f := newFixture()
	f.mail.err = errors.New("smtp down")
	patient := &repo.User{ID: uuid.New(), Email: "p@example.com", Phone: strPtr("+5511987654321")}
	v := f.evaluation(repo.EvaluationApproved, patient)

	err := f.svc.EvaluationReviewed(context.Background(), events.EvaluationReviewed{EvaluationID: v.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Len(t, f.sms.calls, 1, "sms still sent")
}

func TestReceipt(t *testing.T) {
	f := newFixture()
	u := &repo.User{ID: uuid.New(), FullName: "Ana", Email: "ana@example.com"}
	f.users[u.ID] = u
	orderID := uuid.New()

	err := f.svc.CheckoutCompleted(context.Background(), events.CheckoutCompleted{
		OrderID: orderID, UserID: u.ID, ProductName: "Consulta",
		Subtotal: 10000, Discount: 1000, Total: 9000, Currency: "BRL", CouponCode: "DESCONTO10",
	})
	require.NoError(t, err)
	require.Len(t, f.mail.sent, 1)
	body := f.mail.sent[0].TextBody
	assert.Contains(t, body, orderID.String())
	assert.Contains(t, body, "Desconto (DESCONTO10): -BRL 10,00")
	assert.Contains(t, body, "Total: BRL 90,00")

	err = f.svc.CheckoutCompleted(context.Background(), events.CheckoutCompleted{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
