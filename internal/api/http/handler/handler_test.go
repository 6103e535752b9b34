package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/internal/service/checkout"
	"github.com/Alijeyrad/telecare_backend/internal/service/coupon"
	"github.com/Alijeyrad/telecare_backend/internal/service/evaluation"
	"github.com/Alijeyrad/telecare_backend/internal/service/questionnaire"
	"github.com/Alijeyrad/telecare_backend/internal/service/quizresponse"
	"github.com/Alijeyrad/telecare_backend/internal/service/quizsession"
	pasetotoken "github.com/Alijeyrad/telecare_backend/pkg/paseto"
	"github.com/Alijeyrad/telecare_backend/pkg/reqctx"
)

// asUser stands in for the auth middleware.
func asUser(userID uuid.UUID, sessionID *uuid.UUID) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims := &pasetotoken.Claims{Type: pasetotoken.TokenTypeAccess, UserID: userID, SessionID: sessionID}
		c.SetContext(reqctx.WithClaims(c.Context(), claims))
		return c.Next()
	}
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// --- quiz bundles ---

type stubQuizResponses struct {
	quizresponse.Service
	got quizresponse.SubmitRequest
}

func (s *stubQuizResponses) Submit(_ context.Context, req quizresponse.SubmitRequest) (*repo.QuizResponse, error) {
	s.got = req
	return &repo.QuizResponse{ID: uuid.New(), UserID: req.UserID, QuizType: req.QuizType, Responses: req.Responses}, nil
}

func (s *stubQuizResponses) HasAny(context.Context, uuid.UUID) (bool, error) { return true, nil }

func TestQuizSubmit(t *testing.T) {
	svc := &stubQuizResponses{}
	h := NewQuizHandler(svc)
	user := uuid.New()

	app := fiber.New()
	app.Use(asUser(user, nil))
	app.Post("/quiz", h.Submit)
	app.Get("/quiz/check", h.Check)

	status, body := do(t, app, http.MethodPost, "/quiz", `{"quizType":"sexual_health","responses":{"q1":"Sim","q2":42}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, user, svc.got.UserID)
	assert.Equal(t, "42", svc.got.Responses["q2"].Value)
	data := body["data"].(map[string]any)
	assert.Equal(t, "sexual_health", data["quizType"])

	status, body = do(t, app, http.MethodPost, "/quiz", `{"quizType":"","responses":{"q1":"x"}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "quizType is required", body["error"])

	status, _ = do(t, app, http.MethodPost, "/quiz", `{"quizType":"a","responses":{}}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, app, http.MethodGet, "/quiz/check", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["hasResponses"])
}

func TestQuizRequiresUser(t *testing.T) {
	app := fiber.New()
	app.Post("/quiz", NewQuizHandler(&stubQuizResponses{}).Submit)

	status, _ := do(t, app, http.MethodPost, "/quiz", `{"quizType":"a","responses":{"q":"v"}}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

// --- public questions ---

type stubQuestionnaires struct {
	questionnaire.Service
	active *repo.Questionnaire
}

func (s *stubQuestionnaires) ActiveQuestionnaire(context.Context, *quiz.QuestionnaireType) (*repo.Questionnaire, error) {
	if s.active == nil {
		return nil, questionnaire.ErrNoActiveQuestionnaire
	}
	return s.active, nil
}

func TestActiveQuestions(t *testing.T) {
	svc := &stubQuestionnaires{}
	app := fiber.New()
	app.Get("/quiz/perguntas", NewQuestionnaireHandler(svc).ActiveQuestions)

	status, body := do(t, app, http.MethodGet, "/quiz/perguntas", "")
	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Nil(t, data["questionnaire"])
	assert.Equal(t, []any{}, data["questions"])

	qnID := uuid.New()
	svc.active = &repo.Questionnaire{ID: qnID, Title: "Avaliação inicial", Type: quiz.QuestionnaireInitialAssessment, Active: true, Questions: []*repo.Question{
		{ID: uuid.New(), Title: "Idade", AnswerType: quiz.AnswerNumber, DisplayOrder: 1},
		{ID: uuid.New(), Title: "Fuma?", AnswerType: quiz.AnswerYesNo, DisplayOrder: 2, Options: []string{"Sim", "Não"}},
	}}
	status, body = do(t, app, http.MethodGet, "/quiz/perguntas", "")
	assert.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]any)
	header := data["questionnaire"].(map[string]any)
	assert.Equal(t, qnID.String(), header["id"])
	assert.Equal(t, "Avaliação inicial", header["title"])
	assert.Equal(t, string(quiz.QuestionnaireInitialAssessment), header["type"])
	assert.NotContains(t, header, "questions")
	list := data["questions"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "Idade", list[0].(map[string]any)["title"])

	// an active questionnaire without active questions still names itself
	svc.active = &repo.Questionnaire{ID: qnID, Title: "Avaliação inicial", Active: true}
	status, body = do(t, app, http.MethodGet, "/quiz/perguntas", "")
	assert.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]any)
	assert.NotNil(t, data["questionnaire"])
	assert.Equal(t, []any{}, data["questions"])

	status, _ = do(t, app, http.MethodGet, "/quiz/perguntas?type=bogus", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

// --- quiz sessions ---

type stubQuizSessions struct {
	quizsession.Service
}

func (stubQuizSessions) Answer(_ context.Context, _, _ uuid.UUID, value string) (*quizsession.View, error) {
	if value == "" {
		return nil, &quiz.FieldError{QuestionID: "q1", Message: "answer is required"}
	}
	return &quizsession.View{Phase: quiz.PhaseCompleted, Proceed: true, Next: quizsession.NextCheckout}, nil
}

func (stubQuizSessions) Back(context.Context, uuid.UUID, uuid.UUID) (*quizsession.View, error) {
	return nil, quizsession.ErrAtFirstQuestion
}

func (stubQuizSessions) Start(_ context.Context, req quizsession.StartRequest) (*quizsession.View, error) {
	if req.QuestionnaireID != nil {
		return nil, questionnaire.ErrQuestionnaireInactive
	}
	return nil, questionnaire.ErrNoActiveQuestionnaire
}

func TestQuizSessionStartOnUnavailableQuestionnaire(t *testing.T) {
	h := NewQuizSessionHandler(stubQuizSessions{})
	app := fiber.New()
	app.Use(asUser(uuid.New(), nil))
	app.Post("/quiz/sessions", h.Start)

	status, body := do(t, app, http.MethodPost, "/quiz/sessions", `{"questionnaireId":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, questionnaire.ErrQuestionnaireInactive.Error(), body["error"])

	status, _ = do(t, app, http.MethodPost, "/quiz/sessions", `{"quizType":"initial_assessment"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestQuizSessionAnswer(t *testing.T) {
	h := NewQuizSessionHandler(stubQuizSessions{})
	app := fiber.New()
	app.Use(asUser(uuid.New(), nil))
	app.Post("/quiz/sessions/:id/answer", h.Answer)
	app.Post("/quiz/sessions/:id/back", h.Back)
	path := "/quiz/sessions/" + uuid.NewString()

	status, body := do(t, app, http.MethodPost, path+"/answer", `{"value":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "q1", body["detail"].(map[string]any)["questionId"])

	status, body = do(t, app, http.MethodPost, path+"/answer", `{"value":"Sim"}`)
	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["proceed"])
	assert.Equal(t, "checkout", data["next"])

	status, _ = do(t, app, http.MethodPost, path+"/back", "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = do(t, app, http.MethodPost, "/quiz/sessions/not-a-uuid/answer", `{"value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

// --- evaluations ---

type stubEvaluations struct {
	evaluation.Service
	got evaluation.TransitionRequest
}

func (s *stubEvaluations) Transition(_ context.Context, req evaluation.TransitionRequest) (*evaluation.Evaluation, error) {
	s.got = req
	if _, err := evaluation.ParseExternal(req.Status); err != nil {
		return nil, err
	}
	v := &repo.EvaluationView{ClinicalEvaluation: repo.ClinicalEvaluation{ID: req.ID, Status: repo.EvaluationApproved}}
	return &evaluation.Evaluation{EvaluationView: v, DisplayStatus: evaluation.ExternalApproved}, nil
}

func TestEvaluationTransition(t *testing.T) {
	svc := &stubEvaluations{}
	reviewer := uuid.New()
	app := fiber.New()
	app.Use(asUser(reviewer, nil))
	app.Patch("/admin/avaliacoes", NewEvaluationHandler(svc).Transition)
	id := uuid.New()

	status, body := do(t, app, http.MethodPatch, "/admin/avaliacoes", `{"id":"`+id.String()+`","status":"approved","notes":"ok"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, reviewer, svc.got.ReviewerID)
	assert.Equal(t, id, svc.got.ID)
	assert.Equal(t, "aprovado", body["data"].(map[string]any)["displayStatus"])

	status, _ = do(t, app, http.MethodPatch, "/admin/avaliacoes", `{"id":"`+id.String()+`","status":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, app, http.MethodPatch, "/admin/avaliacoes", `{"status":"approved"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["fields"], "id")
}

// --- checkout ---

type stubCheckout struct {
	checkout.Service
	session string
}

func (s *stubCheckout) ApplyCoupon(_ context.Context, session, code string) (*checkout.ApplyResult, error) {
	s.session = session
	switch code {
	case "VELHO":
		return nil, coupon.ErrCouponExpired
	case "NADA":
		return nil, coupon.ErrCouponNotFound
	}
	return &checkout.ApplyResult{Coupon: &repo.Coupon{Code: code}}, nil
}

func TestCheckoutApplyCoupon(t *testing.T) {
	svc := &stubCheckout{}
	user, sid := uuid.New(), uuid.New()
	app := fiber.New()
	app.Use(asUser(user, &sid))
	app.Post("/checkout/cupom", NewCheckoutHandler(svc).ApplyCoupon)

	status, _ := do(t, app, http.MethodPost, "/checkout/cupom", `{"code":"DESCONTO10"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, sid.String(), svc.session, "cart keyed by auth session")

	status, _ = do(t, app, http.MethodPost, "/checkout/cupom", `{"code":"VELHO"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = do(t, app, http.MethodPost, "/checkout/cupom", `{"code":"NADA"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodPost, "/checkout/cupom", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCheckoutSessionFallsBackToUser(t *testing.T) {
	svc := &stubCheckout{}
	user := uuid.New()
	app := fiber.New()
	app.Use(asUser(user, nil))
	app.Post("/checkout/cupom", NewCheckoutHandler(svc).ApplyCoupon)

	status, _ := do(t, app, http.MethodPost, "/checkout/cupom", `{"code":"DESCONTO10"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, user.String(), svc.session)
}
