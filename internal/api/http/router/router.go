package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/telecare_backend/config"
	"github.com/Alijeyrad/telecare_backend/internal/api/http/handler"
	"github.com/Alijeyrad/telecare_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/telecare_backend/internal/service/checkout"
	"github.com/Alijeyrad/telecare_backend/internal/service/coupon"
	"github.com/Alijeyrad/telecare_backend/internal/service/evaluation"
	"github.com/Alijeyrad/telecare_backend/internal/service/product"
	"github.com/Alijeyrad/telecare_backend/internal/service/questionnaire"
	"github.com/Alijeyrad/telecare_backend/internal/service/quizresponse"
	"github.com/Alijeyrad/telecare_backend/internal/service/quizsession"
	"github.com/Alijeyrad/telecare_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/telecare_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg              *config.Config
	Redis            *redis.Client
	Auth             authorize.IAuthorization
	PasetoMgr        *pasetotoken.Manager
	QuestionnaireSvc questionnaire.Service
	QuizResponseSvc  quizresponse.Service
	QuizSessionSvc   quizsession.Service
	EvaluationSvc    evaluation.Service
	CouponSvc        coupon.Service
	ProductSvc       product.Service
	CheckoutSvc      checkout.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

type permFunc func(authorize.Resource, authorize.Action) fiber.Handler

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, middleware.RedisSessions(r.p.Redis))

	// Permission helper
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Initialize Handlers
	questionnaireH := handler.NewQuestionnaireHandler(r.p.QuestionnaireSvc)
	quizH := handler.NewQuizHandler(r.p.QuizResponseSvc)
	sessionH := handler.NewQuizSessionHandler(r.p.QuizSessionSvc)
	evaluationH := handler.NewEvaluationHandler(r.p.EvaluationSvc)
	couponH := handler.NewCouponHandler(r.p.CouponSvc)
	productH := handler.NewProductHandler(r.p.ProductSvc)
	checkoutH := handler.NewCheckoutHandler(r.p.CheckoutSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerQuizRoutes(api, questionnaireH, quizH, sessionH, authRequired)
	r.registerEvaluationRoutes(api, evaluationH, authRequired)
	r.registerCatalogRoutes(api, productH)
	r.registerCheckoutRoutes(api, checkoutH, authRequired)

	admin := api.Group("/admin", authRequired)
	r.registerAdminQuestionnaireRoutes(admin, questionnaireH, requirePerm)
	r.registerAdminEvaluationRoutes(admin, evaluationH, requirePerm)
	r.registerAdminCouponRoutes(admin, couponH, requirePerm)
	r.registerAdminProductRoutes(admin, productH, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return authorize.IsPolicyHealthy() },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
