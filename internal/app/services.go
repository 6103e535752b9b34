package app

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/telecare_backend/config"
	"github.com/Alijeyrad/telecare_backend/internal/repo"
	"github.com/Alijeyrad/telecare_backend/internal/service/checkout"
	"github.com/Alijeyrad/telecare_backend/internal/service/coupon"
	"github.com/Alijeyrad/telecare_backend/internal/service/evaluation"
	"github.com/Alijeyrad/telecare_backend/internal/service/notification"
	"github.com/Alijeyrad/telecare_backend/internal/service/product"
	"github.com/Alijeyrad/telecare_backend/internal/service/questionnaire"
	"github.com/Alijeyrad/telecare_backend/internal/service/quizresponse"
	"github.com/Alijeyrad/telecare_backend/internal/service/quizsession"
	"github.com/Alijeyrad/telecare_backend/pkg/constants"
	"github.com/Alijeyrad/telecare_backend/pkg/crypto"
	"github.com/Alijeyrad/telecare_backend/pkg/email"
	"github.com/Alijeyrad/telecare_backend/pkg/events"
	"github.com/Alijeyrad/telecare_backend/pkg/observability"
	pasetotoken "github.com/Alijeyrad/telecare_backend/pkg/paseto"
	redispkg "github.com/Alijeyrad/telecare_backend/pkg/redis"
	"github.com/Alijeyrad/telecare_backend/pkg/sms"
	"github.com/Alijeyrad/telecare_backend/pkg/util/codes"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvidePasetoManager,
		ProvideQuestionnaireService,
		ProvideQuizResponseService,
		ProvideEvaluationService,
		ProvideQuizSessionService,
		ProvideCouponService,
		ProvideProductService,
		ProvideCheckoutService,
		ProvideNotificationService,
	),
)

func minutes(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Minute
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}

func ProvideQuestionnaireService(db *repo.Client) questionnaire.Service {
	return questionnaire.NewFromClient(db)
}

func ProvideQuizResponseService(db *repo.Client, pub events.Publisher, metrics *observability.Metrics) quizresponse.Service {
	return quizresponse.New(db.QuizResponses, pub, metrics)
}

func ProvideEvaluationService(db *repo.Client, sealer crypto.Sealer, pub events.Publisher, metrics *observability.Metrics) evaluation.Service {
	return evaluation.New(db.Evaluations, sealer, pub, metrics)
}

func ProvideQuizSessionService(
	rdb *redis.Client,
	cfg *config.Config,
	questionnaires questionnaire.Service,
	responses quizresponse.Service,
	evaluations evaluation.Service,
) quizsession.Service {
	ttl := minutes(cfg.Quiz.SessionTTLMinutes, 60)
	return quizsession.New(quizsession.Params{
		Sessions:        redispkg.NewJSONStore[quizsession.Session](rdb, constants.RedisQuizSessionPrefix, ttl),
		Questionnaires:  questionnaires,
		Responses:       responses,
		Evaluations:     evaluations,
		DefaultQuizType: cfg.Quiz.DefaultQuizType,
		TTL:             ttl,
	})
}

func ProvideCouponService(db *repo.Client, cfg *config.Config, metrics *observability.Metrics) coupon.Service {
	return coupon.New(db.Coupons, codes.FromCentralConfig(cfg.Codes), metrics)
}

func ProvideProductService(db *repo.Client) product.Service {
	return product.New(db.Products)
}

func ProvideCheckoutService(
	rdb *redis.Client,
	cfg *config.Config,
	coupons coupon.Service,
	products product.Service,
	pub events.Publisher,
	metrics *observability.Metrics,
) checkout.Service {
	return checkout.New(checkout.Params{
		Carts:     redispkg.NewJSONStore[checkout.Cart](rdb, constants.RedisCheckoutPrefix, minutes(cfg.Checkout.CartTTLMinutes, 120)),
		Coupons:   coupons,
		Products:  products,
		Publisher: pub,
		Metrics:   metrics,
		Currency:  cfg.Checkout.Currency,
	})
}

func ProvideNotificationService(db *repo.Client, emailClient *email.Client, smsClient *sms.Client) notification.Service {
	return notification.New(notification.Params{
		Users:       db.Users,
		Evaluations: db.Evaluations,
		Email:       emailClient,
		SMS:         smsClient,
	})
}
