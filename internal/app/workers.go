package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/telecare_backend/internal/service/notification"
	"github.com/Alijeyrad/telecare_backend/pkg/constants"
	"github.com/Alijeyrad/telecare_backend/pkg/events"
)

const workerTimeout = 30 * time.Second

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn `optional:"true"`
	NotifSvc notification.Service
}

func RegisterWorkers(p WorkerParams) {
	var subs []*nats.Subscription

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.NC == nil {
				slog.Info("workers: nats disabled, notifications off")
				return nil
			}
			subs = startNotificationWorker(p.NC, p.NotifSvc)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			return nil
		},
	})
}

// subscribe decodes each message into T and hands it to fn with a bounded
// background context.
func subscribe[T any](nc *nats.Conn, subject string, fn func(context.Context, T) error) *nats.Subscription {
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		var ev T
		if err := events.Decode(msg, &ev); err != nil {
			slog.Warn("notification_worker: bad payload", "subject", msg.Subject, "err", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), workerTimeout)
		defer cancel()

		if err := fn(ctx, ev); err != nil {
			slog.Warn("notification_worker: handler failed", "subject", msg.Subject, "err", err)
		}
	})
	if err != nil {
		slog.Error("notification_worker: subscribe failed", "subject", subject, "err", err)
		return nil
	}
	return sub
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

func startNotificationWorker(nc *nats.Conn, svc notification.Service) []*nats.Subscription {
	var subs []*nats.Subscription
	for _, s := range []*nats.Subscription{
		subscribe(nc, constants.SubjectEvaluationReviewed+".*", svc.EvaluationReviewed),
		subscribe(nc, constants.SubjectCheckoutCompleted+".*", svc.CheckoutCompleted),
	} {
		if s != nil {
			subs = append(subs, s)
		}
	}
	slog.Info("notification_worker: started", "subscriptions", len(subs))
	return subs
}
