package worker

import (
	"context"
	"errors"

	"github.com/byronwade/rebuzzle/internal/jobs"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/push"
	"github.com/byronwade/rebuzzle/internal/repository"
)

// GenerationLogJob writes one decision-tracking record. Failures are
// logged and swallowed; the record is lost, the game is not.
type GenerationLogJob struct {
	Repo   repository.GenerationRepository
	Record models.GenerationRecord
}

func (j *GenerationLogJob) Name() string { return "generation-log" }

func (j *GenerationLogJob) Run(ctx context.Context) error {
	if err := j.Repo.Insert(ctx, j.Record); err != nil {
		logger.FromContext(ctx).Warn("generation log write failed: %v", err)
	}
	return nil
}

// PushDeliveryJob sends one notification to one subscription and prunes
// the subscription when the push service reports the endpoint gone.
type PushDeliveryJob struct {
	Sender       push.Sender
	Repo         repository.SubscriptionRepository
	Subscription models.PushSubscription
	Payload      []byte
}

func (j *PushDeliveryJob) Name() string { return "push-delivery" }

func (j *PushDeliveryJob) Run(ctx context.Context) error {
	err := j.Sender.Send(ctx, j.Subscription, j.Payload)
	if errors.Is(err, push.ErrSubscriptionGone) {
		log := logger.FromContext(ctx)
		log.Info("pruning expired push subscription: id=%d", j.Subscription.ID)
		if delErr := j.Repo.DeleteByEndpoint(ctx, j.Subscription.Endpoint); delErr != nil {
			log.Warn("failed to prune push subscription: %v", delErr)
		}
		return nil
	}
	return err
}

// queue wires the fire-and-forget Queue abstraction to worker pools.
type queue struct {
	logPool  *Pool
	pushPool *Pool
	genRepo  repository.GenerationRepository
	subRepo  repository.SubscriptionRepository
	sender   push.Sender
}

// NewQueue returns a jobs.Queue backed by the given pools.
func NewQueue(logPool, pushPool *Pool, genRepo repository.GenerationRepository, subRepo repository.SubscriptionRepository, sender push.Sender) jobs.Queue {
	return &queue{
		logPool:  logPool,
		pushPool: pushPool,
		genRepo:  genRepo,
		subRepo:  subRepo,
		sender:   sender,
	}
}

func (q *queue) EnqueueGenerationLog(rec models.GenerationRecord) bool {
	return q.logPool.TrySubmit(&GenerationLogJob{Repo: q.genRepo, Record: rec})
}

func (q *queue) EnqueuePush(sub models.PushSubscription, payload []byte) bool {
	return q.pushPool.TrySubmit(&PushDeliveryJob{
		Sender:       q.sender,
		Repo:         q.subRepo,
		Subscription: sub,
		Payload:      payload,
	})
}
