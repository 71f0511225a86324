package jobs

import "github.com/byronwade/rebuzzle/internal/models"

// Queue provides an abstraction for enqueueing background jobs. Both
// methods are fire-and-forget: they report whether the job was accepted
// and never block the caller.
type Queue interface {
	EnqueueGenerationLog(rec models.GenerationRecord) bool
	EnqueuePush(sub models.PushSubscription, payload []byte) bool
}
