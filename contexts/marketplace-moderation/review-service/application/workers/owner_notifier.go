package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	application "bazaar/contexts/marketplace-moderation/review-service/application"
	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

const defaultNotifierGroup = "review-owner-notifier-cg"

var ownerNotificationTopics = []string{
	"store.approved",
	"store.rejected",
	"store.resubmitted",
	"product.approved",
	"product.rejected",
	"product.resubmitted",
}

// OwnerNotifier consumes published review events and emits one notification
// per event toward the store owner channel. Delivery is a structured log
// line until an external notification gateway is wired in; replayed events
// are dropped through the dedup store.
type OwnerNotifier struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.IdempotencyStore
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Logger        *slog.Logger
}

func (n OwnerNotifier) Start(ctx context.Context) error {
	group := n.ConsumerGroup
	if group == "" {
		group = defaultNotifierGroup
	}
	for _, topic := range ownerNotificationTopics {
		if err := n.Subscriber.Subscribe(ctx, topic, group, n.handle); err != nil {
			return err
		}
	}
	return nil
}

func (n OwnerNotifier) handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(n.Logger)
	now := time.Now().UTC()
	if n.Clock != nil {
		now = n.Clock.Now().UTC()
	}

	if n.Dedup != nil {
		key := "notify:" + event.EventID
		if _, seen, err := n.Dedup.GetRecord(ctx, key, now); err != nil {
			return err
		} else if seen {
			logger.Debug("owner notification replay dropped",
				"event", "review_owner_notification_replayed",
				"module", "marketplace-moderation/review-service",
				"layer", "worker",
				"event_id", event.EventID,
			)
			return nil
		}
		if err := n.Dedup.PutRecord(ctx, ports.IdempotencyRecord{
			Key:         key,
			RequestHash: hashEventPayload(event.Data),
			ExpiresAt:   now.Add(n.dedupTTL()),
		}); err != nil {
			return err
		}
	}

	logger.Info("owner notification emitted",
		"event", "review_owner_notification",
		"module", "marketplace-moderation/review-service",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"target_id", event.PartitionKey,
	)
	return nil
}

func (n OwnerNotifier) dedupTTL() time.Duration {
	if n.DedupTTL > 0 {
		return n.DedupTTL
	}
	return 7 * 24 * time.Hour
}

func hashEventPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
