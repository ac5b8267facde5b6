package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	domainerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

// Store is the in-memory repository used by tests and NewInMemoryModule. It
// reproduces the compare-and-set status semantics of the postgres adapter.
type Store struct {
	mu sync.RWMutex

	stores     map[string]entities.StoreSubmission
	products   map[string]entities.Product
	comments   []entities.RejectionComment
	audits     []entities.ReviewAudit
	operations []entities.BulkReviewOperation
	outbox     []outboxRow
}

type outboxRow struct {
	message     ports.OutboxMessage
	published   bool
	publishedAt time.Time
}

func NewStore(seedStores []entities.StoreSubmission, seedProducts []entities.Product) *Store {
	stores := make(map[string]entities.StoreSubmission, len(seedStores))
	for _, item := range seedStores {
		stores[item.StoreID] = item
	}
	products := make(map[string]entities.Product, len(seedProducts))
	for _, item := range seedProducts {
		products[item.ProductID] = item
	}
	return &Store{
		stores:   stores,
		products: products,
	}
}

func (s *Store) GetStore(_ context.Context, storeID string) (entities.StoreSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.stores[strings.TrimSpace(storeID)]
	if !exists {
		return entities.StoreSubmission{}, domainerrors.ErrStoreNotFound
	}
	return item, nil
}

func (s *Store) UpdateStore(_ context.Context, store entities.StoreSubmission, expected entities.ReviewStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.stores[store.StoreID]
	if !exists {
		return domainerrors.ErrStoreNotFound
	}
	if entities.NormalizeStatus(string(existing.Status)) != expected {
		return domainerrors.ErrStatusConflict
	}
	s.stores[store.StoreID] = store
	return nil
}

func (s *Store) ListStores(_ context.Context, filter ports.StoreFilter) ([]entities.StoreSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.StoreSubmission, 0, len(s.stores))
	for _, item := range s.stores {
		if filter.Status != "" && entities.NormalizeStatus(string(item.Status)) != filter.Status {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.products[strings.TrimSpace(productID)]
	if !exists {
		return entities.Product{}, domainerrors.ErrProductNotFound
	}
	return item, nil
}

func (s *Store) UpdateProduct(_ context.Context, product entities.Product, expected entities.ReviewStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.products[product.ProductID]
	if !exists {
		return domainerrors.ErrProductNotFound
	}
	if entities.NormalizeStatus(string(existing.Status)) != expected {
		return domainerrors.ErrStatusConflict
	}
	s.products[product.ProductID] = product
	return nil
}

func (s *Store) ListProducts(_ context.Context, filter ports.ProductFilter) ([]entities.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Product, 0, len(s.products))
	for _, item := range s.products {
		if strings.TrimSpace(filter.StoreID) != "" && item.StoreID != strings.TrimSpace(filter.StoreID) {
			continue
		}
		if filter.Status != "" && entities.NormalizeStatus(string(item.Status)) != filter.Status {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) AddRejectionComment(_ context.Context, comment entities.RejectionComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments = append(s.comments, comment)
	return nil
}

func (s *Store) ListRejectionComments(_ context.Context, targetIDs []string) ([]entities.RejectionComment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		wanted[strings.TrimSpace(id)] = struct{}{}
	}
	items := make([]entities.RejectionComment, 0)
	for _, comment := range s.comments {
		if _, ok := wanted[comment.TargetID]; ok {
			items = append(items, comment)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) AddAudit(_ context.Context, audit entities.ReviewAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audits = append(s.audits, audit)
	return nil
}

func (s *Store) AddBulkOperation(_ context.Context, operation entities.BulkReviewOperation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.operations = append(s.operations, operation)
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := envelopePayload(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt,
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].published = true
			s.outbox[i].publishedAt = publishedAt.UTC()
			return nil
		}
	}
	return domainerrors.ErrInvalidReviewInput
}

// Audits returns a copy of the recorded audit trail, oldest first.
func (s *Store) Audits() []entities.ReviewAudit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.ReviewAudit(nil), s.audits...)
}

// BulkOperations returns a copy of the recorded bulk operation log.
func (s *Store) BulkOperations() []entities.BulkReviewOperation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.BulkReviewOperation(nil), s.operations...)
}

func envelopePayload(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
