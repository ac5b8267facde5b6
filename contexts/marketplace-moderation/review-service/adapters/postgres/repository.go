package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bazaar/contexts/marketplace-moderation/review-service/domain/entities"
	domainerrors "bazaar/contexts/marketplace-moderation/review-service/domain/errors"
	"bazaar/contexts/marketplace-moderation/review-service/ports"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetStore(ctx context.Context, storeID string) (entities.StoreSubmission, error) {
	var row storeModel
	err := r.db.WithContext(ctx).
		Where("store_id = ?", strings.TrimSpace(storeID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.StoreSubmission{}, domainerrors.ErrStoreNotFound
		}
		return entities.StoreSubmission{}, err
	}
	return row.toEntity(), nil
}

// UpdateStore writes the full row but only while the stored status still
// matches expected; a raced row surfaces as ErrStatusConflict.
func (r *Repository) UpdateStore(ctx context.Context, store entities.StoreSubmission, expected entities.ReviewStatus) error {
	result := r.db.WithContext(ctx).
		Model(&storeModel{}).
		Where("store_id = ?", strings.TrimSpace(store.StoreID)).
		Where("status IN ?", statusLiterals(expected)).
		Updates(storeUpdatesFromEntity(store))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.resolveStoreWriteFailure(ctx, store.StoreID)
	}
	return nil
}

func (r *Repository) resolveStoreWriteFailure(ctx context.Context, storeID string) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&storeModel{}).
		Where("store_id = ?", strings.TrimSpace(storeID)).
		Count(&count).
		Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrStoreNotFound
	}
	return domainerrors.ErrStatusConflict
}

func (r *Repository) ListStores(ctx context.Context, filter ports.StoreFilter) ([]entities.StoreSubmission, error) {
	tx := r.db.WithContext(ctx).Model(&storeModel{})
	if filter.Status != "" {
		tx = tx.Where("status IN ?", statusLiterals(filter.Status))
	}

	var rows []storeModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.StoreSubmission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetProduct(ctx context.Context, productID string) (entities.Product, error) {
	var row productModel
	err := r.db.WithContext(ctx).
		Where("product_id = ?", strings.TrimSpace(productID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Product{}, domainerrors.ErrProductNotFound
		}
		return entities.Product{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateProduct(ctx context.Context, product entities.Product, expected entities.ReviewStatus) error {
	result := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("product_id = ?", strings.TrimSpace(product.ProductID)).
		Where("status IN ?", statusLiterals(expected)).
		Updates(productUpdatesFromEntity(product))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.resolveProductWriteFailure(ctx, product.ProductID)
	}
	return nil
}

func (r *Repository) resolveProductWriteFailure(ctx context.Context, productID string) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("product_id = ?", strings.TrimSpace(productID)).
		Count(&count).
		Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrProductNotFound
	}
	return domainerrors.ErrStatusConflict
}

func (r *Repository) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]entities.Product, error) {
	tx := r.db.WithContext(ctx).Model(&productModel{})
	if strings.TrimSpace(filter.StoreID) != "" {
		tx = tx.Where("store_id = ?", strings.TrimSpace(filter.StoreID))
	}
	if filter.Status != "" {
		tx = tx.Where("status IN ?", statusLiterals(filter.Status))
	}

	var rows []productModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AddRejectionComment(ctx context.Context, comment entities.RejectionComment) error {
	row := rejectionCommentModel{
		CommentID:  strings.TrimSpace(comment.CommentID),
		TargetType: string(comment.TargetType),
		TargetID:   strings.TrimSpace(comment.TargetID),
		Comment:    strings.TrimSpace(comment.Comment),
		CreatedAt:  comment.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		return err
	}
	return nil
}

func (r *Repository) ListRejectionComments(ctx context.Context, targetIDs []string) ([]entities.RejectionComment, error) {
	ids := make([]string, 0, len(targetIDs))
	for _, id := range targetIDs {
		if v := strings.TrimSpace(id); v != "" {
			ids = append(ids, v)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []rejectionCommentModel
	if err := r.db.WithContext(ctx).
		Where("target_id IN ?", ids).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.RejectionComment, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.RejectionComment{
			CommentID:  row.CommentID,
			TargetType: entities.TargetType(row.TargetType),
			TargetID:   row.TargetID,
			Comment:    row.Comment,
			CreatedAt:  row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) AddAudit(ctx context.Context, audit entities.ReviewAudit) error {
	row := reviewAuditModel{
		AuditID:    strings.TrimSpace(audit.AuditID),
		TargetType: string(audit.TargetType),
		TargetID:   strings.TrimSpace(audit.TargetID),
		Action:     strings.TrimSpace(audit.Action),
		OldStatus:  string(audit.OldStatus),
		NewStatus:  string(audit.NewStatus),
		ActorID:    strings.TrimSpace(audit.ActorID),
		Reason:     strings.TrimSpace(audit.Reason),
		CreatedAt:  audit.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) AddBulkOperation(ctx context.Context, operation entities.BulkReviewOperation) error {
	targetIDs, err := json.Marshal(operation.TargetIDs)
	if err != nil {
		return err
	}
	row := bulkReviewOperationModel{
		OperationID:       strings.TrimSpace(operation.OperationID),
		TargetType:        string(operation.TargetType),
		OperationType:     strings.TrimSpace(operation.OperationType),
		TargetIDs:         targetIDs,
		PerformedByUserID: strings.TrimSpace(operation.PerformedByUserID),
		SucceededCount:    operation.SucceededCount,
		FailedCount:       operation.FailedCount,
		Reason:            strings.TrimSpace(operation.Reason),
		CreatedAt:         operation.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash || !bytes.Equal(existing.ResponsePayload, row.ResponsePayload) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidReviewInput
	}
	return nil
}

type storeModel struct {
	StoreID         string     `gorm:"column:store_id;primaryKey"`
	Name            string     `gorm:"column:name"`
	OwnerName       string     `gorm:"column:owner_name"`
	Address         string     `gorm:"column:address"`
	ContactEmail    string     `gorm:"column:contact_email"`
	ContactPhone    string     `gorm:"column:contact_phone"`
	Status          string     `gorm:"column:status"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	DecidedByUserID string     `gorm:"column:decided_by_user_id"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	RejectedAt      *time.Time `gorm:"column:rejected_at"`
	ResubmittedAt   *time.Time `gorm:"column:resubmitted_at"`
}

func (storeModel) TableName() string {
	return "store_submissions"
}

func storeUpdatesFromEntity(item entities.StoreSubmission) map[string]any {
	return map[string]any{
		"name":               strings.TrimSpace(item.Name),
		"owner_name":         strings.TrimSpace(item.OwnerName),
		"address":            strings.TrimSpace(item.Address),
		"contact_email":      strings.TrimSpace(item.ContactEmail),
		"contact_phone":      strings.TrimSpace(item.ContactPhone),
		"status":             string(item.Status),
		"rejection_reason":   strings.TrimSpace(item.RejectionReason),
		"decided_by_user_id": strings.TrimSpace(item.DecidedByUserID),
		"updated_at":         item.UpdatedAt.UTC(),
		"approved_at":        normalizeOptionalTime(item.ApprovedAt),
		"rejected_at":        normalizeOptionalTime(item.RejectedAt),
		"resubmitted_at":     normalizeOptionalTime(item.ResubmittedAt),
	}
}

func (m storeModel) toEntity() entities.StoreSubmission {
	return entities.StoreSubmission{
		StoreID:         m.StoreID,
		Name:            m.Name,
		OwnerName:       m.OwnerName,
		Address:         m.Address,
		ContactEmail:    m.ContactEmail,
		ContactPhone:    m.ContactPhone,
		Status:          entities.NormalizeStatus(m.Status),
		RejectionReason: m.RejectionReason,
		DecidedByUserID: m.DecidedByUserID,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
		ApprovedAt:      normalizeOptionalTime(m.ApprovedAt),
		RejectedAt:      normalizeOptionalTime(m.RejectedAt),
		ResubmittedAt:   normalizeOptionalTime(m.ResubmittedAt),
	}
}

type productModel struct {
	ProductID        string     `gorm:"column:product_id;primaryKey"`
	StoreID          string     `gorm:"column:store_id"`
	Name             string     `gorm:"column:name"`
	Description      string     `gorm:"column:description"`
	Category         string     `gorm:"column:category"`
	Price            float64    `gorm:"column:price"`
	Status           string     `gorm:"column:status"`
	RejectionComment string     `gorm:"column:rejection_comment"`
	DecidedByUserID  string     `gorm:"column:decided_by_user_id"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	ApprovedAt       *time.Time `gorm:"column:approved_at"`
	RejectedAt       *time.Time `gorm:"column:rejected_at"`
	ResubmittedAt    *time.Time `gorm:"column:resubmitted_at"`
}

func (productModel) TableName() string {
	return "store_products"
}

func productUpdatesFromEntity(item entities.Product) map[string]any {
	return map[string]any{
		"store_id":           strings.TrimSpace(item.StoreID),
		"name":               strings.TrimSpace(item.Name),
		"description":        strings.TrimSpace(item.Description),
		"category":           strings.TrimSpace(item.Category),
		"price":              item.Price,
		"status":             string(item.Status),
		"rejection_comment":  strings.TrimSpace(item.RejectionComment),
		"decided_by_user_id": strings.TrimSpace(item.DecidedByUserID),
		"updated_at":         item.UpdatedAt.UTC(),
		"approved_at":        normalizeOptionalTime(item.ApprovedAt),
		"rejected_at":        normalizeOptionalTime(item.RejectedAt),
		"resubmitted_at":     normalizeOptionalTime(item.ResubmittedAt),
	}
}

func (m productModel) toEntity() entities.Product {
	return entities.Product{
		ProductID:        m.ProductID,
		StoreID:          m.StoreID,
		Name:             m.Name,
		Description:      m.Description,
		Category:         m.Category,
		Price:            m.Price,
		Status:           entities.NormalizeStatus(m.Status),
		RejectionComment: m.RejectionComment,
		DecidedByUserID:  m.DecidedByUserID,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
		ApprovedAt:       normalizeOptionalTime(m.ApprovedAt),
		RejectedAt:       normalizeOptionalTime(m.RejectedAt),
		ResubmittedAt:    normalizeOptionalTime(m.ResubmittedAt),
	}
}

type rejectionCommentModel struct {
	CommentID  string    `gorm:"column:comment_id;primaryKey"`
	TargetType string    `gorm:"column:target_type"`
	TargetID   string    `gorm:"column:target_id"`
	Comment    string    `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (rejectionCommentModel) TableName() string {
	return "rejection_comments"
}

type reviewAuditModel struct {
	AuditID    string    `gorm:"column:audit_id;primaryKey"`
	TargetType string    `gorm:"column:target_type"`
	TargetID   string    `gorm:"column:target_id"`
	Action     string    `gorm:"column:action"`
	OldStatus  string    `gorm:"column:old_status"`
	NewStatus  string    `gorm:"column:new_status"`
	ActorID    string    `gorm:"column:actor_id"`
	Reason     string    `gorm:"column:reason"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (reviewAuditModel) TableName() string {
	return "review_audit"
}

type bulkReviewOperationModel struct {
	OperationID       string    `gorm:"column:operation_id;primaryKey"`
	TargetType        string    `gorm:"column:target_type"`
	OperationType     string    `gorm:"column:operation_type"`
	TargetIDs         []byte    `gorm:"column:target_ids;type:jsonb"`
	PerformedByUserID string    `gorm:"column:performed_by_user_id"`
	SucceededCount    int       `gorm:"column:succeeded_count"`
	FailedCount       int       `gorm:"column:failed_count"`
	Reason            string    `gorm:"column:reason"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (bulkReviewOperationModel) TableName() string {
	return "bulk_review_operations"
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "review_idempotency"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "review_outbox"
}

// statusLiterals lists the stored column values matching a canonical status.
// Rejected also matches the legacy "inactive" literal, so status guards and
// filters see alias rows the same way entity reads do after normalization.
func statusLiterals(status entities.ReviewStatus) []string {
	canonical := entities.NormalizeStatus(string(status))
	if canonical == entities.ReviewStatusRejected {
		return []string{string(entities.ReviewStatusRejected), "inactive"}
	}
	return []string{string(canonical)}
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
