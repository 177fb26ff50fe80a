package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chancery/contexts/correspondence/delegation-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/delegation-service/domain/errors"
	"chancery/contexts/correspondence/delegation-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

func (r *Repository) CreateAssignment(ctx context.Context, input ports.CreateAssignmentInput) (entities.AssistantAssignment, error) {
	row := assignmentModel{
		ID:             strings.TrimSpace(input.AssignmentID),
		ExecutiveID:    strings.TrimSpace(input.ExecutiveID),
		AssistantID:    strings.TrimSpace(input.AssistantID),
		AssistantType:  string(input.Type),
		Specialization: strings.TrimSpace(input.Specialization),
		Permissions:    strings.Join(input.Permissions, ","),
		CreatedAt:      input.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.AssistantAssignment{}, domainerrors.ErrAssignmentExists
		}
		return entities.AssistantAssignment{}, r.logError("delegation_repo_create_assignment_failed", err,
			"assignment_id", row.ID,
			"executive_id", row.ExecutiveID,
			"assistant_id", row.AssistantID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) RemoveAssignment(ctx context.Context, assignmentID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(assignmentID)).
		Delete(&assignmentModel{})
	if result.Error != nil {
		return r.logError("delegation_repo_remove_assignment_failed", result.Error,
			"assignment_id", strings.TrimSpace(assignmentID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAssignmentNotFound
	}
	return nil
}

func (r *Repository) GetAssignment(ctx context.Context, executiveID string, assistantID string) (entities.AssistantAssignment, error) {
	var row assignmentModel
	err := r.db.WithContext(ctx).
		Where("executive_id = ?", strings.TrimSpace(executiveID)).
		Where("assistant_id = ?", strings.TrimSpace(assistantID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AssistantAssignment{}, domainerrors.ErrAssignmentNotFound
		}
		return entities.AssistantAssignment{}, r.logError("delegation_repo_get_assignment_failed", err,
			"executive_id", strings.TrimSpace(executiveID),
			"assistant_id", strings.TrimSpace(assistantID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListAssignmentsForExecutive(ctx context.Context, executiveID string) ([]entities.AssistantAssignment, error) {
	var rows []assignmentModel
	if err := r.db.WithContext(ctx).
		Where("executive_id = ?", strings.TrimSpace(executiveID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("delegation_repo_list_assignments_for_executive_failed", err,
			"executive_id", strings.TrimSpace(executiveID),
		)
	}
	return toAssignmentEntities(rows), nil
}

func (r *Repository) ListAssignmentsForAssistant(ctx context.Context, assistantID string) ([]entities.AssistantAssignment, error) {
	var rows []assignmentModel
	if err := r.db.WithContext(ctx).
		Where("assistant_id = ?", strings.TrimSpace(assistantID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("delegation_repo_list_assignments_for_assistant_failed", err,
			"assistant_id", strings.TrimSpace(assistantID),
		)
	}
	return toAssignmentEntities(rows), nil
}

// CreateDelegation runs supersede-revoke, insert, and outbox append in one
// transaction so readers never observe two active delegations on a
// correspondence.
func (r *Repository) CreateDelegation(ctx context.Context, input ports.CreateDelegationInput) (ports.DelegationMutationResult, error) {
	var result ports.DelegationMutationResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior delegationModel
		err := tx.
			Where("correspondence_id = ?", strings.TrimSpace(input.CorrespondenceID)).
			Where("status = ?", string(entities.DelegationStatusActive)).
			First(&prior).
			Error
		switch {
		case err == nil:
			if err := tx.Model(&delegationModel{}).
				Where("id = ?", prior.ID).
				Update("status", string(entities.DelegationStatusRevoked)).Error; err != nil {
				return err
			}
			prior.Status = string(entities.DelegationStatusRevoked)
			superseded := prior.toEntity()
			result.Superseded = &superseded
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Nothing to supersede.
		default:
			return err
		}

		row := delegationModel{
			ID:               strings.TrimSpace(input.DelegationID),
			CorrespondenceID: strings.TrimSpace(input.CorrespondenceID),
			ExecutiveID:      strings.TrimSpace(input.ExecutiveID),
			AssistantID:      strings.TrimSpace(input.AssistantID),
			AssistantType:    string(input.AssistantType),
			Notes:            input.Notes,
			Status:           string(entities.DelegationStatusActive),
			DelegatedAt:      input.DelegatedAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		result.Delegation = row.toEntity()

		outboxRow := outboxModel{
			OutboxID:  strings.TrimSpace(input.OutboxID),
			EventType: strings.TrimSpace(input.EventType),
			Payload:   input.OutboxPayload,
			Status:    outboxStatusPending,
			CreatedAt: input.DelegatedAt.UTC(),
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		return ports.DelegationMutationResult{}, r.logError("delegation_repo_create_delegation_failed", err,
			"delegation_id", strings.TrimSpace(input.DelegationID),
			"correspondence_id", strings.TrimSpace(input.CorrespondenceID),
		)
	}
	return result, nil
}

func (r *Repository) GetDelegation(ctx context.Context, delegationID string) (entities.Delegation, error) {
	var row delegationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(delegationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Delegation{}, domainerrors.ErrDelegationNotFound
		}
		return entities.Delegation{}, r.logError("delegation_repo_get_delegation_failed", err,
			"delegation_id", strings.TrimSpace(delegationID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) SetDelegationStatus(ctx context.Context, input ports.SetStatusInput) (entities.Delegation, error) {
	var updated delegationModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ?", strings.TrimSpace(input.DelegationID)).
			First(&updated).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrDelegationNotFound
			}
			return err
		}

		updates := map[string]any{"status": string(input.Status)}
		if input.Status == entities.DelegationStatusCompleted {
			updates["completed_at"] = input.At.UTC()
		}
		if err := tx.Model(&delegationModel{}).
			Where("id = ?", updated.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		updated.Status = string(input.Status)
		if input.Status == entities.DelegationStatusCompleted {
			completedAt := input.At.UTC()
			updated.CompletedAt = &completedAt
		}

		outboxRow := outboxModel{
			OutboxID:  strings.TrimSpace(input.OutboxID),
			EventType: strings.TrimSpace(input.EventType),
			Payload:   input.OutboxPayload,
			Status:    outboxStatusPending,
			CreatedAt: input.At.UTC(),
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDelegationNotFound) {
			return entities.Delegation{}, err
		}
		return entities.Delegation{}, r.logError("delegation_repo_set_delegation_status_failed", err,
			"delegation_id", strings.TrimSpace(input.DelegationID),
			"status", string(input.Status),
		)
	}
	return updated.toEntity(), nil
}

func (r *Repository) ActiveForCorrespondence(ctx context.Context, correspondenceID string) (entities.Delegation, bool, error) {
	var row delegationModel
	err := r.db.WithContext(ctx).
		Where("correspondence_id = ?", strings.TrimSpace(correspondenceID)).
		Where("status = ?", string(entities.DelegationStatusActive)).
		Order("delegated_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Delegation{}, false, nil
		}
		return entities.Delegation{}, false, r.logError("delegation_repo_active_for_correspondence_failed", err,
			"correspondence_id", strings.TrimSpace(correspondenceID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListDelegationsForAssistant(ctx context.Context, assistantID string) ([]entities.Delegation, error) {
	var rows []delegationModel
	if err := r.db.WithContext(ctx).
		Where("assistant_id = ?", strings.TrimSpace(assistantID)).
		Order("delegated_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("delegation_repo_list_delegations_for_assistant_failed", err,
			"assistant_id", strings.TrimSpace(assistantID),
		)
	}
	items := make([]entities.Delegation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
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
		Find(&rows).Error; err != nil {
		return nil, r.logError("delegation_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt.UTC(),
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
		return r.logError("delegation_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "correspondence/delegation-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("delegation repository operation failed", fields...)
	return err
}

type assignmentModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	ExecutiveID    string    `gorm:"column:executive_id"`
	AssistantID    string    `gorm:"column:assistant_id"`
	AssistantType  string    `gorm:"column:assistant_type"`
	Specialization string    `gorm:"column:specialization"`
	Permissions    string    `gorm:"column:permissions"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (assignmentModel) TableName() string {
	return "assistant_assignments"
}

func (m assignmentModel) toEntity() entities.AssistantAssignment {
	permissions := []string{}
	if strings.TrimSpace(m.Permissions) != "" {
		permissions = strings.Split(m.Permissions, ",")
	}
	return entities.AssistantAssignment{
		AssignmentID:   m.ID,
		ExecutiveID:    m.ExecutiveID,
		AssistantID:    m.AssistantID,
		Type:           entities.AssistantType(m.AssistantType),
		Specialization: m.Specialization,
		Permissions:    permissions,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type delegationModel struct {
	ID               string     `gorm:"column:id;primaryKey"`
	CorrespondenceID string     `gorm:"column:correspondence_id"`
	ExecutiveID      string     `gorm:"column:executive_id"`
	AssistantID      string     `gorm:"column:assistant_id"`
	AssistantType    string     `gorm:"column:assistant_type"`
	Notes            string     `gorm:"column:notes"`
	Status           string     `gorm:"column:status"`
	DelegatedAt      time.Time  `gorm:"column:delegated_at"`
	CompletedAt      *time.Time `gorm:"column:completed_at"`
}

func (delegationModel) TableName() string {
	return "delegations"
}

func (m delegationModel) toEntity() entities.Delegation {
	var completedAt *time.Time
	if m.CompletedAt != nil {
		at := m.CompletedAt.UTC()
		completedAt = &at
	}
	return entities.Delegation{
		DelegationID:     m.ID,
		CorrespondenceID: m.CorrespondenceID,
		ExecutiveID:      m.ExecutiveID,
		AssistantID:      m.AssistantID,
		AssistantType:    entities.AssistantType(m.AssistantType),
		Notes:            m.Notes,
		Status:           entities.DelegationStatus(m.Status),
		DelegatedAt:      m.DelegatedAt.UTC(),
		CompletedAt:      completedAt,
	}
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "delegation_outbox"
}

func toAssignmentEntities(rows []assignmentModel) []entities.AssistantAssignment {
	items := make([]entities.AssistantAssignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
