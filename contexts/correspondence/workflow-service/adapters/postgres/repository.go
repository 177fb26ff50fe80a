package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
	"chancery/contexts/correspondence/workflow-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

const listSeparator = "\x1f"

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

func (r *Repository) CreateCorrespondence(ctx context.Context, input ports.CreateCorrespondenceInput) (entities.Correspondence, error) {
	row := correspondenceModelFromEntity(input.Correspondence)
	minuteRow := minuteModelFromEntity(input.Minute)
	outboxRow := outboxModel{
		OutboxID:  strings.TrimSpace(input.OutboxID),
		EventType: strings.TrimSpace(input.EventType),
		Payload:   input.OutboxPayload,
		Status:    outboxStatusPending,
		CreatedAt: input.Correspondence.CreatedAt.UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Create(&minuteRow).Error; err != nil {
			return err
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return entities.Correspondence{}, domainerrors.ErrReferenceExists
		}
		return entities.Correspondence{}, r.logError("workflow_repo_create_correspondence_failed", err,
			"correspondence_id", row.ID,
			"reference_number", row.ReferenceNumber,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetCorrespondence(ctx context.Context, correspondenceID string) (entities.Correspondence, error) {
	var row correspondenceModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(correspondenceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Correspondence{}, domainerrors.ErrCorrespondenceNotFound
		}
		return entities.Correspondence{}, r.logError("workflow_repo_get_correspondence_failed", err,
			"correspondence_id", strings.TrimSpace(correspondenceID),
		)
	}
	return row.toEntity(), nil
}

// AppendMinute recomputes the step number from the stored aggregate inside
// the transaction. Callers hold the correspondence keyed lock, so the read
// and the writes observe a consistent prior state.
func (r *Repository) AppendMinute(ctx context.Context, input ports.AppendMinuteInput) (entities.Minute, entities.Correspondence, error) {
	var (
		minute  entities.Minute
		updated entities.Correspondence
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row correspondenceModel
		if err := tx.
			Where("id = ?", strings.TrimSpace(input.CorrespondenceID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCorrespondenceNotFound
			}
			return err
		}

		minuteRow := minuteModelFromEntity(input.Minute)
		minuteRow.StepNumber = row.LastStep + 1
		if err := tx.Create(&minuteRow).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"status":              string(input.Update.Status),
			"current_approver_id": input.Update.CurrentApproverID,
			"routing_plan":        strings.Join(input.Update.RoutingPlan, listSeparator),
			"routing_index":       input.Update.RoutingIndex,
			"last_step":           minuteRow.StepNumber,
			"updated_at":          input.Update.UpdatedAt.UTC(),
		}
		if input.Update.CompletedAt != nil {
			updates["completed_at"] = input.Update.CompletedAt.UTC()
		}
		if err := tx.Model(&correspondenceModel{}).
			Where("id = ?", row.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		outboxRow := outboxModel{
			OutboxID:  strings.TrimSpace(input.OutboxID),
			EventType: strings.TrimSpace(input.EventType),
			Payload:   input.OutboxPayload,
			Status:    outboxStatusPending,
			CreatedAt: input.Update.UpdatedAt.UTC(),
		}
		if err := tx.Create(&outboxRow).Error; err != nil {
			return err
		}

		row.Status = string(input.Update.Status)
		row.CurrentApproverID = input.Update.CurrentApproverID
		row.RoutingPlan = strings.Join(input.Update.RoutingPlan, listSeparator)
		row.RoutingIndex = input.Update.RoutingIndex
		row.LastStep = minuteRow.StepNumber
		row.UpdatedAt = input.Update.UpdatedAt.UTC()
		if input.Update.CompletedAt != nil {
			completedAt := input.Update.CompletedAt.UTC()
			row.CompletedAt = &completedAt
		}
		minute = minuteRow.toEntity()
		updated = row.toEntity()
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrCorrespondenceNotFound) {
			return entities.Minute{}, entities.Correspondence{}, err
		}
		return entities.Minute{}, entities.Correspondence{}, r.logError("workflow_repo_append_minute_failed", err,
			"correspondence_id", strings.TrimSpace(input.CorrespondenceID),
			"minute_id", strings.TrimSpace(input.Minute.MinuteID),
		)
	}
	return minute, updated, nil
}

func (r *Repository) SetArchived(ctx context.Context, correspondenceID string, outboxID string, eventType string, payload []byte, at time.Time) (entities.Correspondence, error) {
	var row correspondenceModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ?", strings.TrimSpace(correspondenceID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCorrespondenceNotFound
			}
			return err
		}
		if err := tx.Model(&correspondenceModel{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"status":     string(entities.StatusArchived),
				"updated_at": at.UTC(),
			}).Error; err != nil {
			return err
		}
		row.Status = string(entities.StatusArchived)
		row.UpdatedAt = at.UTC()

		outboxRow := outboxModel{
			OutboxID:  strings.TrimSpace(outboxID),
			EventType: strings.TrimSpace(eventType),
			Payload:   payload,
			Status:    outboxStatusPending,
			CreatedAt: at.UTC(),
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrCorrespondenceNotFound) {
			return entities.Correspondence{}, err
		}
		return entities.Correspondence{}, r.logError("workflow_repo_set_archived_failed", err,
			"correspondence_id", strings.TrimSpace(correspondenceID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) LinkDocument(ctx context.Context, correspondenceID string, documentID string, at time.Time) (entities.Correspondence, error) {
	var row correspondenceModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ?", strings.TrimSpace(correspondenceID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrCorrespondenceNotFound
			}
			return err
		}
		documents := splitList(row.LinkedDocumentIDs)
		for _, existing := range documents {
			if existing == documentID {
				return nil
			}
		}
		documents = append(documents, documentID)
		row.LinkedDocumentIDs = strings.Join(documents, listSeparator)
		row.UpdatedAt = at.UTC()
		return tx.Model(&correspondenceModel{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"linked_document_ids": row.LinkedDocumentIDs,
				"updated_at":          row.UpdatedAt,
			}).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrCorrespondenceNotFound) {
			return entities.Correspondence{}, err
		}
		return entities.Correspondence{}, r.logError("workflow_repo_link_document_failed", err,
			"correspondence_id", strings.TrimSpace(correspondenceID),
			"document_id", documentID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) AddDistribution(ctx context.Context, distribution entities.Distribution, outboxID string, eventType string, payload []byte) (entities.Distribution, error) {
	row := distributionModel{
		ID:               strings.TrimSpace(distribution.DistributionID),
		CorrespondenceID: strings.TrimSpace(distribution.CorrespondenceID),
		RecipientID:      strings.TrimSpace(distribution.RecipientID),
		Purpose:          string(distribution.Purpose),
		CreatedBy:        strings.TrimSpace(distribution.CreatedBy),
		CreatedAt:        distribution.CreatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		outboxRow := outboxModel{
			OutboxID:  strings.TrimSpace(outboxID),
			EventType: strings.TrimSpace(eventType),
			Payload:   payload,
			Status:    outboxStatusPending,
			CreatedAt: distribution.CreatedAt.UTC(),
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		return entities.Distribution{}, r.logError("workflow_repo_add_distribution_failed", err,
			"correspondence_id", row.CorrespondenceID,
			"recipient_id", row.RecipientID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListMinutes(ctx context.Context, correspondenceID string) ([]entities.Minute, error) {
	var rows []minuteModel
	if err := r.db.WithContext(ctx).
		Where("correspondence_id = ?", strings.TrimSpace(correspondenceID)).
		Order("step_number ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("workflow_repo_list_minutes_failed", err,
			"correspondence_id", strings.TrimSpace(correspondenceID),
		)
	}
	items := make([]entities.Minute, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) MarkMinuteRead(ctx context.Context, minuteID string, at time.Time) (entities.Minute, error) {
	var row minuteModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ?", strings.TrimSpace(minuteID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrMinuteNotFound
			}
			return err
		}
		if row.ReadAt != nil {
			return nil
		}
		stamp := at.UTC()
		row.ReadAt = &stamp
		return tx.Model(&minuteModel{}).
			Where("id = ?", row.ID).
			Where("read_at IS NULL").
			Update("read_at", stamp).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrMinuteNotFound) {
			return entities.Minute{}, err
		}
		return entities.Minute{}, r.logError("workflow_repo_mark_minute_read_failed", err,
			"minute_id", strings.TrimSpace(minuteID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListInbox(ctx context.Context, userID string) ([]entities.Correspondence, error) {
	var rows []correspondenceModel
	if err := r.db.WithContext(ctx).
		Where("current_approver_id = ?", strings.TrimSpace(userID)).
		Where("status NOT IN ?", []string{
			string(entities.StatusCompleted),
			string(entities.StatusRejected),
			string(entities.StatusArchived),
		}).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("workflow_repo_list_inbox_failed", err,
			"user_id", strings.TrimSpace(userID),
		)
	}
	return toCorrespondenceEntities(rows), nil
}

func (r *Repository) ListRegistry(ctx context.Context, filter ports.RegistryFilter) ([]entities.Correspondence, error) {
	tx := r.db.WithContext(ctx).Model(&correspondenceModel{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.Priority != "" {
		tx = tx.Where("priority = ?", string(filter.Priority))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	var rows []correspondenceModel
	if err := tx.Order("created_at ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, r.logError("workflow_repo_list_registry_failed", err)
	}
	return toCorrespondenceEntities(rows), nil
}

func (r *Repository) ListDistributions(ctx context.Context, correspondenceID string) ([]entities.Distribution, error) {
	var rows []distributionModel
	if err := r.db.WithContext(ctx).
		Where("correspondence_id = ?", strings.TrimSpace(correspondenceID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("workflow_repo_list_distributions_failed", err,
			"correspondence_id", strings.TrimSpace(correspondenceID),
		)
	}
	items := make([]entities.Distribution, 0, len(rows))
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
		return nil, r.logError("workflow_repo_list_pending_outbox_failed", err, "limit", limit)
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
		return r.logError("workflow_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "correspondence/workflow-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("workflow repository operation failed", fields...)
	return err
}

type correspondenceModel struct {
	ID                string     `gorm:"column:id;primaryKey"`
	ReferenceNumber   string     `gorm:"column:reference_number;uniqueIndex"`
	Subject           string     `gorm:"column:subject"`
	SenderName        string     `gorm:"column:sender_name"`
	Source            string     `gorm:"column:source"`
	Direction         string     `gorm:"column:direction"`
	Flow              string     `gorm:"column:flow"`
	Priority          string     `gorm:"column:priority"`
	Status            string     `gorm:"column:status"`
	CurrentApproverID string     `gorm:"column:current_approver_id"`
	DivisionID        string     `gorm:"column:division_id"`
	DepartmentID      string     `gorm:"column:department_id"`
	CreatorID         string     `gorm:"column:creator_id"`
	ReceivedDate      *time.Time `gorm:"column:received_date"`
	LetterDate        *time.Time `gorm:"column:letter_date"`
	LinkedDocumentIDs string     `gorm:"column:linked_document_ids"`
	RoutingPlan       string     `gorm:"column:routing_plan"`
	RoutingIndex      int        `gorm:"column:routing_index"`
	LastStep          int        `gorm:"column:last_step"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
	CompletedAt       *time.Time `gorm:"column:completed_at"`
}

func (correspondenceModel) TableName() string {
	return "correspondences"
}

func correspondenceModelFromEntity(c entities.Correspondence) correspondenceModel {
	return correspondenceModel{
		ID:                strings.TrimSpace(c.CorrespondenceID),
		ReferenceNumber:   strings.TrimSpace(c.ReferenceNumber),
		Subject:           c.Subject,
		SenderName:        c.SenderName,
		Source:            c.Source,
		Direction:         string(c.Direction),
		Flow:              string(c.Flow),
		Priority:          string(c.Priority),
		Status:            string(c.Status),
		CurrentApproverID: strings.TrimSpace(c.CurrentApproverID),
		DivisionID:        strings.TrimSpace(c.DivisionID),
		DepartmentID:      strings.TrimSpace(c.DepartmentID),
		CreatorID:         strings.TrimSpace(c.CreatorID),
		ReceivedDate:      normalizeOptionalTime(c.ReceivedDate),
		LetterDate:        normalizeOptionalTime(c.LetterDate),
		LinkedDocumentIDs: strings.Join(c.LinkedDocumentIDs, listSeparator),
		RoutingPlan:       strings.Join(c.RoutingPlan, listSeparator),
		RoutingIndex:      c.RoutingIndex,
		LastStep:          c.LastStep,
		CreatedAt:         c.CreatedAt.UTC(),
		UpdatedAt:         c.UpdatedAt.UTC(),
		CompletedAt:       normalizeOptionalTime(c.CompletedAt),
	}
}

func (m correspondenceModel) toEntity() entities.Correspondence {
	return entities.Correspondence{
		CorrespondenceID:  m.ID,
		ReferenceNumber:   m.ReferenceNumber,
		Subject:           m.Subject,
		SenderName:        m.SenderName,
		Source:            m.Source,
		Direction:         entities.Direction(m.Direction),
		Flow:              entities.Flow(m.Flow),
		Priority:          entities.Priority(m.Priority),
		Status:            entities.Status(m.Status),
		CurrentApproverID: m.CurrentApproverID,
		DivisionID:        m.DivisionID,
		DepartmentID:      m.DepartmentID,
		CreatorID:         m.CreatorID,
		ReceivedDate:      normalizeOptionalTime(m.ReceivedDate),
		LetterDate:        normalizeOptionalTime(m.LetterDate),
		LinkedDocumentIDs: splitList(m.LinkedDocumentIDs),
		RoutingPlan:       splitList(m.RoutingPlan),
		RoutingIndex:      m.RoutingIndex,
		LastStep:          m.LastStep,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
		CompletedAt:       normalizeOptionalTime(m.CompletedAt),
	}
}

type minuteModel struct {
	ID               string     `gorm:"column:id;primaryKey"`
	CorrespondenceID string     `gorm:"column:correspondence_id;index"`
	AuthorID         string     `gorm:"column:author_id"`
	AuthorGradeLevel string     `gorm:"column:author_grade_level"`
	Action           string     `gorm:"column:action"`
	Direction        string     `gorm:"column:direction"`
	Content          string     `gorm:"column:content"`
	StepNumber       int        `gorm:"column:step_number"`
	FromOffice       string     `gorm:"column:from_office"`
	ToOffice         string     `gorm:"column:to_office"`
	ToUserID         string     `gorm:"column:to_user_id"`
	Mentions         string     `gorm:"column:mentions"`
	Signature        string     `gorm:"column:signature"`
	ActedBySecretary bool       `gorm:"column:acted_by_secretary"`
	ActedByAssistant bool       `gorm:"column:acted_by_assistant"`
	AssistantType    string     `gorm:"column:assistant_type"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	ReadAt           *time.Time `gorm:"column:read_at"`
}

func (minuteModel) TableName() string {
	return "minutes"
}

func minuteModelFromEntity(m entities.Minute) minuteModel {
	return minuteModel{
		ID:               strings.TrimSpace(m.MinuteID),
		CorrespondenceID: strings.TrimSpace(m.CorrespondenceID),
		AuthorID:         strings.TrimSpace(m.AuthorID),
		AuthorGradeLevel: m.AuthorGradeLevel,
		Action:           string(m.Action),
		Direction:        string(m.Direction),
		Content:          m.Content,
		StepNumber:       m.StepNumber,
		FromOffice:       m.FromOffice,
		ToOffice:         m.ToOffice,
		ToUserID:         m.ToUserID,
		Mentions:         strings.Join(m.Mentions, listSeparator),
		Signature:        m.Signature,
		ActedBySecretary: m.ActedBySecretary,
		ActedByAssistant: m.ActedByAssistant,
		AssistantType:    m.AssistantType,
		CreatedAt:        m.CreatedAt.UTC(),
		ReadAt:           normalizeOptionalTime(m.ReadAt),
	}
}

func (m minuteModel) toEntity() entities.Minute {
	return entities.Minute{
		MinuteID:         m.ID,
		CorrespondenceID: m.CorrespondenceID,
		AuthorID:         m.AuthorID,
		AuthorGradeLevel: m.AuthorGradeLevel,
		Action:           entities.MinuteAction(m.Action),
		Direction:        entities.Direction(m.Direction),
		Content:          m.Content,
		StepNumber:       m.StepNumber,
		FromOffice:       m.FromOffice,
		ToOffice:         m.ToOffice,
		ToUserID:         m.ToUserID,
		Mentions:         splitList(m.Mentions),
		Signature:        m.Signature,
		ActedBySecretary: m.ActedBySecretary,
		ActedByAssistant: m.ActedByAssistant,
		AssistantType:    m.AssistantType,
		CreatedAt:        m.CreatedAt.UTC(),
		ReadAt:           normalizeOptionalTime(m.ReadAt),
	}
}

type distributionModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	CorrespondenceID string    `gorm:"column:correspondence_id;index"`
	RecipientID      string    `gorm:"column:recipient_id"`
	Purpose          string    `gorm:"column:purpose"`
	CreatedBy        string    `gorm:"column:created_by"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (distributionModel) TableName() string {
	return "distributions"
}

func (m distributionModel) toEntity() entities.Distribution {
	return entities.Distribution{
		DistributionID:   m.ID,
		CorrespondenceID: m.CorrespondenceID,
		RecipientID:      m.RecipientID,
		Purpose:          entities.DistributionPurpose(m.Purpose),
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt.UTC(),
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
	return "correspondence_outbox"
}

func toCorrespondenceEntities(rows []correspondenceModel) []entities.Correspondence {
	items := make([]entities.Correspondence, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.Split(value, listSeparator)
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

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
