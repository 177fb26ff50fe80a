package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chancery/contexts/notifications/notification-service/domain/entities"
	domainerrors "chancery/contexts/notifications/notification-service/domain/errors"
	"chancery/contexts/notifications/notification-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

// Create inserts the notification. A unique (source_event_id, recipient_id)
// index absorbs event replays: on conflict the stored row is returned with
// created=false.
func (r *Repository) Create(ctx context.Context, notification entities.Notification) (entities.Notification, bool, error) {
	row := notificationModelFromEntity(notification)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) && notification.SourceEventID != "" {
			var existing notificationModel
			lookupErr := r.db.WithContext(ctx).
				Where("source_event_id = ?", notification.SourceEventID).
				Where("recipient_id = ?", notification.RecipientID).
				First(&existing).Error
			if lookupErr != nil {
				return entities.Notification{}, false, r.logError("notification_repo_dedup_lookup_failed", lookupErr,
					"source_event_id", notification.SourceEventID,
					"recipient_id", notification.RecipientID,
				)
			}
			return existing.toEntity(), false, nil
		}
		return entities.Notification{}, false, r.logError("notification_repo_create_failed", err,
			"notification_id", notification.NotificationID,
			"recipient_id", notification.RecipientID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) Get(ctx context.Context, notificationID string) (entities.Notification, error) {
	var row notificationModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(notificationID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Notification{}, domainerrors.ErrNotificationNotFound
		}
		return entities.Notification{}, r.logError("notification_repo_get_failed", err,
			"notification_id", notificationID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) SetStatus(ctx context.Context, notificationID string, status entities.NotificationStatus, readAt *time.Time) (entities.Notification, error) {
	var updated notificationModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&notificationModel{}).
			Where("id = ?", strings.TrimSpace(notificationID)).
			Updates(map[string]any{
				"status":  string(status),
				"read_at": readAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotificationNotFound
		}
		return tx.Where("id = ?", strings.TrimSpace(notificationID)).First(&updated).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotificationNotFound) {
			return entities.Notification{}, err
		}
		return entities.Notification{}, r.logError("notification_repo_set_status_failed", err,
			"notification_id", notificationID,
			"status", string(status),
		)
	}
	return updated.toEntity(), nil
}

func (r *Repository) ListForRecipient(ctx context.Context, recipientID string, filter ports.ListFilter) ([]entities.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("recipient_id = ?", strings.TrimSpace(recipientID)).
		Order("created_at DESC, id ASC")
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	var rows []notificationModel
	if err := query.Limit(limit).Find(&rows).Error; err != nil {
		return nil, r.logError("notification_repo_list_failed", err,
			"recipient_id", recipientID,
		)
	}

	items := make([]entities.Notification, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("recipient_id = ?", strings.TrimSpace(recipientID)).
		Where("status = ?", string(entities.StatusUnread)).
		Count(&count).Error
	if err != nil {
		return 0, r.logError("notification_repo_unread_count_failed", err,
			"recipient_id", recipientID,
		)
	}
	return int(count), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := append([]any{
		"event", event,
		"module", "notifications/notification-service",
		"layer", "adapter",
		"error", err.Error(),
	}, attrs...)
	r.logger.Error("notification repository operation failed", fields...)
	return err
}

type notificationModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	RecipientID     string     `gorm:"column:recipient_id;index;uniqueIndex:ux_notifications_event_recipient"`
	SenderID        string     `gorm:"column:sender_id"`
	Title           string     `gorm:"column:title"`
	Message         string     `gorm:"column:message"`
	Type            string     `gorm:"column:type"`
	Priority        string     `gorm:"column:priority"`
	Status          string     `gorm:"column:status;index"`
	Module          string     `gorm:"column:module"`
	RelatedObjectID string     `gorm:"column:related_object_id"`
	SourceEventID   string     `gorm:"column:source_event_id;uniqueIndex:ux_notifications_event_recipient"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	ReadAt          *time.Time `gorm:"column:read_at"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func notificationModelFromEntity(n entities.Notification) notificationModel {
	return notificationModel{
		ID:              n.NotificationID,
		RecipientID:     n.RecipientID,
		SenderID:        n.SenderID,
		Title:           n.Title,
		Message:         n.Message,
		Type:            string(n.Type),
		Priority:        string(n.Priority),
		Status:          string(n.Status),
		Module:          n.Module,
		RelatedObjectID: n.RelatedObjectID,
		SourceEventID:   n.SourceEventID,
		CreatedAt:       n.CreatedAt.UTC(),
		ReadAt:          n.ReadAt,
	}
}

func (m notificationModel) toEntity() entities.Notification {
	return entities.Notification{
		NotificationID:  m.ID,
		RecipientID:     m.RecipientID,
		SenderID:        m.SenderID,
		Title:           m.Title,
		Message:         m.Message,
		Type:            entities.NotificationType(m.Type),
		Priority:        entities.NotificationPriority(m.Priority),
		Status:          entities.NotificationStatus(m.Status),
		Module:          m.Module,
		RelatedObjectID: m.RelatedObjectID,
		SourceEventID:   m.SourceEventID,
		CreatedAt:       m.CreatedAt,
		ReadAt:          m.ReadAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
