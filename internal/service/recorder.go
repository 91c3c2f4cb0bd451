package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sitework/internal/domain/models"
	"sitework/internal/domain/repositories"
	"sitework/internal/events"
)

// Recorder appends audit-log entries and publishes them, together with any
// notifications, to the outbound event dispatcher. Every mutating service
// operation goes through it.
type Recorder struct {
	activities repositories.ActivityRepository
	publisher  events.Publisher
	logger     *slog.Logger
}

func NewRecorder(activities repositories.ActivityRepository, publisher events.Publisher, logger *slog.Logger) *Recorder {
	return &Recorder{activities: activities, publisher: publisher, logger: logger}
}

// Record persists an activity entry and publishes it. The returned entry is
// echoed in the API response.
func (r *Recorder) Record(ctx context.Context, caller models.AuthContext, action, entityType, entityID, entityName, projectID, details string) *models.Activity {
	activity := &models.Activity{
		ID:         "act-" + uuid.NewString(),
		CompanyID:  caller.CompanyID,
		ProjectID:  projectID,
		UserID:     caller.UserID,
		UserEmail:  caller.Email,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}

	if err := r.activities.Create(ctx, activity); err != nil {
		// Audit logging must not fail the mutation it describes.
		r.logger.Error("failed to record activity", "error", err, "entity_id", entityID)
	}

	r.publisher.Publish(ctx, events.New("activity."+action, caller.CompanyID, entityType, entityID, activity))
	return activity
}

// Notify builds and publishes a notification describing an event worth
// surfacing to users.
func (r *Recorder) Notify(ctx context.Context, caller models.AuthContext, notifType, title, message, entityType, entityID string, recipients []string) *models.Notification {
	n := &models.Notification{
		ID:         "ntf-" + uuid.NewString(),
		Type:       notifType,
		Title:      title,
		Message:    message,
		Recipients: recipients,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now().UTC(),
	}
	r.publisher.Publish(ctx, events.New("notification."+notifType, caller.CompanyID, entityType, entityID, n))
	return n
}
