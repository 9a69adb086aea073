// ABOUTME: Activity log operations
// ABOUTME: Logging never fails the caller; failures are reported to the logger
package crm

import (
	"context"
	"fmt"

	"github.com/harperreed/solocrm/models"
	"github.com/oklog/ulid/v2"
)

// DefaultActivityLimit is how many entries LoadActivities returns by default.
const DefaultActivityLimit = 50

// LogActivity appends an entry for the signed-in user. It is a no-op when signed out.
func (s *Session) LogActivity(ctx context.Context, action, page, description string, metadata map[string]any) {
	user, ok := s.User()
	if !ok {
		return
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	now := s.now().UTC()
	rec := models.ActivityRecord{
		ID:          ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		UserID:      user.ID,
		UserEmail:   user.Email,
		Action:      action,
		Page:        page,
		Description: description,
		Metadata:    metadata,
		Timestamp:   now,
	}
	if err := s.backend.InsertActivity(ctx, rec); err != nil {
		s.logger.Warn("failed to log activity", "action", action, "err", err)
	}
}

// LoadActivities returns up to limit entries, newest first. A non-positive limit means the default.
func (s *Session) LoadActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	user, ok := s.User()
	if !ok {
		return nil, models.ErrUnauthorized
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	recs, err := s.backend.ListActivities(ctx, user.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	return mapRecords(recs, activityFromRecord), nil
}

// ClearActivities deletes the user's log and records that it was cleared.
func (s *Session) ClearActivities(ctx context.Context) error {
	user, ok := s.User()
	if !ok {
		return models.ErrUnauthorized
	}
	if err := s.backend.ClearActivities(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to clear activities: %w", err)
	}
	s.LogActivity(ctx, "system", "settings", "Activity log cleared", nil)
	return nil
}
