// ABOUTME: Persistence collaborator contract for the CRM session
// ABOUTME: Backends store remote records keyed by the owning user id
package crm

import (
	"context"

	"github.com/harperreed/solocrm/models"
)

// ContactStore persists contact records.
type ContactStore interface {
	ListContacts(ctx context.Context, userID string) ([]models.ContactRecord, error)
	InsertContact(ctx context.Context, userID string, rec models.ContactRecord) (models.ContactRecord, error)
	UpdateContact(ctx context.Context, userID string, rec models.ContactRecord) (models.ContactRecord, error)
	DeleteContact(ctx context.Context, userID, id string) error
}

// InteractionStore persists interaction records.
type InteractionStore interface {
	ListInteractions(ctx context.Context, userID string) ([]models.InteractionRecord, error)
	InsertInteraction(ctx context.Context, userID string, rec models.InteractionRecord) (models.InteractionRecord, error)
	UpdateInteraction(ctx context.Context, userID string, rec models.InteractionRecord) (models.InteractionRecord, error)
	DeleteInteraction(ctx context.Context, userID, id string) error
}

// SettingsStore persists one settings record per user. GetSettings returns nil when none exists.
type SettingsStore interface {
	GetSettings(ctx context.Context, userID string) (*models.SettingsRecord, error)
	UpsertSettings(ctx context.Context, userID string, rec models.SettingsRecord) error
}

// ActivityStore persists the activity log.
type ActivityStore interface {
	InsertActivity(ctx context.Context, rec models.ActivityRecord) error
	ListActivities(ctx context.Context, userID string, limit int) ([]models.ActivityRecord, error)
	ClearActivities(ctx context.Context, userID string) error
}

// Backend is everything a session needs from persistence.
type Backend interface {
	ContactStore
	InteractionStore
	SettingsStore
	ActivityStore
}
