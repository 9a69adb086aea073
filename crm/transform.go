// ABOUTME: Conversions between remote records and the Store shape
// ABOUTME: Remote columns are snake_case; a missing tags column becomes an empty list
package crm

import "github.com/harperreed/solocrm/models"

func contactFromRecord(r models.ContactRecord) models.Contact {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Contact{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Phone:        r.Phone,
		Company:      r.Company,
		Position:     r.Position,
		Notes:        r.Notes,
		Tags:         tags,
		FollowUpDate: r.FollowUpDate,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func contactToRecord(userID string, c models.Contact) models.ContactRecord {
	return models.ContactRecord{
		ID:           c.ID,
		UserID:       userID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		Company:      c.Company,
		Position:     c.Position,
		Notes:        c.Notes,
		Tags:         c.Tags,
		FollowUpDate: c.FollowUpDate,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func interactionFromRecord(r models.InteractionRecord) models.Interaction {
	return models.Interaction{
		ID:           r.ID,
		ContactID:    r.ContactID,
		Type:         models.InteractionType(r.Type),
		Date:         r.Date,
		Notes:        r.Notes,
		FollowUpDate: r.FollowUpDate,
		CreatedAt:    r.CreatedAt,
	}
}

func interactionToRecord(userID string, i models.Interaction) models.InteractionRecord {
	return models.InteractionRecord{
		ID:           i.ID,
		UserID:       userID,
		ContactID:    i.ContactID,
		Type:         string(i.Type),
		Date:         i.Date,
		Notes:        i.Notes,
		FollowUpDate: i.FollowUpDate,
		CreatedAt:    i.CreatedAt,
	}
}

func settingsFromRecord(r models.SettingsRecord) models.UserSettings {
	return models.UserSettings{
		Timezone:      r.Timezone,
		Theme:         r.Theme,
		Notifications: r.Notifications,
	}
}

func settingsToRecord(userID string, s models.UserSettings) models.SettingsRecord {
	return models.SettingsRecord{
		UserID:        userID,
		Timezone:      s.Timezone,
		Theme:         s.Theme,
		Notifications: s.Notifications,
	}
}

func activityFromRecord(r models.ActivityRecord) models.Activity {
	return models.Activity{
		ID:          r.ID,
		UserID:      r.UserID,
		UserEmail:   r.UserEmail,
		Action:      r.Action,
		Page:        r.Page,
		Description: r.Description,
		Metadata:    r.Metadata,
		Timestamp:   r.Timestamp,
	}
}

func mapRecords[R, T any](in []R, fn func(R) T) []T {
	out := make([]T, 0, len(in))
	for _, r := range in {
		out = append(out, fn(r))
	}
	return out
}
