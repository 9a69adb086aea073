// ABOUTME: Tests for MCP tool, resource and prompt handlers
// ABOUTME: Handlers run against a signed-in session on a temporary SQLite file
package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/db"
	"github.com/harperreed/solocrm/logging"
	"github.com/harperreed/solocrm/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)

func setupSession(t *testing.T) *crm.Session {
	t.Helper()
	repo, err := db.Open(filepath.Join(t.TempDir(), "crm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	session := crm.NewSession(repo, logging.Discard(),
		crm.WithClock(func() time.Time { return fixedNow }),
		crm.WithDefaultTimezone("UTC"))
	require.NoError(t, session.SignIn(context.Background(), models.User{ID: "u1", Email: "me@example.com"}))
	return session
}

func addContact(t *testing.T, h *ContactHandlers, first, last, company string, tags ...string) ContactOutput {
	t.Helper()
	_, out, err := h.AddContact(context.Background(), nil, AddContactInput{
		FirstName: first, LastName: last, Company: company, Tags: tags,
	})
	require.NoError(t, err)
	return out
}

func TestAddAndFindContacts(t *testing.T) {
	session := setupSession(t)
	h := NewContactHandlers(session)

	ann := addContact(t, h, "Ann", "Lee", "Acme", "vip")
	addContact(t, h, "Bob", "Ray", "Zeta")
	assert.NotEmpty(t, ann.ID)
	assert.Equal(t, "Ann Lee", ann.FullName)
	assert.Equal(t, []string{"vip"}, ann.Tags)

	_, found, err := h.FindContacts(context.Background(), nil, FindContactsInput{Query: "acme"})
	require.NoError(t, err)
	require.Len(t, found.Contacts, 1)
	assert.Equal(t, ann.ID, found.Contacts[0].ID)

	_, found, err = h.FindContacts(context.Background(), nil, FindContactsInput{Tag: "vip"})
	require.NoError(t, err)
	assert.Equal(t, 1, found.Total)

	_, found, err = h.FindContacts(context.Background(), nil, FindContactsInput{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, found.Contacts, 1)
	assert.Equal(t, 2, found.Total)

	// Searching through the tool must not disturb the session's own view.
	assert.Equal(t, "", session.State().SearchQuery)
}

func TestAddContactValidation(t *testing.T) {
	h := NewContactHandlers(setupSession(t))
	_, _, err := h.AddContact(context.Background(), nil, AddContactInput{FirstName: "Ann"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
	assert.Contains(t, err.Error(), "Last name is required")
}

func TestFindContactsRejectsUnknownSort(t *testing.T) {
	h := NewContactHandlers(setupSession(t))
	_, _, err := h.FindContacts(context.Background(), nil, FindContactsInput{SortBy: "shoe size"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestUpdateContact(t *testing.T) {
	session := setupSession(t)
	h := NewContactHandlers(session)
	ann := addContact(t, h, "Ann", "Lee", "Acme")

	_, out, err := h.UpdateContact(context.Background(), nil, UpdateContactInput{
		ID: ann.ID, Company: "Globex", FollowUpDate: "2024-04-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Globex", out.Company)
	assert.Equal(t, "Ann", out.FirstName)
	assert.Equal(t, "2024-04-01", out.FollowUpDate)

	_, out, err = h.UpdateContact(context.Background(), nil, UpdateContactInput{ID: ann.ID, FollowUpDate: "none"})
	require.NoError(t, err)
	assert.Equal(t, "", out.FollowUpDate)

	_, _, err = h.UpdateContact(context.Background(), nil, UpdateContactInput{ID: "missing"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteContactKeepsInteractions(t *testing.T) {
	session := setupSession(t)
	ch := NewContactHandlers(session)
	ih := NewInteractionHandlers(session)
	ann := addContact(t, ch, "Ann", "Lee", "")

	_, logged, err := ih.LogInteraction(context.Background(), nil, LogInteractionInput{ContactID: ann.ID, Notes: "coffee"})
	require.NoError(t, err)

	_, del, err := ch.DeleteContact(context.Background(), nil, DeleteInput{ID: ann.ID})
	require.NoError(t, err)
	assert.True(t, del.Deleted)

	_, found, err := ih.FindInteractions(context.Background(), nil, FindInteractionsInput{})
	require.NoError(t, err)
	require.Len(t, found.Interactions, 1)
	assert.Equal(t, logged.ID, found.Interactions[0].ID)
	assert.Equal(t, "Unknown Contact", found.Interactions[0].ContactName)
}

func TestLogInteractionDefaults(t *testing.T) {
	session := setupSession(t)
	ih := NewInteractionHandlers(session)
	ih.now = func() time.Time { return fixedNow }
	ann := addContact(t, NewContactHandlers(session), "Ann", "Lee", "")

	_, out, err := ih.LogInteraction(context.Background(), nil, LogInteractionInput{ContactID: ann.ID, Notes: "intro"})
	require.NoError(t, err)
	assert.Equal(t, "Email", out.Type)
	assert.Equal(t, "2024-03-06", out.Date)
	assert.Equal(t, "Ann Lee", out.ContactName)

	_, _, err = ih.LogInteraction(context.Background(), nil, LogInteractionInput{ContactID: ann.ID, Notes: "x", Type: "telegram"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = ih.LogInteraction(context.Background(), nil, LogInteractionInput{ContactID: ann.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please add some notes about this interaction")
}

func TestFindAndUpdateInteractions(t *testing.T) {
	session := setupSession(t)
	ih := NewInteractionHandlers(session)
	ch := NewContactHandlers(session)
	ann := addContact(t, ch, "Ann", "Lee", "")
	bob := addContact(t, ch, "Bob", "Ray", "")

	for _, in := range []LogInteractionInput{
		{ContactID: ann.ID, Type: "Phone", Date: "2024-01-02", Notes: "call"},
		{ContactID: ann.ID, Type: "Meeting", Date: "2024-02-02", Notes: "lunch"},
		{ContactID: bob.ID, Type: "follow-up", Date: "2024-03-02", Notes: "check in"},
	} {
		_, _, err := ih.LogInteraction(context.Background(), nil, in)
		require.NoError(t, err)
	}

	_, found, err := ih.FindInteractions(context.Background(), nil, FindInteractionsInput{ContactID: ann.ID})
	require.NoError(t, err)
	require.Len(t, found.Interactions, 2)
	assert.Equal(t, "lunch", found.Interactions[0].Notes)

	_, found, err = ih.FindInteractions(context.Background(), nil, FindInteractionsInput{Type: "Follow-up"})
	require.NoError(t, err)
	require.Len(t, found.Interactions, 1)

	_, updated, err := ih.UpdateInteraction(context.Background(), nil, UpdateInteractionInput{
		ID: found.Interactions[0].ID, Notes: "rescheduled", Type: "Phone",
	})
	require.NoError(t, err)
	assert.Equal(t, "rescheduled", updated.Notes)
	assert.Equal(t, "Phone", updated.Type)
	assert.Equal(t, "2024-03-02", updated.Date)

	_, _, err = ih.DeleteInteraction(context.Background(), nil, DeleteInput{ID: updated.ID})
	require.NoError(t, err)
	assert.Len(t, session.State().Interactions, 2)
}

func TestGetDashboard(t *testing.T) {
	session := setupSession(t)
	ch := NewContactHandlers(session)
	ih := NewInteractionHandlers(session)
	dh := NewDashboardHandlers(session)
	dh.now = func() time.Time { return fixedNow }

	ann := addContact(t, ch, "Ann", "Lee", "Acme")
	_, _, err := ih.LogInteraction(context.Background(), nil, LogInteractionInput{ContactID: ann.ID, Date: "2024-03-01", Notes: "hi"})
	require.NoError(t, err)

	_, out, err := dh.GetDashboard(context.Background(), nil, GetDashboardInput{Text: true})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalContacts)
	assert.Equal(t, 1, out.InteractionsThisMon)
	assert.Equal(t, "1.0", out.AvgPerContact)
	assert.Contains(t, out.Rendered, "SOLO CRM DASHBOARD")
	assert.NotNil(t, out.ByCompany)
}

func TestUpdateSettingTool(t *testing.T) {
	session := setupSession(t)
	dh := NewDashboardHandlers(session)

	_, settings, err := dh.UpdateSetting(context.Background(), nil, UpdateSettingInput{Key: "theme", Value: "dark"})
	require.NoError(t, err)
	assert.Equal(t, "dark", settings.Theme)

	_, settings, err = dh.UpdateSetting(context.Background(), nil, UpdateSettingInput{Key: "timezone", Value: "Europe/Paris"})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", settings.Timezone)

	_, settings, err = dh.UpdateSetting(context.Background(), nil, UpdateSettingInput{Key: "timezone", Value: "Mars/Olympus"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, "Europe/Paris", settings.Timezone)
}

func TestReadResource(t *testing.T) {
	session := setupSession(t)
	ann := addContact(t, NewContactHandlers(session), "Ann", "Lee", "Acme")
	h := NewResourceHandlers(session)

	read := func(uri string) (*mcp.ReadResourceResult, error) {
		return h.ReadResource(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
	}

	res, err := read("crm://contacts")
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "Ann")

	res, err = read("crm://contacts/" + ann.ID)
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, `"interactions": []`)

	_, err = read("crm://contacts/missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = read("http://contacts")
	assert.Error(t, err)
}

func TestPrompts(t *testing.T) {
	session := setupSession(t)
	ch := NewContactHandlers(session)
	ann := addContact(t, ch, "Ann", "Lee", "Acme")
	_, _, err := ch.UpdateContact(context.Background(), nil, UpdateContactInput{ID: ann.ID, FollowUpDate: "2024-03-01"})
	require.NoError(t, err)

	h := NewPromptHandlers(session)
	h.now = func() time.Time { return fixedNow }

	get := func(name string, args map[string]string) (*mcp.GetPromptResult, error) {
		return h.GetPrompt(context.Background(), &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: name, Arguments: args}})
	}

	res, err := get("contact-summary", map[string]string{"contact_id": ann.ID})
	require.NoError(t, err)
	text := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "Name: Ann Lee")
	assert.Contains(t, text, "Follow-up: Mar 1, 2024")

	res, err = get("follow-up-suggestions", nil)
	require.NoError(t, err)
	text = res.Messages[0].Content.(*mcp.TextContent).Text
	assert.True(t, strings.Contains(text, "Ann Lee (Acme)") && strings.Contains(text, "[DUE]"))

	_, err = get("nope", nil)
	assert.Error(t, err)
}

func TestNewServerRegisters(t *testing.T) {
	assert.NotNil(t, NewServer(setupSession(t)))
}
