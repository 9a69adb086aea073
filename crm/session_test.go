// ABOUTME: Tests for session data-access operations against a SQLite backend
// ABOUTME: A wrapper backend injects failures to exercise error paths
package crm

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/solocrm/db"
	"github.com/harperreed/solocrm/logging"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend unavailable")

// flakyBackend fails the named operations and counts calls.
type flakyBackend struct {
	Backend
	mu    sync.Mutex
	fail  map[string]bool
	calls map[string]int
}

func newFlaky(inner Backend) *flakyBackend {
	return &flakyBackend{Backend: inner, fail: map[string]bool{}, calls: map[string]int{}}
}

func (f *flakyBackend) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.fail[op] {
		return errBackend
	}
	return nil
}

func (f *flakyBackend) setFail(op string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = fail
}

func (f *flakyBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *flakyBackend) ListContacts(ctx context.Context, userID string) ([]models.ContactRecord, error) {
	if err := f.hit("ListContacts"); err != nil {
		return nil, err
	}
	return f.Backend.ListContacts(ctx, userID)
}

func (f *flakyBackend) InsertContact(ctx context.Context, userID string, rec models.ContactRecord) (models.ContactRecord, error) {
	if err := f.hit("InsertContact"); err != nil {
		return rec, err
	}
	return f.Backend.InsertContact(ctx, userID, rec)
}

func (f *flakyBackend) InsertInteraction(ctx context.Context, userID string, rec models.InteractionRecord) (models.InteractionRecord, error) {
	if err := f.hit("InsertInteraction"); err != nil {
		return rec, err
	}
	return f.Backend.InsertInteraction(ctx, userID, rec)
}

func (f *flakyBackend) DeleteContact(ctx context.Context, userID, id string) error {
	if err := f.hit("DeleteContact"); err != nil {
		return err
	}
	return f.Backend.DeleteContact(ctx, userID, id)
}

func (f *flakyBackend) UpsertSettings(ctx context.Context, userID string, rec models.SettingsRecord) error {
	if err := f.hit("UpsertSettings"); err != nil {
		return err
	}
	return f.Backend.UpsertSettings(ctx, userID, rec)
}

func (f *flakyBackend) InsertActivity(ctx context.Context, rec models.ActivityRecord) error {
	if err := f.hit("InsertActivity"); err != nil {
		return err
	}
	return f.Backend.InsertActivity(ctx, rec)
}

func newRepo(t *testing.T) *db.Repository {
	t.Helper()
	repo, err := db.Open(filepath.Join(t.TempDir(), "crm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newSession(t *testing.T) (*Session, *flakyBackend) {
	t.Helper()
	backend := newFlaky(newRepo(t))
	s := NewSession(backend, logging.Discard(), WithDefaultTimezone("UTC"))
	require.NoError(t, s.SignIn(context.Background(), models.User{ID: "u1", Email: "u1@example.com"}))
	return s, backend
}

func TestSignInLoadsEverything(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	_, err := repo.InsertContact(ctx, "u1", models.ContactRecord{FirstName: "Ann", LastName: "Lee"})
	require.NoError(t, err)
	_, err = repo.InsertInteraction(ctx, "u1", models.InteractionRecord{ContactID: "x", Type: "Email", Date: "2024-01-01", Notes: "n"})
	require.NoError(t, err)
	_, err = repo.InsertContact(ctx, "other", models.ContactRecord{FirstName: "Not", LastName: "Mine"})
	require.NoError(t, err)

	s := NewSession(repo, logging.Discard())
	require.NoError(t, s.SignIn(ctx, models.User{ID: "u1"}))

	state := s.State()
	require.Len(t, state.Contacts, 1)
	assert.Equal(t, "Ann", state.Contacts[0].FirstName)
	assert.Equal(t, []string{}, state.Contacts[0].Tags)
	assert.Len(t, state.Interactions, 1)
	assert.False(t, state.Loading)

	activities, err := s.LoadActivities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Application initialized and user authenticated", activities[0].Description)
}

func TestSignInRequiresID(t *testing.T) {
	s := NewSession(newRepo(t), logging.Discard())
	err := s.SignIn(context.Background(), models.User{})
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestSwitchingUserHidesPreviousRecordsOnFailedLoad(t *testing.T) {
	ctx := context.Background()
	s, backend := newSession(t)
	_, err := s.AddContact(ctx, models.Contact{FirstName: "Alice", LastName: "Private"})
	require.NoError(t, err)
	require.Len(t, s.State().Contacts, 1)

	backend.setFail("ListContacts", true)
	err = s.SignIn(ctx, models.User{ID: "u2"})
	require.Error(t, err)

	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "u2", user.ID)
	assert.Empty(t, s.State().Contacts)
	assert.Empty(t, s.State().Interactions)
}

func TestSignOutClearsCollections(t *testing.T) {
	s, _ := newSession(t)
	_, err := s.AddContact(context.Background(), models.Contact{FirstName: "A", LastName: "B"})
	require.NoError(t, err)

	s.SignOut()
	_, signedIn := s.User()
	assert.False(t, signedIn)
	assert.Empty(t, s.State().Contacts)
	assert.Empty(t, s.State().Interactions)
}

func TestOperationsRequireUser(t *testing.T) {
	s := NewSession(newRepo(t), logging.Discard())
	_, err := s.AddContact(context.Background(), models.Contact{FirstName: "A", LastName: "B"})
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
	assert.NotEmpty(t, s.State().Error)
}

func TestAddContactNormalizesAndDispatches(t *testing.T) {
	s, _ := newSession(t)
	created, err := s.AddContact(context.Background(), models.Contact{
		FirstName: "Ann", LastName: "Lee", FollowUpDate: "2024-03-01",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2024-03-01T12:00:00.000Z", created.FollowUpDate)
	assert.Equal(t, []string{}, created.Tags)

	state := s.State()
	require.Len(t, state.Contacts, 1)
	assert.Equal(t, created.ID, state.Contacts[0].ID)
}

func TestValidationHappensBeforeBackend(t *testing.T) {
	s, backend := newSession(t)
	before := s.State()

	_, err := s.AddContact(context.Background(), models.Contact{FirstName: "Ann"})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
	assert.Equal(t, 0, backend.count("InsertContact"))

	_, err = s.AddInteraction(context.Background(), models.Interaction{Type: models.InteractionEmail, Date: "2024-01-01", Notes: "x"})
	assert.EqualError(t, err, "Please select a contact")
	assert.Equal(t, 0, backend.count("InsertInteraction"))

	assert.Equal(t, before, s.State())
}

func TestBackendFailureDispatchesError(t *testing.T) {
	s, backend := newSession(t)
	backend.setFail("InsertContact", true)

	_, err := s.AddContact(context.Background(), models.Contact{FirstName: "Ann", LastName: "Lee"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBackend))

	state := s.State()
	assert.Equal(t, errBackend.Error(), state.Error)
	assert.Empty(t, state.Contacts)
}

func TestLoadContactsFailure(t *testing.T) {
	s, backend := newSession(t)
	backend.setFail("ListContacts", true)

	err := s.LoadContacts(context.Background())
	require.Error(t, err)
	state := s.State()
	assert.False(t, state.Loading)
	assert.Equal(t, errBackend.Error(), state.Error)
}

func TestUpdateAndDeleteContact(t *testing.T) {
	ctx := context.Background()
	s, backend := newSession(t)

	c, err := s.AddContact(ctx, models.Contact{FirstName: "Ann", LastName: "Lee"})
	require.NoError(t, err)
	_, err = s.AddInteraction(ctx, models.Interaction{ContactID: c.ID, Type: models.InteractionMeeting, Date: "2024-02-02", Notes: "coffee"})
	require.NoError(t, err)

	c.Company = "Acme"
	c.Tags = models.ParseTags("vip, friend")
	updated, err := s.UpdateContact(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, []string{"vip", "friend"}, s.State().Contacts[0].Tags)

	backend.setFail("DeleteContact", true)
	require.Error(t, s.DeleteContact(ctx, c.ID))
	assert.Len(t, s.State().Contacts, 1)

	backend.setFail("DeleteContact", false)
	require.NoError(t, s.DeleteContact(ctx, c.ID))
	state := s.State()
	assert.Empty(t, state.Contacts)
	require.Len(t, state.Interactions, 1)
	assert.Equal(t, store.UnknownContact, store.ContactName(state, state.Interactions[0].ContactID))
}

func TestUpdateMissingContact(t *testing.T) {
	s, _ := newSession(t)
	_, err := s.UpdateContact(context.Background(), models.Contact{ID: "missing", FirstName: "A", LastName: "B"})
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.NotEmpty(t, s.State().Error)
}

func TestInteractionLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	i, err := s.AddInteraction(ctx, models.Interaction{ContactID: "c1", Type: models.InteractionPhone, Date: "2024-05-05", Notes: "call"})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-05T12:00:00.000Z", i.Date)

	i.Notes = "long call"
	_, err = s.UpdateInteraction(ctx, i)
	require.NoError(t, err)
	assert.Equal(t, "long call", s.State().Interactions[0].Notes)

	require.NoError(t, s.DeleteInteraction(ctx, i.ID))
	assert.Empty(t, s.State().Interactions)
}

func TestClearLocalData(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)
	_, err := s.AddContact(ctx, models.Contact{FirstName: "A", LastName: "B"})
	require.NoError(t, err)

	s.ClearLocalData()
	assert.Empty(t, s.State().Contacts)

	require.NoError(t, s.LoadContacts(ctx))
	assert.Len(t, s.State().Contacts, 1)
}

func TestConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddContact(ctx, models.Contact{FirstName: "A", LastName: "B", CreatedAt: time.Now()})
		}()
	}
	wg.Wait()
	assert.Len(t, s.State().Contacts, 10)
}
