// ABOUTME: Session ties an authenticated user, a persistence backend and the Store together
// ABOUTME: Data-access operations call the backend then dispatch the result into the Store
package crm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/store"
)

// Session is one user's view of the CRM. It is safe for concurrent use; concurrent
// writes race at the backend and the last one to dispatch wins in the Store.
type Session struct {
	backend Backend
	store   *store.Store
	logger  *log.Logger
	now     func() time.Time
	tzSink  TimezoneSink
	defTZ   string

	mu       sync.RWMutex
	user     *models.User
	settings models.UserSettings
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithStore uses an existing store instead of a fresh one.
func WithStore(st *store.Store) Option {
	return func(s *Session) { s.store = st }
}

// WithTimezoneSink mirrors timezone changes into local preferences.
func WithTimezoneSink(sink TimezoneSink) Option {
	return func(s *Session) { s.tzSink = sink }
}

// WithDefaultTimezone sets the timezone used when a user has no stored settings.
func WithDefaultTimezone(tz string) Option {
	return func(s *Session) {
		if dates.ValidTimezone(tz) {
			s.defTZ = tz
		}
	}
}

// NewSession creates a signed-out session.
func NewSession(backend Backend, logger *log.Logger, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		logger:  logger,
		now:     time.Now,
		defTZ:   dates.DefaultTimezone(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = store.New(store.Initial())
	}
	s.settings = models.DefaultSettings(s.defTZ)
	return s
}

// Store returns the session's state holder.
func (s *Session) Store() *store.Store {
	return s.store
}

// State is shorthand for Store().State().
func (s *Session) State() store.State {
	return s.store.State()
}

// User returns the signed-in identity.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// SignIn records the identity and performs a full reload of the user's data.
func (s *Session) SignIn(ctx context.Context, user models.User) error {
	if user.ID == "" {
		return fmt.Errorf("sign in without user id: %w", models.ErrUnauthorized)
	}
	s.mu.Lock()
	switched := s.user != nil && s.user.ID != user.ID
	s.user = &user
	if switched {
		s.settings = models.DefaultSettings(s.defTZ)
	}
	s.mu.Unlock()

	// a failed reload must not leave the previous user's records visible
	if switched {
		s.dispatch(store.SetContacts{Contacts: []models.Contact{}})
		s.dispatch(store.SetInteractions{Interactions: []models.Interaction{}})
	}

	s.logger.Debug("signed in", "user", user.ID)
	if err := s.Reload(ctx); err != nil {
		return err
	}
	s.LogActivity(ctx, "system", "app", "Application initialized and user authenticated", nil)
	return nil
}

// SignOut forgets the identity and empties the collections.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.user = nil
	s.settings = models.DefaultSettings(s.defTZ)
	s.mu.Unlock()

	s.dispatch(store.SetContacts{Contacts: []models.Contact{}})
	s.dispatch(store.SetInteractions{Interactions: []models.Interaction{}})
}

// Reload fetches contacts, interactions and settings again.
func (s *Session) Reload(ctx context.Context) error {
	return errors.Join(
		s.LoadContacts(ctx),
		s.LoadInteractions(ctx),
		s.LoadSettings(ctx),
	)
}

// ClearLocalData empties both collections in the Store without touching the backend.
func (s *Session) ClearLocalData() {
	s.dispatch(store.SetContacts{Contacts: []models.Contact{}})
	s.dispatch(store.SetInteractions{Interactions: []models.Interaction{}})
}

func (s *Session) dispatch(action store.Action) {
	s.logger.Debug("dispatch", "action", action.Type())
	s.store.Dispatch(action)
}

// requireUser returns the signed-in user or dispatches an error.
func (s *Session) requireUser() (models.User, error) {
	user, ok := s.User()
	if !ok {
		s.dispatch(store.SetError{Message: "You must be signed in"})
		return models.User{}, models.ErrUnauthorized
	}
	return user, nil
}

// fail records a backend failure in the Store and returns it wrapped.
func (s *Session) fail(op string, err error) error {
	s.logger.Error("backend call failed", "op", op, "err", err)
	s.dispatch(store.SetError{Message: err.Error()})
	return fmt.Errorf("failed to %s: %w", op, err)
}

// LoadContacts replaces the Store's contacts with the backend's.
func (s *Session) LoadContacts(ctx context.Context) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	s.dispatch(store.SetLoading{Loading: true})
	recs, err := s.backend.ListContacts(ctx, user.ID)
	if err != nil {
		return s.fail("load contacts", err)
	}
	s.dispatch(store.SetContacts{Contacts: mapRecords(recs, contactFromRecord)})
	return nil
}

// LoadInteractions replaces the Store's interactions with the backend's.
func (s *Session) LoadInteractions(ctx context.Context) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	recs, err := s.backend.ListInteractions(ctx, user.ID)
	if err != nil {
		return s.fail("load interactions", err)
	}
	s.dispatch(store.SetInteractions{Interactions: mapRecords(recs, interactionFromRecord)})
	return nil
}

func normalizeContact(c models.Contact) models.Contact {
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.FollowUpDate = dates.ParseCalendarDate(c.FollowUpDate)
	return c
}

func normalizeInteraction(i models.Interaction) models.Interaction {
	i.Date = dates.ParseCalendarDate(i.Date)
	i.FollowUpDate = dates.ParseCalendarDate(i.FollowUpDate)
	return i
}

// AddContact validates and creates a contact, returning it as stored.
func (s *Session) AddContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	c = normalizeContact(c)
	if err := c.Validate(); err != nil {
		return c, err
	}
	user, err := s.requireUser()
	if err != nil {
		return c, err
	}
	c.ID = ""
	rec, err := s.backend.InsertContact(ctx, user.ID, contactToRecord(user.ID, c))
	if err != nil {
		return c, s.fail("add contact", err)
	}
	created := contactFromRecord(rec)
	s.dispatch(store.AddContact{Contact: created})
	return created, nil
}

// UpdateContact validates and saves an edited contact.
func (s *Session) UpdateContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	c = normalizeContact(c)
	if err := c.Validate(); err != nil {
		return c, err
	}
	user, err := s.requireUser()
	if err != nil {
		return c, err
	}
	rec, err := s.backend.UpdateContact(ctx, user.ID, contactToRecord(user.ID, c))
	if err != nil {
		return c, s.fail("update contact", err)
	}
	updated := contactFromRecord(rec)
	s.dispatch(store.UpdateContact{Contact: updated})
	return updated, nil
}

// DeleteContact removes a contact. Interactions that reference it are kept.
func (s *Session) DeleteContact(ctx context.Context, id string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	if err := s.backend.DeleteContact(ctx, user.ID, id); err != nil {
		return s.fail("delete contact", err)
	}
	s.dispatch(store.DeleteContact{ID: id})
	return nil
}

// AddInteraction validates and logs an interaction.
func (s *Session) AddInteraction(ctx context.Context, i models.Interaction) (models.Interaction, error) {
	i = normalizeInteraction(i)
	if err := i.Validate(); err != nil {
		return i, err
	}
	user, err := s.requireUser()
	if err != nil {
		return i, err
	}
	i.ID = ""
	rec, err := s.backend.InsertInteraction(ctx, user.ID, interactionToRecord(user.ID, i))
	if err != nil {
		return i, s.fail("add interaction", err)
	}
	created := interactionFromRecord(rec)
	s.dispatch(store.AddInteraction{Interaction: created})
	return created, nil
}

// UpdateInteraction validates and saves an edited interaction.
func (s *Session) UpdateInteraction(ctx context.Context, i models.Interaction) (models.Interaction, error) {
	i = normalizeInteraction(i)
	if err := i.Validate(); err != nil {
		return i, err
	}
	user, err := s.requireUser()
	if err != nil {
		return i, err
	}
	rec, err := s.backend.UpdateInteraction(ctx, user.ID, interactionToRecord(user.ID, i))
	if err != nil {
		return i, s.fail("update interaction", err)
	}
	updated := interactionFromRecord(rec)
	s.dispatch(store.UpdateInteraction{Interaction: updated})
	return updated, nil
}

// DeleteInteraction removes an interaction.
func (s *Session) DeleteInteraction(ctx context.Context, id string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	if err := s.backend.DeleteInteraction(ctx, user.ID, id); err != nil {
		return s.fail("delete interaction", err)
	}
	s.dispatch(store.DeleteInteraction{ID: id})
	return nil
}
