package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
	"github.com/99minutos/club-admin/internal/metrics"
)

// errNoChange tells mutate that the operation resolved to a no-op.
var errNoChange = errors.New("no change")

// state is everything the store owns. It is replaced wholesale on commit.
type state struct {
	users    []domain.User
	tasks    []domain.Task
	events   []domain.Event
	meetings []domain.Meeting
	news     []domain.NewsItem
	current  *domain.User
}

func (st *state) clone() state {
	out := state{
		users:    slices.Clone(st.users),
		tasks:    slices.Clone(st.tasks),
		events:   cloneEvents(st.events),
		meetings: slices.Clone(st.meetings),
		news:     slices.Clone(st.news),
	}
	if st.current != nil {
		u := *st.current
		out.current = &u
	}
	return out
}

func cloneEvents(events []domain.Event) []domain.Event {
	out := make([]domain.Event, len(events))
	for i, e := range events {
		e.Attendees = append(make([]string, 0, len(e.Attendees)), e.Attendees...)
		out[i] = e
	}
	return out
}

// Store is the single authoritative container of club state. Every mutation
// is applied to a copy, flushed to the key-value backend, and only then
// made visible; a failed flush leaves memory untouched.
type Store struct {
	mu    sync.Mutex
	kv    ports.KeyValueStore
	log   zerolog.Logger
	now   func() time.Time
	newID func(prefix string) string
	st    state
}

var _ ports.ClubStore = (*Store)(nil)

// StoreOption customises a Store at construction time.
type StoreOption func(*Store)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the entity id generator.
func WithIDGenerator(fn func(prefix string) string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

// NewStore hydrates a Store from kv. Collections that were never persisted
// fall back to the seed dataset; an absent session means nobody is logged in.
// When any key was absent the hydrated state is written back before NewStore
// returns.
func NewStore(ctx context.Context, kv ports.KeyValueStore, log zerolog.Logger, opts ...StoreOption) (*Store, error) {
	s := &Store{
		kv:    kv,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: newID,
	}
	for _, opt := range opts {
		opt(s)
	}

	missing, err := s.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	if missing {
		if err := s.flush(ctx, &s.st); err != nil {
			s.log.Error().Err(err).Msg("initial state flush failed")
			return nil, err
		}
	}
	s.observe()

	s.log.Info().
		Int("users", len(s.st.users)).
		Int("tasks", len(s.st.tasks)).
		Int("events", len(s.st.events)).
		Bool("session", s.st.current != nil).
		Msg("store hydrated")
	return s, nil
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// hydrate loads every key, seeding the ones that were never written. It
// reports whether any key was missing so the caller can persist the result.
func (s *Store) hydrate(ctx context.Context) (missing bool, err error) {
	now := s.now()
	var st state
	if st.users, err = load(ctx, s.kv, ports.KeyUsers, &missing, domain.SeedUsers); err != nil {
		return false, err
	}
	if st.tasks, err = load(ctx, s.kv, ports.KeyTasks, &missing, func() []domain.Task { return domain.SeedTasks(now) }); err != nil {
		return false, err
	}
	if st.events, err = load(ctx, s.kv, ports.KeyEvents, &missing, func() []domain.Event { return domain.SeedEvents(now) }); err != nil {
		return false, err
	}
	if st.meetings, err = load(ctx, s.kv, ports.KeyMeetings, &missing, func() []domain.Meeting { return domain.SeedMeetings(now) }); err != nil {
		return false, err
	}
	if st.news, err = load(ctx, s.kv, ports.KeyNews, &missing, func() []domain.NewsItem { return domain.SeedNews(now) }); err != nil {
		return false, err
	}
	for i := range st.events {
		if st.events[i].Attendees == nil {
			st.events[i].Attendees = []string{}
		}
	}

	raw, err := s.kv.Get(ctx, ports.KeyCurrentUser)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
		missing = true
	case err != nil:
		return false, fmt.Errorf("%w: read %s: %w", domain.ErrPersistence, ports.KeyCurrentUser, err)
	default:
		var persisted *domain.User
		if err := json.Unmarshal(raw, &persisted); err != nil {
			return false, fmt.Errorf("%w: decode %s: %w", domain.ErrPersistence, ports.KeyCurrentUser, err)
		}
		st.current = resolveSession(st.users, persisted)
	}

	s.st = st
	return missing, nil
}

// resolveSession maps a persisted session record onto the live user list.
// A session whose user no longer exists is dropped.
func resolveSession(users []domain.User, persisted *domain.User) *domain.User {
	if persisted == nil {
		return nil
	}
	i := indexUser(users, persisted.ID)
	if i < 0 {
		return nil
	}
	u := users[i]
	return &u
}

func load[T any](ctx context.Context, kv ports.KeyValueStore, key string, missing *bool, seed func() []T) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		*missing = true
		return seed(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrPersistence, key, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrPersistence, key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// mutate runs fn against a copy of the state under the store lock and
// commits the copy once it has been flushed.
func (s *Store) mutate(ctx context.Context, op string, fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.clone()
	if err := fn(&next); err != nil {
		if errors.Is(err, errNoChange) {
			metrics.StoreMutationsTotal.WithLabelValues(op, "noop").Inc()
			return nil
		}
		metrics.StoreMutationsTotal.WithLabelValues(op, "invalid").Inc()
		return err
	}

	if err := s.flush(ctx, &next); err != nil {
		metrics.StoreMutationsTotal.WithLabelValues(op, "persistence_error").Inc()
		s.log.Error().Err(err).Str("operation", op).Msg("state flush failed, mutation discarded")
		return err
	}

	s.st = next
	s.observe()
	metrics.StoreMutationsTotal.WithLabelValues(op, "ok").Inc()
	s.log.Debug().Str("operation", op).Msg("state committed")
	return nil
}

func (s *Store) flush(ctx context.Context, st *state) error {
	values := []struct {
		key string
		val any
	}{
		{ports.KeyUsers, st.users},
		{ports.KeyTasks, st.tasks},
		{ports.KeyEvents, st.events},
		{ports.KeyMeetings, st.meetings},
		{ports.KeyNews, st.news},
		{ports.KeyCurrentUser, st.current},
	}

	entries := make([]ports.Entry, 0, len(values))
	for _, v := range values {
		raw, err := json.Marshal(v.val)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", domain.ErrPersistence, v.key, err)
		}
		entries = append(entries, ports.Entry{Key: v.key, Value: raw})
	}

	start := time.Now()
	err := s.kv.Set(ctx, entries...)
	metrics.StoreFlushDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *Store) observe() {
	metrics.EntitiesTotal.WithLabelValues(ports.KeyUsers).Set(float64(len(s.st.users)))
	metrics.EntitiesTotal.WithLabelValues(ports.KeyTasks).Set(float64(len(s.st.tasks)))
	metrics.EntitiesTotal.WithLabelValues(ports.KeyEvents).Set(float64(len(s.st.events)))
	metrics.EntitiesTotal.WithLabelValues(ports.KeyMeetings).Set(float64(len(s.st.meetings)))
	metrics.EntitiesTotal.WithLabelValues(ports.KeyNews).Set(float64(len(s.st.news)))
}

// --- Reads ---

func (s *Store) ListUsers() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.users)
}

func (s *Store) ListTasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.tasks)
}

func (s *Store) ListEvents() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEvents(s.st.events)
}

func (s *Store) ListMeetings() []domain.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.meetings)
}

func (s *Store) ListNews() []domain.NewsItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.news)
}

// Snapshot copies every collection in one critical section.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.st.clone()
	return domain.Snapshot{
		Users:    st.users,
		Tasks:    st.tasks,
		Events:   st.events,
		Meetings: st.meetings,
		News:     st.news,
	}
}

// CurrentUser returns the user of the active session, if any.
func (s *Store) CurrentUser() (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.current == nil {
		return nil, false
	}
	u := *s.st.current
	return &u, true
}

func (s *Store) FindUser(id string) (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexUser(s.st.users, id)
	if i < 0 {
		return nil, false
	}
	u := s.st.users[i]
	return &u, true
}

// FindUserByUsername matches the username exactly, case included.
func (s *Store) FindUserByUsername(username string) (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.st.users, func(u domain.User) bool { return u.Username == username })
	if i < 0 {
		return nil, false
	}
	u := s.st.users[i]
	return &u, true
}

func (s *Store) FindTask(id string) (*domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexTask(s.st.tasks, id)
	if i < 0 {
		return nil, false
	}
	t := s.st.tasks[i]
	return &t, true
}

func (s *Store) FindEvent(id string) (*domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexEvent(s.st.events, id)
	if i < 0 {
		return nil, false
	}
	e := cloneEvents(s.st.events[i : i+1])[0]
	return &e, true
}

func indexUser(users []domain.User, id string) int {
	return slices.IndexFunc(users, func(u domain.User) bool { return u.ID == id })
}

func indexTask(tasks []domain.Task, id string) int {
	return slices.IndexFunc(tasks, func(t domain.Task) bool { return t.ID == id })
}

func indexEvent(events []domain.Event, id string) int {
	return slices.IndexFunc(events, func(e domain.Event) bool { return e.ID == id })
}
