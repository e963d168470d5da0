package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
	"github.com/99minutos/club-admin/internal/infrastructure/db/memory"
	"github.com/99minutos/club-admin/internal/pkg/optional"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type stepClock struct {
	t    time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), step: time.Second}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

type flakyKV struct {
	*memory.KV
	setErr error
	getErr error
	sets   int
}

func (f *flakyKV) Set(ctx context.Context, entries ...ports.Entry) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	return f.KV.Set(ctx, entries...)
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.KV.Get(ctx, key)
}

func newTestStore(t *testing.T, kv ports.KeyValueStore, opts ...StoreOption) *Store {
	t.Helper()
	if kv == nil {
		kv = memory.NewKV()
	}
	opts = append([]StoreOption{WithClock(newStepClock().Now)}, opts...)
	s, err := NewStore(context.Background(), kv, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return s
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func userByName(t *testing.T, s *Store, name string) domain.User {
	t.Helper()
	u, ok := s.FindUserByUsername(name)
	require.True(t, ok, "user %s not found", name)
	return *u
}

// ---------------------------------------------------------------------------
// Hydration
// ---------------------------------------------------------------------------

func TestNewStore_SeedsWhenEmpty(t *testing.T) {
	s := newTestStore(t, nil)

	assert.Len(t, s.ListUsers(), 6)
	assert.Len(t, s.ListTasks(), 4)
	assert.Len(t, s.ListEvents(), 2)
	assert.Len(t, s.ListMeetings(), 1)
	assert.Len(t, s.ListNews(), 2)

	_, ok := s.CurrentUser()
	assert.False(t, ok, "fresh store must be anonymous")

	john := userByName(t, s, "john.doe")
	assert.Equal(t, "member-1", john.ID)
	assert.Equal(t, domain.Digest("memberpass"), john.PasswordHash)
}

func TestNewStore_PersistsSeedForRestart(t *testing.T) {
	kv := memory.NewKV()
	first := newTestStore(t, kv)
	assert.ElementsMatch(t, ports.StateKeys, kv.Keys())

	later := func() time.Time { return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC) }
	restarted := newTestStore(t, kv, WithClock(later))

	assert.Equal(t, mustJSON(t, first.Snapshot()), mustJSON(t, restarted.Snapshot()))
}

func TestNewStore_CompleteStateIsNotRewritten(t *testing.T) {
	kv := &flakyKV{KV: memory.NewKV()}
	newTestStore(t, kv)
	require.Equal(t, 1, kv.sets)

	newTestStore(t, kv)
	assert.Equal(t, 1, kv.sets)
}

func TestNewStore_SeedFlushFailure(t *testing.T) {
	kv := &flakyKV{KV: memory.NewKV(), setErr: errors.New("read-only filesystem")}
	_, err := NewStore(context.Background(), kv, zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestNewStore_ReadFailure(t *testing.T) {
	kv := &flakyKV{KV: memory.NewKV(), getErr: errors.New("disk gone")}
	_, err := NewStore(context.Background(), kv, zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestNewStore_CorruptValue(t *testing.T) {
	kv := memory.NewKV()
	require.NoError(t, kv.Set(context.Background(), ports.Entry{Key: ports.KeyTasks, Value: []byte(`{not json`)}))

	_, err := NewStore(context.Background(), kv, zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestNewStore_DropsSessionOfDeletedUser(t *testing.T) {
	kv := memory.NewKV()
	ctx := context.Background()
	ghost := domain.User{ID: "member-99", Username: "ghost", PasswordHash: "1", Role: domain.RoleMember}
	require.NoError(t, kv.Set(ctx,
		ports.Entry{Key: ports.KeyUsers, Value: []byte(mustJSON(t, domain.SeedUsers()))},
		ports.Entry{Key: ports.KeyCurrentUser, Value: []byte(mustJSON(t, ghost))},
	))

	s := newTestStore(t, kv)
	_, ok := s.CurrentUser()
	assert.False(t, ok)
}

func TestNewStore_SessionFollowsLiveUser(t *testing.T) {
	kv := memory.NewKV()
	ctx := context.Background()
	users := domain.SeedUsers()
	stale := users[2]
	stale.PasswordHash = "stale"
	require.NoError(t, kv.Set(ctx,
		ports.Entry{Key: ports.KeyUsers, Value: []byte(mustJSON(t, users))},
		ports.Entry{Key: ports.KeyCurrentUser, Value: []byte(mustJSON(t, stale))},
	))

	s := newTestStore(t, kv)
	cur, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, users[2].PasswordHash, cur.PasswordHash)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestStore_AddUser(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	u, err := s.AddUser(ctx, "mary.ann", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, u.Role)
	assert.Equal(t, domain.Digest("secret1"), u.PasswordHash)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.Regexp(t, `^member-`, u.ID)

	users := s.ListUsers()
	assert.Equal(t, u.ID, users[len(users)-1].ID, "new users are appended")
}

func TestStore_AddUser_Validation(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_, err := s.AddUser(ctx, "", "secret")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.AddUser(ctx, "   ", "secret")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.AddUser(ctx, "bob", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, s.ListUsers(), 6)
}

func TestStore_AddUser_UniqueUsername(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_, err := s.AddUser(ctx, "john.doe", "another")
	assert.ErrorIs(t, err, domain.ErrUserExists)

	// case-sensitive: a different casing is a different username
	_, err = s.AddUser(ctx, "John.Doe", "another")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, u := range s.ListUsers() {
		assert.False(t, seen[u.Username], "duplicate username %s", u.Username)
		seen[u.Username] = true
	}
}

func TestStore_DeleteUser(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.DeleteUser(ctx, "member-2"))
	_, ok := s.FindUser("member-2")
	assert.False(t, ok)
	assert.Len(t, s.ListUsers(), 5)

	// absent id is a no-op, not an error
	require.NoError(t, s.DeleteUser(ctx, "member-2"))
	assert.Len(t, s.ListUsers(), 5)
}

func TestStore_DeleteUser_EndsOwnSession(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.StartSession(ctx, "member-1"))
	require.NoError(t, s.DeleteUser(ctx, "member-1"))

	_, ok := s.CurrentUser()
	assert.False(t, ok)
}

func TestStore_UpdateCredential_RefreshesSession(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.StartSession(ctx, "member-1"))
	require.NoError(t, s.UpdateCredential(ctx, "member-1", "newpass"))

	stored, _ := s.FindUser("member-1")
	cur, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, domain.Digest("newpass"), stored.PasswordHash)
	assert.Equal(t, stored.PasswordHash, cur.PasswordHash)

	err := s.UpdateCredential(ctx, "member-1", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStore_UpdateCredential_OtherUserLeavesSession(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.StartSession(ctx, "admin-1"))
	before, _ := s.CurrentUser()
	require.NoError(t, s.UpdateCredential(ctx, "member-1", "newpass"))
	after, _ := s.CurrentUser()
	assert.Equal(t, *before, *after)
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

func TestStore_AddTask(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	due := time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC)
	task, err := s.AddTask(ctx, "Paint fence", "Exterior", "member-1", optional.Some(due))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNotStarted, task.Status)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	got, ok := task.DueDate.Get()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), got)

	tasks := s.ListTasks()
	assert.Equal(t, task.ID, tasks[0].ID, "new tasks go first")
}

func TestStore_AddTask_Validation(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	cases := []struct{ title, desc, assignee string }{
		{"", "d", "member-1"},
		{"t", "", "member-1"},
		{"t", "d", ""},
	}
	for _, tc := range cases {
		_, err := s.AddTask(ctx, tc.title, tc.desc, tc.assignee, optional.None[time.Time]())
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Len(t, s.ListTasks(), 4)
}

func TestStore_UpdateTaskStatus(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	task, err := s.AddTask(ctx, "Paint fence", "Exterior", "member-1", optional.None[time.Time]())
	require.NoError(t, err)

	require.NoError(t, s.UpdateTaskStatus(ctx, task.ID, domain.StatusOngoing))
	updated, ok := s.FindTask(task.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusOngoing, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	err = s.UpdateTaskStatus(ctx, task.ID, domain.TaskStatus("Done"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	// unknown id is silently ignored
	require.NoError(t, s.UpdateTaskStatus(ctx, "task-nope", domain.StatusFinished))
}

func TestStore_UpdateTaskStatus_FrozenClock(t *testing.T) {
	frozen := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, nil, WithClock(func() time.Time { return frozen }))
	ctx := context.Background()

	task, err := s.AddTask(ctx, "Paint fence", "Exterior", "member-1", optional.None[time.Time]())
	require.NoError(t, err)
	require.NoError(t, s.UpdateTaskStatus(ctx, task.ID, domain.StatusFinished))

	updated, _ := s.FindTask(task.ID)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestStore_DeleteTask(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.DeleteTask(ctx, "task-2"))
	_, ok := s.FindTask("task-2")
	assert.False(t, ok)
	require.NoError(t, s.DeleteTask(ctx, "task-2"))
	assert.Len(t, s.ListTasks(), 3)
}

// ---------------------------------------------------------------------------
// Events, meetings, news
// ---------------------------------------------------------------------------

func TestStore_AddEvent(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	date := time.Date(2026, 9, 9, 18, 0, 0, 0, time.UTC)
	ev, err := s.AddEvent(ctx, "Quiz night", "Teams of four", date)
	require.NoError(t, err)
	assert.Empty(t, ev.Attendees)
	assert.NotNil(t, ev.Attendees)
	assert.Equal(t, ev.ID, s.ListEvents()[0].ID)

	_, err = s.AddEvent(ctx, "Quiz night", "Teams of four", time.Time{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.AddEvent(ctx, "", "Teams of four", date)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStore_ToggleEventAttendance_RoundTrip(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	for _, userID := range []string{"member-1", "member-2"} {
		before, _ := s.FindEvent("event-1")

		require.NoError(t, s.ToggleEventAttendance(ctx, "event-1", userID))
		mid, _ := s.FindEvent("event-1")
		assert.NotEqual(t, before.IsAttending(userID), mid.IsAttending(userID))

		require.NoError(t, s.ToggleEventAttendance(ctx, "event-1", userID))
		after, _ := s.FindEvent("event-1")
		assert.ElementsMatch(t, before.Attendees, after.Attendees)
	}
}

func TestStore_ToggleEventAttendance_KeepsJoinOrder(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.ToggleEventAttendance(ctx, "event-1", "member-4"))
	ev, _ := s.FindEvent("event-1")
	assert.Equal(t, []string{"member-1", "member-3", "member-4"}, ev.Attendees)

	require.NoError(t, s.ToggleEventAttendance(ctx, "event-404", "member-4"))
}

func TestStore_ListEventsIsACopy(t *testing.T) {
	s := newTestStore(t, nil)

	events := s.ListEvents()
	events[0].Attendees[0] = "tampered"

	fresh, _ := s.FindEvent(events[0].ID)
	assert.NotEqual(t, "tampered", fresh.Attendees[0])
}

func TestStore_AddMeetingAndNews(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	m, err := s.AddMeeting(ctx, "Budget", time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	assert.Equal(t, "", m.Notes)
	assert.Equal(t, m.ID, s.ListMeetings()[0].ID)

	_, err = s.AddMeeting(ctx, "", time.Now(), "notes")
	assert.ErrorIs(t, err, domain.ErrValidation)

	n, err := s.AddNewsItem(ctx, "Hello", "World")
	require.NoError(t, err)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Equal(t, n.ID, s.ListNews()[0].ID)

	_, err = s.AddNewsItem(ctx, "Hello", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

func TestStore_RestartRoundTrip(t *testing.T) {
	kv := memory.NewKV()
	ctx := context.Background()
	s := newTestStore(t, kv)

	u, err := s.AddUser(ctx, "mary.ann", "secret1")
	require.NoError(t, err)
	task, err := s.AddTask(ctx, "Paint fence", "Exterior", u.ID, optional.Some(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.NoError(t, s.UpdateTaskStatus(ctx, task.ID, domain.StatusOngoing))
	_, err = s.AddTask(ctx, "Sweep", "Clubhouse", u.ID, optional.None[time.Time]())
	require.NoError(t, err)
	require.NoError(t, s.ToggleEventAttendance(ctx, "event-1", u.ID))
	_, err = s.AddMeeting(ctx, "Budget", time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC), "bring numbers")
	require.NoError(t, err)
	_, err = s.AddNewsItem(ctx, "Hello", "World")
	require.NoError(t, err)
	require.NoError(t, s.DeleteUser(ctx, "member-4"))
	require.NoError(t, s.StartSession(ctx, u.ID))

	restarted := newTestStore(t, kv)

	assert.Equal(t, mustJSON(t, s.ListUsers()), mustJSON(t, restarted.ListUsers()))
	assert.Equal(t, mustJSON(t, s.ListTasks()), mustJSON(t, restarted.ListTasks()))
	assert.Equal(t, mustJSON(t, s.ListEvents()), mustJSON(t, restarted.ListEvents()))
	assert.Equal(t, mustJSON(t, s.ListMeetings()), mustJSON(t, restarted.ListMeetings()))
	assert.Equal(t, mustJSON(t, s.ListNews()), mustJSON(t, restarted.ListNews()))

	cur, ok := restarted.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u.ID, cur.ID)
}

func TestStore_FlushFailureLeavesStateUntouched(t *testing.T) {
	kv := &flakyKV{KV: memory.NewKV()}
	ctx := context.Background()
	s := newTestStore(t, kv)

	before := mustJSON(t, s.Snapshot())
	kv.setErr = errors.New("connection reset")

	_, err := s.AddUser(ctx, "mary.ann", "secret1")
	assert.ErrorIs(t, err, domain.ErrPersistence)
	_, err = s.AddTask(ctx, "Paint fence", "Exterior", "member-1", optional.None[time.Time]())
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, s.ToggleEventAttendance(ctx, "event-1", "member-2"), domain.ErrPersistence)
	assert.ErrorIs(t, s.DeleteUser(ctx, "member-1"), domain.ErrPersistence)
	assert.ErrorIs(t, s.StartSession(ctx, "member-1"), domain.ErrPersistence)

	assert.Equal(t, before, mustJSON(t, s.Snapshot()))
	_, ok := s.CurrentUser()
	assert.False(t, ok)

	// the backend still holds the seed written at construction
	persisted, err := kv.KV.Get(ctx, ports.KeyUsers)
	require.NoError(t, err)
	assert.Equal(t, mustJSON(t, domain.SeedUsers()), string(persisted))
}

func TestStore_ValidationAndNoopSkipFlush(t *testing.T) {
	kv := &flakyKV{KV: memory.NewKV()}
	ctx := context.Background()
	s := newTestStore(t, kv)
	require.Equal(t, 1, kv.sets, "seed is written once at construction")

	_, _ = s.AddUser(ctx, "", "x")
	_ = s.DeleteTask(ctx, "task-404")
	_ = s.UpdateTaskStatus(ctx, "task-404", domain.StatusFinished)
	_ = s.EndSession(ctx)
	assert.Equal(t, 1, kv.sets)

	require.NoError(t, s.DeleteTask(ctx, "task-1"))
	assert.Equal(t, 2, kv.sets)
	assert.ElementsMatch(t, ports.StateKeys, kv.Keys())
}

// ---------------------------------------------------------------------------
// End-to-end scenario and dangling references
// ---------------------------------------------------------------------------

func TestStore_MemberScenario(t *testing.T) {
	s := newTestStore(t, nil)
	auth := NewAuthService(s, "secret", time.Hour, zerolog.Nop())
	ctx := context.Background()

	ok, err := auth.Login(ctx, "john.doe", "memberpass")
	require.NoError(t, err)
	require.True(t, ok)
	cur, _ := s.CurrentUser()
	assert.Equal(t, "john.doe", cur.Username)

	ok, err = auth.Login(ctx, "john.doe", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	cur, _ = s.CurrentUser()
	assert.Equal(t, "john.doe", cur.Username, "failed login leaves the session alone")

	task, err := s.AddTask(ctx, "Paint fence", "Exterior", cur.ID, optional.None[time.Time]())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotStarted, task.Status)

	require.NoError(t, s.UpdateTaskStatus(ctx, task.ID, domain.StatusOngoing))
	updated, _ := s.FindTask(task.ID)
	assert.Equal(t, domain.StatusOngoing, updated.Status)
	assert.NotEqual(t, task.UpdatedAt, updated.UpdatedAt)

	require.NoError(t, s.DeleteUser(ctx, cur.ID))
	_, found := s.FindUser(cur.ID)
	assert.False(t, found)
	orphan, _ := s.FindTask(task.ID)
	assert.Equal(t, "member-1", orphan.AssignedTo)

	ok, err = auth.Login(ctx, "john.doe", "memberpass")
	require.NoError(t, err)
	assert.False(t, ok, "deleted users cannot log in")
}

func TestStore_DanglingReferencesKeepViewsWorking(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	for _, u := range s.ListUsers() {
		require.NoError(t, s.DeleteUser(ctx, u.ID))
	}
	require.Empty(t, s.ListUsers())

	dash := NewDashboardService(s, time.Now)
	assert.NotPanics(t, func() {
		overview := dash.AdminOverview()
		assert.Equal(t, 0, overview.MemberCount)
		assert.Equal(t, 4, overview.TaskCount)

		board := dash.MemberOverview("member-1")
		assert.Equal(t, 1, board.Tasks.Total())
	})
}
