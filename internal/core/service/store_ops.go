package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/pkg/optional"
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return nil
}

func requiredSecret(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return nil
}

func requiredTime(field string, value time.Time) error {
	if value.IsZero() {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return nil
}

// --- Users ---

// AddUser appends a new MEMBER. Usernames are unique and case-sensitive.
func (s *Store) AddUser(ctx context.Context, username, secret string) (*domain.User, error) {
	if err := required("username", username); err != nil {
		return nil, err
	}
	if err := requiredSecret("password", secret); err != nil {
		return nil, err
	}

	var created domain.User
	err := s.mutate(ctx, "add_user", func(st *state) error {
		if slices.ContainsFunc(st.users, func(u domain.User) bool { return u.Username == username }) {
			return fmt.Errorf("add user %q: %w", username, domain.ErrUserExists)
		}
		created = domain.User{
			ID:           s.newID("member"),
			Username:     username,
			PasswordHash: domain.Digest(secret),
			Role:         domain.RoleMember,
		}
		st.users = append(st.users, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteUser removes the user if present. Tasks and events that reference
// the user keep the dangling id. Deleting the session user ends the session.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	return s.mutate(ctx, "delete_user", func(st *state) error {
		i := indexUser(st.users, userID)
		if i < 0 {
			return errNoChange
		}
		st.users = slices.Delete(st.users, i, i+1)
		if st.current != nil && st.current.ID == userID {
			st.current = nil
		}
		return nil
	})
}

// UpdateCredential replaces the stored digest. The session copy follows
// when the user is logged in.
func (s *Store) UpdateCredential(ctx context.Context, userID, newSecret string) error {
	if err := requiredSecret("password", newSecret); err != nil {
		return err
	}
	return s.mutate(ctx, "update_credential", func(st *state) error {
		i := indexUser(st.users, userID)
		if i < 0 {
			return errNoChange
		}
		st.users[i].PasswordHash = domain.Digest(newSecret)
		if st.current != nil && st.current.ID == userID {
			u := st.users[i]
			st.current = &u
		}
		return nil
	})
}

// --- Session ---

// StartSession makes userID the current session user.
func (s *Store) StartSession(ctx context.Context, userID string) error {
	return s.mutate(ctx, "start_session", func(st *state) error {
		i := indexUser(st.users, userID)
		if i < 0 {
			return fmt.Errorf("start session: %w", domain.ErrUserNotFound)
		}
		u := st.users[i]
		st.current = &u
		return nil
	})
}

// EndSession clears the session slot.
func (s *Store) EndSession(ctx context.Context) error {
	return s.mutate(ctx, "end_session", func(st *state) error {
		if st.current == nil {
			return errNoChange
		}
		st.current = nil
		return nil
	})
}

// --- Tasks ---

// AddTask creates a NOT_STARTED task at the front of the collection.
func (s *Store) AddTask(ctx context.Context, title, description, assignedTo string, dueDate optional.Value[time.Time]) (*domain.Task, error) {
	if err := required("title", title); err != nil {
		return nil, err
	}
	if err := required("description", description); err != nil {
		return nil, err
	}
	if err := required("assigned_to", assignedTo); err != nil {
		return nil, err
	}
	if due, ok := dueDate.Get(); ok {
		dueDate = optional.Some(domain.DueDay(due))
	}

	var created domain.Task
	err := s.mutate(ctx, "add_task", func(st *state) error {
		now := s.now()
		created = domain.Task{
			ID:          s.newID("task"),
			Title:       title,
			Description: description,
			AssignedTo:  assignedTo,
			Status:      domain.StatusNotStarted,
			CreatedAt:   now,
			UpdatedAt:   now,
			DueDate:     dueDate,
		}
		st.tasks = append([]domain.Task{created}, st.tasks...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTaskStatus sets the status and refreshes UpdatedAt. Unknown ids are
// ignored.
func (s *Store) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown task status %q", domain.ErrValidation, status)
	}
	return s.mutate(ctx, "update_task_status", func(st *state) error {
		i := indexTask(st.tasks, taskID)
		if i < 0 {
			return errNoChange
		}
		t := &st.tasks[i]
		ts := s.now()
		// keep UpdatedAt strictly increasing even on a coarse clock
		if !ts.After(t.UpdatedAt) {
			ts = t.UpdatedAt.Add(time.Nanosecond)
		}
		t.Status = status
		t.UpdatedAt = ts
		return nil
	})
}

func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	return s.mutate(ctx, "delete_task", func(st *state) error {
		i := indexTask(st.tasks, taskID)
		if i < 0 {
			return errNoChange
		}
		st.tasks = slices.Delete(st.tasks, i, i+1)
		return nil
	})
}

// --- Events ---

func (s *Store) AddEvent(ctx context.Context, name, description string, date time.Time) (*domain.Event, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	if err := required("description", description); err != nil {
		return nil, err
	}
	if err := requiredTime("date", date); err != nil {
		return nil, err
	}

	var created domain.Event
	err := s.mutate(ctx, "add_event", func(st *state) error {
		created = domain.Event{
			ID:          s.newID("event"),
			Name:        name,
			Description: description,
			Date:        date.UTC(),
			Attendees:   []string{},
		}
		st.events = append([]domain.Event{created}, st.events...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	created.Attendees = []string{}
	return &created, nil
}

// ToggleEventAttendance removes userID from the attendees when present and
// appends it otherwise. Unknown events are ignored.
func (s *Store) ToggleEventAttendance(ctx context.Context, eventID, userID string) error {
	if err := required("user_id", userID); err != nil {
		return err
	}
	return s.mutate(ctx, "toggle_event_attendance", func(st *state) error {
		i := indexEvent(st.events, eventID)
		if i < 0 {
			return errNoChange
		}
		e := &st.events[i]
		if j := slices.Index(e.Attendees, userID); j >= 0 {
			e.Attendees = slices.Delete(e.Attendees, j, j+1)
		} else {
			e.Attendees = append(e.Attendees, userID)
		}
		return nil
	})
}

// --- Meetings & news ---

func (s *Store) AddMeeting(ctx context.Context, topic string, date time.Time, notes string) (*domain.Meeting, error) {
	if err := required("topic", topic); err != nil {
		return nil, err
	}
	if err := requiredTime("date", date); err != nil {
		return nil, err
	}

	var created domain.Meeting
	err := s.mutate(ctx, "add_meeting", func(st *state) error {
		created = domain.Meeting{
			ID:    s.newID("meeting"),
			Topic: topic,
			Date:  date.UTC(),
			Notes: notes,
		}
		st.meetings = append([]domain.Meeting{created}, st.meetings...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Store) AddNewsItem(ctx context.Context, title, content string) (*domain.NewsItem, error) {
	if err := required("title", title); err != nil {
		return nil, err
	}
	if err := required("content", content); err != nil {
		return nil, err
	}

	var created domain.NewsItem
	err := s.mutate(ctx, "add_news_item", func(st *state) error {
		created = domain.NewsItem{
			ID:        s.newID("news"),
			Title:     title,
			Content:   content,
			CreatedAt: s.now(),
		}
		st.news = append([]domain.NewsItem{created}, st.news...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}
