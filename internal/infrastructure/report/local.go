package report

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

const dateLayout = "2006-01-02"

// LocalGenerator renders a plain markdown summary without any remote call.
// It answers when no Gemini key is configured.
type LocalGenerator struct {
	now func() time.Time
}

var _ ports.ReportGenerator = (*LocalGenerator)(nil)

func NewLocalGenerator(now func() time.Time) *LocalGenerator {
	if now == nil {
		now = time.Now
	}
	return &LocalGenerator{now: now}
}

func (g *LocalGenerator) Generate(ctx context.Context, snap domain.Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := g.now()
	var b strings.Builder

	b.WriteString("# Club Activity Report\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n\n", now.UTC().Format(time.RFC1123))

	b.WriteString("## Membership Overview\n\n")
	fmt.Fprintf(&b, "Total members: %d\n\n", len(domain.Members(snap.Users)))

	b.WriteString("## Task Summary\n\n")
	counts := domain.CountTasksByStatus(snap.Tasks)
	for _, s := range domain.TaskStatuses {
		fmt.Fprintf(&b, "- %s: %d\n", s.Label(), counts[s])
	}
	overdue := domain.OverdueTasks(snap.Tasks, now)
	if len(overdue) > 0 {
		b.WriteString("\nOverdue:\n")
		for _, t := range overdue {
			due, _ := t.DueDate.Get()
			fmt.Fprintf(&b, "- **%s** (assigned to %s, due %s)\n", t.Title, username(snap.Users, t.AssignedTo), due.Format(dateLayout))
		}
	}
	b.WriteString("\n")

	b.WriteString("## Event Roundup\n\n")
	upcoming, past := domain.PartitionEvents(snap.Events, now)
	if len(upcoming) == 0 && len(past) == 0 {
		b.WriteString("No events on record.\n")
	}
	for _, e := range upcoming {
		fmt.Fprintf(&b, "- Upcoming: **%s** on %s, %d signed up\n", e.Name, e.Date.Format(dateLayout), len(e.Attendees))
	}
	for _, e := range past {
		fmt.Fprintf(&b, "- Past: **%s** on %s, %d attended\n", e.Name, e.Date.Format(dateLayout), len(e.Attendees))
	}
	b.WriteString("\n")

	b.WriteString("## Scheduled Meetings\n\n")
	meetings := slices.Clone(snap.Meetings)
	meetings = slices.DeleteFunc(meetings, func(m domain.Meeting) bool { return !m.Date.After(now) })
	slices.SortStableFunc(meetings, func(a, c domain.Meeting) int { return a.Date.Compare(c.Date) })
	if len(meetings) == 0 {
		b.WriteString("No upcoming meetings.\n")
	}
	for _, m := range meetings {
		fmt.Fprintf(&b, "- **%s** on %s\n", m.Topic, m.Date.Format(dateLayout))
	}
	b.WriteString("\n")

	b.WriteString("## Recent Communications\n\n")
	news := domain.NewsByRecency(snap.News)
	if len(news) == 0 {
		b.WriteString("No news published.\n")
	}
	for _, n := range news {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", n.Title, n.CreatedAt.Format(dateLayout), n.Content)
	}

	return b.String(), nil
}

// username resolves a user id for display; dangling ids are shown as is.
func username(users []domain.User, id string) string {
	for _, u := range users {
		if u.ID == id {
			return u.Username
		}
	}
	return id
}
