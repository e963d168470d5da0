package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/99minutos/club-admin/internal/core/domain"
)

const promptHeader = `Generate a concise, professional club activity report based on the following JSON data.
The report should be easy to read for club leadership.
Use markdown for formatting. Include sections for:
1.  **Membership Overview**: Total number of members.
2.  **Task Summary**: Number of tasks by status (Not Started, Ongoing, Finished). Highlight any overdue tasks.
3.  **Event Roundup**: Mention upcoming and recent events, including attendance numbers for past events.
4.  **Scheduled Meetings**: List upcoming meetings.
5.  **Recent Communications**: Briefly summarize the latest news items.

Here is the data:
`

// promptMember is the user shape sent to the model. Credential digests stay
// out of the prompt.
type promptMember struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// BuildPrompt renders the report request for snap. Only MEMBER users are
// listed.
func BuildPrompt(snap domain.Snapshot) (string, error) {
	members := domain.Members(snap.Users)
	out := make([]promptMember, 0, len(members))
	for _, m := range members {
		out = append(out, promptMember{ID: m.ID, Username: m.Username, Role: m.Role})
	}

	var b strings.Builder
	b.WriteString(promptHeader)
	sections := []struct {
		label string
		value any
	}{
		{"Members", out},
		{"Tasks", snap.Tasks},
		{"Events", snap.Events},
		{"Meetings", snap.Meetings},
		{"News", snap.News},
	}
	for _, s := range sections {
		raw, err := json.MarshalIndent(s.value, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", strings.ToLower(s.label), err)
		}
		fmt.Fprintf(&b, "- %s: %s\n", s.label, raw)
	}
	return b.String(), nil
}
