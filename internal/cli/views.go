package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mygroup/apphub/internal/client/render"
	"github.com/mygroup/apphub/internal/client/session"
)

var (
	navStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1)
)

func userPanel(title string, u *session.User) render.View {
	return render.ViewFunc(func(w io.Writer) error {
		rows := []string{titleStyle.Render(title)}
		add := func(k, v string) {
			if v != "" {
				rows = append(rows, keyStyle.Render(k)+valueStyle.Render(v))
			}
		}
		add("user", u.Username)
		add("id", u.ID)
		add("email", u.Email)
		add("name", strings.TrimSpace(u.FirstName+" "+u.LastName))
		add("role", string(u.Role))
		if u.HasAdminAccess() {
			add("admin", "yes")
		}
		_, err := fmt.Fprintln(w, boxStyle.Render(strings.Join(rows, "\n")))
		return err
	})
}
