package guard

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mygroup/apphub/internal/client/render"
	"github.com/mygroup/apphub/internal/client/session"
)

var (
	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	deniedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("9"))

	deniedBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2)
)

// LoadingView is shown while the session is being verified.
func LoadingView() render.View {
	return render.ViewFunc(func(w io.Writer) error {
		_, err := fmt.Fprintln(w, loadingStyle.Render("Checking your session..."))
		return err
	})
}

// DeniedView explains why an authenticated user cannot see a route.
func DeniedView(user *session.User, req Requirement) render.View {
	return render.ViewFunc(func(w io.Writer) error {
		_, err := fmt.Fprintln(w, panelStyle.Render(deniedContent(user, req)))
		return err
	})
}

func deniedContent(user *session.User, req Requirement) string {
	var reason string
	switch {
	case req.AdminOnly:
		reason = "This page is restricted to administrators."
	case req.RequiredRole != "":
		reason = fmt.Sprintf("This page requires the %s role.", req.RequiredRole)
	default:
		reason = "You do not have permission to view this page."
	}
	if user != nil && user.Username != "" {
		reason += fmt.Sprintf("\nSigned in as %s (%s).", user.Username, user.Role)
	}

	return strings.Join([]string{
		deniedTitleStyle.Render("Access denied"),
		"",
		deniedBodyStyle.Render(reason),
		"",
		actionStyle.Render("[ Go home ]"),
	}, "\n")
}
