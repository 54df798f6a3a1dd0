package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mygroup/apphub/internal/client/guard"
	"github.com/mygroup/apphub/internal/client/render"
	"github.com/mygroup/apphub/internal/client/session"
	"github.com/mygroup/apphub/internal/roles"
)

// ErrNotLoggedIn is returned by commands that need a verified session.
var ErrNotLoggedIn = errors.New("not logged in")

// routes declares the guarded dashboard routes and what each requires.
var routes = map[string]guard.Requirement{
	roles.DefaultDashboard:    {},
	roles.AdminDashboard:      {AdminOnly: true},
	roles.CorporateDashboard:  {RequiredRole: roles.Corporate},
	roles.RegionalDashboard:   {RequiredRole: roles.Regional},
	roles.BranchDashboard:     {RequiredRole: roles.Branch},
	roles.HeadOfficeDashboard: {RequiredRole: roles.HeadOffice},
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "apphub",
		Short:         "AppHub command line client",
		Long:          "apphub signs in to an AppHub server and opens role dashboards.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newDashboardCommand(app),
		newHomeCommand(app),
	)
	return root
}

func newLoginCommand(app *App) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and open your dashboard",
		Example: `  apphub login --username admin --password password
  apphub login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds := session.Credentials{Username: username, Password: password}
			if creds.Username == "" || creds.Password == "" {
				if !app.Interactive {
					return errors.New("--username and --password are required when not running in a terminal")
				}
				prompted, err := app.Prompter.Credentials(creds.Username)
				if err != nil {
					return err
				}
				creds = prompted
			}

			m, err := app.manager(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			res, err := m.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			return userPanel("Signed in", &res.User).Render(app.Out)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := app.manager(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			m.Logout(cmd.Context())
			fmt.Fprintln(app.Out, "Signed out.")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := app.manager(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			m.Rehydrate(cmd.Context())
			st := m.State()
			if !st.IsAuthenticated {
				return ErrNotLoggedIn
			}
			return userPanel("Signed in", st.User).Render(app.Out)
		},
	}
}

func newHomeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Print the dashboard route for your role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := app.manager(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			m.Rehydrate(cmd.Context())
			if !m.State().IsAuthenticated {
				return ErrNotLoggedIn
			}
			fmt.Fprintln(app.Out, m.DashboardPath())
			return nil
		},
	}
}

func newDashboardCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard [route]",
		Short: "Open a dashboard route through its guard",
		Long: "Open a dashboard route. Without a route the dashboard for your role is opened.\n\nRoutes:\n  " +
			strings.Join(routeNames(), "\n  "),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := app.manager(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			store, err := app.store()
			if err != nil {
				return err
			}

			m.Rehydrate(ctx)

			route := m.DashboardPath()
			if len(args) == 1 {
				route = normalizeRoute(args[0])
			}
			req, ok := routes[route]
			if !ok {
				return fmt.Errorf("unknown route %q", route)
			}

			g := guard.New(guard.Deps{
				Session:   m,
				Tokens:    store,
				Navigator: app.navigator(),
				Logger:    app.Logger,
			}, req)

			frame := render.NewFrame()
			view, status := g.Render(ctx, frame, dashboardView(route, m.State().User))
			if err := render.Draw(app.Out, frame, view); err != nil {
				return err
			}

			if status == guard.Denied && app.Interactive {
				goHome, err := app.Prompter.Confirm("Go home?")
				if err != nil {
					return err
				}
				if goHome {
					g.GoHome()
				}
			}
			return nil
		},
	}
}

func dashboardView(route string, u *session.User) render.View {
	title := "Dashboard"
	switch route {
	case roles.AdminDashboard:
		title = "Admin dashboard"
	case roles.CorporateDashboard:
		title = "Corporate dashboard"
	case roles.RegionalDashboard:
		title = "Regional dashboard"
	case roles.BranchDashboard:
		title = "Branch dashboard"
	case roles.HeadOfficeDashboard:
		title = "Head office dashboard"
	}
	return userPanel(title, u)
}

// normalizeRoute accepts "branch", "/dashboard/branch" and "dashboard/branch".
func normalizeRoute(arg string) string {
	arg = strings.Trim(strings.ToLower(strings.TrimSpace(arg)), "/")
	switch {
	case arg == "" || arg == "dashboard":
		return roles.DefaultDashboard
	case strings.HasPrefix(arg, "dashboard/"):
		return "/" + arg
	case roles.Valid(arg):
		return roles.Parse(arg).DashboardPath()
	default:
		return "/" + arg
	}
}

func routeNames() []string {
	names := make([]string, 0, len(routes))
	for r := range routes {
		names = append(names, r)
	}
	sort.Strings(names)
	return names
}
