package session

import (
	"context"

	"github.com/mygroup/apphub/internal/roles"
)

// Client routes the manager navigates to.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// User is the identity projection returned by the server. It is replaced
// wholesale on every successful whoami and never mutated in place.
type User struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Role      roles.Role
	IsAdmin   bool
}

// HasAdminAccess reports whether the user carries the admin flag or the admin role.
func (u *User) HasAdminAccess() bool {
	return u != nil && (u.IsAdmin || u.Role == roles.Admin)
}

// Credentials are submitted to the login endpoint.
type Credentials struct {
	Username string
	Password string
}

// LoginResponse is the issuer's answer to a successful login.
type LoginResponse struct {
	Token string
	User  User
}

// WhoAmI is the issuer's answer to a successful whoami call.
type WhoAmI struct {
	User    User
	IsAdmin bool
}

// API is the session/token issuer as seen by the client.
type API interface {
	Login(ctx context.Context, creds Credentials) (*LoginResponse, error)
	Me(ctx context.Context, token string) (*WhoAmI, error)
	Logout(ctx context.Context, token string) error
}

// Navigator is the imperative "set current route" side channel.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// State is a point-in-time snapshot of the manager.
type State struct {
	User            *User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	User     User
	Redirect string
}
