package roles

import "strings"

// Role is the categorical tag driving dashboards and route authorization.
type Role string

const (
	Admin      Role = "admin"
	Corporate  Role = "corporate"
	Regional   Role = "regional"
	Branch     Role = "branch"
	HeadOffice Role = "head_office"
	User       Role = "user"
)

// Dashboard landing routes.
const (
	AdminDashboard      = "/dashboard/admin"
	CorporateDashboard  = "/dashboard/corporate"
	RegionalDashboard   = "/dashboard/regional"
	BranchDashboard     = "/dashboard/branch"
	HeadOfficeDashboard = "/dashboard/head-office"
	DefaultDashboard    = "/dashboard"
)

// All lists every known role, default last.
var All = []Role{Admin, Corporate, Regional, Branch, HeadOffice, User}

// Parse normalizes a raw role string. Matching is case-insensitive and
// "head-office" is accepted for head_office. Unknown or empty values map to User.
func Parse(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return Admin
	case "corporate":
		return Corporate
	case "regional":
		return Regional
	case "branch":
		return Branch
	case "head_office", "head-office":
		return HeadOffice
	default:
		return User
	}
}

// Valid reports whether raw names a known role other than the default.
func Valid(raw string) bool {
	return Parse(raw) != User || strings.EqualFold(strings.TrimSpace(raw), string(User))
}

// DashboardPath resolves the landing route for a role string.
func DashboardPath(raw string) string {
	return Parse(raw).DashboardPath()
}

// DashboardPath returns the landing route for r.
func (r Role) DashboardPath() string {
	switch r {
	case Admin:
		return AdminDashboard
	case Corporate:
		return CorporateDashboard
	case Regional:
		return RegionalDashboard
	case Branch:
		return BranchDashboard
	case HeadOffice:
		return HeadOfficeDashboard
	default:
		return DefaultDashboard
	}
}

// Matches compares two role strings after normalization.
func Matches(a, b string) bool {
	return Parse(a) == Parse(b)
}

func (r Role) String() string {
	return string(r)
}
