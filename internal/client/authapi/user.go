package authapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mygroup/apphub/internal/client/session"
	"github.com/mygroup/apphub/internal/roles"
)

type wireUser struct {
	ID        flexibleID `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      string     `json:"role"`
	UserRole  string     `json:"userRole"`
	IsAdmin   bool       `json:"isAdmin"`
}

// toSession normalizes the role: role wins, userRole only when role is empty.
func (u wireUser) toSession() session.User {
	raw := u.Role
	if strings.TrimSpace(raw) == "" {
		raw = u.UserRole
	}
	return session.User{
		ID:        string(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      roles.Parse(raw),
		IsAdmin:   u.IsAdmin,
	}
}

// flexibleID accepts a JSON string or number.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = flexibleID(n.String())
	return nil
}
