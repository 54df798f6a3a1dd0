package authapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygroup/apphub/internal/client/session"
	"github.com/mygroup/apphub/internal/client/tokenstore"
	"github.com/mygroup/apphub/internal/roles"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin", body["username"])
		assert.Equal(t, "password", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc","user":{"id":1,"username":"admin","role":"Admin"}}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL+"/", srv.Client()).Login(context.Background(), session.Credentials{Username: "admin", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)
	assert.Equal(t, "1", resp.User.ID)
	assert.Equal(t, roles.Admin, resp.User.Role)
}

func TestLogin_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error string", http.StatusUnauthorized, `{"error":"invalid credentials","code":"UNAUTHORIZED"}`, "invalid credentials"},
		{"message field", http.StatusBadRequest, `{"message":"username is required"}`, "username is required"},
		{"nested error", http.StatusBadRequest, `{"error":{"message":"bad body"}}`, "bad body"},
		{"no body", http.StatusBadGateway, ``, ""},
		{"not json", http.StatusInternalServerError, `<html>oops</html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, srv.Client()).Login(context.Background(), session.Credentials{})
			require.Error(t, err)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.wantMsg, se.ServerMessage())
		})
	}
}

func TestLogin_ServerMessageReachesLoginError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	store := tokenstore.NewMemory("")
	m := session.New(context.Background(), session.Deps{API: New(srv.URL, srv.Client()), Store: store})
	_, err := m.Login(context.Background(), session.Credentials{Username: "x", Password: "y"})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":"u-1","username":"rita","userRole":"head-office"},"isAdmin":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())

	who, err := c.Me(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "u-1", who.User.ID)
	assert.Equal(t, roles.HeadOffice, who.User.Role)
	assert.True(t, who.IsAdmin)

	_, err = c.Me(context.Background(), "nope")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
}

func TestLogout(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, srv.Client()).Logout(context.Background(), "abc"))
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL, srv.Client()).Me(ctx, "abc")
	require.ErrorIs(t, err, context.Canceled)
}

func TestWireUserRole(t *testing.T) {
	tests := []struct {
		name string
		json string
		want roles.Role
	}{
		{"role only", `{"role":"branch"}`, roles.Branch},
		{"role wins", `{"role":"corporate","userRole":"admin"}`, roles.Corporate},
		{"userRole fallback", `{"userRole":"Regional"}`, roles.Regional},
		{"empty role falls back", `{"role":"","userRole":"admin"}`, roles.Admin},
		{"neither", `{}`, roles.User},
		{"unknown", `{"role":"janitor"}`, roles.User},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u wireUser
			require.NoError(t, json.Unmarshal([]byte(tt.json), &u))
			assert.Equal(t, tt.want, u.toSession().Role)
		})
	}
}

func TestFlexibleID(t *testing.T) {
	for raw, want := range map[string]string{`42`: "42", `"abc"`: "abc", `null`: ""} {
		var id flexibleID
		require.NoError(t, json.Unmarshal([]byte(raw), &id))
		assert.Equal(t, want, string(id))
	}
	var id flexibleID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}
