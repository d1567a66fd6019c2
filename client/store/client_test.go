package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/client"
	"github.com/diewo77/go-crm/httpx"
)

var _ API = (*client.Client)(nil)

func TestRejectedTokenEndsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, api.AuthResponse{User: api.User{ID: 1, Name: "Admin"}, Token: "tok"})
	})
	mux.HandleFunc("GET /api/companies", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusUnauthorized, "Token invalide ou expiré", nil)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := client.New(srv.URL)
	s := New(c)
	var last State
	s.Subscribe(func(st State) { last = st })

	_, err := s.Login(context.Background(), "admin@closer-crm.fr", "admin123")
	require.NoError(t, err)
	require.True(t, s.Snapshot().Session.LoggedIn())
	require.Equal(t, "tok", c.Token())

	err = s.Load(context.Background())
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Empty(t, c.Token())

	st := s.Snapshot()
	assert.False(t, st.Session.LoggedIn())
	assert.Nil(t, st.Session.User)
	assert.False(t, last.Session.LoggedIn())
	assert.False(t, st.Loaded)
}
