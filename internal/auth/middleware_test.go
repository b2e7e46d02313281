package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	svc := NewService(repoWithAdmin(t, "admin", "correct horse"))
	sess, err := svc.Login(context.Background(), "admin", "correct horse")
	require.NoError(t, err)

	var gotSession *Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = SessionFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := Middleware(svc)(next)

	t.Run("valid token passes and exposes the session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sess.Token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, gotSession)
		assert.Equal(t, int64(1), gotSession.AdminID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
