package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func serviceKeyHash(t *testing.T, key string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestServiceKeyAccepted(t *testing.T) {
	mw := ServiceKeyOrAdmin(serviceKeyHash(t, "machine-key"))

	r := httptest.NewRequest(http.MethodPost, "/v1/analytics/cache/invalidate", nil)
	r.Header.Set("X-Service-Key", "machine-key")
	w := httptest.NewRecorder()
	mw(okHandler(nil)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServiceKeyRejected(t *testing.T) {
	mw := ServiceKeyOrAdmin(serviceKeyHash(t, "machine-key"))

	r := httptest.NewRequest(http.MethodPost, "/v1/analytics/cache/invalidate", nil)
	r.Header.Set("X-Service-Key", "wrong-key")
	w := httptest.NewRecorder()
	mw(okHandler(nil)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_004")
}

func TestServiceKeyDisabled(t *testing.T) {
	mw := ServiceKeyOrAdmin("")

	r := httptest.NewRequest(http.MethodPost, "/v1/analytics/cache/invalidate", nil)
	r.Header.Set("X-Service-Key", "machine-key")
	w := httptest.NewRecorder()
	mw(okHandler(nil)).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServiceKeyFallsBackToAdmin(t *testing.T) {
	mw := ServiceKeyOrAdmin(serviceKeyHash(t, "machine-key"))

	// No key presented: the admin role gate applies.
	w := httptest.NewRecorder()
	mw(okHandler(nil)).ServeHTTP(w, requestWithRole(RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	mw(okHandler(nil)).ServeHTTP(w, requestWithRole(RoleViewer))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
