package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/sysantonio/api-boukii-sub001/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

// ServiceKeyOrAdmin grants access to machine-to-machine callers presenting
// the shared service key, or to admin users otherwise. The key is compared
// against a bcrypt hash from configuration; the plaintext never lives in this
// service. Booking CRUD backends use the key to invalidate analytics caches
// when transactional data changes.
func ServiceKeyOrAdmin(serviceKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		adminNext := AdminOnly()(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Service-Key")
			if key == "" {
				adminNext.ServeHTTP(w, r)
				return
			}

			if serviceKeyHash == "" {
				logrus.Warning("service key presented but no hash is configured")
				apiErrors.WriteError(w, apiErrors.ErrInvalidServiceKey, "Service key authentication is disabled", nil)
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(serviceKeyHash), []byte(key)); err != nil {
				logrus.Warning("invalid service key presented")
				apiErrors.WriteError(w, apiErrors.ErrInvalidServiceKey, "Invalid service key", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
