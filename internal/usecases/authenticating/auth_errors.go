package authenticating

import "errors"

// Token validation errors. This service only verifies tokens issued by the
// platform's auth backend; credential handling lives there.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
