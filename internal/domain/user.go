package domain

import "github.com/golang-jwt/jwt/v5"

// Claims carried by the bearer tokens issued by the platform's auth service.
// This API only validates tokens, it never issues them.
type Claims struct {
	UserID     int64   `json:"user_id"`
	UserRoleID int     `json:"user_role_id"`
	SchoolIDs  []int64 `json:"school_ids"`
	jwt.RegisteredClaims
}

// CanAccessSchool reports whether the token grants access to a school's data.
// An empty school list means platform-wide access.
func (c *Claims) CanAccessSchool(schoolID int64) bool {
	if len(c.SchoolIDs) == 0 {
		return true
	}
	for _, id := range c.SchoolIDs {
		if id == schoolID {
			return true
		}
	}
	return false
}
