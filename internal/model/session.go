package model

import "time"

// AdminUserType is the userType claim value that unlocks the admin
// navigation.
const AdminUserType = "Admin"

// TokenClaims are the claims the console reads from a session token.  The
// token is decoded without signature verification; these values are for
// display only.
type TokenClaims struct {
	UserID    string
	UserType  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
