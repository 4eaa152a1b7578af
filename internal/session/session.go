// Package session provides durable storage for the ShikshaDesk sign-in
// session. The session outlives a single process run; token validity is
// never checked locally, the server discovers expiry by rejecting a
// request.
package session

import (
	"fmt"
	"time"
)

// Role is the closed set of roles the ShikshaDesk backend issues.
type Role string

const (
	// RoleAdmin has full access to all clusters and master data.
	RoleAdmin Role = "admin"

	// RoleManagement can view dashboards and reports but not edit master data.
	RoleManagement Role = "management"

	// RoleTeacher is scoped to the clusters the teacher is assigned to.
	RoleTeacher Role = "teacher"
)

// ParseRole maps a server-provided role string onto the known set.
// Unknown values are rejected rather than mapped to any role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManagement, RoleTeacher:
		return Role(s), nil
	}
	return "", fmt.Errorf("unrecognized role %q", s)
}

// User is the identity record returned by the login endpoint.
type User struct {
	// ID is the login id, referenced by the token refresh payload.
	ID int64 `json:"id"`

	// Email is the sign-in identifier.
	Email string `json:"email"`

	// Role is the raw role string as issued by the server.
	Role string `json:"role"`
}

// Profile is the display profile associated with the signed-in user.
type Profile struct {
	// ID is the profile record id.
	ID int64 `json:"id"`

	// Email is the contact email.
	Email string `json:"email"`

	// FullName is the display name.
	FullName string `json:"full_name"`
}

// Session is the full set of persisted authentication data. Either every
// field is populated (authenticated) or the session is treated as absent;
// a partially populated session is never valid.
//
// The JSON field names mirror the storage keys the browser dashboard
// uses (access_token, refresh_token, auth_user, auth_profile, auth_role)
// so a session file is recognizable next to the web client's storage.
type Session struct {
	// AccessToken is the short-lived credential attached to each request.
	AccessToken string `json:"access_token"`

	// RefreshToken is the longer-lived credential used solely to obtain
	// a new access/refresh pair.
	RefreshToken string `json:"refresh_token"`

	// User is the signed-in identity.
	User *User `json:"auth_user,omitempty"`

	// Profile is the signed-in user's profile.
	Profile *Profile `json:"auth_profile,omitempty"`

	// RoleName is the raw role string. Use Role() for the validated value.
	RoleName string `json:"auth_role"`

	// SavedAt is when this session was last written.
	SavedAt time.Time `json:"saved_at,omitzero"`
}

// Valid reports whether the session is fully populated: both tokens,
// identity, profile, and a role from the known set. Anything less is an
// absent session.
func (s *Session) Valid() bool {
	if s == nil {
		return false
	}
	if s.AccessToken == "" || s.RefreshToken == "" {
		return false
	}
	if s.User == nil || s.User.Email == "" {
		return false
	}
	if s.Profile == nil {
		return false
	}
	_, err := ParseRole(s.RoleName)
	return err == nil
}

// Empty reports the unauthenticated state: anything short of a fully
// populated session counts as empty.
func (s *Session) Empty() bool {
	return !s.Valid()
}

// Role returns the validated role. It is only meaningful when Valid()
// is true; for an invalid session it returns the empty Role.
func (s *Session) Role() Role {
	r, err := ParseRole(s.RoleName)
	if err != nil {
		return ""
	}
	return r
}

// Clone returns a deep copy, so callers can mutate token fields without
// aliasing the stored session.
func (s *Session) Clone() *Session {
	if s == nil {
		return &Session{}
	}
	out := *s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return &out
}
