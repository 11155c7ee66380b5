package domain

import "time"

// User models an authenticated actor in the system.
type User struct {
	UID          string    `json:"uid"`
	DisplayName  string    `json:"display_name,omitempty"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Label is the name stamped on cases and comments.
func (u *User) Label() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Session is the current identity, or none, plus the admin flag derived
// when the identity last changed.
type Session struct {
	User    *User
	IsAdmin bool
}

// SignedIn reports whether the session holds a user.
func (s Session) SignedIn() bool {
	return s.User != nil
}

// UID returns the session user's id, or "" when signed out.
func (s Session) UID() string {
	if s.User == nil {
		return ""
	}
	return s.User.UID
}

// CanModerate reports whether the session may act on a record owned by
// ownerUID, judged by the cached admin flag. Mutations re-check against the
// store; this is for deciding which controls to show.
func (s Session) CanModerate(ownerUID string) bool {
	if s.User == nil {
		return false
	}
	return s.IsAdmin || s.User.UID == ownerUID
}
