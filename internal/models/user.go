package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	IsAdmin      bool      `json:"is_admin"`
	EmailPublic  bool      `json:"email_public"`
	BioPublic    bool      `json:"bio_public"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserView is the subset of a user visible to a particular viewer. Optional
// fields are pointers so a hidden field is absent from the JSON output rather
// than present with a zero value.
type UserView struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
	IsAdmin     bool      `json:"is_admin"`
	Bio         *string   `json:"bio,omitempty"`
	Email       *string   `json:"email,omitempty"`
	EmailPublic *bool     `json:"email_public,omitempty"`
	BioPublic   *bool     `json:"bio_public,omitempty"`
}

// View applies the per-field visibility rules. includePrivate must be true
// only when the viewer is the user themselves or an admin.
//
// id, username, created_at and is_admin are always visible. bio and email are
// visible when their public flag is set or when includePrivate is true. The
// visibility flags themselves are only visible with includePrivate.
func (u *User) View(includePrivate bool) UserView {
	v := UserView{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		IsAdmin:   u.IsAdmin,
	}
	if u.BioPublic || includePrivate {
		bio := u.Bio
		v.Bio = &bio
	}
	if u.EmailPublic || includePrivate {
		email := u.Email
		v.Email = &email
	}
	if includePrivate {
		emailPublic := u.EmailPublic
		bioPublic := u.BioPublic
		v.EmailPublic = &emailPublic
		v.BioPublic = &bioPublic
	}
	return v
}
