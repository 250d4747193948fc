package models

import "time"

type Post struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	UserID         int       `json:"user_id"`
	AuthorUsername string    `json:"author_username"`
	IsPublic       bool      `json:"is_public"`
	IsDeleted      bool      `json:"is_deleted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PostView is the subset of a post visible to a particular viewer.
type PostView struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	UserID         int       `json:"user_id"`
	AuthorUsername string    `json:"author_username"`
	IsPublic       *bool     `json:"is_public,omitempty"`
	IsDeleted      *bool     `json:"is_deleted,omitempty"`
}

// View applies the per-field visibility rules. A soft-deleted post is
// suppressed entirely (nil) unless includePrivate is true. The is_public and
// is_deleted flags are visible only with includePrivate.
//
// Note: View does not gate inclusion on is_public. Callers that list only
// public posts filter on that flag themselves before calling View.
func (p *Post) View(includePrivate bool) *PostView {
	if p.IsDeleted && !includePrivate {
		return nil
	}
	v := &PostView{
		ID:             p.ID,
		Title:          p.Title,
		Content:        p.Content,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		UserID:         p.UserID,
		AuthorUsername: p.AuthorUsername,
	}
	if includePrivate {
		isPublic := p.IsPublic
		isDeleted := p.IsDeleted
		v.IsPublic = &isPublic
		v.IsDeleted = &isDeleted
	}
	return v
}

// PostViews converts a slice of posts, dropping any post View suppresses.
func PostViews(posts []Post, includePrivate bool) []PostView {
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		if v := posts[i].View(includePrivate); v != nil {
			views = append(views, *v)
		}
	}
	return views
}
