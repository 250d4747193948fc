package models

import "testing"

func testPost() *Post {
	return &Post{
		ID:             3,
		Title:          "My Private Thoughts",
		Content:        "This is a private post.",
		UserID:         2,
		AuthorUsername: "alice",
		IsPublic:       false,
	}
}

func TestPostView_PublicViewer(t *testing.T) {
	v := testPost().View(false)
	if v == nil {
		t.Fatal("non-deleted post should produce a view")
	}
	if v.Title != "My Private Thoughts" || v.AuthorUsername != "alice" {
		t.Errorf("unexpected core fields: %+v", v)
	}
	if v.IsPublic != nil || v.IsDeleted != nil {
		t.Error("is_public/is_deleted should be hidden from public viewers")
	}
}

func TestPostView_DeletedSuppressedForPublicViewer(t *testing.T) {
	p := testPost()
	p.IsDeleted = true

	if v := p.View(false); v != nil {
		t.Errorf("soft-deleted post should be suppressed, got %+v", v)
	}
}

func TestPostView_DeletedVisibleWithPrivate(t *testing.T) {
	p := testPost()
	p.IsDeleted = true

	v := p.View(true)
	if v == nil {
		t.Fatal("private view should include soft-deleted posts")
	}
	if v.IsDeleted == nil || !*v.IsDeleted {
		t.Errorf("is_deleted flag should be visible and true: %+v", v.IsDeleted)
	}
	if v.IsPublic == nil || *v.IsPublic {
		t.Errorf("is_public flag should be visible and false: %+v", v.IsPublic)
	}
}

func TestPostViews_DropsSuppressed(t *testing.T) {
	posts := []Post{*testPost(), *testPost()}
	posts[1].ID = 4
	posts[1].IsDeleted = true

	views := PostViews(posts, false)
	if len(views) != 1 || views[0].ID != 3 {
		t.Errorf("expected only the live post, got %+v", views)
	}

	views = PostViews(posts, true)
	if len(views) != 2 {
		t.Errorf("private view should keep both posts, got %d", len(views))
	}
}
