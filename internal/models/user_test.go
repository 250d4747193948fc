package models

import "testing"

func testUser() *User {
	return &User{
		ID:          7,
		Username:    "charlie",
		Email:       "charlie@example.com",
		Bio:         "Very private person.",
		EmailPublic: false,
		BioPublic:   false,
	}
}

func TestUserView_PublicViewerHidesPrivateFields(t *testing.T) {
	v := testUser().View(false)

	if v.ID != 7 || v.Username != "charlie" {
		t.Errorf("unexpected core fields: %+v", v)
	}
	if v.Bio != nil {
		t.Errorf("bio should be hidden, got %q", *v.Bio)
	}
	if v.Email != nil {
		t.Errorf("email should be hidden, got %q", *v.Email)
	}
	if v.EmailPublic != nil || v.BioPublic != nil {
		t.Error("visibility flags should be hidden from public viewers")
	}
}

func TestUserView_OwnerSeesEverything(t *testing.T) {
	v := testUser().View(true)

	if v.Bio == nil || *v.Bio != "Very private person." {
		t.Errorf("bio missing from private view: %+v", v)
	}
	if v.Email == nil || *v.Email != "charlie@example.com" {
		t.Errorf("email missing from private view: %+v", v)
	}
	if v.EmailPublic == nil || *v.EmailPublic {
		t.Errorf("email_public flag wrong: %+v", v.EmailPublic)
	}
	if v.BioPublic == nil || *v.BioPublic {
		t.Errorf("bio_public flag wrong: %+v", v.BioPublic)
	}
}

func TestUserView_PublicFlagsExposeFields(t *testing.T) {
	u := testUser()
	u.EmailPublic = true
	u.BioPublic = true

	v := u.View(false)
	if v.Email == nil || *v.Email != "charlie@example.com" {
		t.Error("public email should be visible to anonymous viewers")
	}
	if v.Bio == nil {
		t.Error("public bio should be visible to anonymous viewers")
	}
	// The flags themselves stay private even when the fields they govern are public.
	if v.EmailPublic != nil || v.BioPublic != nil {
		t.Error("visibility flags should only appear in private views")
	}
}

func TestUserView_MixedFlags(t *testing.T) {
	u := testUser()
	u.BioPublic = true

	v := u.View(false)
	if v.Bio == nil {
		t.Error("bio_public=true should expose bio")
	}
	if v.Email != nil {
		t.Error("email_public=false should hide email")
	}
}
