package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/privlab/leakshare/internal/models"
	"github.com/privlab/leakshare/internal/repo"
)

type seedUser struct {
	username    string
	email       string
	password    string
	bio         string
	isAdmin     bool
	emailPublic bool
	bioPublic   bool
}

type seedPost struct {
	author    string
	title     string
	content   string
	isPublic  bool
	isDeleted bool
}

var demoUsers = []seedUser{
	{"admin", "admin@example.com", "adminpass", "System administrator", true, false, true},
	{"alice", "alice@example.com", "alicepass", "Hi, I'm Alice! I love sharing my thoughts and ideas.", false, true, true},
	{"bob", "bob@example.com", "bobpass", "Privacy advocate. I keep my information private.", false, false, true},
	{"charlie", "charlie@example.com", "charliepass", "Very private person. Please respect my privacy.", false, false, false},
}

var demoPosts = []seedPost{
	{"alice", "Hello World!", "This is my first public post on this platform!", true, false},
	{"alice", "My Private Thoughts", "This is a private post that only I should be able to see.", false, false},
	{"bob", "Privacy Matters", "Here's why privacy is important in the digital age...", true, false},
	{"bob", "My Secret Project", "I'm working on something exciting but want to keep it private for now.", false, false},
	{"charlie", "Limited Sharing", "I'm only sharing this with trusted friends.", true, false},
	{"charlie", "Personal Notes", "These are my personal notes that should remain private.", false, false},
	{"alice", "Post Marked as Deleted", "This post was 'deleted' but still exists in the database.", true, true},
}

// SeedDemoData inserts the fixed demo accounts and posts when the users table
// is empty. It is a no-op on a populated database so restarting in demo mode
// never duplicates data.
func SeedDemoData(ctx context.Context, database *sql.DB) error {
	users := repo.NewUserRepo(database)
	posts := repo.NewPostRepo(database)

	n, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	slog.Info("seeding demo data")

	idByUsername := make(map[string]int, len(demoUsers))
	for _, su := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: hash password for %s: %w", su.username, err)
		}
		u, err := users.Create(ctx, &models.User{
			Username:     su.username,
			Email:        su.email,
			PasswordHash: string(hash),
			Bio:          su.bio,
			IsAdmin:      su.isAdmin,
			EmailPublic:  su.emailPublic,
			BioPublic:    su.bioPublic,
		})
		if err != nil {
			return fmt.Errorf("seed: create user %s: %w", su.username, err)
		}
		idByUsername[su.username] = u.ID
	}

	for _, sp := range demoPosts {
		p, err := posts.Create(ctx, sp.title, sp.content, idByUsername[sp.author], sp.isPublic)
		if err != nil {
			return fmt.Errorf("seed: create post %q: %w", sp.title, err)
		}
		if sp.isDeleted {
			if err := posts.SoftDelete(ctx, p.ID); err != nil {
				return fmt.Errorf("seed: soft-delete post %q: %w", sp.title, err)
			}
		}
	}

	slog.Info("demo data seeded", "users", len(demoUsers), "posts", len(demoPosts))
	return nil
}
