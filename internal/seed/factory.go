package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"trove/internal/models"
	"trove/internal/storage"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// Options configuration for the demo seeder.
type Options struct {
	NumUsers int
	NumPosts int
	NumFinds int
}

var materials = []string{"bronze", "silver", "copper alloy", "lead", "iron", "gold", "pewter"}
var periods = []string{"Roman", "Medieval", "Victorian", "Georgian", "Iron Age", "Saxon", "Modern"}

// Demo populates the store with realistic development data through the
// public facade, so it exercises the same paths the application does.
func Demo(ctx context.Context, store storage.Storage, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 25
	}
	if opts.NumFinds <= 0 {
		opts.NumFinds = 20
	}

	categories, err := store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return fmt.Errorf("demo seeding requires the built-in category catalog")
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		username := strings.ToLower(gofakeit.Username())
		u, err := store.CreateUser(ctx, storage.NewUser{
			Username: fmt.Sprintf("%s%d", username, i),
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: gofakeit.Password(true, true, true, false, false, 16),
			Bio:      gofakeit.Sentence(8),
			Avatar:   gofakeit.ImageURL(128, 128),
		})
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		// Leave a few users mid-verification for realistic dev state.
		if i%3 == 0 {
			expiry := time.Now().Add(24 * time.Hour)
			if _, err := store.SetEmailVerificationToken(ctx, u.ID, uuid.NewString(), expiry); err != nil {
				return err
			}
		}
		users = append(users, u)
	}

	for i := 0; i < opts.NumPosts; i++ {
		author := users[rand.Intn(len(users))]
		cat := categories[rand.Intn(len(categories))]
		post, err := store.CreatePost(ctx, storage.NewPost{
			UserID:     author.ID,
			CategoryID: cat.ID,
			Title:      gofakeit.Sentence(6),
			Content:    gofakeit.Paragraph(2, 4, 8, "\n"),
		})
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		for c := 0; c < rand.Intn(4); c++ {
			commenter := users[rand.Intn(len(users))]
			if _, err := store.CreateComment(ctx, storage.NewComment{
				PostID:  post.ID,
				UserID:  commenter.ID,
				Content: gofakeit.Sentence(12),
			}); err != nil {
				return err
			}
		}
		if rand.Intn(2) == 0 {
			liker := users[rand.Intn(len(users))]
			if _, err := store.LikePost(ctx, liker.ID, post.ID); err != nil {
				return err
			}
		}
	}

	for i := 0; i < opts.NumFinds; i++ {
		owner := users[rand.Intn(len(users))]
		lat := gofakeit.Latitude()
		lon := gofakeit.Longitude()
		find, err := store.CreateFind(ctx, storage.NewFind{
			UserID:      owner.ID,
			Title:       gofakeit.Sentence(4),
			Description: gofakeit.Paragraph(1, 3, 6, "\n"),
			ImageURL:    gofakeit.ImageURL(640, 480),
			Material:    materials[rand.Intn(len(materials))],
			Period:      periods[rand.Intn(len(periods))],
			Latitude:    &lat,
			Longitude:   &lon,
		})
		if err != nil {
			return fmt.Errorf("seed find: %w", err)
		}
		if rand.Intn(2) == 0 {
			commenter := users[rand.Intn(len(users))]
			if _, err := store.CreateFindComment(ctx, storage.NewFindComment{
				FindID:  find.ID,
				UserID:  commenter.ID,
				Content: gofakeit.Sentence(10),
			}); err != nil {
				return err
			}
		}
	}

	// A loose follow mesh.
	for _, follower := range users {
		for t := 0; t < 3; t++ {
			target := users[rand.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			if _, err := store.FollowUser(ctx, follower.ID, target.ID); err != nil {
				return err
			}
		}
	}

	return nil
}
