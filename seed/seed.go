// Package seed builds fake users, groups and posts for demos and tests.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

// DemoPassword is the password of every seeded demo account.
const DemoPassword = "password123"

// Factory creates persisted fixtures with random but valid content.
type Factory struct {
	DB    *gorm.DB
	Faker *gofakeit.Faker
}

// NewFactory seeds the faker deterministically so fixtures are reproducible.
func NewFactory(db *gorm.DB, seed int64) *Factory {
	return &Factory{DB: db, Faker: gofakeit.New(seed)}
}

// User creates an account. An empty username gets a generated one.
func (f *Factory) User(username string) (*models.User, error) {
	if username == "" {
		username = strings.ToLower(f.Faker.Username())
		username = strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
				return r
			}
			return -1
		}, username)
		username = fmt.Sprintf("%s%d", username, f.Faker.Number(100, 999))
	}
	hash, err := utils.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     username,
		Email:        f.Faker.Email(),
		PasswordHash: hash,
		FirstName:    f.Faker.FirstName(),
		LastName:     f.Faker.LastName(),
	}
	if err := f.DB.Create(u).Error; err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	return u, nil
}

// Group creates a group with the given slug.
func (f *Factory) Group(slug string) (*models.Group, error) {
	g := &models.Group{
		Title:       f.Faker.BuzzWord() + " " + f.Faker.HipsterWord(),
		Slug:        slug,
		Description: f.Faker.Sentence(12),
	}
	if err := f.DB.Create(g).Error; err != nil {
		return nil, fmt.Errorf("seed group: %w", err)
	}
	return g, nil
}

// Post creates a post by author, optionally in group.
func (f *Factory) Post(author *models.User, group *models.Group) (*models.Post, error) {
	p := &models.Post{Text: f.Faker.Sentence(16), AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	if err := f.DB.Omit("Author", "Group").Create(p).Error; err != nil {
		return nil, fmt.Errorf("seed post: %w", err)
	}
	p.Author = *author
	p.Group = group
	return p, nil
}

// Comment creates a comment on post.
func (f *Factory) Comment(author *models.User, post *models.Post) (*models.Comment, error) {
	c := &models.Comment{Text: f.Faker.Sentence(8), AuthorID: author.ID, PostID: post.ID}
	if err := f.DB.Omit("Author").Create(c).Error; err != nil {
		return nil, fmt.Errorf("seed comment: %w", err)
	}
	return c, nil
}

// Demo fills an empty database with a small community. A database that already has users is left alone.
func Demo(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		utils.Sugar.Infof("seed skipped: database already has %d users", n)
		return nil
	}

	f := NewFactory(db.WithContext(ctx), 42)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f.DB = tx
		var users []*models.User
		for i := 0; i < 5; i++ {
			u, err := f.User("")
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		var groups []*models.Group
		for _, slug := range []string{"travel", "cooking", "golang"} {
			g, err := f.Group(slug)
			if err != nil {
				return err
			}
			groups = append(groups, g)
		}
		for i := 0; i < 30; i++ {
			var group *models.Group
			if i%3 != 0 {
				group = groups[i%len(groups)]
			}
			p, err := f.Post(users[i%len(users)], group)
			if err != nil {
				return err
			}
			if _, err := f.Comment(users[(i+1)%len(users)], p); err != nil {
				return err
			}
		}
		for i, u := range users {
			follow := &models.Follow{UserID: u.ID, AuthorID: users[(i+1)%len(users)].ID}
			if err := tx.Omit("User", "Author").Create(follow).Error; err != nil {
				return err
			}
		}
		utils.Sugar.Infof("seeded %d users (password %q), %d groups, 30 posts", len(users), DemoPassword, len(groups))
		return nil
	})
}
