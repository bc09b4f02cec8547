package seed

import (
	"fmt"
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	Users           int
	PostsPerUser    int
	MaxCommentsPost int
	Clean           bool
}

// Summary counts what a run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
}

// Seeder fills a database with fake users, posts and comments.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder returns a Seeder that writes through factory.
func NewSeeder(db *gorm.DB, factory *Factory) *Seeder {
	return &Seeder{db: db, factory: factory}
}

// ClearAll removes every comment, post and user, children first.
func (s *Seeder) ClearAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// Run seeds according to opts. Each post receives between zero and
// MaxCommentsPost comments from random users.
func (s *Seeder) Run(opts Options) (Summary, error) {
	var sum Summary
	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return sum, err
		}
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := s.factory.CreateUser(i)
		if err != nil {
			return sum, err
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	if len(users) == 0 {
		return sum, nil
	}

	faker := s.factory.faker
	for _, author := range users {
		for j := 0; j < opts.PostsPerUser; j++ {
			post, err := s.factory.CreatePost(author)
			if err != nil {
				return sum, err
			}
			sum.Posts++

			if opts.MaxCommentsPost <= 0 {
				continue
			}
			for k := faker.Number(0, opts.MaxCommentsPost); k > 0; k-- {
				commenter := users[faker.Number(0, len(users)-1)]
				if _, err := s.factory.CreateComment(post, commenter); err != nil {
					return sum, err
				}
				sum.Comments++
			}
		}
	}

	middleware.Logger.Info("seed complete",
		slog.Int("users", sum.Users),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
	)
	return sum, nil
}
