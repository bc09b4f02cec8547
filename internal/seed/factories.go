// Package seed creates demo data for development databases. It is not used by
// the server itself.
package seed

import (
	"fmt"
	"strings"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password of every seeded user.
const DefaultPassword = "password123"

// Factory builds domain entities with fake content and persists them.
type Factory struct {
	db      *gorm.DB
	faker   *gofakeit.Faker
	maxDays int
	now     func() time.Time
	// digest hashes DefaultPassword once for every seeded user.
	digest string
}

// NewFactory returns a Factory writing to db. A zero seed draws one from the
// clock.
func NewFactory(db *gorm.DB, hasher auth.Hasher, seed int64, maxDays int) (*Factory, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxDays <= 0 {
		maxDays = 90
	}
	digest, err := hasher.Hash(DefaultPassword)
	if err != nil {
		return nil, err
	}
	return &Factory{
		db:      db,
		faker:   gofakeit.New(seed),
		maxDays: maxDays,
		now:     time.Now,
		digest:  digest,
	}, nil
}

// CreateUser persists a user. n keeps usernames and emails unique within a run.
func (f *Factory) CreateUser(n int, overrides ...func(*models.User)) (*models.User, error) {
	username := fmt.Sprintf("%s%d", f.faker.Username(), n)
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@%s", strings.ToLower(username), f.faker.DomainName()),
		Password: f.digest,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

// CreatePost persists a post by user with a created_at somewhere in the last
// maxDays days.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:     strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 8)), "."),
		Content:   f.faker.Paragraph(2, 4, 12, "\n\n"),
		UserID:    user.ID,
		CreatedAt: f.pastTime(),
	}
	post.UpdatedAt = post.CreatedAt
	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Omit("User").Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// CreateComment persists a comment by user on post, dated after the post.
func (f *Factory) CreateComment(post *models.Post, user *models.User) (*models.Comment, error) {
	createdAt := post.CreatedAt.Add(time.Duration(f.faker.Number(1, 72*60)) * time.Minute)
	if now := f.now(); createdAt.After(now) {
		createdAt = now
	}
	comment := &models.Comment{
		PostID:    post.ID,
		UserID:    user.ID,
		Content:   f.faker.Sentence(f.faker.Number(4, 20)),
		CreatedAt: createdAt,
	}
	if err := f.db.Omit("User").Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return f.now().Add(-back)
}
