package seed

import (
	"testing"

	"inkwell/internal/auth"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

func newSeeder(t *testing.T) (*gorm.DB, *Seeder, *auth.BcryptHasher) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	hasher := auth.NewBcryptHasher(4)
	f, err := NewFactory(db, hasher, 42, 30)
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	return db, NewSeeder(db, f), hasher
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func TestRun_CreatesRequestedRows(t *testing.T) {
	db, s, hasher := newSeeder(t)

	sum, err := s.Run(Options{Users: 4, PostsPerUser: 3, MaxCommentsPost: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Users != 4 || sum.Posts != 12 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if got := count(t, db, &models.User{}); got != 4 {
		t.Fatalf("users = %d, want 4", got)
	}
	if got := count(t, db, &models.Post{}); got != 12 {
		t.Fatalf("posts = %d, want 12", got)
	}
	if got := count(t, db, &models.Comment{}); got != int64(sum.Comments) {
		t.Fatalf("comments = %d, want %d", got, sum.Comments)
	}

	var u models.User
	if err := db.First(&u).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !hasher.Verify(DefaultPassword, u.Password) {
		t.Fatalf("seeded user does not accept the default password")
	}
}

func TestRun_CommentsFollowTheirPost(t *testing.T) {
	db, s, _ := newSeeder(t)

	if _, err := s.Run(Options{Users: 3, PostsPerUser: 2, MaxCommentsPost: 5}); err != nil {
		t.Fatalf("run: %v", err)
	}

	var comments []models.Comment
	if err := db.Find(&comments).Error; err != nil {
		t.Fatalf("load comments: %v", err)
	}
	for _, c := range comments {
		var p models.Post
		if err := db.First(&p, c.PostID).Error; err != nil {
			t.Fatalf("comment %d points at missing post %d", c.ID, c.PostID)
		}
		if c.CreatedAt.Before(p.CreatedAt) {
			t.Fatalf("comment %d predates its post", c.ID)
		}
	}
}

func TestRun_CleanRemovesPreviousData(t *testing.T) {
	db, s, _ := newSeeder(t)

	if _, err := s.Run(Options{Users: 2, PostsPerUser: 1}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := s.Run(Options{Users: 1, PostsPerUser: 1, Clean: true}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := count(t, db, &models.User{}); got != 1 {
		t.Fatalf("users after clean = %d, want 1", got)
	}
	if got := count(t, db, &models.Post{}); got != 1 {
		t.Fatalf("posts after clean = %d, want 1", got)
	}
}

func TestRun_NoUsers(t *testing.T) {
	_, s, _ := newSeeder(t)

	sum, err := s.Run(Options{PostsPerUser: 5})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum != (Summary{}) {
		t.Fatalf("expected empty summary, got %+v", sum)
	}
}
