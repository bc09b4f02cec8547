package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	existsFn     func(context.Context, string, string) (bool, error)
	createFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	return s.existsFn(ctx, email, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, _ uint) (*models.User, error) { return nil, models.NewNotFoundError("User not found") },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		existsFn:     func(_ context.Context, _, _ string) (bool, error) { return false, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	existsFn        func(context.Context, uint) (bool, error)
	getContentFn    func(context.Context, uint) (string, error)
	updateFn        func(context.Context, uint, uint, string, string) error
	deleteFn        func(context.Context, uint, uint) error
	listSummariesFn func(context.Context, repository.FeedQuery) ([]models.PostSummary, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) GetContent(ctx context.Context, id uint) (string, error) {
	return s.getContentFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, id, userID uint, title, content string) error {
	return s.updateFn(ctx, id, userID, title, content)
}
func (s *postRepoStub) DeleteWithComments(ctx context.Context, id, userID uint) error {
	return s.deleteFn(ctx, id, userID)
}
func (s *postRepoStub) ListSummaries(ctx context.Context, q repository.FeedQuery) ([]models.PostSummary, error) {
	return s.listSummariesFn(ctx, q)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:     func(_ context.Context, _ *models.Post) error { return nil },
		existsFn:     func(_ context.Context, _ uint) (bool, error) { return true, nil },
		getContentFn: func(_ context.Context, _ uint) (string, error) { return "", nil },
		updateFn:     func(_ context.Context, _, _ uint, _, _ string) error { return nil },
		deleteFn:     func(_ context.Context, _, _ uint) error { return nil },
		listSummariesFn: func(_ context.Context, _ repository.FeedQuery) ([]models.PostSummary, error) {
			return []models.PostSummary{}, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]models.Comment, error)
	deleteFn     func(context.Context, uint, uint, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id, postID, userID uint) error {
	return s.deleteFn(ctx, id, postID, userID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]models.Comment, error) { return []models.Comment{}, nil },
		deleteFn:     func(_ context.Context, _, _, _ uint) error { return nil },
	}
}

// hasherStub records Verify calls and accepts digests of the form "hashed:<pw>".
type hasherStub struct {
	verifyCalls []string
}

func (h *hasherStub) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (h *hasherStub) Verify(plaintext, digest string) bool {
	h.verifyCalls = append(h.verifyCalls, digest)
	return digest != "" && digest == "hashed:"+plaintext
}

var _ auth.Hasher = (*hasherStub)(nil)

type tokenIssuerStub struct {
	err error
}

func (s tokenIssuerStub) Issue(id auth.Identity) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + id.Username, nil
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}
