// Package client is a Go consumer of the Inkwell HTTP API. It covers the
// auth, post and comment endpoints and provides Feed, an accumulator for the
// paginated post listings.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotAuthenticated is returned by calls that need a token when the
// TokenStore holds none. No request is sent in that case.
var ErrNotAuthenticated = errors.New("client: not authenticated")

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// User is an authenticated account together with its bearer token.
type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// Identity is the caller as reported by check-auth.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PostSummary is one row of a feed page.
type PostSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	CommentCount int64     `json:"comment_count"`
}

// Comment is a comment on a post.
type Comment struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
}

// ListPostsRequest selects a feed page. UserID is required when
// IsProfilePage is set.
type ListPostsRequest struct {
	Limit         int   `json:"limit"`
	Offset        int   `json:"offset"`
	UserID        *uint `json:"userId,omitempty"`
	IsProfilePage bool  `json:"isProfilePage"`
}

// Client talks to one API base URL, e.g. "http://localhost:8375/api".
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStore sets where the signed-in user is persisted. The default is
// an in-memory store.
func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.tokens = s }
}

// New returns a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens returns the client's TokenStore.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

type authResponse struct {
	User User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates an account and stores the returned user.
func (c *Client) Register(ctx context.Context, email, username, password string) (*User, error) {
	var resp authResponse
	body := map[string]string{"email": email, "username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", body, &resp); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(&resp.User); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &resp.User, nil
}

// Login signs in and stores the returned user.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(&resp.User); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &resp.User, nil
}

// Logout forgets the stored user. Tokens are not revocable server side.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// CheckAuth asks the server whether the stored token is still accepted.
func (c *Client) CheckAuth(ctx context.Context) (*Identity, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	var resp struct {
		User Identity `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/check-auth", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// CreatePost publishes a post as the signed-in user.
func (c *Client) CreatePost(ctx context.Context, title, content string) error {
	return c.authed(ctx, http.MethodPost, "/blog-post", map[string]string{"title": title, "content": content})
}

// UpdatePost replaces the title and content of a post the caller owns.
func (c *Client) UpdatePost(ctx context.Context, id uint, title, content string) error {
	return c.authed(ctx, http.MethodPut, fmt.Sprintf("/blog-post/%d", id), map[string]string{"title": title, "content": content})
}

// DeletePost removes a post the caller owns along with its comments.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.authed(ctx, http.MethodDelete, fmt.Sprintf("/blog-post/%d", id), nil)
}

// ListPosts fetches one feed page.
func (c *Client) ListPosts(ctx context.Context, req ListPostsRequest) ([]PostSummary, error) {
	var posts []PostSummary
	if err := c.do(ctx, http.MethodPost, "/get-blog-posts", "", req, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostContent returns the body of a post.
func (c *Client) GetPostContent(ctx context.Context, id uint) (string, error) {
	var content string
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/get-blog-post/%d", id), "", nil, &content); err != nil {
		return "", err
	}
	return content, nil
}

// GetComments lists the comments of a post, newest first.
func (c *Client) GetComments(ctx context.Context, postID uint) ([]Comment, error) {
	var comments []Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/blog-post/%d/get-comments", postID), "", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment comments on a post as the signed-in user.
func (c *Client) AddComment(ctx context.Context, postID uint, content string) (*Comment, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}
	var comment Comment
	path := fmt.Sprintf("/blog-post/%d/comment", postID)
	if err := c.do(ctx, http.MethodPost, path, token, map[string]string{"content": content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes one of the caller's comments.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID uint) error {
	return c.authed(ctx, http.MethodDelete, fmt.Sprintf("/blog-post/%d/comment/%d", postID, commentID), nil)
}

func (c *Client) token() (string, error) {
	u, err := c.tokens.Load()
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if u == nil || u.Token == "" {
		return "", ErrNotAuthenticated
	}
	return u.Token, nil
}

// authed sends a token-bearing request whose success body is {message}.
func (c *Client) authed(ctx context.Context, method, path string, body any) error {
	token, err := c.token()
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, token, body, &messageResponse{})
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
