package client

import (
	"context"
	"sync"
)

// DefaultPageSize is the number of posts requested per feed page.
const DefaultPageSize = 5

// MaxPageSize is the largest page the server returns in one response.
const MaxPageSize = 100

// FeedKey identifies which listing a Feed accumulates: the home feed, or the
// posts of one author.
type FeedKey struct {
	Profile bool
	UserID  uint
}

// HomeFeed is the key of the all-authors feed.
func HomeFeed() FeedKey { return FeedKey{} }

// ProfileFeed is the key of one author's feed.
func ProfileFeed(userID uint) FeedKey { return FeedKey{Profile: true, UserID: userID} }

// PageFetcher loads one feed page. *Client implements it.
type PageFetcher interface {
	ListPosts(ctx context.Context, req ListPostsRequest) ([]PostSummary, error)
}

// Notifier receives short user-facing messages about failed fetches.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify calls f(message).
func (f NotifierFunc) Notify(message string) { f(message) }

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithPageSize overrides DefaultPageSize. Non-positive sizes are ignored and
// sizes above MaxPageSize are clamped to it.
func WithPageSize(n int) FeedOption {
	return func(f *Feed) {
		if n > MaxPageSize {
			n = MaxPageSize
		}
		if n > 0 {
			f.pageSize = n
		}
	}
}

// WithNotifier sets where fetch failures are reported.
func WithNotifier(n Notifier) FeedOption {
	return func(f *Feed) { f.notifier = n }
}

// Feed accumulates offset pages of a listing for an infinite list. Pages are
// requested at offset len(pages)*pageSize and the feed ends at the first
// short page. It is safe for concurrent use; at most one fetch is in flight.
type Feed struct {
	src      PageFetcher
	pageSize int
	notifier Notifier

	mu       sync.Mutex
	key      FeedKey
	pages    [][]PostSummary
	hasMore  bool
	fetching bool
	// gen is bumped on every reset so responses to older requests are dropped.
	gen uint64
}

// NewFeed returns an empty Feed for key. No request is made until
// FetchNextPage.
func NewFeed(src PageFetcher, key FeedKey, opts ...FeedOption) *Feed {
	f := &Feed{
		src:      src,
		pageSize: DefaultPageSize,
		key:      key,
		hasMore:  true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchNextPage loads the page after the last one held. It does nothing while
// another fetch is running, after the last page, or for a profile key
// without an author. On failure the held pages and HasMore are unchanged, the
// Notifier is told, and the error is returned. A response that arrives after
// SetKey or Refetch reset the feed is discarded.
func (f *Feed) FetchNextPage(ctx context.Context) error {
	f.mu.Lock()
	if f.fetching || !f.hasMore || (f.key.Profile && f.key.UserID == 0) {
		f.mu.Unlock()
		return nil
	}
	f.fetching = true
	gen := f.gen
	key := f.key
	req := ListPostsRequest{Limit: f.pageSize, Offset: len(f.pages) * f.pageSize}
	if key.Profile {
		id := key.UserID
		req.UserID = &id
		req.IsProfilePage = true
	}
	f.mu.Unlock()

	posts, err := f.src.ListPosts(ctx, req)

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return nil
	}
	f.fetching = false
	if err != nil {
		f.mu.Unlock()
		f.notify(key)
		return err
	}
	f.pages = append(f.pages, posts)
	f.hasMore = len(posts) == f.pageSize
	f.mu.Unlock()
	return nil
}

// Refetch drops every held page and loads the first page again.
func (f *Feed) Refetch(ctx context.Context) error {
	f.mu.Lock()
	f.reset()
	f.mu.Unlock()
	return f.FetchNextPage(ctx)
}

// SetKey switches the feed to another listing. Switching to a different key
// clears all state; setting the current key is a no-op.
func (f *Feed) SetKey(key FeedKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if key == f.key {
		return
	}
	f.key = key
	f.reset()
}

// Key returns the listing the feed currently follows.
func (f *Feed) Key() FeedKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}

// Posts returns every held post in page order.
func (f *Feed) Posts() []PostSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.pages {
		n += len(p)
	}
	out := make([]PostSummary, 0, n)
	for _, p := range f.pages {
		out = append(out, p...)
	}
	return out
}

// Pages returns how many pages are held.
func (f *Feed) Pages() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pages)
}

// HasMore reports whether another page may exist.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// IsFetchingMore reports whether a fetch is in flight.
func (f *Feed) IsFetchingMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetching
}

func (f *Feed) reset() {
	f.gen++
	f.pages = nil
	f.hasMore = true
	f.fetching = false
}

func (f *Feed) notify(key FeedKey) {
	if f.notifier == nil {
		return
	}
	if key.Profile {
		f.notifier.Notify("Error fetching profile page blog posts")
		return
	}
	f.notifier.Notify("Error fetching home page blog posts")
}
