package social

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"backend-antisocial/internal/apperr"
	"backend-antisocial/internal/auth"
)

// memStore is an in-memory Fetcher and Writer with failure injection.
type memStore struct {
	mu       sync.Mutex
	posts    []Post
	comments map[int64][]Comment
	images   map[int64][]PostImage
	tags     []Tag
	nextID   int64

	failPosts    bool
	failComments map[int64]bool
	failImages   map[int64]bool
	failCreate   bool
	delay        func(postID int64) time.Duration

	calls       atomic.Int64
	lastPost    NewPost
	lastComment NewComment
}

func newMemStore() *memStore {
	return &memStore{
		comments:     map[int64][]Comment{},
		images:       map[int64][]PostImage{},
		failComments: map[int64]bool{},
		failImages:   map[int64]bool{},
		nextID:       100,
	}
}

func (m *memStore) addPost(id int64, author User, createdAt time.Time, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, Post{
		ID:          id,
		Description: "post",
		AuthorID:    author.ID,
		CreatedAt:   createdAt,
		Author:      author,
		Tags:        tags,
	})
}

func (m *memStore) addComments(postID int64, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		m.nextID++
		m.comments[postID] = append(m.comments[postID], Comment{ID: m.nextID, Content: "c", PostID: postID, Visible: true})
	}
}

func (m *memStore) wait(ctx context.Context, postID int64) error {
	if m.delay == nil {
		return nil
	}
	select {
	case <-time.After(m.delay(postID)):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *memStore) FetchPosts(context.Context) ([]Post, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPosts {
		return nil, apperr.Unavailable("list posts", errSocial)
	}
	return append([]Post(nil), m.posts...), nil
}

func (m *memStore) FetchPostByID(_ context.Context, id int64) (Post, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, apperr.NotFound("post")
}

func (m *memStore) FetchPostsByAuthor(_ context.Context, userID int64) ([]Post, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPosts {
		return nil, apperr.Unavailable("list posts by author", errSocial)
	}
	var out []Post
	for _, p := range m.posts {
		if p.AuthorID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) FetchCommentsForPost(ctx context.Context, postID int64) ([]Comment, error) {
	m.calls.Add(1)
	if err := m.wait(ctx, postID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failComments[postID] {
		return nil, apperr.Unavailable("list comments", errSocial)
	}
	return append([]Comment{}, m.comments[postID]...), nil
}

func (m *memStore) FetchImagesForPost(ctx context.Context, postID int64) ([]PostImage, error) {
	m.calls.Add(1)
	if err := m.wait(ctx, postID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failImages[postID] {
		return nil, apperr.Unavailable("list images", errSocial)
	}
	return append([]PostImage{}, m.images[postID]...), nil
}

func (m *memStore) FetchTags(context.Context) ([]Tag, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Tag{}, m.tags...), nil
}

func (m *memStore) CreatePost(_ context.Context, in NewPost) (Post, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPost = in
	if m.failCreate {
		return Post{}, apperr.Unavailable("create post", errSocial)
	}
	m.nextID++
	post := Post{
		ID:          m.nextID,
		Description: in.Description,
		AuthorID:    in.AuthorID,
		CreatedAt:   time.Now(),
		Author:      User{ID: in.AuthorID},
	}
	for _, id := range in.TagIDs {
		post.Tags = append(post.Tags, Tag{ID: id})
	}
	m.posts = append(m.posts, post)
	return post, nil
}

func (m *memStore) CreatePostImage(_ context.Context, in NewPostImage) (PostImage, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failImages[in.PostID] {
		return PostImage{}, apperr.Unavailable("create post image", errSocial)
	}
	m.nextID++
	img := PostImage{ID: m.nextID, URL: in.URL, PostID: in.PostID}
	m.images[in.PostID] = append(m.images[in.PostID], img)
	return img, nil
}

func (m *memStore) CreateComment(_ context.Context, in NewComment) (Comment, error) {
	m.calls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastComment = in
	if m.failCreate {
		return Comment{}, apperr.Unavailable("create comment", errSocial)
	}
	m.nextID++
	c := Comment{ID: m.nextID, Content: in.Content, AuthorID: in.AuthorID, PostID: in.PostID, CreatedAt: time.Now(), Visible: true}
	m.comments[in.PostID] = append(m.comments[in.PostID], c)
	return c, nil
}

// stubAuth accepts any login as its identity.
type stubAuth struct {
	id auth.Identity
}

func (s stubAuth) Login(context.Context, string, string) (auth.Identity, error) {
	return s.id, nil
}

func (s stubAuth) Register(context.Context, string, string) (auth.Identity, error) {
	return s.id, nil
}

func signedIn(id auth.Identity) *auth.SessionStore {
	store := auth.NewSessionStore(stubAuth{id: id}, nil)
	if _, err := store.Login(context.Background(), id.NickName, "123456"); err != nil {
		panic(err)
	}
	return store
}

func anonymous() *auth.SessionStore {
	return auth.NewSessionStore(nil, nil)
}

func ptr(id int64) *int64 { return &id }

var (
	luna  = User{ID: 1, NickName: "luna"}
	sol   = User{ID: 2, NickName: "sol"}
	tagA  = Tag{ID: 1, Name: "arte"}
	tagB  = Tag{ID: 2, Name: "unahur"}
	epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)
