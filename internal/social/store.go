package social

import (
	"context"
	"errors"

	"backend-antisocial/internal/apperr"
	"backend-antisocial/internal/db"

	"github.com/jackc/pgx/v5"
)

// Fetcher reads flat entities from the persistence service. Every call is
// an independent request; failures come back as apperr Unavailable (or
// NotFound for a missing post) and are never retried here.
type Fetcher interface {
	FetchPosts(ctx context.Context) ([]Post, error)
	FetchPostByID(ctx context.Context, id int64) (Post, error)
	FetchPostsByAuthor(ctx context.Context, userID int64) ([]Post, error)
	FetchCommentsForPost(ctx context.Context, postID int64) ([]Comment, error)
	FetchImagesForPost(ctx context.Context, postID int64) ([]PostImage, error)
	FetchTags(ctx context.Context) ([]Tag, error)
}

// Writer creates records in the persistence service.
type Writer interface {
	CreatePost(ctx context.Context, in NewPost) (Post, error)
	CreatePostImage(ctx context.Context, in NewPostImage) (PostImage, error)
	CreateComment(ctx context.Context, in NewComment) (Comment, error)
}

// Store implements Fetcher and Writer on postgres.
type Store struct {
	db db.Querier
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db}
}

const selectPosts = `
		SELECT p.id, p.description, p.user_id, p.created_at, u.nick_name
		FROM posts p
		JOIN users u ON u.id = p.user_id
`

func (s *Store) FetchPosts(ctx context.Context) ([]Post, error) {
	return s.queryPosts(ctx, "list posts", selectPosts+`ORDER BY p.id`)
}

func (s *Store) FetchPostsByAuthor(ctx context.Context, userID int64) ([]Post, error) {
	return s.queryPosts(ctx, "list posts by author", selectPosts+`WHERE p.user_id = $1
		ORDER BY p.id`, userID)
}

func (s *Store) FetchPostByID(ctx context.Context, id int64) (Post, error) {
	row := s.db.QueryRow(ctx, selectPosts+`WHERE p.id = $1`, id)
	var p Post
	if err := row.Scan(&p.ID, &p.Description, &p.AuthorID, &p.CreatedAt, &p.Author.NickName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, apperr.NotFound("post")
		}
		return Post{}, apperr.Unavailable("get post", err)
	}
	p.Author.ID = p.AuthorID

	tags, err := s.loadTags(ctx, []int64{p.ID})
	if err != nil {
		return Post{}, apperr.Unavailable("get post", err)
	}
	p.Tags = tags[p.ID]
	return p, nil
}

func (s *Store) queryPosts(ctx context.Context, op, sql string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	defer rows.Close()

	var posts []Post
	var ids []int64
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Description, &p.AuthorID, &p.CreatedAt, &p.Author.NickName); err != nil {
			return nil, apperr.Unavailable(op, err)
		}
		p.Author.ID = p.AuthorID
		ids = append(ids, p.ID)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable(op, err)
	}

	tags, err := s.loadTags(ctx, ids)
	if err != nil {
		return nil, apperr.Unavailable(op, err)
	}
	for i := range posts {
		posts[i].Tags = tags[posts[i].ID]
	}
	return posts, nil
}

// loadTags returns each post's tag set, deduplicated by tag id.
func (s *Store) loadTags(ctx context.Context, postIDs []int64) (map[int64][]Tag, error) {
	if len(postIDs) == 0 {
		return map[int64][]Tag{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT pt.post_id, t.id, t.name
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.id
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := map[int64][]Tag{}
	seen := map[[2]int64]struct{}{}
	for rows.Next() {
		var postID int64
		var t Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name); err != nil {
			return nil, err
		}
		key := [2]int64{postID, t.ID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags[postID] = append(tags[postID], t)
	}
	return tags, rows.Err()
}

func (s *Store) FetchCommentsForPost(ctx context.Context, postID int64) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.content, c.user_id, c.post_id, c.created_at, c.visible, u.nick_name
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id
	`, postID)
	if err != nil {
		return nil, apperr.Unavailable("list comments", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.CreatedAt, &c.Visible, &c.Author.NickName); err != nil {
			return nil, apperr.Unavailable("list comments", err)
		}
		c.Author.ID = c.AuthorID
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("list comments", err)
	}
	return comments, nil
}

func (s *Store) FetchImagesForPost(ctx context.Context, postID int64) ([]PostImage, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, url, post_id
		FROM post_images WHERE post_id = $1
		ORDER BY id
	`, postID)
	if err != nil {
		return nil, apperr.Unavailable("list images", err)
	}
	defer rows.Close()

	images := []PostImage{}
	for rows.Next() {
		var img PostImage
		if err := rows.Scan(&img.ID, &img.URL, &img.PostID); err != nil {
			return nil, apperr.Unavailable("list images", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("list images", err)
	}
	return images, nil
}

func (s *Store) FetchTags(ctx context.Context) ([]Tag, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, apperr.Unavailable("list tags", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, apperr.Unavailable("list tags", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("list tags", err)
	}
	return tags, nil
}

// CreatePost inserts the post and its tag links in one statement.
func (s *Store) CreatePost(ctx context.Context, in NewPost) (Post, error) {
	row := s.db.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO posts (description, user_id)
			VALUES ($1,$2)
			RETURNING id, created_at
		), linked AS (
			INSERT INTO post_tags (post_id, tag_id)
			SELECT inserted.id, tag_id FROM inserted, unnest($3::bigint[]) AS tag_id
			ON CONFLICT DO NOTHING
		)
		SELECT id, created_at FROM inserted
	`, in.Description, in.AuthorID, in.TagIDs)

	post := Post{Description: in.Description, AuthorID: in.AuthorID}
	if err := row.Scan(&post.ID, &post.CreatedAt); err != nil {
		if db.PgErrorCode(err) == db.ForeignKeyViolation {
			return Post{}, apperr.InvalidInput("unknown tag or author")
		}
		return Post{}, apperr.Unavailable("create post", err)
	}
	post.Author.ID = in.AuthorID
	for _, id := range in.TagIDs {
		post.Tags = append(post.Tags, Tag{ID: id})
	}
	return post, nil
}

func (s *Store) CreatePostImage(ctx context.Context, in NewPostImage) (PostImage, error) {
	img := PostImage{URL: in.URL, PostID: in.PostID}
	row := s.db.QueryRow(ctx, `
		INSERT INTO post_images (url, post_id)
		VALUES ($1,$2)
		RETURNING id
	`, img.URL, img.PostID)
	if err := row.Scan(&img.ID); err != nil {
		if db.PgErrorCode(err) == db.ForeignKeyViolation {
			return PostImage{}, apperr.NotFound("post")
		}
		return PostImage{}, apperr.Unavailable("create post image", err)
	}
	return img, nil
}

func (s *Store) CreateComment(ctx context.Context, in NewComment) (Comment, error) {
	c := Comment{Content: in.Content, AuthorID: in.AuthorID, PostID: in.PostID}
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (content, user_id, post_id)
		VALUES ($1,$2,$3)
		RETURNING id, created_at, visible
	`, c.Content, c.AuthorID, c.PostID)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.Visible); err != nil {
		if db.PgErrorCode(err) == db.ForeignKeyViolation {
			return Comment{}, apperr.NotFound("post")
		}
		return Comment{}, apperr.Unavailable("create comment", err)
	}
	c.Author.ID = in.AuthorID
	return c, nil
}
