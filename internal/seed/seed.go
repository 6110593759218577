package seed

import (
	"context"
	"fmt"
	"time"

	"backend-antisocial/internal/db"

	"go.uber.org/zap"
)

type Options struct {
	// Reset truncates every table before loading.
	Reset bool
	// SchemaOnly creates the tables and stops.
	SchemaOnly bool
	// Now anchors post timestamps; the last post is the newest.
	Now time.Time
}

type Summary struct {
	Users    int
	Tags     int
	Posts    int
	Images   int
	Comments int
}

// Run applies the schema and loads data. It is not transactional: a
// failure leaves the rows inserted so far.
func Run(ctx context.Context, q db.Querier, data Dataset, opts Options, logger *zap.Logger) (Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, stmt := range Schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return Summary{}, fmt.Errorf("apply schema: %w", err)
		}
	}
	if opts.SchemaOnly {
		return Summary{}, nil
	}
	if opts.Reset {
		if _, err := q.Exec(ctx, truncateAll); err != nil {
			return Summary{}, fmt.Errorf("reset tables: %w", err)
		}
		logger.Info("tables truncated")
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var sum Summary
	users := make(map[string]int64, len(data.Users))
	for _, u := range data.Users {
		var id int64
		if err := q.QueryRow(ctx, `
			INSERT INTO users (nick_name, email)
			VALUES ($1,$2)
			RETURNING id
		`, u.NickName, u.Email).Scan(&id); err != nil {
			return sum, fmt.Errorf("insert user %s: %w", u.NickName, err)
		}
		users[u.NickName] = id
		sum.Users++
	}

	tags := make(map[string]int64, len(data.Tags))
	for _, name := range data.Tags {
		var id int64
		if err := q.QueryRow(ctx, `INSERT INTO tags (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
			return sum, fmt.Errorf("insert tag %s: %w", name, err)
		}
		tags[name] = id
		sum.Tags++
	}

	postIDs := make([]int64, len(data.Posts))
	for i, p := range data.Posts {
		authorID, ok := users[p.Author]
		if !ok {
			return sum, fmt.Errorf("post %d: unknown author %q", i, p.Author)
		}
		createdAt := now.Add(-time.Duration(len(data.Posts)-i) * time.Hour)
		if err := q.QueryRow(ctx, `
			INSERT INTO posts (description, user_id, created_at)
			VALUES ($1,$2,$3)
			RETURNING id
		`, p.Description, authorID, createdAt).Scan(&postIDs[i]); err != nil {
			return sum, fmt.Errorf("insert post %d: %w", i, err)
		}
		sum.Posts++

		for _, name := range p.Tags {
			tagID, ok := tags[name]
			if !ok {
				return sum, fmt.Errorf("post %d: unknown tag %q", i, name)
			}
			if _, err := q.Exec(ctx, `INSERT INTO post_tags (post_id, tag_id) VALUES ($1,$2)`, postIDs[i], tagID); err != nil {
				return sum, fmt.Errorf("tag post %d: %w", i, err)
			}
		}
		for _, url := range p.Images {
			if _, err := q.Exec(ctx, `INSERT INTO post_images (url, post_id) VALUES ($1,$2)`, url, postIDs[i]); err != nil {
				return sum, fmt.Errorf("insert image for post %d: %w", i, err)
			}
			sum.Images++
		}
	}

	for i, c := range data.Comments {
		if c.Post < 0 || c.Post >= len(postIDs) {
			return sum, fmt.Errorf("comment %d: post index %d out of range", i, c.Post)
		}
		authorID, ok := users[c.Author]
		if !ok {
			return sum, fmt.Errorf("comment %d: unknown author %q", i, c.Author)
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO comments (content, user_id, post_id, visible)
			VALUES ($1,$2,$3,true)
		`, c.Content, authorID, postIDs[c.Post]); err != nil {
			return sum, fmt.Errorf("insert comment %d: %w", i, err)
		}
		sum.Comments++
	}

	logger.Info("seed loaded",
		zap.Int("users", sum.Users),
		zap.Int("tags", sum.Tags),
		zap.Int("posts", sum.Posts),
		zap.Int("images", sum.Images),
		zap.Int("comments", sum.Comments),
	)
	return sum, nil
}
