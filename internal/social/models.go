package social

import "time"

type User struct {
	ID       int64  `json:"id"`
	NickName string `json:"nick_name"`
	Email    string `json:"email,omitempty"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Post struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	AuthorID    int64     `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	Author      User      `json:"-"`
	Tags        []Tag     `json:"-"`
}

type PostImage struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	PostID int64  `json:"post_id"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	Visible   bool      `json:"visible"`
	Author    User      `json:"author"`
}

// FeedItem is a post joined with its author, images, tags and comment
// count. It is rebuilt on every fetch and never stored.
type FeedItem struct {
	Post         Post        `json:"post"`
	Author       User        `json:"author"`
	Images       []PostImage `json:"images"`
	Tags         []Tag       `json:"tags"`
	CommentCount int         `json:"comment_count"`
}

// HasTag reports whether the item's tag set contains tagID.
func (f FeedItem) HasTag(tagID int64) bool {
	for _, t := range f.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// NewPost is the write intent for a post. AuthorID is never read from
// clients; it is set by auth.AttachAuthor.
type NewPost struct {
	Description string
	AuthorID    int64
	TagIDs      []int64
}

func (p NewPost) WithAuthor(userID int64) NewPost {
	p.AuthorID = userID
	return p
}

type NewPostImage struct {
	URL    string
	PostID int64
}

type NewComment struct {
	Content  string
	AuthorID int64
	PostID   int64
}

func (c NewComment) WithAuthor(userID int64) NewComment {
	c.AuthorID = userID
	return c
}

// PostDetail is the single-post view: the feed item plus its comments.
type PostDetail struct {
	FeedItem
	Comments []Comment `json:"comments"`
}
