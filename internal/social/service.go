package social

import (
	"context"
	"net/url"
	"strings"

	"backend-antisocial/internal/apperr"
	"backend-antisocial/internal/auth"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	fetcher Fetcher
	writer  Writer
	agg     *Aggregator
	logger  *zap.Logger
}

func NewService(fetcher Fetcher, writer Writer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher: fetcher,
		writer:  writer,
		agg:     NewAggregator(fetcher, logger),
		logger:  logger,
	}
}

// BuildFeed returns every post as a FeedItem, newest first, restricted to
// tagFilter when it is set. Failing to list posts fails the whole feed.
func (s *Service) BuildFeed(ctx context.Context, tagFilter *int64) ([]FeedItem, error) {
	posts, err := s.fetcher.FetchPosts(ctx)
	if err != nil {
		return nil, feedUnavailable(err)
	}
	return FilterByTag(s.agg.Build(ctx, posts), tagFilter), nil
}

func (s *Service) GetUserFeed(ctx context.Context, userID int64) ([]FeedItem, error) {
	posts, err := s.fetcher.FetchPostsByAuthor(ctx, userID)
	if err != nil {
		return nil, feedUnavailable(err)
	}
	return s.agg.Build(ctx, posts), nil
}

func (s *Service) GetPost(ctx context.Context, id int64) (FeedItem, error) {
	detail, err := s.PostDetail(ctx, id)
	if err != nil {
		return FeedItem{}, err
	}
	return detail.FeedItem, nil
}

// PostDetail loads the post, its comments and its images together. Unlike
// the feed, any failure here fails the view.
func (s *Service) PostDetail(ctx context.Context, id int64) (PostDetail, error) {
	var (
		post                 Post
		comments             []Comment
		images               []PostImage
		postErr, commentsErr error
		imageErr             error
	)
	var g errgroup.Group
	g.Go(func() error {
		post, postErr = s.fetcher.FetchPostByID(ctx, id)
		return nil
	})
	g.Go(func() error {
		comments, commentsErr = s.fetcher.FetchCommentsForPost(ctx, id)
		return nil
	})
	g.Go(func() error {
		images, imageErr = s.fetcher.FetchImagesForPost(ctx, id)
		return nil
	})
	_ = g.Wait()

	// a missing post wins over sub-fetch errors
	if postErr != nil {
		return PostDetail{}, postErr
	}
	if err := firstErr(commentsErr, imageErr); err != nil {
		return PostDetail{}, err
	}

	if comments == nil {
		comments = []Comment{}
	}
	if images == nil {
		images = []PostImage{}
	}
	tags := post.Tags
	if tags == nil {
		tags = []Tag{}
	}
	return PostDetail{
		FeedItem: FeedItem{
			Post:         post,
			Author:       post.Author,
			Images:       images,
			Tags:         tags,
			CommentCount: len(comments),
		},
		Comments: comments,
	}, nil
}

func (s *Service) Comments(ctx context.Context, postID int64) ([]Comment, error) {
	return s.fetcher.FetchCommentsForPost(ctx, postID)
}

func (s *Service) Tags(ctx context.Context) ([]Tag, error) {
	return s.fetcher.FetchTags(ctx)
}

// SubmitPost validates the input, requires a session identity and creates
// the post followed by its images. Input errors are reported before any
// collaborator call.
func (s *Service) SubmitPost(ctx context.Context, session *auth.SessionStore, description string, imageURLs []string, tagIDs []int64) (FeedItem, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return FeedItem{}, apperr.InvalidInput("description required")
	}
	urls, err := cleanImageURLs(imageURLs)
	if err != nil {
		return FeedItem{}, err
	}
	identity, err := auth.RequireAuthenticated(session)
	if err != nil {
		return FeedItem{}, err
	}

	intent := auth.AttachAuthor(NewPost{Description: description, TagIDs: uniqueIDs(tagIDs)}, identity)
	post, err := s.writer.CreatePost(ctx, intent)
	if err != nil {
		return FeedItem{}, err
	}

	images := make([]PostImage, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			img, err := s.writer.CreatePostImage(gctx, NewPostImage{URL: u, PostID: post.ID})
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("post created without all images", zap.Int64("post_id", post.ID), zap.Error(err))
		return FeedItem{}, err
	}

	author := User{ID: identity.UserID, NickName: identity.NickName, Email: identity.Email}
	post.Author = author
	post.Tags = s.nameTags(ctx, post.Tags)
	return FeedItem{
		Post:   post,
		Author: author,
		Images: images,
		Tags:   post.Tags,
	}, nil
}

// SubmitComment requires a session identity and non-blank content.
func (s *Service) SubmitComment(ctx context.Context, session *auth.SessionStore, postID int64, content string) (Comment, error) {
	identity, err := auth.RequireAuthenticated(session)
	if err != nil {
		return Comment{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Comment{}, apperr.InvalidInput("comment cannot be empty")
	}
	if postID <= 0 {
		return Comment{}, apperr.InvalidInput("post id required")
	}

	intent := auth.AttachAuthor(NewComment{Content: content, PostID: postID}, identity)
	comment, err := s.writer.CreateComment(ctx, intent)
	if err != nil {
		return Comment{}, err
	}
	comment.Author = User{ID: identity.UserID, NickName: identity.NickName}
	return comment, nil
}

// nameTags fills tag names from the tag list; on failure the ids stand alone.
func (s *Service) nameTags(ctx context.Context, tags []Tag) []Tag {
	if len(tags) == 0 {
		return []Tag{}
	}
	all, err := s.fetcher.FetchTags(ctx)
	if err != nil {
		s.logger.Warn("tag names unavailable", zap.Error(err))
		return tags
	}
	names := make(map[int64]string, len(all))
	for _, t := range all {
		names[t.ID] = t.Name
	}
	out := make([]Tag, len(tags))
	for i, t := range tags {
		out[i] = Tag{ID: t.ID, Name: names[t.ID]}
	}
	return out
}

func cleanImageURLs(raw []string) ([]string, error) {
	var urls []string
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		u, err := url.ParseRequestURI(r)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, apperr.InvalidInput("image url is not valid: " + r)
		}
		urls = append(urls, r)
	}
	return urls, nil
}

func uniqueIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func feedUnavailable(err error) error {
	return apperr.Wrap(apperr.CodeFeedUnavailable, "feed could not be loaded, try again", err)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
