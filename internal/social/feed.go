package social

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Aggregator joins posts with their comments and images. It holds no
// mutable state and is safe for concurrent use.
type Aggregator struct {
	fetcher Fetcher
	logger  *zap.Logger
}

func NewAggregator(fetcher Fetcher, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{fetcher: fetcher, logger: logger}
}

// Build fetches comments and images for every post at once and returns the
// items sorted by CreatedAt descending. A post whose sub-fetch fails keeps
// its place with no images and a zero comment count.
func (a *Aggregator) Build(ctx context.Context, posts []Post) []FeedItem {
	items := make([]FeedItem, len(posts))

	var g errgroup.Group
	for i, post := range posts {
		i, post := i, post
		g.Go(func() error {
			items[i] = a.buildItem(ctx, post)
			return nil
		})
	}
	// tasks never return an error; failures are recorded per item
	_ = g.Wait()

	sortFeed(items)
	return items
}

func (a *Aggregator) buildItem(ctx context.Context, post Post) FeedItem {
	item := FeedItem{
		Post:   post,
		Author: post.Author,
		Images: []PostImage{},
		Tags:   post.Tags,
	}
	if item.Tags == nil {
		item.Tags = []Tag{}
	}

	var comments []Comment
	var images []PostImage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = a.fetcher.FetchCommentsForPost(gctx, post.ID)
		return err
	})
	g.Go(func() error {
		var err error
		images, err = a.fetcher.FetchImagesForPost(gctx, post.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.Warn("feed item degraded", zap.Int64("post_id", post.ID), zap.Error(err))
		return item
	}

	item.CommentCount = len(comments)
	if images != nil {
		item.Images = images
	}
	return item
}

// FilterByTag keeps the items whose tag set contains tagID, preserving
// order. A nil tagID keeps every item. It never fetches.
func FilterByTag(items []FeedItem, tagID *int64) []FeedItem {
	if tagID == nil {
		out := make([]FeedItem, len(items))
		copy(out, items)
		return out
	}
	out := make([]FeedItem, 0, len(items))
	for _, item := range items {
		if item.HasTag(*tagID) {
			out = append(out, item)
		}
	}
	return out
}

// sortFeed orders newest first; equal timestamps keep fetch order.
func sortFeed(items []FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Post.CreatedAt.After(items[j].Post.CreatedAt)
	})
}
