package social

import (
	"context"
	"sync"
)

// View is the feed state owned by one presentation flow: the accumulated
// items, the selected tag and the filtered projection. Loads are
// generation-stamped so a slow batch never overwrites a newer one.
type View struct {
	mu       sync.Mutex
	gen      uint64
	items    []FeedItem
	selected *int64
}

func NewView() *View {
	return &View{}
}

// Begin starts a load and returns its generation.
func (v *View) Begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	return v.gen
}

// Commit stores items loaded under gen. It reports false and drops the
// items when a later Begin superseded gen.
func (v *View) Commit(gen uint64, items []FeedItem) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return false
	}
	v.items = items
	return true
}

// Load fetches the unfiltered feed through svc and commits it unless a
// newer load started meanwhile.
func (v *View) Load(ctx context.Context, svc *Service) (bool, error) {
	gen := v.Begin()
	items, err := svc.BuildFeed(ctx, nil)
	if err != nil {
		return false, err
	}
	return v.Commit(gen, items), nil
}

// Select changes the tag filter; nil shows every item.
func (v *View) Select(tagID *int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if tagID == nil {
		v.selected = nil
		return
	}
	id := *tagID
	v.selected = &id
}

// Items returns the accumulated items filtered by the selected tag.
func (v *View) Items() []FeedItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	return FilterByTag(v.items, v.selected)
}

func (v *View) All() []FeedItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]FeedItem, len(v.items))
	copy(out, v.items)
	return out
}
