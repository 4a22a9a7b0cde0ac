package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/repository"
	"Volunteer_Hub/internal/repository/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mutex  sync.Mutex
	posts  map[string]model.Post
	getErr error
}

func newMemCache() *memCache {
	return &memCache{posts: make(map[string]model.Post)}
}

func (c *memCache) Get(_ context.Context, id string) (*model.Post, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	p, ok := c.posts[id]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *memCache) Set(_ context.Context, post *model.Post) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.posts[post.ID] = *post
	return nil
}

func (c *memCache) Delete(_ context.Context, id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.posts, id)
	return nil
}

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestCreatePost(t *testing.T) {
	store := mock.NewStore()
	svc := NewPostService(store.Posts(), nil)
	now := time.Date(2025, 2, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	post := &model.Post{ID: "ignored", PostTitle: "Beach cleanup", OrganizerEmail: "org@example.com"}
	res, err := svc.CreatePost(context.Background(), post)
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	assert.NotEqual(t, "ignored", res.InsertedID)

	stored, ok := store.Post(res.InsertedID)
	require.True(t, ok)
	assert.Equal(t, now, stored.CreatedAt)
	assert.Equal(t, now, stored.UpdatedAt)
}

func TestListPostsSortedByDate(t *testing.T) {
	store := mock.NewStore()
	for _, d := range []int{3, 1, 2} {
		store.SeedPost(model.Post{PostTitle: "post", Date: day(d)})
	}
	svc := NewPostService(store.Posts(), nil)

	list, err := svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []time.Time{day(1), day(2), day(3)}, []time.Time{list[0].Date, list[1].Date, list[2].Date})
}

func TestSearchPostsCaseInsensitive(t *testing.T) {
	store := mock.NewStore()
	for _, title := range []string{"Food Drive", "FOOTBALL camp", "Tree planting"} {
		store.SeedPost(model.Post{PostTitle: title})
	}
	svc := NewPostService(store.Posts(), nil)

	list, err := svc.SearchPosts(context.Background(), "foo")
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	for _, p := range list {
		titles = append(titles, p.PostTitle)
	}
	assert.ElementsMatch(t, []string{"Food Drive", "FOOTBALL camp"}, titles)
}

func TestGetPostCacheAside(t *testing.T) {
	store := mock.NewStore()
	id := store.SeedPost(model.Post{PostTitle: "Food Drive"})
	cache := newMemCache()
	svc := NewPostService(store.Posts(), cache)
	ctx := context.Background()

	p, err := svc.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Food Drive", p.PostTitle)
	assert.Equal(t, 1, store.Calls("posts.FindByID"))

	p, err = svc.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Food Drive", p.PostTitle)
	assert.Equal(t, 1, store.Calls("posts.FindByID"), "second read should hit the cache")
}

func TestGetPostCacheErrorFallsBackToStore(t *testing.T) {
	store := mock.NewStore()
	id := store.SeedPost(model.Post{PostTitle: "Food Drive"})
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	svc := NewPostService(store.Posts(), cache)

	p, err := svc.GetPost(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Food Drive", p.PostTitle)
}

func TestGetPostMissingAndInvalid(t *testing.T) {
	svc := NewPostService(mock.NewStore().Posts(), newMemCache())

	p, err := svc.GetPost(context.Background(), "65a000000000000000000000")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = svc.GetPost(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestUpsertPostInvalidatesCache(t *testing.T) {
	store := mock.NewStore()
	id := store.SeedPost(model.Post{PostTitle: "Old", CreatedAt: day(1)})
	cache := newMemCache()
	svc := NewPostService(store.Posts(), cache)
	ctx := context.Background()

	_, err := svc.GetPost(ctx, id)
	require.NoError(t, err)

	res, err := svc.UpsertPost(ctx, id, &model.Post{PostTitle: "New", OrganizerEmail: "org@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)

	p, err := svc.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", p.PostTitle)
	assert.Equal(t, day(1), p.CreatedAt)

	newID := "65a0000000000000000000ff"
	res, err = svc.UpsertPost(ctx, newID, &model.Post{PostTitle: "Fresh"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpsertedCount)
	assert.Equal(t, newID, res.UpsertedID)
}

func TestDeletePostLeavesRequests(t *testing.T) {
	store := mock.NewStore()
	id := store.SeedPost(model.Post{PostTitle: "Food Drive", OrganizerEmail: "org@example.com", NoOfVolunteersNeeded: 2})
	posts := NewPostService(store.Posts(), nil)
	requests := NewRequestService(store.Requests(), store.Posts())
	ctx := context.Background()

	_, err := requests.Submit(ctx, volunteerRequest(id, "vol@example.com"))
	require.NoError(t, err)

	res, err := posts.DeletePost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)
	assert.Equal(t, 1, store.RequestCount())
}

func TestListByOrganizer(t *testing.T) {
	store := mock.NewStore()
	store.SeedPost(model.Post{PostTitle: "a", OrganizerEmail: "org@example.com"})
	store.SeedPost(model.Post{PostTitle: "b", OrganizerEmail: "other@example.com"})
	svc := NewPostService(store.Posts(), nil)

	list, err := svc.ListByOrganizer(context.Background(), "org@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].PostTitle)
}
