package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Volunteer_Hub/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultPostTTL     = 5 * time.Minute
	PostCacheKeyPrefix = "volunteer:post"
)

// PostCache 帖子详情缓存（cache-aside）：读侧回填，写侧删除
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

func (c *PostCache) key(id string) string {
	return fmt.Sprintf("%s:%s", PostCacheKeyPrefix, id)
}

// Get 第二个返回值表示是否命中
func (c *PostCache) Get(ctx context.Context, id string) (*model.Post, bool, error) {
	val, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var p model.Post
	if err := json.Unmarshal(val, &p); err != nil {
		// 脏数据直接删掉，交给下一次回填
		_ = c.client.Del(ctx, c.key(id)).Err()
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *PostCache) Set(ctx context.Context, post *model.Post) error {
	b, err := json.Marshal(post)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(post.ID), b, c.ttl).Err()
}

func (c *PostCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
