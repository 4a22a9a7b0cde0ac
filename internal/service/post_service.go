package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/repository"
)

// PostCache 帖子详情缓存，redis 未配置时为 nil
type PostCache interface {
	Get(ctx context.Context, id string) (*model.Post, bool, error)
	Set(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
}

type PostService struct {
	repo  repository.PostRepository
	cache PostCache
	now   func() time.Time
}

func NewPostService(repo repository.PostRepository, cache PostCache) *PostService {
	return &PostService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// CreatePost id 由存储层生成，客户端传入的 _id 忽略
func (s *PostService) CreatePost(ctx context.Context, post *model.Post) (*model.InsertResult, error) {
	now := s.now().UTC()
	post.ID = ""
	post.CreatedAt = now
	post.UpdatedAt = now
	return s.repo.Create(ctx, post)
}

// ListPosts 按 date 升序
func (s *PostService) ListPosts(ctx context.Context) ([]model.Post, error) {
	return s.repo.List(ctx)
}

func (s *PostService) SearchPosts(ctx context.Context, keyword string) ([]model.Post, error) {
	return s.repo.SearchByTitle(ctx, keyword)
}

// GetPost 先读缓存，miss 回源后回填；不存在返回 nil, nil
func (s *PostService) GetPost(ctx context.Context, id string) (*model.Post, error) {
	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			slog.Warn("post cache read failed", "post_id", id, "error", err)
		} else if ok {
			return p, nil
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			slog.Warn("post cache fill failed", "post_id", id, "error", err)
		}
	}
	return p, nil
}

func (s *PostService) ListByOrganizer(ctx context.Context, email string) ([]model.Post, error) {
	return s.repo.ListByOrganizer(ctx, email)
}

// UpsertPost 写库后删缓存
func (s *PostService) UpsertPost(ctx context.Context, id string, post *model.Post) (*model.UpdateResult, error) {
	post.UpdatedAt = s.now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = post.UpdatedAt
	}
	res, err := s.repo.Upsert(ctx, id, post)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return res, nil
}

// DeletePost 不级联删除该帖子下的申请
func (s *PostService) DeletePost(ctx context.Context, id string) (*model.DeleteResult, error) {
	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return res, nil
}

func (s *PostService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		slog.Warn("post cache invalidate failed", "post_id", id, "error", err)
	}
}
