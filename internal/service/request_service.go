package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/pkg"
	"Volunteer_Hub/internal/repository"
)

var (
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrInvalidRequest   = errors.New("organizer_email and id are required")
)

const (
	notifyTimeout  = 30 * time.Second
	publishTimeout = 10 * time.Second
)

// EventPublisher kafka 未配置时为 nil
type EventPublisher interface {
	Publish(ctx context.Context, key string, ev pkg.Event) error
}

// RequestNotifier smtp 未配置时为 nil
type RequestNotifier interface {
	NotifyRequest(ctx context.Context, req *model.VolunteerRequest) error
}

type RequestService struct {
	requests  repository.RequestRepository
	posts     repository.PostRepository
	scope     model.DedupScope
	cache     PostCache
	publisher EventPublisher
	notifier  RequestNotifier
	now       func() time.Time

	// 后台的事件发布和邮件通知
	pending sync.WaitGroup
}

type RequestOption func(*RequestService)

func WithDedupScope(scope model.DedupScope) RequestOption {
	return func(s *RequestService) { s.scope = scope }
}

func WithRequestCache(cache PostCache) RequestOption {
	return func(s *RequestService) { s.cache = cache }
}

func WithPublisher(p EventPublisher) RequestOption {
	return func(s *RequestService) { s.publisher = p }
}

func WithNotifier(n RequestNotifier) RequestOption {
	return func(s *RequestService) { s.notifier = n }
}

func NewRequestService(requests repository.RequestRepository, posts repository.PostRepository, opts ...RequestOption) *RequestService {
	s := &RequestService{
		requests: requests,
		posts:    posts,
		scope:    model.DedupByOrganizer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit 登记一次志愿申请：
// 1. 按去重键查重，命中返回 ErrDuplicateRequest，不做任何写入
// 2. 插入申请，这是唯一必须成功的写操作；唯一索引冲突同样视为重复申请
// 3. 帖子名额减一，尽力而为，结果不影响返回值
func (s *RequestService) Submit(ctx context.Context, req *model.VolunteerRequest) (*model.InsertResult, error) {
	if req.OrganizerEmail == "" || req.PostID == "" {
		return nil, ErrInvalidRequest
	}
	if s.scope == model.DedupByVolunteer && req.VolunteerEmail == "" {
		return nil, fmt.Errorf("%w: volunteer_email required", ErrInvalidRequest)
	}

	key := model.NewDedupKey(s.scope, req)
	_, err := s.requests.FindDuplicate(ctx, key)
	if err == nil {
		return nil, ErrDuplicateRequest
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find duplicate request: %w", err)
	}

	req.ID = ""
	req.DedupKey = key.String()
	req.CreatedAt = s.now().UTC()
	if req.Status == "" {
		req.Status = model.RequestStatusRequested
	}

	res, err := s.requests.Create(ctx, req)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateRequest
	}
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}

	s.consumeSlot(ctx, req.PostID)
	snapshot := *req
	s.publish(req.PostID, pkg.NewEvent(pkg.EventRequestCreated, snapshot))
	s.notify(snapshot)

	return res, nil
}

// ListByVolunteer 志愿者自己的申请列表
func (s *RequestService) ListByVolunteer(ctx context.Context, email string) ([]model.VolunteerRequest, error) {
	return s.requests.ListByVolunteer(ctx, email)
}

// Cancel 删除申请，不归还名额
func (s *RequestService) Cancel(ctx context.Context, id string) (*model.DeleteResult, error) {
	res, err := s.requests.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.DeletedCount > 0 {
		s.publish(id, pkg.NewEvent(pkg.EventRequestCancelled, map[string]string{"_id": id}))
	}
	return res, nil
}

func (s *RequestService) consumeSlot(ctx context.Context, postID string) {
	res, err := s.posts.DecrementSlots(ctx, postID)
	if err != nil {
		slog.Warn("slot decrement failed", "post_id", postID, "error", err)
		return
	}
	if res.ModifiedCount == 0 {
		slog.Info("slot not decremented", "post_id", postID, "matched", res.MatchedCount)
		return
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, postID); err != nil {
			slog.Warn("post cache invalidate failed", "post_id", postID, "error", err)
		}
	}
}

// publish 异步发布，不阻塞响应
func (s *RequestService) publish(key string, ev pkg.Event) {
	if s.publisher == nil {
		return
	}
	s.background(publishTimeout, func(ctx context.Context) {
		if err := s.publisher.Publish(ctx, key, ev); err != nil {
			slog.Warn("event publish failed", "event_type", ev.EventType, "key", key, "error", err)
		}
	})
}

// notify 异步发送，不阻塞响应
func (s *RequestService) notify(req model.VolunteerRequest) {
	if s.notifier == nil || req.OrganizerEmail == "" {
		return
	}
	s.background(notifyTimeout, func(ctx context.Context) {
		if err := s.notifier.NotifyRequest(ctx, &req); err != nil {
			slog.Warn("organizer notify failed", "request_id", req.ID, "error", err)
		}
	})
}

// background 脱离请求 ctx 运行，Wait 会等它结束
func (s *RequestService) background(timeout time.Duration, fn func(ctx context.Context)) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait 等待后台任务结束，ctx 到期先返回
func (s *RequestService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
