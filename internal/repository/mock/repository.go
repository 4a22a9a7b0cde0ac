package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store 内存版存储，同时实现 PostRepository 和 RequestRepository（通过 Posts/Requests 取得）
// id 规则与 mongo 一致：24 位 hex，格式不对返回 ErrInvalidID
type Store struct {
	mutex    sync.Mutex
	posts    map[string]model.Post
	requests map[string]model.VolunteerRequest
	calls    map[string]int

	// 非 nil 时 DecrementSlots 直接返回该错误
	DecrementErr error
	// 非 nil 时在 FindDuplicate 返回前调用，用来制造并发窗口
	AfterFindDuplicate func()
}

func NewStore() *Store {
	return &Store{
		posts:    make(map[string]model.Post),
		requests: make(map[string]model.VolunteerRequest),
		calls:    make(map[string]int),
	}
}

func (s *Store) Posts() *PostRepository       { return &PostRepository{s: s} }
func (s *Store) Requests() *RequestRepository { return &RequestRepository{s: s} }

// Calls 某个方法被调用的次数，方法名形如 "posts.List"
func (s *Store) Calls(name string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.calls[name]
}

// TotalCalls 所有存储调用次数
func (s *Store) TotalCalls() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// SeedPost 直接写入帖子，返回生成的 id
func (s *Store) SeedPost(p model.Post) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	s.posts[p.ID] = p
	return p.ID
}

func (s *Store) Post(id string) (model.Post, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	p, ok := s.posts[id]
	return p, ok
}

func (s *Store) RequestCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.requests)
}

func (s *Store) record(name string) {
	s.calls[name]++
}

func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return repository.ErrInvalidID
	}
	return nil
}

type PostRepository struct {
	s *Store
}

func (r *PostRepository) Create(_ context.Context, post *model.Post) (*model.InsertResult, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("posts.Create")

	post.ID = primitive.NewObjectID().Hex()
	r.s.posts[post.ID] = *post
	return &model.InsertResult{Acknowledged: true, InsertedID: post.ID}, nil
}

func (r *PostRepository) List(_ context.Context) ([]model.Post, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("posts.List")

	list := r.s.filterPosts(func(model.Post) bool { return true })
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.Before(list[j].Date)
	})
	return list, nil
}

func (r *PostRepository) SearchByTitle(_ context.Context, keyword string) ([]model.Post, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("posts.SearchByTitle")

	kw := strings.ToLower(keyword)
	return r.s.filterPosts(func(p model.Post) bool {
		return strings.Contains(strings.ToLower(p.PostTitle), kw)
	}), nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*model.Post, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("posts.FindByID")

	if err := checkID(id); err != nil {
		return nil, err
	}
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *PostRepository) ListByOrganizer(_ context.Context, email string) ([]model.Post, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("posts.ListByOrganizer")

	return r.s.filterPosts(func(p model.Post) bool { return p.OrganizerEmail == email }), nil
}

func (r *PostRepository) Upsert(_ context.Context, id string, post *model.Post) (*model.UpdateResult, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("posts.Upsert")

	if err := checkID(id); err != nil {
		return nil, err
	}
	post.ID = id
	res := &model.UpdateResult{Acknowledged: true}
	if old, ok := r.s.posts[id]; ok {
		post.CreatedAt = old.CreatedAt
		res.MatchedCount = 1
		res.ModifiedCount = 1
	} else {
		res.UpsertedCount = 1
		res.UpsertedID = id
	}
	r.s.posts[id] = *post
	return res, nil
}

func (r *PostRepository) Delete(_ context.Context, id string) (*model.DeleteResult, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("posts.Delete")

	if err := checkID(id); err != nil {
		return nil, err
	}
	res := &model.DeleteResult{Acknowledged: true}
	if _, ok := r.s.posts[id]; ok {
		delete(r.s.posts, id)
		res.DeletedCount = 1
	}
	return res, nil
}

func (r *PostRepository) DecrementSlots(_ context.Context, id string) (*model.UpdateResult, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("posts.DecrementSlots")

	if r.s.DecrementErr != nil {
		return nil, r.s.DecrementErr
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	res := &model.UpdateResult{Acknowledged: true}
	p, ok := r.s.posts[id]
	if !ok || p.NoOfVolunteersNeeded <= 0 {
		return res, nil
	}
	p.NoOfVolunteersNeeded--
	p.UpdatedAt = time.Now().UTC()
	r.s.posts[id] = p
	res.MatchedCount = 1
	res.ModifiedCount = 1
	return res, nil
}

func (s *Store) filterPosts(keep func(model.Post) bool) []model.Post {
	list := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if keep(p) {
			list = append(list, p)
		}
	}
	// map 遍历无序，按 id 固定顺序
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

type RequestRepository struct {
	s *Store
}

func (r *RequestRepository) FindDuplicate(_ context.Context, key model.DedupKey) (*model.VolunteerRequest, error) {
	r.s.mutex.Lock()
	r.s.record("requests.FindDuplicate")
	var found *model.VolunteerRequest
	for _, req := range r.s.requests {
		email := req.OrganizerEmail
		if key.Scope == model.DedupByVolunteer {
			email = req.VolunteerEmail
		}
		if email == key.Email && req.PostID == key.PostID {
			req := req
			found = &req
			break
		}
	}
	hook := r.s.AfterFindDuplicate
	r.s.mutex.Unlock()

	if hook != nil {
		hook()
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

// Create 模拟 dedup_key 唯一索引
func (r *RequestRepository) Create(_ context.Context, req *model.VolunteerRequest) (*model.InsertResult, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("requests.Create")

	if req.DedupKey != "" {
		for _, existing := range r.s.requests {
			if existing.DedupKey == req.DedupKey {
				return nil, repository.ErrDuplicate
			}
		}
	}
	req.ID = primitive.NewObjectID().Hex()
	r.s.requests[req.ID] = *req
	return &model.InsertResult{Acknowledged: true, InsertedID: req.ID}, nil
}

func (r *RequestRepository) ListByVolunteer(_ context.Context, email string) ([]model.VolunteerRequest, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("requests.ListByVolunteer")

	list := make([]model.VolunteerRequest, 0)
	for _, req := range r.s.requests {
		if req.VolunteerEmail == email {
			list = append(list, req)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *RequestRepository) Delete(_ context.Context, id string) (*model.DeleteResult, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.record("requests.Delete")

	if err := checkID(id); err != nil {
		return nil, err
	}
	res := &model.DeleteResult{Acknowledged: true}
	if _, ok := r.s.requests[id]; ok {
		delete(r.s.requests, id)
		res.DeletedCount = 1
	}
	return res, nil
}
