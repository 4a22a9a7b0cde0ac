package repository

import (
	"context"
	"errors"

	"Volunteer_Hub/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid id")
	ErrDuplicate = errors.New("duplicate record")
)

// PostRepository 帖子存储，mongo 和 mysql 各有一份实现
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) (*model.InsertResult, error)
	// List 按 date 升序返回全部帖子
	List(ctx context.Context) ([]model.Post, error)
	// SearchByTitle 标题大小写不敏感的子串匹配
	SearchByTitle(ctx context.Context, keyword string) ([]model.Post, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	ListByOrganizer(ctx context.Context, email string) ([]model.Post, error)
	// Upsert 按 id 覆盖写，不存在则插入
	Upsert(ctx context.Context, id string, post *model.Post) (*model.UpdateResult, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
	// DecrementSlots noOfVolunteersNeeded 减一，已经为 0 时不动
	DecrementSlots(ctx context.Context, id string) (*model.UpdateResult, error)
}

// RequestRepository 志愿者申请存储
type RequestRepository interface {
	// FindDuplicate 查找与去重键相同的申请，没有则返回 ErrNotFound
	FindDuplicate(ctx context.Context, key model.DedupKey) (*model.VolunteerRequest, error)
	// Create 插入申请；dedup_key 唯一索引冲突时返回 ErrDuplicate
	Create(ctx context.Context, req *model.VolunteerRequest) (*model.InsertResult, error)
	ListByVolunteer(ctx context.Context, email string) ([]model.VolunteerRequest, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
}
