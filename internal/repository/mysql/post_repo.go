package mysql

import (
	"context"
	"errors"
	"strings"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) (*model.InsertResult, error) {
	if err := r.DB.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return &model.InsertResult{Acknowledged: true, InsertedID: post.ID}, nil
}

// List 索引 idx_post_date
func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	list := make([]model.Post, 0)
	err := r.DB.WithContext(ctx).Order("date ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *PostRepository) SearchByTitle(ctx context.Context, keyword string) ([]model.Post, error) {
	list := make([]model.Post, 0)
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	err := r.DB.WithContext(ctx).
		Where("LOWER(post_title) LIKE ?", pattern).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var post model.Post
	if err := r.DB.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) ListByOrganizer(ctx context.Context, email string) ([]model.Post, error) {
	list := make([]model.Post, 0)
	err := r.DB.WithContext(ctx).Where("organizer_email = ?", email).Find(&list).Error
	return list, err
}

// Upsert select for update 锁住原记录，存在则整体覆盖（保留 created_at），不存在则按给定 id 插入
func (r *PostRepository) Upsert(ctx context.Context, id string, post *model.Post) (*model.UpdateResult, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	post.ID = id

	res := &model.UpdateResult{Acknowledged: true}
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err = tx.Create(post).Error; err != nil {
				return err
			}
			res.UpsertedCount = 1
			res.UpsertedID = id
			return nil
		}
		if err != nil {
			return err
		}

		post.CreatedAt = existing.CreatedAt
		upd := tx.Model(&model.Post{ID: id}).Select("*").Omit("id", "created_at").Updates(post)
		if upd.Error != nil {
			return upd.Error
		}
		res.MatchedCount = 1
		res.ModifiedCount = upd.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	tx := r.DB.WithContext(ctx).Delete(&model.Post{}, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &model.DeleteResult{Acknowledged: true, DeletedCount: tx.RowsAffected}, nil
}

// DecrementSlots 名额扣减，防负数
func (r *PostRepository) DecrementSlots(ctx context.Context, id string) (*model.UpdateResult, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	tx := r.DB.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND no_of_volunteers_needed > 0", id).
		UpdateColumn("no_of_volunteers_needed", gorm.Expr("no_of_volunteers_needed - 1"))
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  tx.RowsAffected,
		ModifiedCount: tx.RowsAffected,
	}, nil
}

// escapeLike 转义 LIKE 通配符，关键字按字面量匹配
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
