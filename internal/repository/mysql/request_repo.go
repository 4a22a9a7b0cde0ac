package mysql

import (
	"context"
	"errors"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/repository"

	"gorm.io/gorm"
)

type RequestRepository struct {
	DB *gorm.DB
}

func (r *RequestRepository) FindDuplicate(ctx context.Context, key model.DedupKey) (*model.VolunteerRequest, error) {
	q := r.DB.WithContext(ctx).Where("post_id = ?", key.PostID)
	if key.Scope == model.DedupByVolunteer {
		q = q.Where("volunteer_email = ?", key.Email)
	} else {
		q = q.Where("organizer_email = ?", key.Email)
	}
	var req model.VolunteerRequest
	if err := q.First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Create uk_request_dedup 冲突即重复申请
func (r *RequestRepository) Create(ctx context.Context, req *model.VolunteerRequest) (*model.InsertResult, error) {
	if err := r.DB.WithContext(ctx).Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return &model.InsertResult{Acknowledged: true, InsertedID: req.ID}, nil
}

func (r *RequestRepository) ListByVolunteer(ctx context.Context, email string) ([]model.VolunteerRequest, error) {
	list := make([]model.VolunteerRequest, 0)
	err := r.DB.WithContext(ctx).
		Where("volunteer_email = ?", email).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *RequestRepository) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	tx := r.DB.WithContext(ctx).Delete(&model.VolunteerRequest{}, "id = ?", id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &model.DeleteResult{Acknowledged: true, DeletedCount: tx.RowsAffected}, nil
}
