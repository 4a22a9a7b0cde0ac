package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const RequestStatusRequested = "requested"

// VolunteerRequest 志愿者对某个帖子的申请
// PostID 只是弱引用，删帖不会级联删除申请
type VolunteerRequest struct {
	ID             string    `json:"_id" bson:"-" gorm:"primaryKey;size:36"`
	PostID         string    `json:"id" bson:"id" gorm:"size:36;not null;index:idx_request_post" binding:"required,notblank"`
	PostTitle      string    `json:"postTitle" bson:"postTitle" gorm:"size:200"`
	Thumbnail      string    `json:"thumbnail" bson:"thumbnail" gorm:"size:512"`
	Category       string    `json:"category" bson:"category" gorm:"size:64"`
	Location       string    `json:"location" bson:"location" gorm:"size:128"`
	Date           time.Time `json:"date" bson:"date"`
	OrganizerName  string    `json:"organizer_name" bson:"organizer_name" gorm:"size:64"`
	OrganizerEmail string    `json:"organizer_email" bson:"organizer_email" gorm:"size:128;not null" binding:"required,email"`
	VolunteerName  string    `json:"volunteer_name" bson:"volunteer_name" gorm:"size:64"`
	VolunteerEmail string    `json:"volunteer_email" bson:"volunteer_email" gorm:"size:128;index:idx_request_volunteer" binding:"omitempty,email"`
	Suggestion     string    `json:"suggestion" bson:"suggestion" gorm:"type:text"`
	Status         string    `json:"status" bson:"status" gorm:"size:16;not null;default:'requested'"`
	DedupKey       string    `json:"-" bson:"dedup_key,omitempty" gorm:"size:255;uniqueIndex:uk_request_dedup"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

func (VolunteerRequest) TableName() string { return "requests" }

func (r *VolunteerRequest) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// DedupScope 决定去重键里用哪个邮箱
type DedupScope string

const (
	// DedupByOrganizer (organizer_email, id)，与线上历史行为一致
	DedupByOrganizer DedupScope = "organizer"
	// DedupByVolunteer (volunteer_email, id)，同一志愿者对同一帖子只能申请一次
	DedupByVolunteer DedupScope = "volunteer"
)

func ParseDedupScope(s string) (DedupScope, error) {
	switch DedupScope(s) {
	case "", DedupByOrganizer:
		return DedupByOrganizer, nil
	case DedupByVolunteer:
		return DedupByVolunteer, nil
	}
	return "", fmt.Errorf("unknown dedup scope %q", s)
}

// DedupKey 一条申请的去重键
type DedupKey struct {
	Scope  DedupScope
	Email  string
	PostID string
}

func NewDedupKey(scope DedupScope, r *VolunteerRequest) DedupKey {
	email := r.OrganizerEmail
	if scope == DedupByVolunteer {
		email = r.VolunteerEmail
	}
	return DedupKey{Scope: scope, Email: email, PostID: r.PostID}
}

// String 写入 dedup_key 字段的值，唯一索引建在它上面
func (k DedupKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Scope, k.Email, k.PostID)
}
