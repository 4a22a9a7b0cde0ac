package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post 志愿者招募帖
type Post struct {
	ID                   string    `json:"_id" bson:"-" gorm:"primaryKey;size:36"`
	Thumbnail            string    `json:"thumbnail" bson:"thumbnail" gorm:"size:512"`
	PostTitle            string    `json:"postTitle" bson:"postTitle" gorm:"size:200;not null" binding:"required,notblank"`
	Description          string    `json:"description" bson:"description" gorm:"type:text"`
	Category             string    `json:"category" bson:"category" gorm:"size:64"`
	Location             string    `json:"location" bson:"location" gorm:"size:128"`
	NoOfVolunteersNeeded int       `json:"noOfVolunteersNeeded" bson:"noOfVolunteersNeeded" gorm:"not null;default:0" binding:"gte=0"`
	Date                 time.Time `json:"date" bson:"date" gorm:"index:idx_post_date"`
	OrganizerName        string    `json:"organizer_name" bson:"organizer_name" gorm:"size:64"`
	OrganizerEmail       string    `json:"organizer_email" bson:"organizer_email" gorm:"size:128;not null;index:idx_post_organizer" binding:"required,email"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (Post) TableName() string { return "posts" }

// BeforeCreate mysql 下由服务端生成 uuid 主键
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
