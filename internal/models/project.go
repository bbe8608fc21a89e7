package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	Title      string         `gorm:"type:varchar(200);not null" json:"title"`
	SheetURL   string         `gorm:"type:varchar(500)" json:"sheet_url"`
	InviteCode string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	IsActive   bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}
