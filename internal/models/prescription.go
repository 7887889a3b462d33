package models

import "time"

type Prescription struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserID   string `gorm:"size:36;index;not null" json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"`

	FileName    string `gorm:"size:255;not null" json:"file_name"`
	ObjectKey   string `gorm:"size:255;not null" json:"-"`
	ContentType string `gorm:"size:50" json:"content_type"`
	Size        int64  `json:"size"`

	Purpose string `gorm:"size:20" json:"purpose"`
	Status  string `gorm:"size:20;default:'Pending Review';index" json:"status"`

	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
