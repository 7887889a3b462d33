package models

import "time"

// Credential lives apart from the profile so user reads never carry the hash.
type Credential struct {
	UserID       string    `gorm:"primaryKey;size:36" json:"-" firestore:"-"`
	PasswordHash string    `gorm:"size:255;not null" json:"-" firestore:"password"`
	UpdatedAt    time.Time `json:"-" firestore:"updatedAt"`
}

func (Credential) TableName() string {
	return "user_passwords"
}
