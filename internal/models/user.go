package models

import "time"

type User struct {
	ID      string `gorm:"primaryKey;size:36" json:"id" firestore:"-"`
	Phone   string `gorm:"size:20;index:idx_users_phone,unique,where:phone <> ''" json:"phone" firestore:"phone"`
	Email   string `gorm:"size:100;index:idx_users_email,unique,where:email <> ''" json:"email" firestore:"email"`
	Name    string `gorm:"size:100" json:"name" firestore:"name"`
	Address string `gorm:"size:255" json:"address" firestore:"address"`
	Role    string `gorm:"size:20;default:'user'" json:"role" firestore:"role"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Snapshot copies the fields an appointment keeps about its booker.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:      u.ID,
		Name:    u.Name,
		Phone:   u.Phone,
		Email:   u.Email,
		Address: u.Address,
	}
}
