package models

import "time"

type UserSnapshot struct {
	ID      string `gorm:"size:36;index" json:"id" firestore:"id"`
	Name    string `gorm:"size:100" json:"name" firestore:"name"`
	Phone   string `gorm:"size:20" json:"phone" firestore:"phone"`
	Email   string `gorm:"size:100" json:"email,omitempty" firestore:"email,omitempty"`
	Address string `gorm:"size:255" json:"address" firestore:"address"`
}

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id" firestore:"-"`

	User UserSnapshot `gorm:"embedded;embeddedPrefix:user_" json:"user" firestore:"user"`

	Item   string `gorm:"size:150;not null" json:"item" firestore:"item"`
	Type   string `gorm:"size:20;not null" json:"type" firestore:"type"`
	Date   string `gorm:"size:10;index" json:"date" firestore:"date"`
	Time   string `gorm:"size:10" json:"time" firestore:"time"`
	Status string `gorm:"size:20;default:'Pending';index" json:"status" firestore:"status"`

	Clinic        string `gorm:"size:150" json:"clinic,omitempty" firestore:"clinic,omitempty"`
	ClinicAddress string `gorm:"size:255" json:"clinic_address,omitempty" firestore:"clinicAddress,omitempty"`
	TicketNumber  string `gorm:"size:50" json:"ticket_number,omitempty" firestore:"ticketNumber,omitempty"`
	Fees          string `gorm:"size:50" json:"fees,omitempty" firestore:"fees,omitempty"`

	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty" firestore:"confirmedAt,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty" firestore:"reminderSentAt,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
