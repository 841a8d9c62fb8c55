package models

import "time"

const ReservationTable = "mcr_reservations"

// Reservation statuses.
const (
	ReservationPending  = "pending"
	ReservationApproved = "approved"
	ReservationDenied   = "denied"
)

// Reservation is a room-booking request. This is a manual form workflow
// reviewed by admins; it never touches equipment status.
type Reservation struct {
	ID              string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string `gorm:"type:uuid;index;not null" json:"userId"`
	RequestedBy     string `gorm:"size:255;not null" json:"requestedBy"` // email
	RequestedByName string `gorm:"size:255" json:"requestedByName"`

	Date      string `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	StartTime string `gorm:"size:5;not null" json:"startTime"`   // HH:MM
	EndTime   string `gorm:"size:5;not null" json:"endTime"`
	Purpose   string `gorm:"size:500" json:"purpose"`

	Status    string     `gorm:"size:16;not null;default:'pending';index" json:"status"`
	DecidedBy *string    `gorm:"size:255" json:"decidedBy,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Reservation) TableName() string { return ReservationTable }
