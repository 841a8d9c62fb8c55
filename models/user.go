package models

import "time"

const UserTable = "mcr_users"

// User is one member profile. SchoolID is the 8-digit student ID the member
// signs in with; Email is derived from it (or supplied, institutional domain
// only). QuizPassed and EmailVerified gate checkout and login respectively.
type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	SchoolID  string `gorm:"size:8;uniqueIndex;not null" json:"schoolId"`
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`

	// bcrypt hash of the password-equivalent derived from the school ID
	SecretHash string `gorm:"size:100;not null" json:"-"`

	IsAdmin       bool `gorm:"not null;default:false" json:"isAdmin"`
	QuizPassed    bool `gorm:"not null;default:false" json:"quizPassed"`
	EmailVerified bool `gorm:"not null;default:false" json:"emailVerified"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }

// DisplayName is "First Last", falling back to the email when either part is
// missing.
func (u *User) DisplayName() string {
	if u.FirstName == "" || u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}
