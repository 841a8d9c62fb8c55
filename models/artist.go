package models

import "time"

const ArtistTable = "mcr_artists"

// Artist is one roster entry, owned by the member that created it.
type Artist struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Instruments string `gorm:"size:255" json:"instruments,omitempty"`
	Genres      string `gorm:"size:255" json:"genres,omitempty"`
	Bio         string `gorm:"size:2000" json:"bio,omitempty"`
	Links       string `gorm:"size:500" json:"links,omitempty"`

	OwnerEmail string `gorm:"size:255;index;not null" json:"ownerEmail"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Artist) TableName() string { return ArtistTable }
