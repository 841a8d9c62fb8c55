package models

import "time"

const EquipmentLogTable = "mcr_equipment_log"

// EquipmentLog is one append-only audit record of a checkout or return. The
// equipment name is denormalized at write time so the log stays readable even
// after the item is renamed or deleted. Rows are never updated or removed by
// the application.
type EquipmentLog struct {
	ID            string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EquipmentID   string    `gorm:"type:uuid;index;not null" json:"equipmentId"`
	EquipmentName string    `gorm:"size:200;not null" json:"equipmentName"`
	Action        string    `gorm:"size:16;index;not null" json:"action"` // checkout | return
	UserID        string    `gorm:"size:36;index" json:"userId"`
	UserName      string    `gorm:"size:255" json:"userName"`
	UserEmail     string    `gorm:"size:255;index" json:"userEmail"`
	Description   string    `gorm:"size:500" json:"description,omitempty"` // checkout purpose
	Issues        string    `gorm:"size:1000" json:"issues,omitempty"`     // return notes
	Timestamp     time.Time `gorm:"index;not null" json:"timestamp"`
}

func (EquipmentLog) TableName() string { return EquipmentLogTable }
