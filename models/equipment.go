package models

import "time"

const EquipmentTable = "mcr_equipment"

// Equipment condition values.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
	ConditionBroken    = "broken"
)

// Equipment is one physical, trackable item in the room. Checkout-attached
// fields are pointers on purpose: NULL means "absent", which is how the
// "currently checked out by" queries stay unambiguous — a returned item has
// those columns removed, not blanked.
type Equipment struct {
	ID          string   `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string   `gorm:"size:40;uniqueIndex;not null" json:"code"` // e.g. AMP01
	Name        string   `gorm:"size:200;not null" json:"name"`
	Category    string   `gorm:"size:80;index;not null" json:"category"`
	Location    string   `gorm:"size:120" json:"location"`
	Description string   `gorm:"size:2000" json:"description,omitempty"`
	LabelType   string   `gorm:"size:40" json:"labelType,omitempty"`
	Condition   string   `gorm:"size:20;not null;default:'good'" json:"condition"`
	Value       *float64 `json:"value,omitempty"`

	Status string `gorm:"size:20;not null;default:'Available';index" json:"status"`

	// present only while Status = Checked Out
	CheckedOutBy          *string    `gorm:"size:255;index" json:"checkedOutBy,omitempty"`
	LastCheckedOutByName  *string    `gorm:"size:255" json:"lastCheckedOutByName,omitempty"`
	LastCheckedOutByEmail *string    `gorm:"size:255" json:"lastCheckedOutByEmail,omitempty"`
	LastCheckedOut        *time.Time `json:"lastCheckedOut,omitempty"`
	CheckoutDescription   *string    `gorm:"size:500" json:"checkoutDescription,omitempty"`
	ExpectedReturn        *string    `gorm:"size:40" json:"expectedReturn,omitempty"`

	// history of the most recent completed cycle, kept across checkouts
	LastReturned        *time.Time `json:"lastReturned,omitempty"`
	LastReturnedBy      *string    `gorm:"size:255" json:"lastReturnedBy,omitempty"`
	LastReturnedByName  *string    `gorm:"size:255" json:"lastReturnedByName,omitempty"`
	LastReturnedByEmail *string    `gorm:"size:255" json:"lastReturnedByEmail,omitempty"`
	LastReturnedIssues  *string    `gorm:"size:1000" json:"lastReturnedIssues,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Equipment) TableName() string { return EquipmentTable }

func ValidCondition(c string) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor, ConditionBroken:
		return true
	}
	return false
}
