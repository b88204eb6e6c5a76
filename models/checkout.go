// models/checkout.go
package models

import "time"

const (
	UseTypeClub     = "club"
	UseTypePersonal = "personal"
)

// Return conditions. Empty until the checkout is returned.
const (
	ConditionGood       = "good"
	ConditionDeficiency = "deficiency"
)

// Checkout is immutable once returned; the single mutation is the return
// itself. A partial unique index keeps at most one row per equipment with
// returned_at IS NULL (see db.Migrate).
type Checkout struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	EquipmentID string `gorm:"type:uuid;index;not null" json:"equipmentId"`
	UserID      string `gorm:"type:uuid;index;not null" json:"userId"`

	CheckedOutAt   time.Time  `gorm:"index;not null" json:"checkedOutAt"`
	ExpectedReturn *time.Time `json:"expectedReturn,omitempty"`
	ReturnedAt     *time.Time `gorm:"index" json:"returnedAt,omitempty"`

	UseType         string `gorm:"size:20;not null" json:"useType"` // club|personal
	Purpose         string `gorm:"size:255" json:"purpose,omitempty"`
	ReturnCondition string `gorm:"size:20" json:"returnCondition,omitempty"` // good|deficiency

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Checkout) TableName() string { return CheckoutTable }
