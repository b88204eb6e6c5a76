// models/deficiency.go
package models

import "time"

const (
	SeverityMinor = "minor"
	SeverityMajor = "major"
)

const (
	DeficiencyPending  = "pending"
	DeficiencyResolved = "resolved"
)

// Deficiency is created on a bad return or reported standalone. A pending
// major deficiency forces the equipment to needs-repair until resolved.
type Deficiency struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	EquipmentID string  `gorm:"type:uuid;index;not null" json:"equipmentId"`
	CheckoutID  *string `gorm:"type:uuid;index" json:"checkoutId,omitempty"` // set when raised by a return

	ReportedBy string    `gorm:"type:uuid;not null" json:"reportedBy"`
	ReportedAt time.Time `gorm:"index;not null" json:"reportedAt"`

	Description string `gorm:"size:500;not null" json:"description"`
	Severity    string `gorm:"size:10;not null" json:"severity"`                 // minor|major
	Status      string `gorm:"size:10;not null;default:'pending'" json:"status"` // pending|resolved

	ResolvedBy      *string    `gorm:"type:uuid" json:"resolvedBy,omitempty"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`
	ResolutionNotes string     `gorm:"size:500" json:"resolutionNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Deficiency) TableName() string { return DeficiencyTable }
