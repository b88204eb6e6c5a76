// models/equipment.go
package models

import "time"

const EquipmentTable = "club_equipment"
const CheckoutTable = "club_checkouts"
const DeficiencyTable = "club_deficiencies"

// Equipment categories. Fixed set, used for maintenance interval lookup.
const (
	CategoryGrounds    = "Grounds"
	CategoryTools      = "Tools"
	CategoryCleaning   = "Cleaning"
	CategoryElectrical = "Electrical"
	CategoryEvents     = "Events"
	CategoryShop       = "Shop"
	CategoryRange      = "Range"
	CategoryOther      = "Other"
)

// Equipment status values. Status is a cached derivation: recomputed from
// open checkouts, pending major deficiencies and the manual out_of_service
// flag after every lifecycle operation. Nothing else writes it.
const (
	StatusAvailable    = "available"
	StatusCheckedOut   = "checked-out"
	StatusNeedsRepair  = "needs-repair"
	StatusOutOfService = "out-of-service"
)

var Categories = []string{
	CategoryGrounds, CategoryTools, CategoryCleaning, CategoryElectrical,
	CategoryEvents, CategoryShop, CategoryRange, CategoryOther,
}

func ValidCategory(c string) bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

type Equipment struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Code     string `gorm:"size:20;uniqueIndex;not null" json:"code"` // EQ001, EQ002, ...
	Name     string `gorm:"size:200;not null" json:"name"`
	Category string `gorm:"size:20;not null" json:"category"`
	Location string `gorm:"size:200" json:"location,omitempty"`

	Status       string `gorm:"size:20;not null;default:'available'" json:"status"`
	OutOfService bool   `gorm:"not null;default:false" json:"outOfService"` // manual override, yields to repair/checkout

	LastMaintenance *time.Time `json:"lastMaintenance,omitempty"`
	Notes           string     `gorm:"size:500" json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Equipment) TableName() string { return EquipmentTable }
