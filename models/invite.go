package models

import "time"

// Invite carries the role and member number the registering user will get.
type Invite struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"index;size:255;not null"`
	MemberNumber int64     `gorm:"not null"`
	Role         string    `gorm:"size:20;not null;default:'volunteer'"`
	Token        string    `gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt    time.Time `gorm:"index;not null"`
	UsedAt       *time.Time
	CreatedBy    string `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Invite) TableName() string { return "club_invites" }
