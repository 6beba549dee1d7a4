package models

import "time"

type FtdAssignmentModel struct {
	ID               string    `gorm:"primaryKey;type:uuid"`
	ExternalTraderID string    `gorm:"not null;uniqueIndex"`
	AssignedUserID   string    `gorm:"not null;index"`
	RegistrationDate time.Time `gorm:"not null"`
	TrackingCode     string    `gorm:"not null;index"`
	Afp              string
	Note             string
	AttributedAt     time.Time `gorm:"not null;index"`
}

func (FtdAssignmentModel) TableName() string { return "ftd_assignments" }
