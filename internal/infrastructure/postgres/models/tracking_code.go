package models

import "time"

type TrackingCodeModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	Code        string `gorm:"not null;uniqueIndex"`
	OwnerID     string `gorm:"not null;index"`
	DisplayName string
	Afp         string
	CreatedAt   time.Time
}

func (TrackingCodeModel) TableName() string { return "tracking_codes" }
