package domain

import (
	"context"
	"time"
)

type TrackingCode struct {
	ID          string
	Code        string
	OwnerID     string
	DisplayName string
	Afp         string
	CreatedAt   time.Time
}

type TrackingCodeRepository interface {
	ListTrackingCodes(ctx context.Context) ([]*TrackingCode, error)
	ListTrackingCodesByOwner(ctx context.Context, ownerID string) ([]*TrackingCode, error)
	CreateTrackingCode(ctx context.Context, code *TrackingCode) error
	DeleteTrackingCode(ctx context.Context, codeID string) error
}
