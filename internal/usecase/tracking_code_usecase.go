package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	trackingcodedto "github.com/LavaJover/shvark-ftd-service/internal/usecase/dto/trackingcode"
	"github.com/google/uuid"
)

type TrackingCodeUsecase interface {
	ListTrackingCodes(ctx context.Context, ownerID string) ([]*domain.TrackingCode, error)
	CreateTrackingCode(ctx context.Context, input *trackingcodedto.CreateTrackingCodeInput) (*domain.TrackingCode, error)
	DeleteTrackingCode(ctx context.Context, codeID string) error
}

type DefaultTrackingCodeUsecase struct {
	trackingCodeRepo domain.TrackingCodeRepository
}

func NewDefaultTrackingCodeUsecase(repo domain.TrackingCodeRepository) *DefaultTrackingCodeUsecase {
	return &DefaultTrackingCodeUsecase{trackingCodeRepo: repo}
}

// ListTrackingCodes returns every code, or the owner's codes when ownerID is set.
func (uc *DefaultTrackingCodeUsecase) ListTrackingCodes(ctx context.Context, ownerID string) ([]*domain.TrackingCode, error) {
	if ownerID == "" {
		return uc.trackingCodeRepo.ListTrackingCodes(ctx)
	}
	return uc.trackingCodeRepo.ListTrackingCodesByOwner(ctx, ownerID)
}

func (uc *DefaultTrackingCodeUsecase) CreateTrackingCode(ctx context.Context, input *trackingcodedto.CreateTrackingCodeInput) (*domain.TrackingCode, error) {
	code := &domain.TrackingCode{
		ID:          uuid.New().String(),
		Code:        strings.TrimSpace(input.Code),
		OwnerID:     input.OwnerID,
		DisplayName: input.DisplayName,
		Afp:         input.Afp,
	}
	if code.Code == "" || code.OwnerID == "" {
		return nil, fmt.Errorf("%w: code and owner are required", domain.ErrInvalidInput)
	}
	if err := uc.trackingCodeRepo.CreateTrackingCode(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

func (uc *DefaultTrackingCodeUsecase) DeleteTrackingCode(ctx context.Context, codeID string) error {
	return uc.trackingCodeRepo.DeleteTrackingCode(ctx, codeID)
}
