package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	trackingcodedto "github.com/LavaJover/shvark-ftd-service/internal/usecase/dto/trackingcode"
)

type stubTrackingCodeRepo struct {
	codes []*domain.TrackingCode
}

func (r *stubTrackingCodeRepo) ListTrackingCodes(context.Context) ([]*domain.TrackingCode, error) {
	return r.codes, nil
}

func (r *stubTrackingCodeRepo) ListTrackingCodesByOwner(_ context.Context, ownerID string) ([]*domain.TrackingCode, error) {
	var out []*domain.TrackingCode
	for _, c := range r.codes {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubTrackingCodeRepo) CreateTrackingCode(_ context.Context, code *domain.TrackingCode) error {
	for _, c := range r.codes {
		if c.Code == code.Code {
			return domain.ErrTrackingCodeExists
		}
	}
	r.codes = append(r.codes, code)
	return nil
}

func (r *stubTrackingCodeRepo) DeleteTrackingCode(context.Context, string) error { return nil }

func TestTrackingCodeUsecase(t *testing.T) {
	repo := &stubTrackingCodeRepo{}
	uc := NewDefaultTrackingCodeUsecase(repo)
	ctx := context.Background()

	if _, err := uc.CreateTrackingCode(ctx, &trackingcodedto.CreateTrackingCodeInput{Code: "  ", OwnerID: "O"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	created, err := uc.CreateTrackingCode(ctx, &trackingcodedto.CreateTrackingCodeInput{Code: " code-O ", OwnerID: "O"})
	if err != nil {
		t.Fatalf("CreateTrackingCode: %v", err)
	}
	if created.Code != "code-O" || created.ID == "" {
		t.Fatalf("unexpected code %+v", created)
	}
	if _, err := uc.CreateTrackingCode(ctx, &trackingcodedto.CreateTrackingCodeInput{Code: "code-O", OwnerID: "P"}); !errors.Is(err, domain.ErrTrackingCodeExists) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := uc.CreateTrackingCode(ctx, &trackingcodedto.CreateTrackingCodeInput{Code: "code-P", OwnerID: "P"}); err != nil {
		t.Fatalf("CreateTrackingCode: %v", err)
	}

	owned, _ := uc.ListTrackingCodes(ctx, "P")
	all, _ := uc.ListTrackingCodes(ctx, "")
	if len(owned) != 1 || len(all) != 2 {
		t.Fatalf("expected 1 owned and 2 total, got %d and %d", len(owned), len(all))
	}
}
