package services

import (
	"context"
	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/pkg/qrcode"

	"github.com/samber/do"
)

type ServiceReward struct {
	container    *do.Injector
	readonlyRepo points.Repository
	rewards      RewardStore
	qr           *qrcode.Generator
}

func NewServiceReward(container *do.Injector) (*ServiceReward, error) {
	readonlyRepo, err := do.InvokeNamed[points.Repository](container, "repository-readonly")
	if err != nil {
		return nil, err
	}

	rewards, err := do.Invoke[RewardStore](container)
	if err != nil {
		return nil, err
	}

	qr, err := do.Invoke[*qrcode.Generator](container)
	if err != nil {
		return nil, err
	}

	return &ServiceReward{container, readonlyRepo, rewards, qr}, nil
}

func (service *ServiceReward) ListRewards(ctx context.Context, student *models.Student) ([]*models.UserReward, error) {
	rewards, err := service.readonlyRepo.ListUserRewards(ctx, student.StudentID)
	if err != nil {
		return nil, toErrorx(err)
	}
	return rewards, nil
}

// GetRewardDetails returns the voucher with its product, store and QR code.
// Vouchers of other students are reported as missing.
func (service *ServiceReward) GetRewardDetails(ctx context.Context, student *models.Student, rewardID string) (*models.RewardDetails, error) {
	details, err := service.rewards.FindRewardDetails(ctx, ResolveRewardID(rewardID))
	if err != nil {
		return nil, toErrorx(err)
	}
	if details.StudentID != student.StudentID {
		return nil, toErrorx(points.ErrNotFound)
	}

	details.QRPayload = qrcode.Payload(details.UserRewardID)
	details.QRCodeURL = service.qr.ImageURL(details.UserRewardID)
	return details, nil
}

// GetQRImage proxies the voucher's QR image through our own origin.
func (service *ServiceReward) GetQRImage(ctx context.Context, student *models.Student, rewardID string) ([]byte, string, error) {
	reward, err := service.readonlyRepo.FindUserReward(ctx, ResolveRewardID(rewardID))
	if err != nil {
		return nil, "", toErrorx(err)
	}
	if reward.StudentID != student.StudentID {
		return nil, "", toErrorx(points.ErrNotFound)
	}

	b, contentType, err := service.qr.Fetch(ctx, reward.ID)
	if err != nil {
		return nil, "", toErrorx(err)
	}
	return b, contentType, nil
}

// ResolveRewardID accepts either a bare voucher id or a scanned QR payload.
func ResolveRewardID(raw string) string {
	if id, ok := qrcode.ParsePayload(raw); ok {
		return id
	}
	return raw
}
