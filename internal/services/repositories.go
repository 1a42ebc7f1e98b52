package services

import (
	"context"

	"ecopoints/internal/models"
)

// AccountStore keeps sign-in identities.
type AccountStore interface {
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account, student *models.Student) error
}

type ConfigStore interface {
	GetConfig(ctx context.Context, key string) (*models.Config, error)
	SetConfig(ctx context.Context, config *models.Config) error
}

type RewardStore interface {
	FindRewardDetails(ctx context.Context, rewardID string) (*models.RewardDetails, error)
}
