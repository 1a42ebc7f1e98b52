package services

import (
	"context"
	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/pkg/caching"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// ServicePoints runs every balance-changing flow under a per-student lock and
// keeps the cached views in step with the ledger afterwards.
type ServicePoints struct {
	container *do.Injector
	repo      points.Repository
	cache     caching.Cache
	rs        *redsync.Redsync
	location  *time.Location
	logger    *zap.Logger

	serviceStudent     *ServiceStudent
	serviceLeaderboard *ServiceLeaderboard
	serviceConfig      *ServiceConfig
}

func NewServicePoints(container *do.Injector) (*ServicePoints, error) {
	repo, err := do.Invoke[points.Repository](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	location, err := do.Invoke[*time.Location](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceStudent, err := NewServiceStudent(container)
	if err != nil {
		return nil, err
	}

	serviceLeaderboard, err := NewServiceLeaderboard(container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := NewServiceConfig(container)
	if err != nil {
		return nil, err
	}

	return &ServicePoints{container, repo, cache, rs, location, logger, serviceStudent, serviceLeaderboard, serviceConfig}, nil
}

func (service *ServicePoints) ledger(ctx context.Context) *points.Ledger {
	reward, _ := service.serviceConfig.GetIntConfig(ctx, models.ConfigCheckInReward, DEFAULT_CHECK_IN_REWARD)
	return points.NewLedger(service.repo, points.LedgerConfig{
		CheckInReward: reward,
		Location:      service.location,
	})
}

// withStudentLock rejects a second concurrent action for the same student
// instead of queueing it behind the first. Snapshot writes for a flow happen
// inside fn so they are ordered per student.
func (service *ServicePoints) withStudentLock(studentID string, fn func() error) error {
	mutex := service.rs.NewMutex(LockKeyStudentPoints(studentID), redsync.WithExpiry(LOCK_EXPIRY), redsync.WithTries(1))
	if err := mutex.TryLock(); err != nil {
		return ErrActionInProgress
	}
	// nolint:errcheck
	defer mutex.Unlock()

	return fn()
}

func (service *ServicePoints) afterBalanceChange(ctx context.Context, student *models.Student) {
	if err := service.serviceStudent.InvalidateStudent(ctx, student); err != nil {
		service.logger.Warn("invalidate student cache", zap.String("student_id", student.StudentID), zap.Error(err))
	}
	if err := service.serviceLeaderboard.UpdateStudent(ctx, student); err != nil {
		service.logger.Warn("update leaderboard", zap.String("student_id", student.StudentID), zap.Error(err))
	}
}

func (service *ServicePoints) CheckIn(ctx context.Context, student *models.Student) (*points.CheckInResult, error) {
	var result *points.CheckInResult
	err := service.withStudentLock(student.StudentID, func() (err error) {
		result, err = service.ledger(ctx).CheckIn(ctx, student.StudentID)
		if err != nil || !result.Applied {
			return err
		}
		service.afterBalanceChange(ctx, result.Student)
		service.serviceStudent.UpdateSession(ctx, student.StudentID, func(session *points.Session) {
			session.ApplyCheckIn(result)
		})
		return nil
	})
	if err != nil {
		return nil, toErrorx(err)
	}

	if result.Applied {
		service.logger.Info("daily check-in",
			zap.String("student_id", student.StudentID),
			zap.Int("points", result.Entry.PointsChange),
			zap.Int("current_points", result.Student.CurrentPoints),
		)
	}

	return result, nil
}

func (service *ServicePoints) CompleteChallenge(ctx context.Context, student *models.Student, challengeID int64) (*points.ChallengeResult, error) {
	var result *points.ChallengeResult
	err := service.withStudentLock(student.StudentID, func() (err error) {
		result, err = service.ledger(ctx).CompleteChallenge(ctx, student.StudentID, challengeID)
		if err != nil || !result.Applied {
			return err
		}
		service.afterBalanceChange(ctx, result.Student)
		service.serviceStudent.UpdateSession(ctx, student.StudentID, func(session *points.Session) {
			session.ApplyChallenge(result)
		})
		return nil
	})
	if err != nil {
		return nil, toErrorx(err)
	}

	if result.Applied {
		service.logger.Info("challenge completed",
			zap.String("student_id", student.StudentID),
			zap.Int64("challenge_id", challengeID),
			zap.Int("points", result.Entry.PointsChange),
		)
	}

	return result, nil
}

func (service *ServicePoints) Redeem(ctx context.Context, student *models.Student, productID int64) (*points.RedeemResult, error) {
	var result *points.RedeemResult
	err := service.withStudentLock(student.StudentID, func() (err error) {
		result, err = service.ledger(ctx).Redeem(ctx, student.StudentID, productID)
		if err != nil {
			return err
		}
		service.afterBalanceChange(ctx, result.Student)
		service.serviceStudent.UpdateSession(ctx, student.StudentID, func(session *points.Session) {
			session.ApplyRedeem(result)
		})
		return nil
	})
	if err != nil {
		return nil, toErrorx(err)
	}

	service.logger.Info("reward redeemed",
		zap.String("student_id", student.StudentID),
		zap.Int64("product_id", productID),
		zap.String("user_reward_id", result.Reward.ID),
		zap.Int("current_points", result.Student.CurrentPoints),
	)

	return result, nil
}

func (service *ServicePoints) MarkUsed(ctx context.Context, student *models.Student, rewardID string) (*points.MarkUsedResult, error) {
	var result *points.MarkUsedResult
	err := service.withStudentLock(student.StudentID, func() (err error) {
		result, err = service.ledger(ctx).MarkUsed(ctx, student.StudentID, rewardID)
		if err != nil || !result.Applied {
			return err
		}
		service.serviceStudent.UpdateSession(ctx, student.StudentID, func(session *points.Session) {
			session.ApplyMarkUsed(result)
		})
		return nil
	})
	if err != nil {
		return nil, toErrorx(err)
	}

	return result, nil
}

func (service *ServicePoints) Preview(ctx context.Context, student *models.Student, productID int64) (*models.PurchasePreview, error) {
	preview, err := service.ledger(ctx).Preview(ctx, student.StudentID, productID)
	if err != nil {
		return nil, toErrorx(err)
	}
	return preview, nil
}
