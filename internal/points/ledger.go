package points

import (
	"context"
	"fmt"
	"time"

	"ecopoints/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultCheckInReward = 10

	DescriptionCheckIn = "Daily Check-in Bonus"
)

type LedgerConfig struct {
	CheckInReward int
	Location      *time.Location
	Now           func() time.Time
}

// Ledger runs the point-changing flows. Each flow performs its writes in a
// single repository transaction.
type Ledger struct {
	repo          Repository
	checkInReward int
	location      *time.Location
	now           func() time.Time
}

func NewLedger(repo Repository, cfg LedgerConfig) *Ledger {
	l := &Ledger{
		repo:          repo,
		checkInReward: cfg.CheckInReward,
		location:      cfg.Location,
		now:           cfg.Now,
	}
	if l.checkInReward <= 0 {
		l.checkInReward = DefaultCheckInReward
	}
	if l.location == nil {
		l.location = time.UTC
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

func (l *Ledger) Today() string {
	return Today(l.now(), l.location)
}

type CheckInResult struct {
	Student *models.Student       `json:"student"`
	Entry   *models.PointsHistory `json:"entry"`
	Applied bool                  `json:"applied"`
}

type ChallengeResult struct {
	Student   *models.Student       `json:"student"`
	Challenge *models.Challenge     `json:"challenge"`
	Entry     *models.PointsHistory `json:"entry"`
	Applied   bool                  `json:"applied"`
}

type RedeemResult struct {
	Student *models.Student       `json:"student"`
	Reward  *models.UserReward    `json:"reward"`
	Entry   *models.PointsHistory `json:"entry"`
}

type MarkUsedResult struct {
	Reward  *models.UserReward `json:"reward"`
	Applied bool               `json:"applied"`
}

// ApplyEvent appends one ledger entry and moves the balance by delta.
func (l *Ledger) ApplyEvent(ctx context.Context, studentID string, delta int, cause models.PointsCause, description string) (*models.Student, *models.PointsHistory, error) {
	var (
		student *models.Student
		entry   *models.PointsHistory
	)
	err := l.repo.Atomic(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		student, entry, err = l.applyEvent(ctx, repo, studentID, delta, cause, description)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return student, entry, nil
}

func (l *Ledger) applyEvent(ctx context.Context, repo Repository, studentID string, delta int, cause models.PointsCause, description string) (*models.Student, *models.PointsHistory, error) {
	if !cause.Valid() {
		return nil, nil, fmt.Errorf("unknown points cause %q", cause)
	}

	entry := &models.PointsHistory{
		StudentID:    studentID,
		PointsChange: delta,
		Description:  description,
		Type:         cause,
		CreatedAt:    l.now().UTC(),
	}
	if err := repo.InsertLedgerEntry(ctx, entry); err != nil {
		return nil, nil, err
	}

	student, err := repo.AdjustBalance(ctx, studentID, delta)
	if err != nil {
		return nil, nil, err
	}
	return student, entry, nil
}

// CheckIn grants the daily bonus once per calendar day. A second call on the
// same day returns the unchanged student with Applied false.
func (l *Ledger) CheckIn(ctx context.Context, studentID string) (*CheckInResult, error) {
	day := l.Today()
	result := &CheckInResult{}

	err := l.repo.Atomic(ctx, func(ctx context.Context, repo Repository) error {
		stamped, err := repo.StampCheckIn(ctx, studentID, day)
		if err != nil {
			return err
		}
		if !stamped {
			result.Student, err = repo.FindStudent(ctx, studentID)
			return err
		}

		result.Student, result.Entry, err = l.applyEvent(ctx, repo, studentID, l.checkInReward, models.CauseCheckIn, DescriptionCheckIn)
		result.Applied = err == nil
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CompleteChallenge records today's completion and awards the challenge points.
func (l *Ledger) CompleteChallenge(ctx context.Context, studentID string, challengeID int64) (*ChallengeResult, error) {
	day := l.Today()
	result := &ChallengeResult{}

	err := l.repo.Atomic(ctx, func(ctx context.Context, repo Repository) error {
		challenge, err := repo.FindChallenge(ctx, challengeID)
		if err != nil {
			return err
		}
		result.Challenge = challenge

		inserted, err := repo.InsertCompletion(ctx, &models.ChallengeCompletion{
			ChallengeID: challengeID,
			StudentID:   studentID,
			CompletedAt: models.Date(day),
		})
		if err != nil {
			return err
		}
		challenge.Status = models.ChallengeStatusCompleted
		if !inserted {
			result.Student, err = repo.FindStudent(ctx, studentID)
			return err
		}

		result.Student, result.Entry, err = l.applyEvent(ctx, repo, studentID, challenge.PointsReward, models.CauseChallenge, "Completed: "+challenge.Title)
		result.Applied = err == nil
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Redeem buys a product with points. When the balance does not cover the cost
// nothing is written and ErrInsufficientPoints is returned.
func (l *Ledger) Redeem(ctx context.Context, studentID string, productID int64) (*RedeemResult, error) {
	result := &RedeemResult{}

	err := l.repo.Atomic(ctx, func(ctx context.Context, repo Repository) error {
		product, err := repo.FindProduct(ctx, productID)
		if err != nil {
			return err
		}

		student, err := repo.FindStudent(ctx, studentID)
		if err != nil {
			return err
		}
		if student.CurrentPoints < product.CostInPoints {
			return ErrInsufficientPoints
		}

		reward := &models.UserReward{
			ID:           uuid.NewString(),
			StudentID:    studentID,
			ProductID:    product.ID,
			Status:       models.UserRewardStatusActive,
			PurchaseDate: l.now().UTC(),
		}
		if err := repo.InsertUserReward(ctx, reward); err != nil {
			return err
		}
		result.Reward = reward

		result.Student, result.Entry, err = l.applyEvent(ctx, repo, studentID, -product.CostInPoints, models.CauseRewardPurchase, "Purchased: "+product.Name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkUsed moves a voucher from active to used. Marking a used voucher is a no-op.
func (l *Ledger) MarkUsed(ctx context.Context, studentID string, rewardID string) (*MarkUsedResult, error) {
	result := &MarkUsedResult{}

	err := l.repo.Atomic(ctx, func(ctx context.Context, repo Repository) error {
		reward, err := repo.FindUserReward(ctx, rewardID)
		if err != nil {
			return err
		}
		if reward.StudentID != studentID {
			return ErrNotFound
		}
		if reward.Used() {
			result.Reward = reward
			return nil
		}

		updated, err := repo.MarkUserRewardUsed(ctx, rewardID, l.now().UTC())
		if err != nil {
			return err
		}
		result.Applied = updated

		result.Reward, err = repo.FindUserReward(ctx, rewardID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Preview shows what a redemption would do to the balance without writing anything.
func (l *Ledger) Preview(ctx context.Context, studentID string, productID int64) (*models.PurchasePreview, error) {
	product, err := l.repo.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	student, err := l.repo.FindStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &models.PurchasePreview{
		Product:      product,
		Balance:      student.CurrentPoints,
		Cost:         product.CostInPoints,
		BalanceAfter: student.CurrentPoints - product.CostInPoints,
		CanAfford:    student.CurrentPoints >= product.CostInPoints,
	}, nil
}
