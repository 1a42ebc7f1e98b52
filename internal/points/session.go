package points

import (
	"context"
	"sync"

	"ecopoints/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultHistoryLimit     = 20
	DefaultLeaderboardLimit = 10
)

type SessionOptions struct {
	Day              string
	HistoryLimit     int
	LeaderboardLimit int
}

// Session is the per-student projection a dashboard renders from. It is
// loaded once and then patched by the results of each flow.
type Session struct {
	mu sync.RWMutex

	Student     *models.Student           `json:"student" msgpack:"student"`
	Level       LevelInfo                 `json:"level" msgpack:"level"`
	Levels      []models.Level            `json:"levels" msgpack:"levels"`
	History     []*models.PointsHistory   `json:"history" msgpack:"history"`
	Leaderboard []*models.LeaderboardItem `json:"leaderboard" msgpack:"leaderboard"`
	Challenges  []*models.Challenge       `json:"challenges" msgpack:"challenges"`
	Stores      []*models.Store           `json:"stores" msgpack:"stores"`
	Rewards     []*models.UserReward      `json:"rewards" msgpack:"rewards"`
	Events      []*models.Event           `json:"events" msgpack:"events"`
	Day         string                    `json:"day" msgpack:"day"`
	HistorySize int                       `json:"-" msgpack:"history_size"`
}

// LoadSession fetches everything a dashboard needs concurrently.
func LoadSession(ctx context.Context, repo Repository, studentID string, opts SessionOptions) (*Session, error) {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.LeaderboardLimit <= 0 {
		opts.LeaderboardLimit = DefaultLeaderboardLimit
	}

	s := &Session{Day: opts.Day, HistorySize: opts.HistoryLimit}

	var (
		completed []int64
		products  []*models.Product
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		s.Student, err = repo.FindStudent(ctx, studentID)
		return err
	})
	eg.Go(func() (err error) {
		s.Levels, err = repo.ListLevels(ctx)
		return err
	})
	eg.Go(func() (err error) {
		s.History, err = repo.ListLedgerEntries(ctx, studentID, opts.HistoryLimit)
		return err
	})
	eg.Go(func() (err error) {
		s.Leaderboard, err = repo.Leaderboard(ctx, opts.LeaderboardLimit)
		return err
	})
	eg.Go(func() (err error) {
		s.Challenges, err = repo.ListChallenges(ctx)
		return err
	})
	eg.Go(func() (err error) {
		completed, err = repo.ListCompletedChallengeIDs(ctx, studentID, opts.Day)
		return err
	})
	eg.Go(func() (err error) {
		s.Stores, err = repo.ListStores(ctx)
		return err
	})
	eg.Go(func() (err error) {
		products, err = repo.ListProducts(ctx, 0)
		return err
	})
	eg.Go(func() (err error) {
		s.Rewards, err = repo.ListUserRewards(ctx, studentID)
		return err
	})
	eg.Go(func() (err error) {
		s.Events, err = repo.ListEvents(ctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	ApplyChallengeStatus(s.Challenges, completed)
	AttachProducts(s.Stores, products)
	for i, item := range s.Leaderboard {
		item.Rank = i + 1
	}
	s.Level = ResolveLevel(s.Levels, s.Student.LifetimePoints)

	return s, nil
}

// ApplyChallengeStatus marks each challenge active or completed for the day.
func ApplyChallengeStatus(challenges []*models.Challenge, completedIDs []int64) {
	done := make(map[int64]bool, len(completedIDs))
	for _, id := range completedIDs {
		done[id] = true
	}
	for _, challenge := range challenges {
		challenge.Status = models.ChallengeStatusActive
		if done[challenge.ID] {
			challenge.Status = models.ChallengeStatusCompleted
		}
	}
}

func AttachProducts(stores []*models.Store, products []*models.Product) {
	byStore := make(map[int64][]*models.Product, len(stores))
	for _, product := range products {
		byStore[product.StoreID] = append(byStore[product.StoreID], product)
	}
	for _, store := range stores {
		store.Products = byStore[store.ID]
	}
}

func (s *Session) LevelView() LevelView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ResolveLevelView(s.Levels, s.Student.LifetimePoints)
}

func (s *Session) setStudent(student *models.Student) {
	if student == nil {
		return
	}
	s.Student = student
	s.Level = ResolveLevel(s.Levels, student.LifetimePoints)
}

func (s *Session) prependHistory(entry *models.PointsHistory) {
	if entry == nil {
		return
	}
	s.History = append([]*models.PointsHistory{entry}, s.History...)
	if s.HistorySize > 0 && len(s.History) > s.HistorySize {
		s.History = s.History[:s.HistorySize]
	}
}

func (s *Session) ApplyCheckIn(result *CheckInResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStudent(result.Student)
	s.prependHistory(result.Entry)
}

func (s *Session) ApplyChallenge(result *ChallengeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStudent(result.Student)
	s.prependHistory(result.Entry)
	for _, challenge := range s.Challenges {
		if result.Challenge != nil && challenge.ID == result.Challenge.ID {
			challenge.Status = models.ChallengeStatusCompleted
		}
	}
}

func (s *Session) ApplyRedeem(result *RedeemResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStudent(result.Student)
	s.prependHistory(result.Entry)
	if result.Reward != nil {
		s.Rewards = append([]*models.UserReward{result.Reward}, s.Rewards...)
	}
}

func (s *Session) ApplyMarkUsed(result *MarkUsedResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, reward := range s.Rewards {
		if result.Reward != nil && reward.ID == result.Reward.ID {
			s.Rewards[i] = result.Reward
		}
	}
}
