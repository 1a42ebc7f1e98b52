package pointstest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ecopoints/internal/models"
	"ecopoints/internal/points"
)

// Repository is an in-memory points.Repository for tests. Atomic serialises
// transactions, snapshots the whole state and restores it when the callback fails.
type Repository struct {
	tx sync.Mutex
	mu sync.Mutex

	Students    map[string]models.Student
	Ledger      []models.PointsHistory
	Challenges  map[int64]models.Challenge
	Completions map[string]models.ChallengeCompletion
	Levels      []models.Level
	Stores      map[int64]models.Store
	Products    map[int64]models.Product
	Rewards     map[string]models.UserReward
	Events      []models.Event

	FailLedgerInsert error
	FailAdjust       error
}

var _ points.Repository = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{
		Students:    map[string]models.Student{},
		Challenges:  map[int64]models.Challenge{},
		Completions: map[string]models.ChallengeCompletion{},
		Stores:      map[int64]models.Store{},
		Products:    map[int64]models.Product{},
		Rewards:     map[string]models.UserReward{},
	}
}

type state struct {
	students    map[string]models.Student
	ledger      []models.PointsHistory
	completions map[string]models.ChallengeCompletion
	rewards     map[string]models.UserReward
}

func (r *Repository) snapshot() state {
	st := state{
		students:    make(map[string]models.Student, len(r.Students)),
		ledger:      append([]models.PointsHistory(nil), r.Ledger...),
		completions: make(map[string]models.ChallengeCompletion, len(r.Completions)),
		rewards:     make(map[string]models.UserReward, len(r.Rewards)),
	}
	for k, v := range r.Students {
		st.students[k] = v
	}
	for k, v := range r.Completions {
		st.completions[k] = v
	}
	for k, v := range r.Rewards {
		st.rewards[k] = v
	}
	return st
}

func (r *Repository) restore(st state) {
	r.Students = st.students
	r.Ledger = st.ledger
	r.Completions = st.completions
	r.Rewards = st.rewards
}

func (r *Repository) Atomic(ctx context.Context, fn func(ctx context.Context, repo points.Repository) error) error {
	r.tx.Lock()
	defer r.tx.Unlock()

	r.mu.Lock()
	st := r.snapshot()
	r.mu.Unlock()

	if err := fn(ctx, r); err != nil {
		r.mu.Lock()
		r.restore(st)
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *Repository) FindStudent(ctx context.Context, studentID string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.Students[studentID]
	if !ok {
		return nil, points.ErrNotFound
	}
	return &s, nil
}

func (r *Repository) FindStudentByAuthID(ctx context.Context, authID string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Students {
		if s.AuthID == authID {
			s := s
			return &s, nil
		}
	}
	return nil, points.ErrNotFound
}

func (r *Repository) InsertStudent(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Students[student.StudentID] = *student
	return nil
}

func (r *Repository) StampCheckIn(ctx context.Context, studentID string, day string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.Students[studentID]
	if !ok {
		return false, points.ErrNotFound
	}
	if s.CheckedInOn(day) {
		return false, nil
	}
	d := models.Date(day)
	s.LastCheckInDate = &d
	r.Students[studentID] = s
	return true, nil
}

func (r *Repository) AdjustBalance(ctx context.Context, studentID string, delta int) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAdjust != nil {
		return nil, r.FailAdjust
	}
	s, ok := r.Students[studentID]
	if !ok {
		return nil, points.ErrNotFound
	}
	if s.CurrentPoints+delta < 0 {
		return nil, points.ErrInsufficientPoints
	}
	s.CurrentPoints += delta
	if delta >= 0 {
		s.LifetimePoints += delta
	}
	r.Students[studentID] = s
	return &s, nil
}

func (r *Repository) InsertLedgerEntry(ctx context.Context, entry *models.PointsHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailLedgerInsert != nil {
		return r.FailLedgerInsert
	}
	entry.ID = int64(len(r.Ledger) + 1)
	r.Ledger = append(r.Ledger, *entry)
	return nil
}

func (r *Repository) ListLedgerEntries(ctx context.Context, studentID string, limit int) ([]*models.PointsHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PointsHistory
	for i := len(r.Ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.Ledger[i].StudentID == studentID {
			e := r.Ledger[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.LeaderboardItem
	for _, s := range r.Students {
		out = append(out, &models.LeaderboardItem{StudentID: s.StudentID, Name: s.Name, LifetimePoints: s.LifetimePoints})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LifetimePoints == out[j].LifetimePoints {
			return out[i].StudentID > out[j].StudentID
		}
		return out[i].LifetimePoints > out[j].LifetimePoints
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repository) ListChallenges(ctx context.Context) ([]*models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Challenge
	for _, c := range r.Challenges {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) FindChallenge(ctx context.Context, challengeID int64) (*models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Challenges[challengeID]
	if !ok {
		return nil, points.ErrNotFound
	}
	return &c, nil
}

func CompletionKey(studentID string, challengeID int64, day string) string {
	return fmt.Sprintf("%s|%d|%s", studentID, challengeID, day)
}

func (r *Repository) ListCompletedChallengeIDs(ctx context.Context, studentID string, day string) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int64
	for _, c := range r.Completions {
		if c.StudentID == studentID && string(c.CompletedAt) == day {
			out = append(out, c.ChallengeID)
		}
	}
	return out, nil
}

func (r *Repository) InsertCompletion(ctx context.Context, completion *models.ChallengeCompletion) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := CompletionKey(completion.StudentID, completion.ChallengeID, string(completion.CompletedAt))
	if _, ok := r.Completions[key]; ok {
		return false, nil
	}
	r.Completions[key] = *completion
	return true, nil
}

func (r *Repository) ListLevels(ctx context.Context) ([]models.Level, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Level(nil), r.Levels...), nil
}

func (r *Repository) ListStores(ctx context.Context) ([]*models.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Store
	for _, s := range r.Stores {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) FindStore(ctx context.Context, storeID int64) (*models.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.Stores[storeID]
	if !ok {
		return nil, points.ErrNotFound
	}
	return &s, nil
}

func (r *Repository) ListProducts(ctx context.Context, storeID int64) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Product
	for _, p := range r.Products {
		if storeID == 0 || p.StoreID == storeID {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) FindProduct(ctx context.Context, productID int64) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Products[productID]
	if !ok {
		return nil, points.ErrNotFound
	}
	return &p, nil
}

func (r *Repository) InsertUserReward(ctx context.Context, reward *models.UserReward) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rewards[reward.ID] = *reward
	return nil
}

func (r *Repository) FindUserReward(ctx context.Context, rewardID string) (*models.UserReward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rw, ok := r.Rewards[rewardID]
	if !ok {
		return nil, points.ErrNotFound
	}
	return &rw, nil
}

func (r *Repository) MarkUserRewardUsed(ctx context.Context, rewardID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rw, ok := r.Rewards[rewardID]
	if !ok || rw.Status != models.UserRewardStatusActive {
		return false, nil
	}
	rw.Status = models.UserRewardStatusUsed
	rw.UsedDate = &at
	r.Rewards[rewardID] = rw
	return true, nil
}

func (r *Repository) ListUserRewards(ctx context.Context, studentID string) ([]*models.UserReward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UserReward
	for _, rw := range r.Rewards {
		if rw.StudentID == studentID {
			rw := rw
			out = append(out, &rw)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseDate.After(out[j].PurchaseDate) })
	return out, nil
}

func (r *Repository) ListEvents(ctx context.Context) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Event
	for _, e := range r.Events {
		e := e
		out = append(out, &e)
	}
	return out, nil
}

func (r *Repository) LedgerFor(studentID string) []models.PointsHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PointsHistory
	for _, e := range r.Ledger {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out
}
