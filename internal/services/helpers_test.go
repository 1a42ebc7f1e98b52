package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ecopoints/internal/interfaces"
	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"ecopoints/internal/points/pointstest"
	"ecopoints/internal/pkg/caching"
	"ecopoints/internal/pkg/limiter"
	"ecopoints/internal/pkg/qrcode"
	"ecopoints/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAccounts struct {
	mu       sync.Mutex
	repo     *pointstest.Repository
	accounts map[string]models.Account
	configs  map[string]string
}

func (f *fakeAccounts) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[strings.ToLower(email)]
	if !ok {
		return nil, points.ErrNotFound
	}
	return &account, nil
}

func (f *fakeAccounts) CreateAccount(ctx context.Context, account *models.Account, student *models.Student) error {
	f.mu.Lock()
	f.accounts[strings.ToLower(account.Email)] = *account
	f.mu.Unlock()
	student.AuthID = account.ID
	return f.repo.InsertStudent(ctx, student)
}

func (f *fakeAccounts) GetConfig(ctx context.Context, key string) (*models.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.configs[key]
	if !ok {
		return nil, points.ErrNotFound
	}
	return &models.Config{Key: key, Value: value}, nil
}

func (f *fakeAccounts) SetConfig(ctx context.Context, config *models.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs[config.Key] = config.Value
	return nil
}

// FindRewardDetails joins the in-memory tables the way the SQL join does.
func (f *fakeAccounts) FindRewardDetails(ctx context.Context, rewardID string) (*models.RewardDetails, error) {
	reward, err := f.repo.FindUserReward(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	product, err := f.repo.FindProduct(ctx, reward.ProductID)
	if err != nil {
		return nil, err
	}
	store, err := f.repo.FindStore(ctx, product.StoreID)
	if err != nil {
		return nil, err
	}
	return &models.RewardDetails{
		UserRewardID: reward.ID,
		StudentID:    reward.StudentID,
		ProductID:    product.ID,
		Name:         product.Name,
		Images:       product.Images,
		Instructions: product.Instructions,
		StoreName:    store.Name,
		StoreLogo:    store.LogoURL,
		PurchaseDate: reward.PurchaseDate,
		Status:       reward.Status,
		UsedDate:     reward.UsedDate,
	}, nil
}

type testEnv struct {
	container *do.Injector
	repo      *pointstest.Repository
	stores    *fakeAccounts
	redis     redis.UniversalClient
	mr        *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	qrServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png:" + r.URL.Query().Get("data")))
	}))
	t.Cleanup(qrServer.Close)

	repo := pointstest.NewRepository()
	repo.Levels = append(repo.Levels, models.DefaultLevels...)
	stores := &fakeAccounts{repo: repo, accounts: map[string]models.Account{}, configs: map[string]string{}}

	container := do.New()
	do.ProvideNamedValue(container, "redis-db", redis.UniversalClient(client))
	do.ProvideValue(container, points.Repository(repo))
	do.ProvideNamedValue(container, "repository-readonly", points.Repository(repo))
	do.ProvideValue(container, services.AccountStore(stores))
	do.ProvideValue(container, services.ConfigStore(stores))
	do.ProvideValue(container, services.RewardStore(stores))
	do.ProvideValue(container, time.UTC)
	do.ProvideValue(container, zap.NewNop())
	do.ProvideValue(container, qrcode.NewGenerator(qrServer.URL, time.Second))
	do.Provide(container, func(i *do.Injector) (caching.Cache, error) {
		return caching.NewCacheRedis(client, false)
	})
	do.Provide(container, func(i *do.Injector) (caching.ReadOnlyCache, error) {
		return caching.NewCacheRedis(client, false)
	})
	do.Provide(container, func(i *do.Injector) (interfaces.Limiter, error) {
		return limiter.NewLimiter(client)
	})
	do.Provide(container, func(i *do.Injector) (*redsync.Redsync, error) {
		return redsync.New(goredis.NewPool(client)), nil
	})
	do.Provide(container, func(i *do.Injector) (*services.Authentication, error) {
		return services.NewAuthentication("test-secret", time.Hour)
	})

	return &testEnv{container, repo, stores, client, mr}
}

func (env *testEnv) addStudent(id string, current, lifetime int) *models.Student {
	student := models.Student{
		StudentID:      id,
		AuthID:         "auth-" + id,
		Name:           "Student " + id,
		CurrentPoints:  current,
		LifetimePoints: lifetime,
	}
	env.repo.Students[id] = student
	return &student
}

func (env *testEnv) addProduct(id int64, cost int) {
	env.repo.Stores[1] = models.Store{ID: 1, Name: "Green Cafe"}
	env.repo.Products[id] = models.Product{ID: id, StoreID: 1, Name: "Oat Latte", CostInPoints: cost, Instructions: "Show at counter"}
}

func mustService[T any](t *testing.T, fn func(*do.Injector) (T, error), container *do.Injector) T {
	t.Helper()
	service, err := fn(container)
	require.NoError(t, err)
	return service
}
