package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrActionInProgress = errors.New("another action is in progress")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrEmailTaken = errors.New("email already registered")
var ErrTokenRevoked = errors.New("token revoked")

const (
	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_PRODUCTION  = "production"

	LEADERBOARD_LIFETIME = "lifetime"

	DEFAULT_CHECK_IN_REWARD   = 10
	DEFAULT_LEADERBOARD_LIMIT = 10
	DEFAULT_HISTORY_LIMIT     = 20

	CACHE_TTL_5_SECONDS  = 5 * time.Second
	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
	CACHE_TTL_15_MINS    = 15 * time.Minute
	CACHE_TTL_30_MINS    = 30 * time.Minute
	CACHE_TTL_1_HOUR     = 1 * time.Hour
	CACHE_TTL_1_DAY      = 24 * time.Hour

	SESSION_TTL = 30 * time.Minute
	TOKEN_TTL   = 7 * 24 * time.Hour
	LOCK_EXPIRY = 10 * time.Second

	SIGNIN_RATE_LIMIT_PER_MINUTE = 10
	SIGNUP_RATE_LIMIT_PER_HOUR   = 20
)

func LockKeyStudentPoints(studentID string) string {
	return fmt.Sprintf("lock:student-points:%s", studentID)
}

// db
func DBKeyStudent(studentID string) string {
	return fmt.Sprintf("student:%s", studentID)
}

func DBKeyStudentByAuth(authID string) string {
	return fmt.Sprintf("student:auth:%s", authID)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyLevels() string {
	return "levels:all"
}

func DBKeyChallenges() string {
	return "challenges:all"
}

func DBKeyStores() string {
	return "stores:all"
}

func DBKeyStore(storeID int64) string {
	return fmt.Sprintf("store:%d", storeID)
}

func DBKeyProduct(productID int64) string {
	return fmt.Sprintf("product:%d", productID)
}

func DBKeyEvents() string {
	return "events:all"
}

func DBKeyLeaderboardByStudent(name string, studentID string, limit int) string {
	return fmt.Sprintf("leaderboard_by_student:%s:%s:%d", strings.ToLower(name), studentID, limit)
}

func LimitKeySignIn(email string) string {
	return fmt.Sprintf("limit:signin:%s", strings.ToLower(email))
}

func LimitKeySignUp(ip string) string {
	return fmt.Sprintf("limit:signup:%s", ip)
}
