package redis_store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecopoints/internal/models"
	"ecopoints/internal/points"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyLeaderboard(name string) string {
	return fmt.Sprintf("leaderboard:%s", strings.ToLower(name))
}

func dbKeySession(studentID string) string {
	return fmt.Sprintf("session:%s", studentID)
}

func dbKeyRevokedToken(tokenID string) string {
	return fmt.Sprintf("auth:revoked:%s", tokenID)
}

func SetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, v *models.LeaderboardItem) (*models.LeaderboardItem, error) {
	err := cmd.ZAdd(ctx, dbKeyLeaderboard(name), redis.Z{
		Score:  float64(v.LifetimePoints),
		Member: v.StudentID,
	}).Err()
	if err != nil {
		return nil, err
	}

	return v, nil
}

func RemoveFromLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, studentID string) error {
	return cmd.ZRem(ctx, dbKeyLeaderboard(name), studentID).Err()
}

func ClearLeaderboard(ctx context.Context, cmd redis.Cmdable, name string) error {
	return cmd.Del(ctx, dbKeyLeaderboard(name)).Err()
}

// GetLeaderboard returns the top num members with 1-based ranks. Names and
// avatars are not stored in the sorted set.
func GetLeaderboard(ctx context.Context, cmd redis.Cmdable, name string, num int) ([]*models.LeaderboardItem, error) {
	var leaderboard []*models.LeaderboardItem
	items, err := cmd.ZRevRangeWithScores(ctx, dbKeyLeaderboard(name), 0, int64(num-1)).Result()
	if err != nil {
		return nil, err
	}

	for i, item := range items {
		studentID, ok := item.Member.(string)
		if !ok {
			continue
		}
		leaderboard = append(leaderboard, &models.LeaderboardItem{
			StudentID:      studentID,
			LifetimePoints: int(item.Score),
			Rank:           i + 1,
		})
	}

	return leaderboard, nil
}

func GetLeaderboardSize(ctx context.Context, cmd redis.Cmdable, name string) (int64, error) {
	return cmd.ZCard(ctx, dbKeyLeaderboard(name)).Result()
}

// GetRank is 0-based and returns redis.Nil when the student is not ranked.
func GetRank(ctx context.Context, cmd redis.Cmdable, name string, studentID string) (int64, error) {
	return cmd.ZRevRank(ctx, dbKeyLeaderboard(name), studentID).Result()
}

func GetScore(ctx context.Context, cmd redis.Cmdable, name string, studentID string) (float64, error) {
	return cmd.ZScore(ctx, dbKeyLeaderboard(name), studentID).Result()
}

func SaveSession(ctx context.Context, cmd redis.Cmdable, v *points.Session, ttl time.Duration) error {
	if v.Student == nil || v.Student.StudentID == "" {
		return errors.New("invalid session")
	}

	b, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeySession(v.Student.StudentID), b, ttl).Err()
}

// GetSession returns redis.Nil when no snapshot is stored.
func GetSession(ctx context.Context, cmd redis.Cmdable, studentID string) (*points.Session, error) {
	b, err := cmd.Get(ctx, dbKeySession(studentID)).Bytes()
	if err != nil {
		return nil, err
	}

	var v points.Session
	if err := msgpack.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func DeleteSession(ctx context.Context, cmd redis.Cmdable, studentID string) error {
	return cmd.Del(ctx, dbKeySession(studentID)).Err()
}

// RevokeToken blacklists a token id until the token would have expired anyway.
func RevokeToken(ctx context.Context, cmd redis.Cmdable, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return cmd.Set(ctx, dbKeyRevokedToken(tokenID), 1, ttl).Err()
}

func IsTokenRevoked(ctx context.Context, cmd redis.Cmdable, tokenID string) (bool, error) {
	n, err := cmd.Exists(ctx, dbKeyRevokedToken(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
