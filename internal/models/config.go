package models

import (
	"github.com/uptrace/bun"
)

type Config struct {
	bun.BaseModel `bun:"table:config"`
	Key           string `bun:"key,pk" json:"key"`
	Value         string `bun:"value" json:"value"`
}

const (
	ConfigCheckInReward          = "CHECK_IN_REWARD"
	ConfigLeaderboardLimit       = "LEADERBOARD_LIMIT"
	ConfigHistoryLimit           = "HISTORY_LIMIT"
	ConfigCronjobTimeLeaderboard = "CRONJOB_TIME_LEADERBOARD"
)

const DefaultCronjobTimeLeaderboard = "*/15 * * * *"

// DefaultConfigs seeds a fresh database.
var DefaultConfigs = []Config{
	{Key: ConfigCheckInReward, Value: "10"},
	{Key: ConfigLeaderboardLimit, Value: "10"},
	{Key: ConfigHistoryLimit, Value: "20"},
	{Key: ConfigCronjobTimeLeaderboard, Value: DefaultCronjobTimeLeaderboard},
}
