package models

type LeaderboardItem struct {
	StudentID      string  `bun:"student_id" json:"student_id" msgpack:"student_id"`
	Name           string  `bun:"name" json:"name" msgpack:"name"`
	AvatarURL      *string `bun:"avatar_url" json:"avatar_url" msgpack:"avatar_url"`
	LifetimePoints int     `bun:"lifetime_points" json:"lifetime_points" msgpack:"lifetime_points"`
	Rank           int     `bun:"-" json:"rank,omitempty" msgpack:"rank"`
}

type LeaderboardResponse struct {
	Leaderboard []*LeaderboardItem `json:"leaderboard"`
	Me          *LeaderboardItem   `json:"me"`
}
