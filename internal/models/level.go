package models

import "github.com/uptrace/bun"

type Level struct {
	bun.BaseModel `bun:"table:levels"`
	LevelNumber   int    `bun:"level_number,pk" json:"level_number" msgpack:"level_number"`
	MinPoints     int    `bun:"min_points,notnull" json:"min_points" msgpack:"min_points"`
	Title         string `bun:"title,notnull" json:"title" msgpack:"title"`
}

// DefaultLevels seeds a fresh database.
var DefaultLevels = []Level{
	{LevelNumber: 1, MinPoints: 0, Title: "Seedling"},
	{LevelNumber: 2, MinPoints: 100, Title: "Sprout"},
	{LevelNumber: 3, MinPoints: 500, Title: "Sapling"},
	{LevelNumber: 4, MinPoints: 1500, Title: "Tree"},
	{LevelNumber: 5, MinPoints: 5000, Title: "Forest Guardian"},
}
