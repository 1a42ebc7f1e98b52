package points

import (
	"fmt"
	"math"
	"sort"

	"ecopoints/internal/models"
)

const (
	LevelStateCompleted = "completed"
	LevelStateCurrent   = "current"
	LevelStateLocked    = "locked"
)

type LevelInfo struct {
	LevelNumber  int     `json:"level_number" msgpack:"level_number"`
	Title        string  `json:"title" msgpack:"title"`
	Progress     float64 `json:"progress" msgpack:"progress"`
	ProgressText string  `json:"progress_text" msgpack:"progress_text"`
	MaxLevel     bool    `json:"max_level" msgpack:"max_level"`
}

type LevelStep struct {
	LevelNumber int    `json:"level_number"`
	MinPoints   int    `json:"min_points"`
	Title       string `json:"title"`
	State       string `json:"state"`
}

type LevelView struct {
	Current        LevelInfo   `json:"current"`
	Steps          []LevelStep `json:"steps"`
	LadderProgress float64     `json:"ladder_progress"`
}

func sortedLevels(levels []models.Level) []models.Level {
	sorted := make([]models.Level, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinPoints < sorted[j].MinPoints
	})
	return sorted
}

// ResolveLevel maps a lifetime score onto the level table.
func ResolveLevel(levels []models.Level, points int) LevelInfo {
	if len(levels) == 0 {
		return LevelInfo{LevelNumber: 1, Title: "Loading...", Progress: 0, ProgressText: "..."}
	}

	sorted := sortedLevels(levels)
	idx := 0
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].MinPoints <= points {
			idx = i
			break
		}
	}

	current := sorted[idx]
	if idx == len(sorted)-1 {
		return LevelInfo{
			LevelNumber:  current.LevelNumber,
			Title:        current.Title,
			Progress:     100,
			ProgressText: fmt.Sprintf("%d Pts (Max Level)", points),
			MaxLevel:     true,
		}
	}

	next := sorted[idx+1]
	progress := float64(points-current.MinPoints) / float64(next.MinPoints-current.MinPoints) * 100
	progress = math.Max(0, math.Min(100, progress))

	return LevelInfo{
		LevelNumber:  current.LevelNumber,
		Title:        current.Title,
		Progress:     progress,
		ProgressText: fmt.Sprintf("%d / %d Pts", points, next.MinPoints),
	}
}

// ValidateLevels checks thresholds are strictly increasing and level numbers run 1..n.
func ValidateLevels(levels []models.Level) error {
	sorted := sortedLevels(levels)
	for i, level := range sorted {
		if level.LevelNumber != i+1 {
			return fmt.Errorf("%w: level %q has number %d, want %d", ErrInvalidLevels, level.Title, level.LevelNumber, i+1)
		}
		if i > 0 && level.MinPoints <= sorted[i-1].MinPoints {
			return fmt.Errorf("%w: threshold %d of level %d is not above %d", ErrInvalidLevels, level.MinPoints, level.LevelNumber, sorted[i-1].MinPoints)
		}
	}
	return nil
}

func ResolveLevelView(levels []models.Level, points int) LevelView {
	info := ResolveLevel(levels, points)
	sorted := sortedLevels(levels)

	steps := make([]LevelStep, 0, len(sorted))
	for _, level := range sorted {
		state := LevelStateLocked
		switch {
		case level.LevelNumber < info.LevelNumber:
			state = LevelStateCompleted
		case level.LevelNumber == info.LevelNumber:
			state = LevelStateCurrent
		}
		steps = append(steps, LevelStep{
			LevelNumber: level.LevelNumber,
			MinPoints:   level.MinPoints,
			Title:       level.Title,
			State:       state,
		})
	}

	return LevelView{Current: info, Steps: steps, LadderProgress: ladderProgress(len(sorted), info)}
}

func ladderProgress(count int, info LevelInfo) float64 {
	switch {
	case count == 0:
		return 0
	case count == 1:
		return 100
	}
	progress := (float64(info.LevelNumber-1) + info.Progress/100) / float64(count-1) * 100
	return math.Max(0, math.Min(100, progress))
}
