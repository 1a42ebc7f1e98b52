package main

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"ecopoints/internal/datastore"

	"github.com/uptrace/bun"
)

var ledgerHeader = []string{"id", "student_id", "points_change", "type", "description", "created_at"}

func exportLedger(ctx context.Context, db bun.IDB, w io.Writer, pageSize int) (int, error) {
	if pageSize <= 0 {
		pageSize = 1000
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ledgerHeader); err != nil {
		return 0, err
	}

	var (
		afterID int64
		count   int
	)
	for {
		entries, err := datastore.GetPointsHistoryPage(ctx, db, afterID, pageSize)
		if err != nil {
			return count, err
		}

		for _, entry := range entries {
			err := cw.Write([]string{
				strconv.FormatInt(entry.ID, 10),
				entry.StudentID,
				strconv.Itoa(entry.PointsChange),
				string(entry.Type),
				entry.Description,
				entry.CreatedAt.UTC().Format(time.RFC3339),
			})
			if err != nil {
				return count, err
			}
			afterID = entry.ID
			count++
		}

		if len(entries) < pageSize {
			break
		}
	}

	cw.Flush()
	return count, cw.Error()
}
