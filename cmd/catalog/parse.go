package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ecopoints/internal/models"

	"go.uber.org/zap"
)

// readRecords skips the header row and hands every later row to fn. Rows fn
// rejects are logged and skipped.
func readRecords(r io.Reader, logger *zap.Logger, minFields int, fn func(record []string) error) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		return 0, err
	}

	skipped := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return skipped, err
		}

		if len(record) < minFields {
			err = fmt.Errorf("expected %d fields, got %d", minFields, len(record))
		} else {
			err = fn(record)
		}
		if err != nil {
			logger.Warn("skip record", zap.Int("line", line), zap.Error(err))
			skipped++
		}
	}
	return skipped, nil
}

func parsePoints(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.New("points must not be negative")
	}
	return v, nil
}

func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// title,description,icon,points_reward
func parseChallenges(r io.Reader, logger *zap.Logger) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	_, err := readRecords(r, logger, 4, func(record []string) error {
		title := strings.TrimSpace(record[0])
		if title == "" {
			return errors.New("empty title")
		}
		reward, err := parsePoints(record[3])
		if err != nil {
			return err
		}
		challenges = append(challenges, &models.Challenge{
			Title:        title,
			Description:  strings.TrimSpace(record[1]),
			Icon:         strings.TrimSpace(record[2]),
			PointsReward: reward,
		})
		return nil
	})
	return challenges, err
}

type storeProducts struct {
	Store    *models.Store
	Products []*models.Product
}

// store_name,store_logo,name,images,original_price_inr,discounted_price_inr,cost_in_points,instructions
// images are separated by ';'.
func parseProducts(r io.Reader, logger *zap.Logger) ([]*storeProducts, error) {
	var (
		result  []*storeProducts
		byStore = map[string]*storeProducts{}
	)

	_, err := readRecords(r, logger, 8, func(record []string) error {
		storeName := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[2])
		if storeName == "" || name == "" {
			return errors.New("empty store or product name")
		}

		cost, err := parsePoints(record[6])
		if err != nil {
			return err
		}
		original, err := parsePrice(record[4])
		if err != nil {
			return err
		}
		discounted, err := parsePrice(record[5])
		if err != nil {
			return err
		}

		var images []string
		for _, image := range strings.Split(record[3], ";") {
			if image = strings.TrimSpace(image); image != "" {
				images = append(images, image)
			}
		}

		group, ok := byStore[storeName]
		if !ok {
			group = &storeProducts{Store: &models.Store{Name: storeName, LogoURL: optional(record[1])}}
			byStore[storeName] = group
			result = append(result, group)
		}
		group.Products = append(group.Products, &models.Product{
			Name:               name,
			Images:             images,
			OriginalPriceINR:   original,
			DiscountedPriceINR: discounted,
			CostInPoints:       cost,
			Instructions:       strings.TrimSpace(record[7]),
		})
		return nil
	})
	return result, err
}

// title,description,event_date,points_reward where event_date is RFC 3339 or YYYY-MM-DD.
func parseEvents(r io.Reader, logger *zap.Logger) ([]*models.Event, error) {
	var events []*models.Event
	_, err := readRecords(r, logger, 4, func(record []string) error {
		title := strings.TrimSpace(record[0])
		if title == "" {
			return errors.New("empty title")
		}

		raw := strings.TrimSpace(record[2])
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			date, err = time.Parse(time.DateOnly, raw)
			if err != nil {
				return fmt.Errorf("invalid event date %q", raw)
			}
		}

		reward, err := parsePoints(record[3])
		if err != nil {
			return err
		}

		events = append(events, &models.Event{
			Title:        title,
			Description:  strings.TrimSpace(record[1]),
			EventDate:    date,
			PointsReward: reward,
		})
		return nil
	})
	return events, err
}
