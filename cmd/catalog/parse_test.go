package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseChallenges(t *testing.T) {
	input := `title,description,icon,points_reward
Bring a bottle,Refill instead of buying,bottle,15
,missing title,x,10
Cycle to class,,bike,abc
Plant a tree,Campus drive,tree,40
`
	challenges, err := parseChallenges(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, challenges, 2)
	assert.Equal(t, "Bring a bottle", challenges[0].Title)
	assert.Equal(t, 15, challenges[0].PointsReward)
	assert.Equal(t, "tree", challenges[1].Icon)
	assert.Equal(t, 40, challenges[1].PointsReward)
}

func TestParseChallengesRejectsNegativeReward(t *testing.T) {
	input := "title,description,icon,points_reward\nBad,,x,-5\n"
	challenges, err := parseChallenges(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, challenges)
}

func TestParseProductsGroupsByStore(t *testing.T) {
	input := `store_name,store_logo,name,images,original_price_inr,discounted_price_inr,cost_in_points,instructions
Green Cafe,https://cdn/logo.png,Oat Latte,https://cdn/a.png; https://cdn/b.png,180,150,50,Show the QR at the counter
Green Cafe,,Muffin,,90,,30,
Thrift Corner,,Tote Bag,https://cdn/tote.png,250,199,120,Pick up at stall 4
Thrift Corner,,Broken,,x,,10,
`
	groups, err := parseProducts(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	cafe := groups[0]
	assert.Equal(t, "Green Cafe", cafe.Store.Name)
	require.NotNil(t, cafe.Store.LogoURL)
	assert.Equal(t, "https://cdn/logo.png", *cafe.Store.LogoURL)
	require.Len(t, cafe.Products, 2)
	assert.Equal(t, []string{"https://cdn/a.png", "https://cdn/b.png"}, cafe.Products[0].Images)
	assert.Equal(t, 150.0, cafe.Products[0].DiscountedPriceINR)
	assert.Empty(t, cafe.Products[1].Images)
	assert.Zero(t, cafe.Products[1].DiscountedPriceINR)

	thrift := groups[1]
	assert.Nil(t, thrift.Store.LogoURL)
	require.Len(t, thrift.Products, 1)
	assert.Equal(t, 120, thrift.Products[0].CostInPoints)
}

func TestParseEvents(t *testing.T) {
	input := `title,description,event_date,points_reward
Beach cleanup,Bring gloves,2026-11-02,25
Swap meet,,2026-11-09T10:00:00Z,10
Bad date,,next week,5
`
	events, err := parseEvents(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), events[0].EventDate)
	assert.Equal(t, time.Date(2026, 11, 9, 10, 0, 0, 0, time.UTC), events[1].EventDate)
	assert.Equal(t, 25, events[0].PointsReward)
}

func TestParseShortRowsSkipped(t *testing.T) {
	input := "title,description,event_date,points_reward\nonly,two\n"
	events, err := parseEvents(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := parseEvents(strings.NewReader(""), zap.NewNop())
	require.Error(t, err)
}
