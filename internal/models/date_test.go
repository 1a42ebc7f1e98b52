package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want Date
	}{
		{"nil", nil, ""},
		{"driver time", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), "2024-05-10"},
		{"text", "2024-05-10", "2024-05-10"},
		{"bytes", []byte("2024-05-10"), "2024-05-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d)
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := Date("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Date("2024-05-10").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", v)
}

func TestStudent_CheckedInOn(t *testing.T) {
	day := Date("2024-05-10")
	s := &Student{}
	assert.False(t, s.CheckedInOn("2024-05-10"))

	s.LastCheckInDate = &day
	assert.True(t, s.CheckedInOn("2024-05-10"))
	assert.False(t, s.CheckedInOn("2024-05-11"))
}

func TestPointsCause_Valid(t *testing.T) {
	assert.True(t, CauseCheckIn.Valid())
	assert.True(t, CauseChallenge.Valid())
	assert.True(t, CauseRewardPurchase.Valid())
	assert.False(t, PointsCause("refund").Valid())
}
