package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsCause(t *testing.T) {
	assert.Equal(t, PointsCause("challenge"), CauseChallenge)
	for _, cause := range []PointsCause{CauseCheckIn, CauseChallenge, CauseRewardPurchase} {
		assert.True(t, cause.Valid(), cause)
	}
	assert.False(t, PointsCause("challenge-completion").Valid())
}
