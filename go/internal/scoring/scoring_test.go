package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContribution(t *testing.T) {
	points, bonus := Contribution(1)
	assert.Equal(t, int64(1), points)
	assert.False(t, bonus)

	points, bonus = Contribution(10)
	assert.Equal(t, int64(1), points)
	assert.False(t, bonus)

	points, bonus = Contribution(11)
	assert.Equal(t, int64(10), points)
	assert.True(t, bonus)

	points, bonus = Contribution(12)
	assert.Equal(t, int64(1), points)
	assert.False(t, bonus)

	points, bonus = Contribution(22)
	assert.Equal(t, int64(10), points)
	assert.True(t, bonus)
}

func TestTotalForTaps(t *testing.T) {
	assert.Equal(t, int64(0), TotalForTaps(0))
	assert.Equal(t, int64(10), TotalForTaps(10))
	// 11th tap is worth 10, so 11 taps = 10*1 + 10
	assert.Equal(t, int64(20), TotalForTaps(11))
	assert.Equal(t, int64(21), TotalForTaps(12))
	// 217 taps: 19 bonus taps worth 10 each, 198 ordinary taps
	assert.Equal(t, int64(388), TotalForTaps(217))
}

func TestTotalForTapsMatchesIncrementalContributions(t *testing.T) {
	var total int64
	for n := int64(1); n <= 100; n++ {
		points, _ := Contribution(n)
		total += points
		assert.Equal(t, TotalForTaps(n), total, "mismatch at tap %d", n)
	}
}

func TestLedgerProgressionAroundBonus(t *testing.T) {
	// A ledger at 10 taps is worth 10 points; the next tap lands the bonus.
	before := TotalForTaps(10)
	points, bonus := Contribution(11)

	assert.Equal(t, int64(10), before)
	assert.True(t, bonus)
	assert.Equal(t, int64(20), before+points)
}
