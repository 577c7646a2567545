// Package scoring holds the tap scoring rule. The rule is a pure function
// of the sequential tap count a ledger has reached, with no dependency on
// wall-clock time or request arrival order, which is what makes concurrent
// accumulation order-independent.
package scoring

const (
	// BasePoints is the contribution of an ordinary tap.
	BasePoints int64 = 1
	// BonusPoints is the contribution of a bonus tap.
	BonusPoints int64 = 10
	// BonusInterval selects bonus taps: every tap whose resulting count is a
	// multiple of BonusInterval.
	BonusInterval int64 = 11
)

// Contribution returns the points earned by the tap that brings a ledger to
// newTapsCount, and whether that tap is a bonus tap.
func Contribution(newTapsCount int64) (points int64, bonus bool) {
	if newTapsCount%BonusInterval == 0 {
		return BonusPoints, true
	}
	return BasePoints, false
}

// TotalForTaps returns the exact score a fresh ledger reaches after n
// accepted taps: (n - n/11) ordinary points plus n/11 bonuses.
func TotalForTaps(n int64) int64 {
	if n <= 0 {
		return 0
	}
	bonuses := n / BonusInterval
	return (n-bonuses)*BasePoints + bonuses*BonusPoints
}
