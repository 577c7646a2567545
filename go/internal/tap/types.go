package tap

// Result is what a user gets back for one accepted tap. For exempt roles
// every field is zero: the tap is accepted but has no effect.
type Result struct {
	MyScore     int64 `json:"my_score"`
	TapsCount   int64 `json:"taps_count"`
	BonusEarned bool  `json:"bonus_earned"`
	ScoreEarned int64 `json:"score_earned"`
}
