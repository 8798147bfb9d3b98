package analytics

import "context"

// DayCount is the number of clicks a link received on one calendar day.
type DayCount struct {
	Day   string `json:"day" doc:"Calendar day in YYYY-MM-DD"`
	Count int64  `json:"count"`
}

// LeaderboardEntry ranks one user by total clicks across all their links.
type LeaderboardEntry struct {
	Username    string `json:"username"`
	TotalClicks int64  `json:"totalClicks"`
}

// Aggregator derives display summaries from recorded clicks. Counts are
// always computed from click rows; there is no cached or denormalized total.
type Aggregator interface {
	// PerDayCounts groups a link's clicks by calendar day, chronologically,
	// one entry per day with at least one click.
	PerDayCounts(ctx context.Context, linkID int64) ([]DayCount, error)
	// Leaderboard returns the topN users by summed clicks, descending,
	// ties broken by username.
	Leaderboard(ctx context.Context, topN int) ([]LeaderboardEntry, error)
}
