package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SummonLeaderboardEntry represents a player's position on the lifetime
// summon leaderboard
type SummonLeaderboardEntry struct {
	PlayerID   int    `json:"playerId"`
	PlayerName string `json:"playerName"`
	Summons    int    `json:"summons"`
	Rank       int64  `json:"rank"`
}

const leaderboardSummonsKey = "leaderboard:summons"

// RecordSummons increments a player's lifetime summon score after a draw
// commits. Best-effort: the database remains the source of truth.
func (c *Client) RecordSummons(ctx context.Context, playerID, count int) error {
	return c.ZIncrBy(ctx, leaderboardSummonsKey, float64(count), fmt.Sprintf("%d", playerID)).Err()
}

// TopSummoners returns the top N players by lifetime summons, highest first
func (c *Client) TopSummoners(ctx context.Context, limit int64) ([]redis.Z, error) {
	players, err := c.ZRevRangeWithScores(ctx, leaderboardSummonsKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get top summoners: %w", err)
	}
	return players, nil
}

// PlayerSummonScore returns the summon score for a specific player
func (c *Client) PlayerSummonScore(ctx context.Context, playerID int) (float64, error) {
	score, err := c.ZScore(ctx, leaderboardSummonsKey, fmt.Sprintf("%d", playerID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get player summon score: %w", err)
	}
	return score, nil
}
