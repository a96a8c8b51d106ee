package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SessionData represents a logged-in player session stored in Redis
type SessionData struct {
	PlayerID   int       `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Email      string    `json:"email"`
	IsAdmin    bool      `json:"is_admin,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

const activePlayersKey = "active_players"

// SetSession stores a player session in Redis with TTL and marks the player
// active.
func (c *Client) SetSession(ctx context.Context, token string, session *SessionData, ttl time.Duration) error {
	sessionKey := fmt.Sprintf("session:%s", token)

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := c.Set(ctx, sessionKey, sessionJSON, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	if err := c.SAdd(ctx, activePlayersKey, session.PlayerID).Err(); err != nil {
		return fmt.Errorf("failed to add to active players: %w", err)
	}

	return nil
}

// GetSession retrieves a player session from Redis
func (c *Client) GetSession(ctx context.Context, token string) (*SessionData, error) {
	sessionKey := fmt.Sprintf("session:%s", token)

	sessionJSON, err := c.Get(ctx, sessionKey).Result()
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

// DeleteSession removes a player session from Redis (for logout)
func (c *Client) DeleteSession(ctx context.Context, token string) error {
	sessionKey := fmt.Sprintf("session:%s", token)

	// Get session data first to update the active players set
	session, err := c.GetSession(ctx, token)
	if err == nil {
		c.SRem(ctx, activePlayersKey, session.PlayerID)
	}

	if err := c.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// InvalidatePlayerSessions removes all sessions for a specific player, used
// when an account is banned.
func (c *Client) InvalidatePlayerSessions(ctx context.Context, playerID int) error {
	pattern := "session:*"
	iter := c.Scan(ctx, 0, pattern, 100).Iterator()

	for iter.Next(ctx) {
		sessionKey := iter.Val()

		sessionJSON, err := c.Get(ctx, sessionKey).Result()
		if err != nil {
			continue
		}

		var session SessionData
		if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
			continue
		}

		if session.PlayerID == playerID {
			c.Del(ctx, sessionKey)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan sessions: %w", err)
	}

	c.SRem(ctx, activePlayersKey, playerID)
	return nil
}

// ActivePlayerCount returns the number of players with a live session
func (c *Client) ActivePlayerCount(ctx context.Context) (int64, error) {
	count, err := c.SCard(ctx, activePlayersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get active player count: %w", err)
	}
	return count, nil
}
