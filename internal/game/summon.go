package game

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/keeper-realm/api/internal/database"
	"github.com/keeper-realm/api/internal/models"
)

// Summon draw costs in gems. The five-draw is discounted 10% versus five
// singles.
const (
	SingleDrawCost = 100
	FiveDrawCost   = 450
)

// Summon method tags recorded on provenance entries
const (
	MethodSingleDraw = "single"
	MethodFiveDraw   = "five-draw"
)

// SummonCost returns the gem cost for a draw of the given size.
func SummonCost(count int) (int, error) {
	switch count {
	case 1:
		return SingleDrawCost, nil
	case 5:
		return FiveDrawCost, nil
	}
	return 0, ErrInvalidSummonCount
}

// SummonMethod returns the provenance tag for a draw of the given size.
func SummonMethod(count int) string {
	if count == 1 {
		return MethodSingleDraw
	}
	return MethodFiveDraw
}

// SummonService orchestrates N-at-a-time keeper acquisition: funds check,
// generation, provenance, ownership linking, and the combined player update.
type SummonService struct {
	db *database.DB

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSummonService(db *database.DB) *SummonService {
	return &SummonService{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SummonService) rollKeeper() models.Keeper {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RollKeeper(s.rng)
}

// Summon performs a draw of count keepers (count must be 1 or 5) for the
// player and returns the newly created keepers. The whole batch runs in a
// single transaction: either every keeper, provenance record, ownership
// link, and the debit land together, or nothing does. Insufficient funds
// reject before any generation.
func (s *SummonService) Summon(ctx context.Context, playerID, count int) ([]models.Keeper, error) {
	cost, err := SummonCost(count)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin summon transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the player row for the whole batch; concurrent summons on the
	// same player serialize here.
	var banned bool
	err = tx.QueryRow(
		`SELECT is_banned FROM players WHERE id = $1 FOR UPDATE`,
		playerID,
	).Scan(&banned)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read player: %w", err)
	}
	if banned {
		return nil, ErrAccountBanned
	}

	// Funds check and debit happen before any generation
	if err := DebitGems(tx, playerID, cost); err != nil {
		return nil, err
	}

	// One batch ID and one timestamp shared by every record of the draw
	batchID := uuid.New().String()
	now := time.Now().UTC()
	method := SummonMethod(count)

	keepers := make([]models.Keeper, 0, count)
	for i := 0; i < count; i++ {
		keeper, err := InsertKeeper(tx, s.rollKeeper(), playerID, now)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(
			`INSERT INTO player_keepers (player_id, keeper_id) VALUES ($1, $2)`,
			playerID, keeper.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to link keeper to owner: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO summon_records (player_id, keeper_id, keeper_order, summon_method, batch_id, summoned_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, playerID, keeper.ID, keeper.Order, method, batchID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to record summon: %w", err)
		}

		keepers = append(keepers, keeper)
	}

	// Lifetime counter as a delta
	_, err = tx.Exec(
		`UPDATE players SET total_summons = total_summons + $1 WHERE id = $2`,
		count, playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update player after summon: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit summon: %w", err)
	}

	log.Printf("[Game] Player %d summoned %d keeper(s), batch %s", playerID, count, batchID)
	return keepers, nil
}
