package game

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/keeper-realm/api/internal/database"
)

// IntegrityService runs the administrative invariant maintenance: owner
// back-reference repair and the ban cascade.
type IntegrityService struct {
	db *database.DB
}

func NewIntegrityService(db *database.DB) *IntegrityService {
	return &IntegrityService{db: db}
}

// ReconcileKeeperOwners backfills the owner reference for keepers that lack
// one by reverse-searching players' owned sets. Exactly one match binds the
// owner. Zero matches leaves the keeper unresolved; multiple matches have no
// defined resolution and are skipped. Both cases are logged for manual
// review. Runs on service start.
func (s *IntegrityService) ReconcileKeeperOwners(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM keepers WHERE owner_id IS NULL`)
	if err != nil {
		return fmt.Errorf("failed to list orphaned keepers: %w", err)
	}
	defer rows.Close()

	var orphans []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan orphaned keeper: %w", err)
		}
		orphans = append(orphans, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, keeperID := range orphans {
		ownerRows, err := s.db.QueryContext(ctx,
			`SELECT player_id FROM player_keepers WHERE keeper_id = $1`, keeperID)
		if err != nil {
			return fmt.Errorf("failed to search owned sets for keeper %d: %w", keeperID, err)
		}

		var owners []int
		for ownerRows.Next() {
			var playerID int
			if err := ownerRows.Scan(&playerID); err != nil {
				ownerRows.Close()
				return fmt.Errorf("failed to scan owner candidate: %w", err)
			}
			owners = append(owners, playerID)
		}
		ownerRows.Close()
		if err := ownerRows.Err(); err != nil {
			return err
		}

		switch len(owners) {
		case 0:
			log.Printf("[Game] No owner found for keeper %d, leaving unresolved", keeperID)
		case 1:
			_, err := s.db.ExecContext(ctx,
				`UPDATE keepers SET owner_id = $1 WHERE id = $2 AND owner_id IS NULL`,
				owners[0], keeperID)
			if err != nil {
				return fmt.Errorf("failed to bind owner for keeper %d: %w", keeperID, err)
			}
			log.Printf("[Game] Bound player %d as owner of keeper %d", owners[0], keeperID)
		default:
			log.Printf("[Game] Keeper %d appears in %d owned sets, skipping (needs manual review)", keeperID, len(owners))
		}
	}

	if len(orphans) > 0 {
		log.Printf("[Game] Ownership reconciliation finished, %d orphan(s) examined", len(orphans))
	}
	return nil
}

// ToggleKeeperBan flips a keeper's ban flag and returns the new state.
// Banning also evicts the keeper from its owner's guild slots in the same
// transaction; unbanning performs no roster restoration.
func (s *IntegrityService) ToggleKeeperBan(ctx context.Context, keeperID int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin ban transaction: %w", err)
	}
	defer tx.Rollback()

	var banned bool
	var ownerID sql.NullInt64
	err = tx.QueryRow(
		`SELECT is_banned, owner_id FROM keepers WHERE id = $1 FOR UPDATE`,
		keeperID,
	).Scan(&banned, &ownerID)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to read keeper: %w", err)
	}

	newBanned := !banned
	_, err = tx.Exec(`UPDATE keepers SET is_banned = $1 WHERE id = $2`, newBanned, keeperID)
	if err != nil {
		return false, fmt.Errorf("failed to update ban flag: %w", err)
	}

	if newBanned && ownerID.Valid {
		var slots [3]sql.NullInt64
		err = tx.QueryRow(
			`SELECT guild_slot_1, guild_slot_2, guild_slot_3 FROM players WHERE id = $1 FOR UPDATE`,
			ownerID.Int64,
		).Scan(&slots[0], &slots[1], &slots[2])
		if err != nil && err != sql.ErrNoRows {
			return false, fmt.Errorf("failed to read owner roster: %w", err)
		}

		if err == nil {
			roster := EvictFromRoster(slotsToRoster(slots), keeperID)
			_, err = tx.Exec(
				`UPDATE players SET guild_slot_1 = $1, guild_slot_2 = $2, guild_slot_3 = $3 WHERE id = $4`,
				roster[0], roster[1], roster[2], ownerID.Int64,
			)
			if err != nil {
				return false, fmt.Errorf("failed to evict keeper from roster: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit ban toggle: %w", err)
	}

	log.Printf("[Game] Keeper %d ban state is now %t", keeperID, newBanned)
	return newBanned, nil
}

func slotsToRoster(slots [3]sql.NullInt64) [3]*int {
	var roster [3]*int
	for i, slot := range slots {
		if slot.Valid {
			v := int(slot.Int64)
			roster[i] = &v
		}
	}
	return roster
}
