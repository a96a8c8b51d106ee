package game

import (
	"database/sql"
	"fmt"
)

// All currency mutations here are expressed as deltas (column = column +
// delta), never absolute overwrites, so concurrent applications commute.

// CreditAssets adds reward amounts to a player's balances. Credits have no
// upper bound check.
func CreditAssets(tx *sql.Tx, playerID, coinDelta, gemDelta int) error {
	result, err := tx.Exec(
		`UPDATE players SET coins = coins + $1, gems = gems + $2 WHERE id = $3`,
		coinDelta, gemDelta, playerID,
	)
	if err != nil {
		return fmt.Errorf("failed to credit assets: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to credit assets: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DebitGems checks sufficiency against a freshly locked balance and debits
// in the same transaction, so two concurrent debits on one player serialize
// instead of overspending.
func DebitGems(tx *sql.Tx, playerID, cost int) error {
	var gems int
	err := tx.QueryRow(`SELECT gems FROM players WHERE id = $1 FOR UPDATE`, playerID).Scan(&gems)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read gem balance: %w", err)
	}

	if gems < cost {
		return ErrInsufficientFunds
	}

	_, err = tx.Exec(`UPDATE players SET gems = gems - $1 WHERE id = $2`, cost, playerID)
	if err != nil {
		return fmt.Errorf("failed to debit gems: %w", err)
	}
	return nil
}
