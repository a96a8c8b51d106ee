package game

import "errors"

// Sentinel errors for the summon/boss economy. Handlers map these onto
// HTTP statuses; everything else surfaces as an internal error.
var (
	ErrNotFound           = errors.New("not found")
	ErrInsufficientFunds  = errors.New("not enough gems")
	ErrInvalidSummonCount = errors.New("summon count must be 1 or 5")
	ErrBossNotAvailable   = errors.New("boss has not respawned yet")
	ErrTeamTooWeak        = errors.New("team does not meet boss requirements")
	ErrAccountBanned      = errors.New("this account has been banned")
)
