package models

import "time"

// Assets holds a player's spendable currencies. Coins are the primary
// currency (boss rewards), gems the premium currency (summon costs).
type Assets struct {
	Coins int `json:"coins"`
	Gems  int `json:"gems"`
}

// Player represents a registered player account
type Player struct {
	ID           int    `json:"id"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"`
	PlayerName   string `json:"playerName"`
	Level        int    `json:"level"`
	Experience   int    `json:"experience"`
	Order        int    `json:"order"`
	Assets       Assets `json:"assets"`
	TotalSummons int    `json:"totalSummons"`
	// KeeperIDs is the insertion-ordered set of keepers the player owns.
	KeeperIDs []int `json:"keeperIds"`
	// MainGuildKeeper is the fixed 3-slot guild roster: leader plus two
	// members. Unfilled slots are null. The array length is always 3.
	MainGuildKeeper [3]*int   `json:"mainGuildKeeper"`
	IsBanned        bool      `json:"isBanned"`
	CreatedAt       time.Time `json:"created_at"`
	LastLogin       time.Time `json:"last_login"`
}

// Keeper represents a summoned character
type Keeper struct {
	ID    int `json:"id"`
	Order int `json:"order"`
	// OwnerID is nil for orphaned keepers until the integrity pass
	// resolves them against players' owned sets.
	OwnerID    *int      `json:"ownerId"`
	Class      int       `json:"class"`
	Level      int       `json:"level"`
	Tier       int       `json:"tier"`
	Rarity     int       `json:"rarity"`
	San        int       `json:"san"`
	HP         int       `json:"HP"`
	HPMax      int       `json:"HPMax"`
	MP         int       `json:"MP"`
	MPMax      int       `json:"MPMax"`
	Str        int       `json:"str"`
	Int        int       `json:"int"`
	Will       int       `json:"will"`
	Dex        int       `json:"dex"`
	Luck       int       `json:"luck"`
	Potential  int       `json:"potential"`
	IsBanned   bool      `json:"isBanned"`
	SummonedAt time.Time `json:"summonedAt"`
}

// SummonRecord is an append-only provenance entry, one per summoned keeper.
// Records from the same draw share a batch ID and timestamp.
type SummonRecord struct {
	ID           int       `json:"id"`
	PlayerID     int       `json:"playerId"`
	KeeperID     int       `json:"keeperId"`
	KeeperOrder  int       `json:"keeperOrder"`
	SummonMethod string    `json:"summonMethod"`
	BatchID      string    `json:"batchId"`
	SummonedAt   time.Time `json:"summonTime"`
}

// Boss represents a timed-respawn boss encounter
type Boss struct {
	ID              string    `json:"bossId"`
	Name            string    `json:"bossName"`
	ImageLarge      string    `json:"bossImageLarge"`
	ImageSmall      string    `json:"bossImageSmall"`
	RequireTeamStr  int       `json:"requireTeamStr"`
	RequireTeamInt  int       `json:"requireTeamInt"`
	RequireTeamDex  int       `json:"requireTeamDex"`
	RequireTeamWill int       `json:"requireTeamWill"`
	CoinDrop        int       `json:"coinDrop"`
	GemDrop         int       `json:"gemDrop"`
	LastDefeatTime  time.Time `json:"lastDefeatTime"`
	RespawnSeconds  int       `json:"respawnTime"`
}
