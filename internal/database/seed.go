package database

import (
	"fmt"
	"log"
	"time"

	"github.com/keeper-realm/api/internal/models"
)

// SeedReferenceData inserts the fixed reference rows on first start:
// 8 keeper classes, 3 bosses, the admin allow-list, and the ordinal
// counters. Every insert is ON CONFLICT DO NOTHING so re-running at
// every boot is safe and never clobbers admin edits.
func (db *DB) SeedReferenceData() error {
	if err := db.seedCounters(); err != nil {
		return err
	}
	if err := db.seedKeeperClasses(); err != nil {
		return err
	}
	if err := db.seedBosses(); err != nil {
		return err
	}
	if err := db.seedAdminAllowlist(); err != nil {
		return err
	}

	log.Println("[Database] Reference data seeded")
	return nil
}

func (db *DB) seedCounters() error {
	for _, name := range []string{CounterKeeperOrder, CounterPlayerOrder} {
		_, err := db.Exec(
			`INSERT INTO counters (name, value) VALUES ($1, 0) ON CONFLICT (name) DO NOTHING`,
			name,
		)
		if err != nil {
			return fmt.Errorf("failed to seed counter %s: %w", name, err)
		}
	}
	return nil
}

func (db *DB) seedKeeperClasses() error {
	for _, class := range models.GetAllClasses() {
		_, err := db.Exec(`
			INSERT INTO keeper_classes (
				id, name, description,
				str_required, int_required, dex_required,
				luck_required, will_required, level_required,
				image_l, image_s
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING
		`,
			class.ID, class.Name, class.Description,
			class.StrRequired, class.IntRequired, class.DexRequired,
			class.LuckRequired, class.WillRequired, class.LevelRequired,
			class.ImageLarge, class.ImageSmall,
		)
		if err != nil {
			return fmt.Errorf("failed to seed keeper class %d: %w", class.ID, err)
		}
	}
	return nil
}

func (db *DB) seedBosses() error {
	now := time.Now().UTC()

	// Respawn durations are placeholder values pending a balance pass
	bosses := []models.Boss{
		{
			ID:              "boss1",
			Name:            "Forest Guardian",
			ImageLarge:      "boss-1-l.webp",
			ImageSmall:      "boss-1-s.webp",
			RequireTeamStr:  50,
			RequireTeamInt:  30,
			RequireTeamDex:  40,
			RequireTeamWill: 20,
			CoinDrop:        1000,
			GemDrop:         10,
			LastDefeatTime:  now,
			RespawnSeconds:  10,
		},
		{
			ID:              "boss2",
			Name:            "Mountain Titan",
			ImageLarge:      "boss-2-l.webp",
			ImageSmall:      "boss-2-s.webp",
			RequireTeamStr:  70,
			RequireTeamInt:  40,
			RequireTeamDex:  30,
			RequireTeamWill: 50,
			CoinDrop:        2000,
			GemDrop:         20,
			LastDefeatTime:  now,
			RespawnSeconds:  20,
		},
		{
			ID:              "boss3",
			Name:            "Shadow Sorcerer",
			ImageLarge:      "boss-3-l.webp",
			ImageSmall:      "boss-3-s.webp",
			RequireTeamStr:  40,
			RequireTeamInt:  80,
			RequireTeamDex:  60,
			RequireTeamWill: 70,
			CoinDrop:        3000,
			GemDrop:         30,
			LastDefeatTime:  now,
			RespawnSeconds:  30,
		},
	}

	for _, boss := range bosses {
		_, err := db.Exec(`
			INSERT INTO bosses (
				id, name, image_large, image_small,
				require_str, require_int, require_dex, require_will,
				coin_drop, gem_drop, last_defeat_time, respawn_seconds
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO NOTHING
		`,
			boss.ID, boss.Name, boss.ImageLarge, boss.ImageSmall,
			boss.RequireTeamStr, boss.RequireTeamInt, boss.RequireTeamDex, boss.RequireTeamWill,
			boss.CoinDrop, boss.GemDrop, boss.LastDefeatTime, boss.RespawnSeconds,
		)
		if err != nil {
			return fmt.Errorf("failed to seed boss %s: %w", boss.ID, err)
		}
	}
	return nil
}

func (db *DB) seedAdminAllowlist() error {
	adminEmail := getEnv("ADMIN_EMAIL", "admin@keeper-realm.io")
	_, err := db.Exec(
		`INSERT INTO admin_allowlist (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`,
		adminEmail,
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin allow-list: %w", err)
	}
	return nil
}

// IsAdminEmail checks allow-list membership
func (db *DB) IsAdminEmail(email string) (bool, error) {
	var exists bool
	err := db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM admin_allowlist WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check admin allow-list: %w", err)
	}
	return exists, nil
}
