package models

import "fmt"

// KeeperClass holds the fixed descriptive metadata for a keeper class.
// The *_Required fields are reserved for a future class-change mechanic
// and are not consulted by any gating logic yet.
type KeeperClass struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	StrRequired   int    `json:"str_required"`
	IntRequired   int    `json:"int_required"`
	DexRequired   int    `json:"dex_required"`
	LuckRequired  int    `json:"luck_required"`
	WillRequired  int    `json:"will_required"`
	LevelRequired int    `json:"level_required"`
	ImageLarge    string `json:"image_l"`
	ImageSmall    string `json:"image_s"`
}

// Keeper class ID constants
const (
	ClassKnight     = 1
	ClassMage       = 2
	ClassNinja      = 3
	ClassBlacksmith = 4
	ClassRanger     = 5
	ClassRogue      = 6
	ClassCitizen    = 7
	ClassFarmer     = 8
)

// ClassCount is the number of keeper classes the generator can roll.
const ClassCount = 8

// IsValidClass checks if a class ID is valid
func IsValidClass(classID int) bool {
	return classID >= ClassKnight && classID <= ClassFarmer
}

// GetClassDetails returns static details for a keeper class
func GetClassDetails(classID int) *KeeperClass {
	classes := map[int]*KeeperClass{
		ClassKnight: {
			ID:          ClassKnight,
			Name:        "Knight",
			Description: "A stalwart defender with high defense and strength.",
		},
		ClassMage: {
			ID:          ClassMage,
			Name:        "Mage",
			Description: "A master of arcane arts with powerful spells.",
		},
		ClassNinja: {
			ID:          ClassNinja,
			Name:        "Ninja",
			Description: "A swift and stealthy warrior with high dexterity.",
		},
		ClassBlacksmith: {
			ID:          ClassBlacksmith,
			Name:        "Blacksmith",
			Description: "A skilled craftsman who can create and upgrade equipment.",
		},
		ClassRanger: {
			ID:          ClassRanger,
			Name:        "Ranger",
			Description: "A long-range specialist with high accuracy and survival skills.",
		},
		ClassRogue: {
			ID:          ClassRogue,
			Name:        "Rogue",
			Description: "A cunning thief with high luck and evasion.",
		},
		ClassCitizen: {
			ID:          ClassCitizen,
			Name:        "Citizen",
			Description: "A common townsperson with balanced stats.",
		},
		ClassFarmer: {
			ID:          ClassFarmer,
			Name:        "Farmer",
			Description: "A hardworking individual with high stamina and resource gathering skills.",
		},
	}

	class := classes[classID]
	if class == nil {
		return nil
	}

	// Requirement fields and art names follow a fixed pattern for every class
	class.StrRequired = 1
	class.IntRequired = 1
	class.DexRequired = 1
	class.LuckRequired = 1
	class.WillRequired = 1
	class.LevelRequired = 1
	class.ImageLarge = classImage(classID, "l")
	class.ImageSmall = classImage(classID, "s")

	return class
}

// GetAllClasses returns all keeper classes in ID order
func GetAllClasses() []*KeeperClass {
	classes := make([]*KeeperClass, 0, ClassCount)
	for id := ClassKnight; id <= ClassFarmer; id++ {
		classes = append(classes, GetClassDetails(id))
	}
	return classes
}

func classImage(classID int, size string) string {
	return fmt.Sprintf("class-%d-%s.webp", classID, size)
}
