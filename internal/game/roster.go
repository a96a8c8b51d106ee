package game

// NormalizeRoster coerces an incoming guild roster to exactly 3 slots:
// entries beyond the third are dropped, missing slots are padded with null.
func NormalizeRoster(slots []*int) [3]*int {
	var roster [3]*int
	for i := 0; i < len(slots) && i < 3; i++ {
		roster[i] = slots[i]
	}
	return roster
}

// EvictFromRoster nulls out every slot referencing keeperID and leaves the
// other slots untouched. Used by the ban cascade; unbanning never restores
// a slot.
func EvictFromRoster(roster [3]*int, keeperID int) [3]*int {
	for i, slot := range roster {
		if slot != nil && *slot == keeperID {
			roster[i] = nil
		}
	}
	return roster
}
