package engine

import "time"

// Weighted pairs an item with its relative draw weight.
type Weighted[T any] struct {
	Weight float64
	Item   T
}

// Pick draws one item with probability weight/Σweights. Floating point slack at the
// top of the range falls back to the last entry.
func Pick[T any](entries []Weighted[T], r Rand) (T, error) {
	var zero T
	if len(entries) == 0 {
		return zero, Invalid("entries", "nothing to pick from")
	}
	total := 0.0
	for _, e := range entries {
		if e.Weight < 0 {
			return zero, Invalid("weight", "weights must not be negative")
		}
		total += e.Weight
	}
	if total <= 0 {
		return zero, Invalid("weight", "total weight must be positive")
	}

	x := r.Float64() * total
	cumulative := 0.0
	for _, e := range entries {
		cumulative += e.Weight
		if x < cumulative {
			return e.Item, nil
		}
	}
	return entries[len(entries)-1].Item, nil
}

// Owned is the learner's collection at draw time.
type Owned struct {
	Stickers map[string]bool
	Titles   map[string]bool
}

// Payout is the resolved outcome of one chest open or wheel spin.
type Payout struct {
	Type      RewardType `json:"type"`
	Stars     int        `json:"stars,omitempty"`
	ItemID    string     `json:"item_id,omitempty"`
	ItemName  string     `json:"item_name,omitempty"`
	Rarity    string     `json:"rarity,omitempty"`
	Duplicate bool       `json:"duplicate,omitempty"`
	Chest     string     `json:"chest,omitempty"`
}

// RollTable picks one entry of a chest or wheel table and resolves it.
func RollTable(table []RewardEntry, c *Catalog, owned Owned, r Rand) (Payout, error) {
	entries := make([]Weighted[RewardEntry], len(table))
	for i, e := range table {
		entries[i] = Weighted[RewardEntry]{Weight: e.Weight, Item: e}
	}
	entry, err := Pick(entries, r)
	if err != nil {
		return Payout{}, err
	}
	return ResolvePayout(entry, c, owned, r)
}

// ResolvePayout turns a table entry into a concrete grant.
func ResolvePayout(entry RewardEntry, c *Catalog, owned Owned, r Rand) (Payout, error) {
	switch entry.Type {
	case RewardStars:
		lo, hi := entry.Min, entry.Max
		if hi < lo {
			hi = lo
		}
		return Payout{Type: RewardStars, Stars: lo + r.IntN(hi-lo+1)}, nil
	case RewardSticker:
		return drawCollectible(RewardSticker, c.Stickers, entry.Rarity, owned.Stickers, c.DuplicateBonus.Sticker, r)
	case RewardTitle:
		return drawCollectible(RewardTitle, c.Titles, entry.Rarity, owned.Titles, c.DuplicateBonus.Title, r)
	case RewardChest:
		if _, ok := c.Chest(entry.Chest); !ok {
			return Payout{}, NotFound("chest type %q", entry.Chest)
		}
		return Payout{Type: RewardChest, Chest: entry.Chest}, nil
	}
	return Payout{}, Invalid("type", "unknown reward type %q", entry.Type)
}

func drawCollectible(kind RewardType, pool []Collectible, rarity string, owned map[string]bool, bonus map[string]int, r Rand) (Payout, error) {
	candidates := make([]Collectible, 0, len(pool))
	for _, item := range pool {
		if item.Rarity == rarity {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		candidates = pool
	}
	if len(candidates) == 0 {
		return Payout{}, NotFound("no %s in catalog", kind)
	}

	item := candidates[r.IntN(len(candidates))]
	p := Payout{Type: kind, ItemID: item.ID, ItemName: item.Name, Rarity: item.Rarity}
	if owned[item.ID] {
		p.Duplicate = true
		p.Stars = duplicateStars(bonus, item.Rarity)
	}
	return p, nil
}

func duplicateStars(bonus map[string]int, rarity string) int {
	if stars, ok := bonus[rarity]; ok {
		return stars
	}
	return bonus["common"]
}

// ConsumeOne takes one unit from an inventory stack. remove is true when the stack
// is now empty and its record should be deleted.
func ConsumeOne(quantity int) (left int, remove bool, err error) {
	if quantity <= 0 {
		return 0, false, Conflict("no items left to open")
	}
	left = quantity - 1
	return left, left == 0, nil
}

// SameDay compares calendar dates in the location of b.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CanSpinWheel allows one spin per calendar day.
func CanSpinWheel(lastSpin *time.Time, now time.Time) bool {
	return lastSpin == nil || !SameDay(*lastSpin, now)
}
