package engine

import "fmt"

// EvolutionPath is one of the two irreversible branches a pet may take.
type EvolutionPath string

const (
	PathA EvolutionPath = "A"
	PathB EvolutionPath = "B"
)

func (p EvolutionPath) Valid() bool {
	return p == PathA || p == PathB
}

type Stats struct {
	HP      float64 `yaml:"hp" json:"hp"`
	Attack  float64 `yaml:"attack" json:"attack"`
	Defense float64 `yaml:"defense" json:"defense"`
}

type Branch struct {
	Name  string   `yaml:"name"`
	Types []string `yaml:"types"`
}

type Species struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	BaseType       string `yaml:"base_type"`
	EvolutionLevel int    `yaml:"evolution_level"`
	BranchA        Branch `yaml:"branch_a"`
	BranchB        Branch `yaml:"branch_b"`
	BaseStats      Stats  `yaml:"base_stats"`
	Growth         Stats  `yaml:"growth"`
	Ability        string `yaml:"ability"`
}

func (s Species) Branch(p EvolutionPath) Branch {
	if p == PathB {
		return s.BranchB
	}
	return s.BranchA
}

// Category is a quiz subject with the elemental types it favours and penalises.
type Category struct {
	ID     string   `yaml:"id"`
	Strong []string `yaml:"strong"`
	Weak   []string `yaml:"weak"`
}

type ItemKind string

const (
	ItemConsumable ItemKind = "consumable"
	ItemFood       ItemKind = "food"
	ItemToy        ItemKind = "toy"
	ItemEquipment  ItemKind = "equipment"
)

// DoubleStarsItem is the consumable that doubles one quiz payout.
const DoubleStarsItem = "double_stars"

type ShopItem struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Kind      ItemKind `yaml:"kind"`
	Price     int      `yaml:"price"`
	Slot      string   `yaml:"slot"`
	StarBonus float64  `yaml:"star_bonus"`
	ExpBonus  float64  `yaml:"exp_bonus"`
	Hunger    int      `yaml:"hunger"`
	Happiness int      `yaml:"happiness"`
}

type RewardType string

const (
	RewardStars   RewardType = "stars"
	RewardSticker RewardType = "sticker"
	RewardTitle   RewardType = "title"
	RewardChest   RewardType = "chest"
)

// RewardEntry is one weighted row of a chest or wheel table.
type RewardEntry struct {
	Type   RewardType `yaml:"type"`
	Weight float64    `yaml:"weight"`
	Min    int        `yaml:"min"`
	Max    int        `yaml:"max"`
	Rarity string     `yaml:"rarity"`
	Chest  string     `yaml:"chest"`
}

type Chest struct {
	ID      string        `yaml:"id"`
	Name    string        `yaml:"name"`
	Price   int           `yaml:"price"`
	Rewards []RewardEntry `yaml:"rewards"`
}

// Collectible is a sticker or title.
type Collectible struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Rarity string `yaml:"rarity"`
}

type QuestType string

const (
	QuestQuizCount     QuestType = "quiz_count"
	QuestReviewCount   QuestType = "review_count"
	QuestCorrectStreak QuestType = "correct_streak"
	QuestAccuracy      QuestType = "accuracy"
)

type QuestTemplate struct {
	Type   QuestType `yaml:"type" json:"type"`
	Target int       `yaml:"target" json:"target"`
	Reward int       `yaml:"reward" json:"reward"`
}

// BadgeDef unlocks when every threshold is met. A badge carrying Title also grants that title.
type BadgeDef struct {
	Code        string           `yaml:"code"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Rarity      string           `yaml:"rarity"`
	Threshold   map[string]int64 `yaml:"threshold"`
	Title       string           `yaml:"title"`
}

type WeeklyConfig struct {
	WordsTarget int    `yaml:"words_target"`
	QuizTarget  int    `yaml:"quiz_target"`
	DaysTarget  int    `yaml:"days_target"`
	RewardStars int    `yaml:"reward_stars"`
	RewardChest string `yaml:"reward_chest"`
}

// DuplicateBonus is the star payout, by rarity, for drawing an already owned collectible.
type DuplicateBonus struct {
	Sticker map[string]int `yaml:"sticker"`
	Title   map[string]int `yaml:"title"`
}

type Catalog struct {
	Species          []Species       `yaml:"species"`
	Categories       []Category      `yaml:"categories"`
	Shop             []ShopItem      `yaml:"shop"`
	Chests           []Chest         `yaml:"chests"`
	Wheel            []RewardEntry   `yaml:"wheel"`
	Stickers         []Collectible   `yaml:"stickers"`
	Titles           []Collectible   `yaml:"titles"`
	QuestPool        []QuestTemplate `yaml:"quest_pool"`
	AllCompleteBonus int             `yaml:"all_complete_bonus"`
	Badges           []BadgeDef      `yaml:"badges"`
	Weekly           WeeklyConfig    `yaml:"weekly"`
	DuplicateBonus   DuplicateBonus  `yaml:"duplicate_bonus"`

	species    map[string]Species
	categories map[string]Category
	shop       map[string]ShopItem
	chests     map[string]Chest
}

// Prepare validates the catalog and builds its lookup indexes. It must run once
// before the catalog is shared.
func (c *Catalog) Prepare() error {
	c.species = make(map[string]Species, len(c.Species))
	for _, s := range c.Species {
		if s.ID == "" {
			return fmt.Errorf("species %q has no id", s.Name)
		}
		c.species[s.ID] = s
	}
	c.categories = make(map[string]Category, len(c.Categories))
	for _, cat := range c.Categories {
		c.categories[cat.ID] = cat
	}
	c.shop = make(map[string]ShopItem, len(c.Shop))
	for _, item := range c.Shop {
		if item.Price < 0 {
			return fmt.Errorf("shop item %s has negative price", item.ID)
		}
		c.shop[item.ID] = item
	}
	c.chests = make(map[string]Chest, len(c.Chests))
	for _, chest := range c.Chests {
		if len(chest.Rewards) == 0 {
			return fmt.Errorf("chest %s has an empty reward table", chest.ID)
		}
		c.chests[chest.ID] = chest
	}
	if len(c.QuestPool) == 0 {
		return fmt.Errorf("quest pool is empty")
	}
	c.applyDefaults()
	if c.Weekly.RewardChest != "" {
		if _, ok := c.chests[c.Weekly.RewardChest]; !ok {
			return fmt.Errorf("weekly reward chest %s is not in the catalog", c.Weekly.RewardChest)
		}
	}
	return nil
}

func (c *Catalog) applyDefaults() {
	if c.Weekly.WordsTarget == 0 {
		c.Weekly.WordsTarget = 20
	}
	if c.Weekly.QuizTarget == 0 {
		c.Weekly.QuizTarget = 50
	}
	if c.Weekly.DaysTarget == 0 {
		c.Weekly.DaysTarget = 5
	}
	if c.AllCompleteBonus == 0 {
		c.AllCompleteBonus = 10
	}
	if c.DuplicateBonus.Sticker == nil {
		c.DuplicateBonus.Sticker = map[string]int{"common": 5, "rare": 15, "legendary": 30}
	}
	if c.DuplicateBonus.Title == nil {
		c.DuplicateBonus.Title = map[string]int{"common": 25, "rare": 50, "legendary": 100}
	}
}

func (c *Catalog) SpeciesByID(id string) (Species, bool) {
	s, ok := c.species[id]
	return s, ok
}

func (c *Catalog) CategoryByID(id string) (Category, bool) {
	cat, ok := c.categories[id]
	return cat, ok
}

func (c *Catalog) ShopItem(id string) (ShopItem, bool) {
	item, ok := c.shop[id]
	return item, ok
}

func (c *Catalog) Chest(id string) (Chest, bool) {
	chest, ok := c.chests[id]
	return chest, ok
}
