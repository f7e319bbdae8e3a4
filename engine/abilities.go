package engine

// AbilityContext is what a species ability may inspect.
type AbilityContext struct {
	Correct  int
	Total    int
	Accuracy float64
	Streak   int
	Category string
	Stage    int
	Level    int
	Hour     int
}

// Effect is the outcome of an ability. Zero values are neutral.
type Effect struct {
	FlatStars      int
	StarMultiplier float64
	DoubleChance   float64
	ExpBonus       float64
	HungerDecay    float64
	HappinessDecay float64
	ShopDiscount   float64
}

func (e Effect) starMultiplier() float64 {
	if e.StarMultiplier == 0 {
		return 1
	}
	return e.StarMultiplier
}

func (e Effect) hungerRate() float64 {
	if e.HungerDecay == 0 {
		return 1
	}
	return e.HungerDecay
}

func (e Effect) happinessRate() float64 {
	if e.HappinessDecay == 0 {
		return 1
	}
	return e.HappinessDecay
}

// Ability is a named pure effect of a species.
type Ability struct {
	Name   string
	Effect func(ctx AbilityContext) Effect
}

var identity = Ability{Name: "none", Effect: func(AbilityContext) Effect { return Effect{} }}

// abilities is keyed by species id. The set is closed.
var abilities = map[string]Ability{
	"spirit_dog": {"loyalty", func(ctx AbilityContext) Effect {
		e := Effect{HappinessDecay: 0.5}
		if ctx.Accuracy >= 0.8 {
			e.FlatStars = 1
		}
		return e
	}},
	"chick_bird": {"early_bird", func(ctx AbilityContext) Effect {
		if ctx.Hour < 9 {
			return Effect{StarMultiplier: 1.2}
		}
		return Effect{}
	}},
	"young_scale": {"dragon_hoard", func(AbilityContext) Effect {
		return Effect{DoubleChance: 0.10}
	}},
	"beetle": {"hard_worker", func(ctx AbilityContext) Effect {
		if ctx.Total >= 10 {
			return Effect{FlatStars: 2}
		}
		return Effect{}
	}},
	"electric_mouse": {"static_spark", func(ctx AbilityContext) Effect {
		if ctx.Category == "science" {
			return Effect{StarMultiplier: 1.1}
		}
		return Effect{}
	}},
	"hard_crab": {"shell_guard", func(AbilityContext) Effect {
		return Effect{HungerDecay: 0.5}
	}},
	"mimic_lizard": {"copycat", func(AbilityContext) Effect {
		return Effect{ExpBonus: 10}
	}},
	"seed_ball": {"photosynthesis", func(AbilityContext) Effect {
		return Effect{HungerDecay: 0.7, ExpBonus: 5}
	}},
	"jellyfish": {"drift", func(AbilityContext) Effect {
		return Effect{HappinessDecay: 0.7, FlatStars: 1}
	}},
	"ore_giant": {"miner", func(AbilityContext) Effect {
		return Effect{ShopDiscount: 10}
	}},
	"jungle_cub": {"pounce", func(ctx AbilityContext) Effect {
		if ctx.Streak >= 5 {
			return Effect{FlatStars: 3}
		}
		return Effect{}
	}},
	"sky_dragon": {"tailwind", func(ctx AbilityContext) Effect {
		if ctx.Stage >= StageTeen {
			return Effect{DoubleChance: 0.15}
		}
		return Effect{DoubleChance: 0.05}
	}},
	"dune_bug": {"scavenger", func(AbilityContext) Effect {
		return Effect{ShopDiscount: 5, FlatStars: 1}
	}},
	"sonic_bat": {"night_owl", func(ctx AbilityContext) Effect {
		if ctx.Hour >= 21 || ctx.Hour < 5 {
			return Effect{StarMultiplier: 1.2}
		}
		return Effect{}
	}},
	"snow_beast": {"cold_focus", func(ctx AbilityContext) Effect {
		if ctx.Total > 0 && ctx.Correct == ctx.Total {
			return Effect{StarMultiplier: 1.15}
		}
		return Effect{}
	}},
	"circuit_fish": {"overclock", func(AbilityContext) Effect {
		return Effect{ExpBonus: 15}
	}},
	"mushroom": {"spore_luck", func(AbilityContext) Effect {
		return Effect{DoubleChance: 0.08}
	}},
	"crystal_beast": {"prism", func(ctx AbilityContext) Effect {
		if ctx.Stage >= StageAdult {
			return Effect{StarMultiplier: 1.1}
		}
		return Effect{StarMultiplier: 1.05}
	}},
	"nebula_fish": {"stargazer", func(ctx AbilityContext) Effect {
		if ctx.Stage >= StageTeen {
			return Effect{ExpBonus: 20}
		}
		return Effect{ExpBonus: 10}
	}},
	"clockwork_bird": {"precision", func(ctx AbilityContext) Effect {
		e := Effect{ShopDiscount: 5}
		if ctx.Accuracy >= 0.9 {
			e.FlatStars = 2
		}
		return e
	}},
}

// AbilityFor returns the ability of a species; unknown ids map to a no-op.
func AbilityFor(speciesID string) Ability {
	if a, ok := abilities[speciesID]; ok {
		return a
	}
	return identity
}

// DiscountedPrice applies a shop discount percentage, never below zero.
func DiscountedPrice(price int, e Effect) int {
	if e.ShopDiscount <= 0 {
		return price
	}
	discounted := price - price*int(e.ShopDiscount)/100
	return max(discounted, 0)
}
