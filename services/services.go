package services

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"vocab-pet-engine/engine"
)

// Options carries the collaborators every service shares. Zero fields get defaults.
type Options struct {
	Clock    clockwork.Clock
	Location *time.Location
	Rand     engine.Rand

	// RetryAttempts bounds how often a unit is re-run after a concurrent update.
	RetryAttempts uint
	RetryDelay    time.Duration
}

type base struct {
	DB      *gorm.DB
	Catalog *engine.Catalog
	Clock   clockwork.Clock
	Loc     *time.Location
	Rand    engine.Rand

	retryAttempts uint
	retryDelay    time.Duration
}

// now is the current instant in UTC, the form every timestamp is stored in.
func (b *base) now() time.Time {
	return b.Clock.Now().UTC()
}

// localNow is the current instant in the configured zone, used for calendar days.
func (b *base) localNow() time.Time {
	return b.Clock.Now().In(b.Loc)
}

// withRetry re-runs unit while it fails with a concurrent update.
func (b *base) withRetry(ctx context.Context, unit func() error) error {
	return retry.Do(unit,
		retry.Context(ctx),
		retry.Attempts(b.retryAttempts),
		retry.Delay(b.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, engine.ErrConcurrentUpdate)
		}),
	)
}

// Services bundles every service over one database and catalog.
type Services struct {
	Progress *ProgressionService
	Badges   *BadgeService
	Reviews  *ReviewService
	Pets     *PetService
	Quests   *QuestService
	Loot     *LootService
	Shop     *ShopService
	Quiz     *QuizService
}

func New(db *gorm.DB, catalog *engine.Catalog, opts Options) *Services {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Rand == nil {
		opts.Rand = engine.DefaultRand()
	}
	if opts.RetryAttempts == 0 {
		opts.RetryAttempts = 3
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = 20 * time.Millisecond
	}
	b := &base{
		DB:            db,
		Catalog:       catalog,
		Clock:         opts.Clock,
		Loc:           opts.Location,
		Rand:          opts.Rand,
		retryAttempts: opts.RetryAttempts,
		retryDelay:    opts.RetryDelay,
	}

	badges := &BadgeService{base: b}
	quests := &QuestService{base: b}
	reviews := &ReviewService{base: b, badges: badges, quests: quests}
	pets := &PetService{base: b, badges: badges}
	loot := &LootService{base: b}
	return &Services{
		Progress: &ProgressionService{base: b, badges: badges},
		Badges:   badges,
		Reviews:  reviews,
		Pets:     pets,
		Quests:   quests,
		Loot:     loot,
		Shop:     &ShopService{base: b, pets: pets},
		Quiz:     &QuizService{base: b, pets: pets, quests: quests, badges: badges},
	}
}
