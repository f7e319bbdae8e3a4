package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vocab-pet-engine/catalog"
	"vocab-pet-engine/models"
)

// Wednesday; the week starts on 2024-03-11.
var testStart = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

// stubRand always draws the same values.
type stubRand struct {
	float float64
	n     int
}

func (r *stubRand) Float64() float64 { return r.float }
func (r *stubRand) IntN(n int) int   { return r.n % n }

type fixture struct {
	*Services
	db    *gorm.DB
	clock *clockwork.FakeClock
	rand  *stubRand
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	cat, err := catalog.Default()
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(testStart)
	r := &stubRand{}
	svc := New(db, cat, Options{
		Clock:      clock,
		Location:   time.UTC,
		Rand:       r,
		RetryDelay: time.Millisecond,
	})
	return &fixture{Services: svc, db: db, clock: clock, rand: r}
}

// giveStars credits a learner directly, the way a reward would.
func (f *fixture) giveStars(t *testing.T, learnerID string, stars int) {
	t.Helper()
	err := f.db.Transaction(func(tx *gorm.DB) error {
		prog, err := lockLearner(tx, learnerID)
		if err != nil {
			return err
		}
		return grantStars(tx, prog, stars, models.RewardSourceQuiz, "seed")
	})
	require.NoError(t, err)
}

func (f *fixture) giveItem(t *testing.T, learnerID string, kind models.InventoryKind, itemID string, n int) {
	t.Helper()
	require.NoError(t, addInventory(f.db, learnerID, kind, itemID, n))
}

func (f *fixture) progress(t *testing.T, learnerID string) models.LearnerProgress {
	t.Helper()
	var prog models.LearnerProgress
	require.NoError(t, f.db.Where("learner_id = ?", learnerID).First(&prog).Error)
	return prog
}

func answers(correct ...bool) []QuizAnswer {
	out := make([]QuizAnswer, len(correct))
	for i := range correct {
		c := correct[i]
		out[i] = QuizAnswer{WordID: "w" + string(rune('a'+i)), Correct: &c}
	}
	return out
}

func allCorrect(n int) []QuizAnswer {
	c := make([]bool, n)
	for i := range c {
		c[i] = true
	}
	return answers(c...)
}

var bg = context.Background()
