package engine

import "time"

// DailyQuestSlots is the number of quests offered per day.
const DailyQuestSlots = 3

type QuestSlot struct {
	Type     QuestType `json:"type"`
	Target   int       `json:"target"`
	Progress int       `json:"progress"`
	Reward   int       `json:"reward"`
	Done     bool      `json:"done"`
}

// DailyQuestState is one learner's quests for one calendar day.
type DailyQuestState struct {
	Date         string      `json:"date"`
	Slots        []QuestSlot `json:"slots"`
	AllCompleted bool        `json:"all_completed"`
}

// DayKey is the calendar date of t in its own location.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// GenerateDailyQuest draws DailyQuestSlots templates of distinct types from pool. When
// the pool has fewer distinct types the remaining slots are filled from the leftovers.
func GenerateDailyQuest(pool []QuestTemplate, day time.Time, r Rand) (DailyQuestState, error) {
	if len(pool) == 0 {
		return DailyQuestState{}, Invalid("quest_pool", "quest pool is empty")
	}
	shuffled := make([]QuestTemplate, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	picked := make([]QuestTemplate, 0, DailyQuestSlots)
	var leftovers []QuestTemplate
	seen := make(map[QuestType]bool)
	for _, t := range shuffled {
		if len(picked) < DailyQuestSlots && !seen[t.Type] {
			seen[t.Type] = true
			picked = append(picked, t)
			continue
		}
		leftovers = append(leftovers, t)
	}
	for _, t := range leftovers {
		if len(picked) == DailyQuestSlots {
			break
		}
		picked = append(picked, t)
	}

	state := DailyQuestState{Date: DayKey(day), Slots: make([]QuestSlot, len(picked))}
	for i, t := range picked {
		state.Slots[i] = QuestSlot{Type: t.Type, Target: t.Target, Reward: t.Reward}
	}
	return state, nil
}

// cumulative reports whether progress of t adds up over the day. Accuracy instead keeps
// the best single attempt.
func cumulative(t QuestType) bool {
	return t != QuestAccuracy
}

// ApplyQuestProgress feeds one event into every slot of type t. It returns the new
// state and the stars earned by slots that completed with this event, including the
// one-time bonus when the last slot completes.
func ApplyQuestProgress(state DailyQuestState, t QuestType, value, allCompleteBonus int) (DailyQuestState, int) {
	if value <= 0 {
		return state, 0
	}
	slots := make([]QuestSlot, len(state.Slots))
	copy(slots, state.Slots)
	state.Slots = slots

	earned := 0
	for i := range state.Slots {
		slot := &state.Slots[i]
		if slot.Type != t {
			continue
		}
		if cumulative(t) {
			slot.Progress += value
		} else {
			slot.Progress = max(slot.Progress, value)
		}
		if !slot.Done && slot.Progress >= slot.Target {
			slot.Done = true
			earned += slot.Reward
		}
	}

	if !state.AllCompleted && len(state.Slots) > 0 && allDone(state.Slots) {
		state.AllCompleted = true
		earned += allCompleteBonus
	}
	return state, earned
}

func allDone(slots []QuestSlot) bool {
	for _, s := range slots {
		if !s.Done {
			return false
		}
	}
	return true
}

// WeeklyState is one learner's challenge progress for one Monday-aligned week.
type WeeklyState struct {
	WeekStart      time.Time `json:"week_start"`
	Words          int       `json:"words"`
	Quiz           int       `json:"quiz"`
	Days           int       `json:"days"`
	LastActiveDate string    `json:"last_active_date,omitempty"`
	RewardClaimed  bool      `json:"reward_claimed"`
}

// WeekStart is Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// rollWeek starts a fresh week when state belongs to an earlier one.
func rollWeek(state WeeklyState, now time.Time) WeeklyState {
	ws := WeekStart(now)
	if !state.WeekStart.Equal(ws) {
		return WeeklyState{WeekStart: ws}
	}
	return state
}

// MarkActiveDay counts now's calendar day once.
func MarkActiveDay(state WeeklyState, now time.Time) WeeklyState {
	state = rollWeek(state, now)
	today := DayKey(now)
	if state.LastActiveDate == today {
		return state
	}
	state.Days++
	state.LastActiveDate = today
	return state
}

// RecordWeeklyProgress adds words and quiz questions and marks the day active.
func RecordWeeklyProgress(state WeeklyState, words, quiz int, now time.Time) WeeklyState {
	state = MarkActiveDay(state, now)
	state.Words += max(words, 0)
	state.Quiz += max(quiz, 0)
	return state
}

func WeeklyComplete(state WeeklyState, cfg WeeklyConfig) bool {
	return state.Words >= cfg.WordsTarget && state.Quiz >= cfg.QuizTarget && state.Days >= cfg.DaysTarget
}

// ClaimWeekly flips RewardClaimed. The flag never flips back.
func ClaimWeekly(state WeeklyState, cfg WeeklyConfig) (WeeklyState, error) {
	if state.RewardClaimed {
		return state, Conflict("weekly reward already claimed")
	}
	if !WeeklyComplete(state, cfg) {
		return state, Conflict("weekly challenge not complete: words %d/%d, quiz %d/%d, days %d/%d",
			state.Words, cfg.WordsTarget, state.Quiz, cfg.QuizTarget, state.Days, cfg.DaysTarget)
	}
	state.RewardClaimed = true
	return state, nil
}
