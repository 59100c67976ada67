package conflict

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomTasks(rng *rand.Rand, n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		start := rng.Intn(MinutesPerDay)
		at := MinutesToTime(start)
		if rng.Intn(4) == 0 {
			h := start / 60
			marker := "AM"
			if h >= 12 {
				marker = "PM"
				h -= 12
			}
			if h == 0 {
				h = 12
			}
			at = fmt.Sprintf("%d:%02d %s", h, start%60, marker)
		}
		tasks[i] = Task{
			ID:              fmt.Sprintf("t%d", i),
			ScheduledTime:   at,
			DurationMinutes: rng.Intn(180) + 5,
		}
	}
	return tasks
}

// TestNextFree_Invariants_MonotonicAndResolved checks that a suggestion is never
// earlier than the candidate, is before midnight, and no longer conflicts.
func TestNextFree_Invariants_MonotonicAndResolved(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 500; trial++ {
		tasks := randomTasks(rng, rng.Intn(12)+1)
		candidate := rng.Intn(MinutesPerDay)
		duration := rng.Intn(120) + 5
		at := MinutesToTime(candidate)

		got := NextFree(tasks, at, duration, "", 0)
		if got == "" {
			continue
		}

		m, ok := ParseTimeToMinutes(got)
		require.True(t, ok, "trial %d: unparsable suggestion %q", trial, got)
		assert.GreaterOrEqual(t, m, candidate, "trial %d: moved backwards", trial)
		assert.Less(t, m, MinutesPerDay, "trial %d", trial)
		assert.False(t, HasOverlap(tasks, got, duration, ""), "trial %d: %s still overlaps", trial, got)
		assert.True(t, HasOverlap(tasks, at, duration, ""), "trial %d: suggestion without conflict", trial)
	}
}

// TestChainShifts_Invariants checks that every shift lands before midnight,
// never earlier than the inserted task's end, and in non-decreasing order.
func TestChainShifts_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 500; trial++ {
		tasks := randomTasks(rng, rng.Intn(10)+1)
		newStart := rng.Intn(MinutesPerDay)
		newDuration := rng.Intn(90) + 5

		shifts := ChainShifts(tasks, MinutesToTime(newStart), newDuration)

		prev := newStart + newDuration
		seen := make(map[string]bool)
		for _, s := range shifts {
			m, ok := ParseTimeToMinutes(s.NewStartTime)
			require.True(t, ok)
			assert.Less(t, m, MinutesPerDay, "trial %d", trial)
			assert.GreaterOrEqual(t, m, prev, "trial %d: shift %s out of order", trial, s.ID)
			assert.False(t, seen[s.ID], "trial %d: %s shifted twice", trial, s.ID)
			seen[s.ID] = true
			prev = m
		}
	}
}

func TestParse_Invariants_NeverOutOfRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	markers := []string{"", " AM", " PM", "am", "pm", " XM"}

	for trial := 0; trial < 2000; trial++ {
		s := fmt.Sprintf("%d:%02d%s", rng.Intn(30), rng.Intn(100), markers[rng.Intn(len(markers))])
		m, ok := ParseTimeToMinutes(s)
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, m, 0, s)
		assert.Less(t, m, MinutesPerDay, s)
	}
}
