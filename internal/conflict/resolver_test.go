package conflict

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(id, at string, minutes int) Task {
	return Task{ID: id, Title: "task " + id, ScheduledTime: at, DurationMinutes: minutes}
}

func TestBuildIntervals_FiltersAndSorts(t *testing.T) {
	tasks := []Task{
		task("late", "14:00", 60),
		task("unscheduled", "", 30),
		task("no-duration", "10:00", 0),
		task("negative", "10:00", -5),
		task("garbage", "soon", 30),
		task("early", "9:00 AM", 45),
		task("edited", "11:00", 30),
	}

	got := BuildIntervals(tasks, "edited")

	require.Len(t, got, 2)
	assert.Equal(t, Interval{ID: "early", Title: "task early", Start: 540, End: 585, Duration: 45}, got[0])
	assert.Equal(t, Interval{ID: "late", Title: "task late", Start: 840, End: 900, Duration: 60}, got[1])
}

func TestBuildIntervals_StableForEqualStarts(t *testing.T) {
	tasks := []Task{
		task("b", "10:00", 15),
		task("a", "09:00", 15),
		task("c", "10:00", 30),
		task("d", "10:00 AM", 5),
	}

	got := BuildIntervals(tasks, "")

	ids := make([]string, len(got))
	for i, iv := range got {
		ids[i] = iv.ID
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestBuildIntervals_EmptyExcludeKeepsAll(t *testing.T) {
	tasks := []Task{task("", "09:00", 30), task("x", "10:00", 30)}
	assert.Len(t, BuildIntervals(tasks, ""), 2)
}

func TestHasOverlap(t *testing.T) {
	tasks := []Task{
		task("a", "09:00", 60),
		task("b", "11:00", 30),
	}

	tests := []struct {
		name      string
		time      string
		duration  int
		excludeID string
		want      bool
	}{
		{name: "inside existing", time: "09:15", duration: 15, want: true},
		{name: "covers existing", time: "08:00", duration: 240, want: true},
		{name: "ends where existing starts", time: "08:00", duration: 60, want: false},
		{name: "starts where existing ends", time: "10:00", duration: 60, want: false},
		{name: "12h input overlaps", time: "11:15 AM", duration: 10, want: true},
		{name: "free gap", time: "10:15", duration: 30, want: false},
		{name: "excluding the only conflict", time: "09:30", duration: 20, excludeID: "a", want: false},
		{name: "excluding a different task", time: "09:30", duration: 20, excludeID: "b", want: true},
		{name: "zero duration never conflicts", time: "09:30", duration: 0, want: false},
		{name: "empty time never conflicts", time: "", duration: 30, want: false},
		{name: "invalid time fails open", time: "25:99", duration: 30, want: false},
		{name: "garbage time fails open", time: "abc", duration: 30, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasOverlap(tasks, tt.time, tt.duration, tt.excludeID))
		})
	}
}

func TestHasOverlap_NoSelfConflict(t *testing.T) {
	tasks := []Task{
		task("a", "09:00", 60),
		task("b", "10:00", 30),
		task("c", "13:00", 30),
	}
	for _, tk := range tasks {
		assert.False(t, HasOverlap(tasks, tk.ScheduledTime, tk.DurationMinutes, tk.ID), "task %s", tk.ID)
		assert.True(t, HasOverlap(tasks, tk.ScheduledTime, tk.DurationMinutes, ""), "task %s", tk.ID)
	}
}

func TestConflicts(t *testing.T) {
	tasks := []Task{
		task("c", "10:30", 30),
		task("a", "09:00", 60),
		task("b", "09:45", 30),
	}

	got := Conflicts(tasks, "09:30", 75, "")

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "c", got[2].ID)
	assert.Empty(t, Conflicts(tasks, "11:00", 30, ""))
}

func TestNextFree(t *testing.T) {
	tasks := []Task{
		task("a", "09:00", 60),
		task("b", "10:00", 30),
		task("c", "11:00", 60),
		task("late", "23:00", 60),
	}

	tests := []struct {
		name          string
		time          string
		duration      int
		excludeID     string
		maxIterations int
		want          string
	}{
		{name: "pushed past back-to-back tasks", time: "09:30", duration: 30, want: "10:30"},
		{name: "does not fit in gap", time: "09:30", duration: 45, want: "12:00"},
		{name: "no conflict gives no suggestion", time: "08:00", duration: 60, want: ""},
		{name: "excluded task is ignored", time: "09:15", duration: 30, excludeID: "a", want: ""},
		{name: "excluded first task shifts only past second", time: "09:45", duration: 30, excludeID: "a", want: "10:30"},
		{name: "pushed past midnight gives nothing", time: "23:10", duration: 10, want: ""},
		{name: "iteration limit gives nothing", time: "09:30", duration: 45, maxIterations: 2, want: ""},
		{name: "enough iterations", time: "09:30", duration: 45, maxIterations: 4, want: "12:00"},
		{name: "zero duration", time: "09:30", duration: 0, want: ""},
		{name: "invalid time", time: "25:99", duration: 30, want: ""},
		{name: "empty time", time: "", duration: 30, want: ""},
		{name: "12h candidate", time: "9:30 AM", duration: 30, want: "10:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextFree(tasks, tt.time, tt.duration, tt.excludeID, tt.maxIterations)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextFree_ResultNoLongerOverlaps(t *testing.T) {
	tasks := []Task{
		task("a", "08:00", 50),
		task("b", "08:45", 30),
		task("c", "09:20", 10),
		task("d", "09:45", 120),
	}

	got := NextFree(tasks, "08:30", 15, "", 0)

	require.Equal(t, "09:30", got)
	assert.False(t, HasOverlap(tasks, got, 15, ""))
}

func TestCheck(t *testing.T) {
	tasks := []Task{task("a", "09:00", 60)}

	assert.Equal(t, Result{Conflict: true, Suggestion: "10:00"}, Check(tasks, "09:30", 30, "", 0))
	assert.Equal(t, Result{}, Check(tasks, "10:00", 30, "", 0))
	assert.Equal(t, Result{}, Check(tasks, "nope", 30, "", 0))
}

func TestChainShifts_Cascade(t *testing.T) {
	tasks := []Task{
		task("A", "09:00", 30),
		task("B", "09:15", 30),
		task("C", "09:50", 20),
	}

	got := ChainShifts(tasks, "09:00", 30)

	assert.Equal(t, []Shift{
		{ID: "A", NewStartTime: "09:30"},
		{ID: "B", NewStartTime: "10:00"},
		{ID: "C", NewStartTime: "10:30"},
	}, got)
}

func TestChainShifts_StopsWhenChainBreaks(t *testing.T) {
	tasks := []Task{
		task("before", "08:00", 30),
		task("hit", "09:10", 20),
		task("after", "10:00", 60),
	}

	got := ChainShifts(tasks, "09:00", 30)

	assert.Equal(t, []Shift{{ID: "hit", NewStartTime: "09:30"}}, got)
}

func TestChainShifts_TouchingIsNotShifted(t *testing.T) {
	tasks := []Task{task("next", "09:30", 30), task("prev", "08:30", 30)}
	assert.Empty(t, ChainShifts(tasks, "09:00", 30))
}

func TestChainShifts_DayBoundary(t *testing.T) {
	tasks := []Task{
		task("a", "23:00", 20),
		task("b", "23:20", 20),
		task("c", "23:40", 15),
		task("d", "23:55", 4),
	}

	got := ChainShifts(tasks, "23:00", 30)

	require.Less(t, len(got), len(tasks))
	for _, s := range got {
		m, ok := ParseTimeToMinutes(s.NewStartTime)
		require.True(t, ok)
		assert.Less(t, m, MinutesPerDay)
		assert.GreaterOrEqual(t, m, 23*60)
	}
	assert.Equal(t, []Shift{
		{ID: "a", NewStartTime: "23:30"},
		{ID: "b", NewStartTime: "23:50"},
	}, got)
}

func TestChainShifts_NewTaskReachingMidnight(t *testing.T) {
	tasks := []Task{task("a", "23:30", 20)}
	assert.Empty(t, ChainShifts(tasks, "23:00", 60))
}

func TestChainShifts_InvalidInput(t *testing.T) {
	tasks := []Task{task("a", "09:00", 30)}
	assert.Nil(t, ChainShifts(tasks, "abc", 30))
	assert.Nil(t, ChainShifts(tasks, "09:00", 0))
}

func TestApplyChainShifts_BestEffort(t *testing.T) {
	shifts := []Shift{
		{ID: "a", NewStartTime: "09:30"},
		{ID: "b", NewStartTime: "10:00"},
		{ID: "c", NewStartTime: "10:30"},
	}

	var calls []string
	var patches []Patch
	update := func(_ context.Context, id string, p Patch) error {
		calls = append(calls, id)
		patches = append(patches, p)
		if id == "b" {
			return errors.New("backend unavailable")
		}
		return nil
	}

	var buf bytes.Buffer
	logger := log.New(&buf)

	ApplyChainShifts(context.Background(), shifts, update, logger)

	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.Equal(t, []Patch{{ScheduledTime: "09:30"}, {ScheduledTime: "10:00"}, {ScheduledTime: "10:30"}}, patches)
	assert.Contains(t, buf.String(), "chain shift failed")
	assert.Contains(t, buf.String(), "backend unavailable")
}

func TestApplyChainShifts_NilLogger(t *testing.T) {
	called := 0
	update := func(context.Context, string, Patch) error {
		called++
		return errors.New("boom")
	}

	log.SetOutput(&bytes.Buffer{})
	ApplyChainShifts(context.Background(), []Shift{{ID: "x", NewStartTime: "08:00"}}, update, nil)

	assert.Equal(t, 1, called)
}
