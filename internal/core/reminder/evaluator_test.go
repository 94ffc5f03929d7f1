package reminder

import (
	"testing"
	"time"

	"github.com/hay-kot/mbot/internal/core/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTask(t *testing.T, line string) task.Task {
	t.Helper()
	tk, ok := task.ParseLine(line)
	require.True(t, ok, "line did not parse: %q", line)
	return tk
}

func at(hour, minute, second int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, second, 0, time.Local)
}

func TestEvaluator_TimedWindow(t *testing.T) {
	e := DefaultEvaluator()
	tk := mustTask(t, "- [ ] 2024-05-01 14:30 : Renew badge")

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one second early", at(14, 29, 59), false},
		{"exactly on time", at(14, 30, 0), true},
		{"mid window", at(14, 30, 30), true},
		{"last second of window", at(14, 30, 59), true},
		{"sub-second before window end", at(14, 30, 59).Add(999 * time.Millisecond), true},
		{"window closed", at(14, 31, 0), false},
		{"long missed", at(18, 0, 0), false},
		{"different day same clock", at(14, 30, 0).AddDate(0, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Due(tt.now, tk))
		})
	}
}

func TestEvaluator_AllDay(t *testing.T) {
	e := DefaultEvaluator()
	tk := mustTask(t, "- [ ] 2024-05-01 : Water plants")

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"09:00:00", at(9, 0, 0), true},
		{"09:00:59", at(9, 0, 59), true},
		{"08:59:59", at(8, 59, 59), false},
		{"09:01:00", at(9, 1, 0), false},
		{"21:00 is not 09:00", at(21, 0, 0), false},
		{"09:00 on another day", at(9, 0, 0).AddDate(0, 0, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Due(tt.now, tk))
		})
	}
}

func TestEvaluator_CompletedNeverDue(t *testing.T) {
	e := DefaultEvaluator()

	timed := mustTask(t, "- [x] 2024-05-01 14:30 : Renew badge")
	allDay := mustTask(t, "- [X] 2024-05-01 : Water plants")

	for _, now := range []time.Time{at(14, 30, 0), at(14, 30, 59), at(9, 0, 0)} {
		assert.False(t, e.Due(now, timed), now)
		assert.False(t, e.Due(now, allDay), now)
	}
}

func TestEvaluator_CustomSettings(t *testing.T) {
	e := Evaluator{Window: 5 * time.Minute, AllDayAt: task.Clock{Hour: 7, Minute: 30}}

	timed := mustTask(t, "- [ ] 2024-05-01 14:30 : Renew badge")
	assert.True(t, e.Due(at(14, 34, 59), timed))
	assert.False(t, e.Due(at(14, 35, 0), timed))

	allDay := mustTask(t, "- [ ] 2024-05-01 : Water plants")
	assert.False(t, e.Due(at(9, 0, 0), allDay))
	assert.True(t, e.Due(at(7, 30, 0), allDay))
	assert.True(t, e.Due(at(7, 34, 0), allDay))
}

func TestEvaluator_ZeroWindowFallsBackToDefault(t *testing.T) {
	e := Evaluator{AllDayAt: DefaultAllDayAt}
	tk := mustTask(t, "- [ ] 2024-05-01 14:30 : Renew badge")

	assert.True(t, e.Due(at(14, 30, 59), tk))
	assert.False(t, e.Due(at(14, 31, 0), tk))
}

func TestEvaluator_UsesNowLocation(t *testing.T) {
	e := DefaultEvaluator()
	tk := mustTask(t, "- [ ] 2024-05-01 14:30 : Renew badge")

	zone := time.FixedZone("plus3", 3*60*60)
	assert.True(t, e.Due(time.Date(2024, 5, 1, 14, 30, 0, 0, zone), tk))
	// Same instant expressed in UTC is 11:30 on the wall clock.
	assert.False(t, e.Due(time.Date(2024, 5, 1, 14, 30, 0, 0, zone).UTC(), tk))
}

func TestEvaluator_InvalidClockNeverDue(t *testing.T) {
	e := DefaultEvaluator()
	tk := task.Task{Date: task.Date{Year: 2024, Month: 5, Day: 1}, Time: &task.Clock{Hour: 25}, Description: "bogus"}

	assert.False(t, e.Due(at(1, 0, 0), tk))
}
