package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammao/checkhub/models"
)

var march5 = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

func TestCheckInFirstTime(t *testing.T) {
	svc := NewService(newTestDB(t))

	first, counts, err := svc.CheckIn(context.Background(), "u1", march5)
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, map[int]int{5: 1}, counts)
}

func TestCheckInRepeatIncrements(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, _, err := svc.CheckIn(ctx, "u1", march5)
	require.NoError(t, err)

	first, counts, err := svc.CheckIn(ctx, "u1", march5)
	require.NoError(t, err)
	assert.False(t, first)
	assert.Equal(t, map[int]int{5: 2}, counts)

	// Counts only ever move up, by exactly one per call.
	for want := 3; want <= 6; want++ {
		_, counts, err = svc.CheckIn(ctx, "u1", march5)
		require.NoError(t, err)
		assert.Equal(t, want, counts[5])
	}
}

func TestCheckInPeriodRollover(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, _, err := svc.CheckIn(ctx, "u1", time.Date(2024, 2, 20, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// New month: prior history is gone, state persists under the new period.
	first, counts, err := svc.CheckIn(ctx, "u1", march5)
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, map[int]int{5: 1}, counts)

	counts, err = svc.DayCounts(ctx, "u1", march5)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{5: 1}, counts)

	// The February row was actually deleted, not just hidden.
	var stale int64
	db := svc.db
	require.NoError(t, db.Model(&models.AttendanceRecord{}).
		Where("user_id = ? AND month = ?", "u1", 2).Count(&stale).Error)
	assert.Zero(t, stale)
}

func TestBackfill(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, _, err := svc.CheckIn(ctx, "u1", march5)
	require.NoError(t, err)
	_, _, err = svc.CheckIn(ctx, "u1", march5)
	require.NoError(t, err)

	// Missed day 3: backfill succeeds and sets the count to exactly 1.
	ok, counts, err := svc.Backfill(ctx, "u1", march5, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[int]int{3: 1, 5: 2}, counts)

	// Backfilling the same day again is refused and changes nothing.
	ok, counts, err = svc.Backfill(ctx, "u1", march5, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, map[int]int{3: 1, 5: 2}, counts)
}

func TestBackfillRejectsOutOfRangeDays(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, _, err := svc.CheckIn(ctx, "u1", march5)
	require.NoError(t, err)

	for _, day := range []int{0, -1, 5, 6, 31} {
		_, _, err := svc.Backfill(ctx, "u1", march5, day)
		assert.ErrorIs(t, err, ErrInvalidDay, "day %d", day)
	}

	// Stored state is untouched after the rejections.
	counts, err := svc.DayCounts(ctx, "u1", march5)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{5: 1}, counts)
}

func TestBackfillStalePeriodStartsEmpty(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, _, err := svc.CheckIn(ctx, "u1", time.Date(2024, 2, 3, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Day 3 was attended in February, but March starts clean.
	ok, counts, err := svc.Backfill(ctx, "u1", march5, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[int]int{3: 1}, counts)
}

func TestDayCountsIsReadOnly(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	counts, err := svc.DayCounts(ctx, "ghost", march5)
	require.NoError(t, err)
	assert.Empty(t, counts)

	// A pure read must not create the user.
	var users int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestRankTotalsAndOrdering(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	// u1 totals 3 in March, u2 totals 5.
	for i := 0; i < 3; i++ {
		_, _, err := svc.CheckIn(ctx, "u1", march5)
		require.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		_, _, err := svc.CheckIn(ctx, "u2", march5)
		require.NoError(t, err)
	}
	ok, _, err := svc.Backfill(ctx, "u2", march5, 2)
	require.NoError(t, err)
	require.True(t, ok)

	month := 3
	entries, err := svc.Rank(ctx, &month, march5)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "u2", entries[0].UserID)
	assert.Equal(t, 5, entries[0].Total)
	assert.Equal(t, "u1", entries[1].UserID)
	assert.Equal(t, 3, entries[1].Total)
}

func TestRankTieBreaksByUserID(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"zeta", "alpha", "mid"} {
		_, _, err := svc.CheckIn(ctx, id, march5)
		require.NoError(t, err)
	}

	entries, err := svc.Rank(ctx, nil, march5)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].UserID)
	assert.Equal(t, "mid", entries[1].UserID)
	assert.Equal(t, "zeta", entries[2].UserID)
}

func TestRankMonthFilter(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, _, err := svc.CheckIn(ctx, "feb-only", time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, _, err = svc.CheckIn(ctx, "mar-only", march5)
	require.NoError(t, err)

	month := 3
	entries, err := svc.Rank(ctx, &month, march5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mar-only", entries[0].UserID)
}

func TestRankRejectsInvalidMonth(t *testing.T) {
	svc := NewService(newTestDB(t))

	for _, m := range []int{0, -1, 13} {
		month := m
		_, err := svc.Rank(context.Background(), &month, march5)
		assert.ErrorIs(t, err, ErrInvalidMonth, "month %d", m)
	}
}

func TestSweepRemovesStaleRecordsAndEmptyUsers(t *testing.T) {
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	_, _, err := svc.CheckIn(ctx, "old", time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, _, err = svc.CheckIn(ctx, "current", march5)
	require.NoError(t, err)

	require.NoError(t, svc.Sweep(ctx, march5))

	var records []models.AttendanceRecord
	require.NoError(t, svc.db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, "current", records[0].UserID)
	assert.Equal(t, 3, records[0].Month)

	var users []models.User
	require.NoError(t, svc.db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "current", users[0].ID)

	// Running the sweep again in the same period changes nothing.
	require.NoError(t, svc.Sweep(ctx, march5))
	var recCount, userCount int64
	require.NoError(t, svc.db.Model(&models.AttendanceRecord{}).Count(&recCount).Error)
	require.NoError(t, svc.db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 1, recCount)
	assert.EqualValues(t, 1, userCount)
}

func TestCheckInScenario(t *testing.T) {
	// The full walkthrough: check in, repeat, backfill, duplicate backfill,
	// invalid backfill of today.
	svc := NewService(newTestDB(t))
	ctx := context.Background()

	first, counts, err := svc.CheckIn(ctx, "u1", march5)
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, map[int]int{5: 1}, counts)

	first, counts, err = svc.CheckIn(ctx, "u1", march5)
	require.NoError(t, err)
	assert.False(t, first)
	assert.Equal(t, map[int]int{5: 2}, counts)

	ok, counts, err := svc.Backfill(ctx, "u1", march5, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[int]int{3: 1, 5: 2}, counts)

	ok, counts, err = svc.Backfill(ctx, "u1", march5, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, map[int]int{3: 1, 5: 2}, counts)

	_, _, err = svc.Backfill(ctx, "u1", march5, 5)
	assert.ErrorIs(t, err, ErrInvalidDay)

	counts, err = svc.DayCounts(ctx, "u1", march5)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{3: 1, 5: 2}, counts)
}
