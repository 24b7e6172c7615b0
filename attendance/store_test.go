package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammao/checkhub/models"
)

func TestStoreLoadEmptyForUnknownUser(t *testing.T) {
	store := NewStore(newTestDB(t))

	counts, err := store.Load("nobody", Period{Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestStoreUpsertDayCreatesUser(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	p := Period{Year: 2024, Month: 3}

	require.NoError(t, store.UpsertDay("u1", p, 5, 1))

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "u1").Error)

	counts, err := store.Load("u1", p)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{5: 1}, counts)
}

func TestStoreUpsertDayOverwritesCount(t *testing.T) {
	store := NewStore(newTestDB(t))
	p := Period{Year: 2024, Month: 3}

	require.NoError(t, store.UpsertDay("u1", p, 5, 1))
	require.NoError(t, store.UpsertDay("u1", p, 5, 7))

	counts, err := store.Load("u1", p)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{5: 7}, counts)
}

func TestStoreUpsertDayValidatesAgainstMonthLength(t *testing.T) {
	store := NewStore(newTestDB(t))
	feb := Period{Year: 2023, Month: 2}

	assert.ErrorIs(t, store.UpsertDay("u1", feb, 29, 1), ErrInvalidDay)
	assert.ErrorIs(t, store.UpsertDay("u1", feb, 0, 1), ErrInvalidDay)
	assert.NoError(t, store.UpsertDay("u1", feb, 28, 1))
}

func TestStoreUpsertDayZeroCountDeletesRow(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	p := Period{Year: 2024, Month: 3}

	require.NoError(t, store.UpsertDay("u1", p, 5, 2))
	require.NoError(t, store.UpsertDay("u1", p, 5, 0))

	// A zero count means absence; no row should survive.
	var n int64
	require.NoError(t, db.Model(&models.AttendanceRecord{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestStoreResetPeriodDropsOtherMonths(t *testing.T) {
	store := NewStore(newTestDB(t))
	feb := Period{Year: 2024, Month: 2}
	mar := Period{Year: 2024, Month: 3}

	require.NoError(t, store.UpsertDay("u1", feb, 10, 1))
	require.NoError(t, store.UpsertDay("u1", mar, 5, 1))

	require.NoError(t, store.ResetPeriod("u1", mar))

	counts, err := store.Load("u1", feb)
	require.NoError(t, err)
	assert.Empty(t, counts)

	counts, err = store.Load("u1", mar)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{5: 1}, counts)
}

func TestStoreResetPeriodIsIdempotent(t *testing.T) {
	store := NewStore(newTestDB(t))
	mar := Period{Year: 2024, Month: 3}

	require.NoError(t, store.UpsertDay("u1", mar, 5, 3))
	require.NoError(t, store.ResetPeriod("u1", mar))
	require.NoError(t, store.ResetPeriod("u1", mar))

	counts, err := store.Load("u1", mar)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{5: 3}, counts)
}

func TestStoreAggregateJoinsProfileData(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	mar := Period{Year: 2024, Month: 3}

	require.NoError(t, store.UpsertDay("u1", mar, 1, 2))
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", "u1").
		Update("nickname", "Sam").Error)

	entries, err := store.Aggregate(nil, 2024)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, "Sam", entries[0].Nickname)
	assert.Equal(t, 2, entries[0].Total)
}

func TestStoreAggregateMonthFilterUsesGivenYear(t *testing.T) {
	store := NewStore(newTestDB(t))

	require.NoError(t, store.UpsertDay("u1", Period{Year: 2023, Month: 3}, 1, 9))
	require.NoError(t, store.UpsertDay("u2", Period{Year: 2024, Month: 3}, 1, 1))

	month := 3
	entries, err := store.Aggregate(&month, 2024)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u2", entries[0].UserID)

	// Without the filter both retained periods contribute.
	entries, err = store.Aggregate(nil, 2024)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestStoreSweepKeepsOperatorsIntact(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	require.NoError(t, db.Create(&models.Operator{Username: "bot", PasswordHash: "x"}).Error)
	require.NoError(t, store.UpsertDay("old", Period{Year: 2024, Month: 2}, 1, 1))

	require.NoError(t, store.Sweep(Period{Year: 2024, Month: 3}))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)

	var operators int64
	require.NoError(t, db.Model(&models.Operator{}).Count(&operators).Error)
	assert.EqualValues(t, 1, operators)
}
