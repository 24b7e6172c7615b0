package attendance

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Service is the attendance state machine layered on the Store. Every write
// runs as one read-modify-write transaction scoped to a single (user, period)
// so concurrent check-ins for the same user cannot lose updates.
type Service struct {
	db    *gorm.DB
	store *Store
}

// NewService creates the engine on top of an initialized gorm connection.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

// CheckIn records attendance for now's calendar day. Checking in again on an
// already-attended day increments that day's count rather than failing.
// It returns whether this was the first check-in of the day plus the full
// updated day→count mapping for the month.
func (s *Service) CheckIn(ctx context.Context, userID string, now time.Time) (bool, map[int]int, error) {
	p := PeriodOf(now)
	day := now.Day()

	var (
		first  bool
		counts map[int]int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.store.withTx(tx)
		if err := st.ResetPeriod(userID, p); err != nil {
			return err
		}
		m, err := st.Load(userID, p)
		if err != nil {
			return err
		}
		prev := m[day]
		first = prev == 0
		if err := st.UpsertDay(userID, p, day, prev+1); err != nil {
			return err
		}
		m[day] = prev + 1
		counts = m
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return first, counts, nil
}

// Backfill records attendance for an earlier day of the current month.
// Only days strictly before today are valid, and a day that already has a
// count is left untouched: the operation reports ok=false with the unchanged
// mapping instead of incrementing.
func (s *Service) Backfill(ctx context.Context, userID string, now time.Time, day int) (bool, map[int]int, error) {
	// The caller is expected to validate; re-check before touching storage.
	if day < 1 || day >= now.Day() {
		return false, nil, fmt.Errorf("%w: day %d not in [1, %d)", ErrInvalidDay, day, now.Day())
	}
	p := PeriodOf(now)

	var (
		ok     bool
		counts map[int]int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.store.withTx(tx)
		if err := st.ResetPeriod(userID, p); err != nil {
			return err
		}
		m, err := st.Load(userID, p)
		if err != nil {
			return err
		}
		if m[day] >= 1 {
			ok = false
			counts = m
			return nil
		}
		if err := st.UpsertDay(userID, p, day, 1); err != nil {
			return err
		}
		m[day] = 1
		ok = true
		counts = m
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return ok, counts, nil
}

// DayCounts returns the user's day→count mapping for now's month without
// mutating anything. Rows left over from a previous month are simply not
// visible; they are removed by the next write or by the sweeper.
func (s *Service) DayCounts(ctx context.Context, userID string, now time.Time) (map[int]int, error) {
	return s.store.withTx(s.db.WithContext(ctx)).Load(userID, PeriodOf(now))
}

// Rank produces the leaderboard, optionally restricted to one month of now's
// year. Without a filter it covers whatever periods the sweeper has retained.
func (s *Service) Rank(ctx context.Context, month *int, now time.Time) ([]RankEntry, error) {
	if month != nil && (*month < 1 || *month > 12) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, *month)
	}
	return s.store.withTx(s.db.WithContext(ctx)).Aggregate(month, now.Year())
}

// Sweep discards records from any period other than now's and removes users
// left with no records. Running it twice in the same period is a no-op.
func (s *Service) Sweep(ctx context.Context, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.store.withTx(tx).Sweep(PeriodOf(now))
	})
}
