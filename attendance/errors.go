package attendance

import "errors"

var (
	// ErrStorage wraps any failure of the underlying database. Callers may
	// retry the whole operation; no partial state is ever left behind.
	ErrStorage = errors.New("attendance storage failure")

	// ErrInvalidDay is returned when a backfill targets a day outside
	// [1, today) or outside the month entirely.
	ErrInvalidDay = errors.New("invalid attendance day")

	// ErrInvalidMonth is returned when a leaderboard month filter is outside [1, 12].
	ErrInvalidMonth = errors.New("invalid leaderboard month")
)
