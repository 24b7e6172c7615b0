package attendance

import "time"

// Period identifies the (year, month) pair at which attendance resets.
// Records from any other period are treated as absent and eventually
// discarded by the sweeper.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// PeriodOf derives the period containing the given timestamp. Callers always
// supply "now" explicitly so the engine stays deterministic under test.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Equal reports whether two periods refer to the same calendar month.
func (p Period) Equal(other Period) bool {
	return p.Year == other.Year && p.Month == other.Month
}

// Days returns the number of calendar days in the period's month.
func (p Period) Days() int {
	// day 0 of the following month normalizes to the last day of this one
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ContainsDay reports whether day is a real calendar day of the period.
func (p Period) ContainsDay(day int) bool {
	return day >= 1 && day <= p.Days()
}
