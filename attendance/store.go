package attendance

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sammao/checkhub/models"
)

// Store is the durable mapping from (user, period) to per-day check-in
// counts, encoded as one AttendanceRecord row per attended day. Rows from a
// period other than the requested one are never surfaced by Load; write
// paths clear them via ResetPeriod before touching the current month.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on top of an initialized gorm connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// withTx rebinds the store to a transaction handle.
func (s *Store) withTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// RankEntry is one leaderboard row: a user and their summed check-in count,
// with display data joined in for the presentation layer.
type RankEntry struct {
	UserID     string `json:"user_id"`
	Nickname   string `json:"nickname"`
	AvatarData string `json:"avatar,omitempty"`
	Total      int    `json:"total"`
}

// Load returns the day→count mapping the user holds for the given period.
// Users without state, and users whose rows belong to a different period,
// yield an empty map.
func (s *Store) Load(userID string, p Period) (map[int]int, error) {
	var rows []models.AttendanceRecord
	err := s.db.
		Where("user_id = ? AND year = ? AND month = ?", userID, p.Year, p.Month).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load records: %v", ErrStorage, err)
	}

	counts := make(map[int]int, len(rows))
	for _, r := range rows {
		counts[r.Day] = r.Count
	}
	return counts, nil
}

// UpsertDay creates or overwrites the count for a single day, creating the
// user row when absent. A count below 1 deletes the day instead, since a
// zero count is represented by row absence.
func (s *Store) UpsertDay(userID string, p Period, day, count int) error {
	if !p.ContainsDay(day) {
		return fmt.Errorf("%w: day %d not in %d-%02d", ErrInvalidDay, day, p.Year, p.Month)
	}

	if err := s.ensureUser(userID); err != nil {
		return err
	}

	if count < 1 {
		err := s.db.
			Where("user_id = ? AND year = ? AND month = ? AND day = ?", userID, p.Year, p.Month, day).
			Delete(&models.AttendanceRecord{}).Error
		if err != nil {
			return fmt.Errorf("%w: delete day: %v", ErrStorage, err)
		}
		return nil
	}

	record := models.AttendanceRecord{
		UserID: userID,
		Year:   p.Year,
		Month:  p.Month,
		Day:    day,
		Count:  count,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": count}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("%w: upsert day: %v", ErrStorage, err)
	}
	return nil
}

// ResetPeriod deletes every record the user holds outside the given period
// and makes sure the user row exists. It is a no-op for users already on the
// current period, which is what makes the implicit rollover idempotent.
func (s *Store) ResetPeriod(userID string, p Period) error {
	if err := s.ensureUser(userID); err != nil {
		return err
	}
	err := s.db.
		Where("user_id = ? AND (year <> ? OR month <> ?)", userID, p.Year, p.Month).
		Delete(&models.AttendanceRecord{}).Error
	if err != nil {
		return fmt.Errorf("%w: reset period: %v", ErrStorage, err)
	}
	return nil
}

// Aggregate sums counts per user across retained records, optionally
// restricted to one month of the given year. Ordering is descending by
// total; ties break ascending by user id so results are deterministic.
func (s *Store) Aggregate(month *int, year int) ([]RankEntry, error) {
	q := s.db.Model(&models.AttendanceRecord{}).
		Select("attendance_records.user_id AS user_id, "+
			"COALESCE(users.nickname, '') AS nickname, "+
			"COALESCE(users.avatar_data, '') AS avatar_data, "+
			"SUM(attendance_records.count) AS total").
		Joins("LEFT JOIN users ON users.id = attendance_records.user_id").
		Group("attendance_records.user_id, users.nickname, users.avatar_data").
		Order("total DESC, attendance_records.user_id ASC")

	if month != nil {
		q = q.Where("attendance_records.month = ? AND attendance_records.year = ?", *month, year)
	}

	var entries []RankEntry
	if err := q.Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("%w: aggregate: %v", ErrStorage, err)
	}
	return entries, nil
}

// Sweep deletes every record whose period differs from the current one, then
// removes users left without any records.
func (s *Store) Sweep(current Period) error {
	err := s.db.
		Where("year <> ? OR month <> ?", current.Year, current.Month).
		Delete(&models.AttendanceRecord{}).Error
	if err != nil {
		return fmt.Errorf("%w: sweep records: %v", ErrStorage, err)
	}

	sub := s.db.Model(&models.AttendanceRecord{}).Distinct("user_id")
	err = s.db.Where("id NOT IN (?)", sub).Delete(&models.User{}).Error
	if err != nil {
		return fmt.Errorf("%w: sweep users: %v", ErrStorage, err)
	}
	return nil
}

func (s *Store) ensureUser(userID string) error {
	user := models.User{ID: userID}
	err := s.db.Where("id = ?", userID).FirstOrCreate(&user).Error
	if err != nil {
		return fmt.Errorf("%w: ensure user: %v", ErrStorage, err)
	}
	return nil
}
