package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/commutetrackr-go/internal/database"
	"github.com/jengzang/commutetrackr-go/internal/models"
)

// CommuteRepository handles database operations for commute logs
type CommuteRepository struct {
	db *sql.DB
}

// NewCommuteRepository creates a new commute repository
func NewCommuteRepository(db *sql.DB) *CommuteRepository {
	return &CommuteRepository{db: db}
}

var slotColumns = func() string {
	names := make([]string, 0, models.NumSlots)
	for _, s := range models.AllSlots() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}()

var selectLogs = "SELECT id, date, " + slotColumns + " FROM commute_logs"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLog(row rowScanner) (*models.CommuteLog, error) {
	var values [models.NumSlots]sql.NullString
	dest := make([]interface{}, 0, models.NumSlots+2)

	log := models.NewCommuteLog("")
	dest = append(dest, &log.ID, &log.Date)
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for i, v := range values {
		if v.Valid && v.String != "" {
			log.Set(models.Slot(i), v.String)
		}
	}
	return log, nil
}

// EnsureDay creates the record for date if it does not exist yet
func (r *CommuteRepository) EnsureDay(ctx context.Context, date string) error {
	_, err := r.db.ExecContext(ctx, "INSERT OR IGNORE INTO commute_logs (date) VALUES (?)", date)
	if err != nil {
		return fmt.Errorf("failed to create commute log for %s: %w", date, err)
	}
	return nil
}

// GetByDate retrieves the record for date, or nil when there is none
func (r *CommuteRepository) GetByDate(ctx context.Context, date string) (*models.CommuteLog, error) {
	log, err := scanLog(r.db.QueryRowContext(ctx, selectLogs+" WHERE date = ?", date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get commute log: %w", err)
	}
	return log, nil
}

// GetOrCreate returns the record for date, creating an empty one if needed
func (r *CommuteRepository) GetOrCreate(ctx context.Context, date string) (*models.CommuteLog, error) {
	if err := r.EnsureDay(ctx, date); err != nil {
		return nil, err
	}
	log, err := r.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, fmt.Errorf("commute log for %s vanished after insert", date)
	}
	return log, nil
}

// SetSlotIfUnset stores value in slot for date unless the slot already holds
// a value. It reports whether the value was written.
func (r *CommuteRepository) SetSlotIfUnset(ctx context.Context, date string, slot models.Slot, value string) (bool, error) {
	var written bool
	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		written, err = setSlotIfUnset(ctx, tx, date, slot, value)
		return err
	})
	return written, err
}

// SetSlotsIfUnset writes several slots for date in one transaction. Slots that
// are already set are left alone and returned in skipped.
func (r *CommuteRepository) SetSlotsIfUnset(ctx context.Context, date string, values map[models.Slot]string) (written, skipped []models.Slot, err error) {
	err = database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		written, skipped = nil, nil
		for _, slot := range models.AllSlots() {
			value, ok := values[slot]
			if !ok {
				continue
			}
			ok, err := setSlotIfUnset(ctx, tx, date, slot, value)
			if err != nil {
				return err
			}
			if ok {
				written = append(written, slot)
			} else {
				skipped = append(skipped, slot)
			}
		}
		return nil
	})
	return written, skipped, err
}

func setSlotIfUnset(ctx context.Context, tx *sql.Tx, date string, slot models.Slot, value string) (bool, error) {
	if !slot.Valid() {
		return false, fmt.Errorf("%w: %d", models.ErrInvalidSlot, int(slot))
	}

	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO commute_logs (date) VALUES (?)", date); err != nil {
		return false, fmt.Errorf("failed to create commute log for %s: %w", date, err)
	}

	// The column name comes from the closed slot enumeration, never from input.
	col := slot.String()
	query := fmt.Sprintf("UPDATE commute_logs SET %s = ? WHERE date = ? AND (%s IS NULL OR %s = '')", col, col, col)
	res, err := tx.ExecContext(ctx, query, value, date)
	if err != nil {
		return false, fmt.Errorf("failed to update %s: %w", col, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// ListActive retrieves every record with at least one activity slot set,
// ordered by date. Activity is decided by CommuteLog.IsActive so empty
// strings count as unset.
func (r *CommuteRepository) ListActive(ctx context.Context, filter models.LogFilter) ([]models.CommuteLog, error) {
	var conditions []string
	var args []interface{}
	if filter.From != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.To)
	}

	query := selectLogs
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commute logs: %w", err)
	}
	defer rows.Close()

	var logs []models.CommuteLog
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commute log: %w", err)
		}
		if !log.IsActive() {
			continue
		}
		logs = append(logs, *log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate commute logs: %w", err)
	}

	return logs, nil
}
