package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"connectly/internal/model"
)

const uniqueViolation = "23505"

// ErrInvalidCursor is returned for a malformed pagination cursor.
var ErrInvalidCursor = model.NewInvalidField("cursor", "Invalid cursor.")

// uniqueConstraint returns the violated constraint name when err is a
// unique violation from either supported driver.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func isUniqueViolation(err error) bool {
	_, ok := uniqueConstraint(err)
	return ok
}

// parseCursor parses the compound cursor "id:timestamp", timestamp in unix microseconds.
func parseCursor(cursor string) (time.Time, int64, error) {
	parts := strings.Split(cursor, ":")
	if len(parts) != 2 {
		return time.Time{}, 0, ErrInvalidCursor
	}
	var id, ts int64
	if _, err := fmt.Sscanf(parts[0], "%d", &id); err != nil {
		return time.Time{}, 0, ErrInvalidCursor
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &ts); err != nil {
		return time.Time{}, 0, ErrInvalidCursor
	}
	return time.UnixMicro(ts), id, nil
}

func formatCursor(t time.Time, id int64) string {
	return fmt.Sprintf("%d:%d", id, t.UnixMicro())
}
