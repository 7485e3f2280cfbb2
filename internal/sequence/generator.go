package sequence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/greenveggies/backend/shared/storage"
)

// Business identifier prefixes. Generated IDs look like
// OD00030012100325, i.e. prefix + 4-digit daily sequence +
// optional user digits + DDMMYY.
const (
	OrderPrefix      = "OD"
	ProductPrefix    = "SP"
	PaymentPrefix    = "PM"
	CategoryPrefix   = "CG"
	StockEntryPrefix = "SE"
)

const dateLayout = "020106"

// Next returns the next identifier for the given prefix within the current
// calendar-day window. The sequence is backed by an atomic per-day-per-entity
// counter row, so two concurrent callers can never observe the same value.
// Runs on the caller's Queryer and therefore joins an enclosing transaction.
func Next(ctx context.Context, q storage.Queryer, prefix string, now time.Time) (string, error) {
	seq, err := nextSeq(ctx, q, prefix, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d%s", prefix, seq, now.Format(dateLayout)), nil
}

// NextForUser is Next with the numeric digits of the user identifier spliced
// between the sequence and the date. Used for order IDs.
func NextForUser(ctx context.Context, q storage.Queryer, prefix, userID string, now time.Time) (string, error) {
	seq, err := nextSeq(ctx, q, prefix, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d%s%s", prefix, seq, UserDigits(userID), now.Format(dateLayout)), nil
}

// UserDigits extracts the numeric part of a user identifier ("US0012" -> "0012").
// Falls back to "0" so generated IDs always keep their fixed shape.
func UserDigits(userID string) string {
	var b strings.Builder
	for _, r := range userID {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

func nextSeq(ctx context.Context, q storage.Queryer, entity string, now time.Time) (int, error) {
	query := `
		INSERT INTO id_counters (entity, day, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (entity, day)
		DO UPDATE SET seq = id_counters.seq + 1
		RETURNING seq
	`

	var seq int
	err := q.QueryRowContext(ctx, query, entity, now.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("sequence increment error (%s): %w", entity, err)
	}

	return seq, nil
}
