package bookingRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelbooking/database/repository"
	"hotelbooking/models"

	"github.com/lib/pq"
)

// PostgresBookingRepo implements BookingRepository on PostgreSQL. Overlap safety
// comes from the bookings_no_overlap exclusion constraint created by database.MigratePostgres.
type PostgresBookingRepo struct {
	db *sql.DB
}

func NewPostgresBookingRepo(db *sql.DB) *PostgresBookingRepo {
	return &PostgresBookingRepo{db: db}
}

const bookingColumns = `id, booking_reference, user_id, room_id, room_name, check_in, check_out, nights,
	adults, children, rooms_count, net_price, tax_amount, total_price, special_requests,
	booking_status, payment_status, payment_method, payment_reference, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.RoomID, &b.RoomName, &b.CheckIn, &b.CheckOut, &b.Nights,
		&b.Adults, &b.Children, &b.RoomsCount, &b.NetPrice, &b.TaxAmount, &b.TotalPrice, &b.SpecialRequests,
		&b.Status, &b.PaymentStatus, &b.PaymentMethod, &b.PaymentReference, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func activeStatusArray() pq.StringArray {
	out := make(pq.StringArray, len(models.ActiveStatuses))
	for i, s := range models.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

// InsertIfAvailable relies on the exclusion constraint: the insert itself is the overlap check.
// The share lock on the room row orders it against DeleteRoomIfIdle.
func (r *PostgresBookingRepo) InsertIfAvailable(ctx context.Context, b *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = $1 FOR SHARE`, b.RoomID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock room %s: %w", b.RoomID, err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
		b.ID, b.Reference, b.UserID, b.RoomID, b.RoomName, b.CheckIn, b.CheckOut, b.Nights,
		b.Adults, b.Children, b.RoomsCount, b.NetPrice, b.TaxAmount, b.TotalPrice, b.SpecialRequests,
		b.Status, b.PaymentStatus, b.PaymentMethod, b.PaymentReference, b.CreatedAt, b.UpdatedAt)
	if err == nil {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit booking: %w", err)
		}
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23P01":
			return repository.ErrOverlap
		case "23505":
			if strings.Contains(pqErr.Constraint, "reference") {
				return repository.ErrDuplicateReference
			}
			return repository.ErrDuplicateKey
		}
	}
	return fmt.Errorf("failed to insert booking: %w", err)
}

func (r *PostgresBookingRepo) HasOverlap(ctx context.Context, roomID string, checkIn, checkOut models.Date, excludeID string) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE room_id = $1
		  AND booking_status = ANY($2)
		  AND check_in < $4 AND check_out > $3
		  AND id <> $5)`,
		roomID, activeStatusArray(), checkIn, checkOut, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlap for room %s: %w", roomID, err)
	}
	return exists, nil
}

func (r *PostgresBookingRepo) queryOne(ctx context.Context, where string, arg any) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	b, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return b, nil
}

func (r *PostgresBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.queryOne(ctx, "id = $1", id)
}

func (r *PostgresBookingRepo) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	return r.queryOne(ctx, "booking_reference = $1", reference)
}

func (r *PostgresBookingRepo) query(ctx context.Context, tail string, args ...any) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PostgresBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.query(ctx, `WHERE user_id = $1 ORDER BY created_at DESC, booking_reference DESC`, userID)
}

func (r *PostgresBookingRepo) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.query(ctx, `ORDER BY created_at DESC, booking_reference DESC`)
}

func (r *PostgresBookingRepo) ListActiveInRange(ctx context.Context, roomID string, from, to models.Date) ([]models.Booking, error) {
	return r.query(ctx, `WHERE room_id = $1 AND booking_status = ANY($2) AND check_in < $4 AND check_out > $3
		ORDER BY check_in`, roomID, activeStatusArray(), from, to)
}

// DeleteRoomIfIdle locks the room row before counting. InsertIfAvailable takes a share
// lock on the same row, so a booking cannot land between the count and the delete.
func (r *PostgresBookingRepo) DeleteRoomIfIdle(ctx context.Context, roomID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, roomID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock room %s: %w", roomID, err)
	}

	var active bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE room_id = $1 AND booking_status = ANY($2))`,
		roomID, activeStatusArray()).Scan(&active)
	if err != nil {
		return fmt.Errorf("failed to count bookings for room %s: %w", roomID, err)
	}
	if active {
		return repository.ErrActiveBookings
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, roomID); err != nil {
		return fmt.Errorf("failed to delete room %s: %w", roomID, err)
	}
	return tx.Commit()
}

// UpdateStatus guards the UPDATE with the expected status so a concurrent transition loses cleanly.
func (r *PostgresBookingRepo) UpdateStatus(ctx context.Context, id string, expected models.BookingStatus, upd models.BookingUpdate) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Status != nil {
		add("booking_status", string(*upd.Status))
	}
	if upd.PaymentStatus != nil {
		add("payment_status", string(*upd.PaymentStatus))
	}
	if upd.PaymentMethod != nil {
		add("payment_method", *upd.PaymentMethod)
	}
	if upd.PaymentReference != nil {
		add("payment_reference", *upd.PaymentReference)
	}
	args = append(args, id, string(expected))

	q := fmt.Sprintf(`UPDATE bookings SET %s WHERE id = $%d AND booking_status = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), bookingColumns)
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, args...))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
	}

	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if current == nil {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrStaleStatus
}
