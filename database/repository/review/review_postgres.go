package reviewRepo

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

// PostgresReviewRepo implements ReviewRepository on PostgreSQL. The reviews_user_room_key
// constraint enforces one review per user and room.
type PostgresReviewRepo struct {
	db *sql.DB
}

func NewPostgresReviewRepo(db *sql.DB) *PostgresReviewRepo {
	return &PostgresReviewRepo{db: db}
}

const reviewColumns = `id, user_id, room_id, booking_id, booking_reference, rating, comment, is_approved,
	author_name, room_name, created_at, updated_at`

func scanReview(row interface{ Scan(...any) error }) (*models.Review, error) {
	var rv models.Review
	if err := row.Scan(&rv.ID, &rv.UserID, &rv.RoomID, &rv.BookingID, &rv.BookingReference, &rv.Rating,
		&rv.Comment, &rv.IsApproved, &rv.AuthorName, &rv.RoomName, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *PostgresReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	rv.CreatedAt, rv.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rv.ID, rv.UserID, rv.RoomID, rv.BookingID, rv.BookingReference, rv.Rating, rv.Comment, rv.IsApproved,
		rv.AuthorName, rv.RoomName, rv.CreatedAt, rv.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *PostgresReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	rv, err := scanReview(r.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch review: %w", err)
	}
	return rv, nil
}

func (r *PostgresReviewRepo) List(ctx context.Context, f models.ReviewFilter) ([]models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var where []string
	var args []any
	if f.RoomID != "" {
		args = append(args, f.RoomID)
		where = append(where, fmt.Sprintf("room_id = $%d", len(args)))
	}
	if f.Approved != nil {
		args = append(args, *f.Approved)
		where = append(where, fmt.Sprintf("is_approved = $%d", len(args)))
	}
	q := `SELECT ` + reviewColumns + ` FROM reviews`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode review: %w", err)
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}

func (r *PostgresReviewRepo) Update(ctx context.Context, id string, upd models.ReviewUpdate) (*models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Rating != nil {
		set("rating", *upd.Rating)
	}
	if upd.Comment != nil {
		set("comment", *upd.Comment)
	}
	if upd.IsApproved != nil {
		set("is_approved", *upd.IsApproved)
	}
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE reviews SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), reviewColumns)
	rv, err := scanReview(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review %s: %w", id, err)
	}
	return rv, nil
}

func (r *PostgresReviewRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
