package userRepo

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

// PostgresUserRepo implements UserRepository on PostgreSQL.
type PostgresUserRepo struct {
	db *sql.DB
}

func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, email, first_name, last_name, phone, address, city, country, zip_code,
	password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.Address, &u.City, &u.Country,
		&u.ZipCode, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	user.Email = strings.ToLower(user.Email)

	_, err := r.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		user.ID, user.Email, user.FirstName, user.LastName, user.Phone, user.Address, user.City, user.Country,
		user.ZipCode, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) queryOne(ctx context.Context, where string, arg any) (*models.User, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.queryOne(ctx, "id = $1", id)
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.queryOne(ctx, "email = $1", strings.ToLower(email))
}

func (r *PostgresUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	for _, f := range []struct {
		col string
		v   *string
	}{
		{"first_name", upd.FirstName},
		{"last_name", upd.LastName},
		{"phone", upd.Phone},
		{"address", upd.Address},
		{"city", upd.City},
		{"country", upd.Country},
		{"zip_code", upd.ZipCode},
	} {
		if f.v != nil {
			args = append(args, *f.v)
			sets = append(sets, fmt.Sprintf("%s = $%d", f.col, len(args)))
		}
	}
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), userColumns)
	u, err := scanUser(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return u, nil
}
