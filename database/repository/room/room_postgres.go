package roomRepo

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

// PostgresRoomRepo implements RoomRepository on PostgreSQL.
type PostgresRoomRepo struct {
	db *sql.DB
}

func NewPostgresRoomRepo(db *sql.DB) *PostgresRoomRepo {
	return &PostgresRoomRepo{db: db}
}

const roomColumns = `id, slug, name, description, category, price_per_night, max_guests, size_sqm,
	bed_type, amenities, images, is_available, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*models.Room, error) {
	var room models.Room
	var amenities, images pq.StringArray
	err := row.Scan(&room.ID, &room.Slug, &room.Name, &room.Description, &room.Category, &room.PricePerNight,
		&room.MaxGuests, &room.SizeSqm, &room.BedType, &amenities, &images, &room.IsAvailable,
		&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, err
	}
	room.Amenities = []string(amenities)
	room.Images = []string(images)
	return &room, nil
}

func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return repository.ErrDuplicateKey
	}
	return err
}

func (r *PostgresRoomRepo) Create(ctx context.Context, room *models.Room) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	room.CreatedAt, room.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `INSERT INTO rooms (`+roomColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		room.ID, room.Slug, room.Name, room.Description, room.Category, room.PricePerNight, room.MaxGuests,
		room.SizeSqm, room.BedType, pq.Array(room.Amenities), pq.Array(room.Images), room.IsAvailable,
		room.CreatedAt, room.UpdatedAt)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *PostgresRoomRepo) queryOne(ctx context.Context, where string, arg any) (*models.Room, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	room, err := scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}
	return room, nil
}

func (r *PostgresRoomRepo) GetByID(ctx context.Context, id string) (*models.Room, error) {
	return r.queryOne(ctx, "id = $1", id)
}

func (r *PostgresRoomRepo) GetBySlug(ctx context.Context, slug string) (*models.Room, error) {
	return r.queryOne(ctx, "slug = $1", slug)
}

var roomOrder = map[string]string{
	models.SortPriceAsc:  "price_per_night ASC",
	models.SortPriceDesc: "price_per_night DESC",
	models.SortNameAsc:   "name ASC",
	models.SortNameDesc:  "name DESC",
}

func (r *PostgresRoomRepo) List(ctx context.Context, f models.RoomFilter) ([]models.Room, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Category != "" {
		where = append(where, "LOWER(category) = LOWER("+arg(f.Category)+")")
	}
	if f.MinPrice != nil {
		where = append(where, "price_per_night >= "+arg(int64(*f.MinPrice)))
	}
	if f.MaxPrice != nil {
		where = append(where, "price_per_night <= "+arg(int64(*f.MaxPrice)))
	}
	if f.AvailableOnly {
		where = append(where, "is_available")
	}
	if f.Search != "" {
		p := arg("%" + escapeLike(f.Search) + "%")
		where = append(where, "(name ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if len(f.Amenities) > 0 {
		lowered := make([]string, len(f.Amenities))
		for i, a := range f.Amenities {
			lowered[i] = strings.ToLower(a)
		}
		where = append(where, "(SELECT array_agg(LOWER(a)) FROM unnest(amenities) a) @> "+arg(pq.Array(lowered)))
	}

	q := `SELECT ` + roomColumns + ` FROM rooms`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	order, ok := roomOrder[f.SortBy]
	if !ok {
		order = roomOrder[models.SortPriceAsc]
	}
	q += " ORDER BY " + order

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]models.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode room: %w", err)
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Update writes only the columns upd carries.
func (r *PostgresRoomRepo) Update(ctx context.Context, id string, upd models.RoomUpdate) (*models.Room, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	sets := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Slug != nil {
		set("slug", *upd.Slug)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.Category != nil {
		set("category", *upd.Category)
	}
	if upd.PricePerNight != nil {
		set("price_per_night", int64(*upd.PricePerNight))
	}
	if upd.MaxGuests != nil {
		set("max_guests", *upd.MaxGuests)
	}
	if upd.SizeSqm != nil {
		set("size_sqm", *upd.SizeSqm)
	}
	if upd.BedType != nil {
		set("bed_type", *upd.BedType)
	}
	if upd.Amenities != nil {
		set("amenities", pq.Array(*upd.Amenities))
	}
	if upd.Images != nil {
		set("images", pq.Array(*upd.Images))
	}
	if upd.IsAvailable != nil {
		set("is_available", *upd.IsAvailable)
	}
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE rooms SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), roomColumns)
	room, err := scanRoom(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update room %s: %w", id, err)
	}
	return room, nil
}
