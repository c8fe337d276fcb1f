package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// HotelRepo provides data access to the hotels table.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a new HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

const hotelColumns = `id, owner_id, name, city, address, description, is_active, created_at, updated_at`

// Create inserts a hotel and populates the generated ID.  A duplicate
// (owner, name) pair yields ErrConflict.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const q = `INSERT INTO hotels (owner_id, name, city, address, description, is_active)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.OwnerID, h.Name, h.City, h.Address, h.Description, h.IsActive)
	if err != nil {
		if IsDuplicateEntry(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID returns a hotel by its primary key, or ErrHotelNotFound.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id = ?`, id)
	var h model.Hotel
	var address, description sql.NullString
	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &address, &description,
		&h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	if address.Valid {
		v := address.String
		h.Address = &v
	}
	if description.Valid {
		v := description.String
		h.Description = &v
	}
	return &h, nil
}

// ListByOwner returns all hotels of an owner, newest first.
func (r *HotelRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Hotel, error) {
	const q = `SELECT ` + hotelColumns + ` FROM hotels WHERE owner_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		var address, description sql.NullString
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &address, &description,
			&h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		if address.Valid {
			v := address.String
			h.Address = &v
		}
		if description.Valid {
			v := description.String
			h.Description = &v
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
