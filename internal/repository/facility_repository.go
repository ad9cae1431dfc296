package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// FacilityRepo provides persistence for the facilities catalogue.
type FacilityRepo struct {
	db *sql.DB
}

// NewFacilityRepo constructs a FacilityRepo bound to the given database.
func NewFacilityRepo(db *sql.DB) *FacilityRepo { return &FacilityRepo{db: db} }

// ListAll returns every facility ordered by id.
func (r *FacilityRepo) ListAll(ctx context.Context) ([]model.Facility, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title FROM facilities ORDER BY id ASC")
	if err != nil {
		return nil, wrapStore(err)
	}
	defer rows.Close()

	out := make([]model.Facility, 0)
	for rows.Next() {
		var f model.Facility
		if err := rows.Scan(&f.ID, &f.Title); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Create inserts a facility and populates its generated id.
func (r *FacilityRepo) Create(ctx context.Context, f *model.Facility) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO facilities (title) VALUES (?)", f.Title)
	if err != nil {
		return wrapStore(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// Exist reports whether every id in the slice references a facility.
// Room creation uses it to reject unknown facility ids up front.
func (r *FacilityRepo) Exist(ctx context.Context, ids []uint64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	query := "SELECT COUNT(*) FROM facilities WHERE id IN ("
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, wrapStore(err)
	}
	return n == len(ids), nil
}
