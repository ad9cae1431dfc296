package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// RoomRepo provides persistence for rooms and their facility links.  The
// facilities relation is many-to-many through the rooms_facilities table;
// reads hydrate it in bulk, writes replace the link set inside the same
// transaction as the room change.
type RoomRepo struct {
	db       *sql.DB
	turnover bool // same-day turnover policy used by availability queries
}

// NewRoomRepo constructs a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB, allowSameDayTurnover bool) *RoomRepo {
	return &RoomRepo{db: db, turnover: allowSameDayTurnover}
}

const roomColumns = "id, hotel_id, title, description, price_cents, quantity"

func scanRoom(row interface{ Scan(...interface{}) error }) (model.Room, error) {
	var rm model.Room
	var desc sql.NullString
	err := row.Scan(&rm.ID, &rm.HotelID, &rm.Title, &desc, &rm.PriceCents, &rm.Quantity)
	if err != nil {
		return model.Room{}, err
	}
	if desc.Valid {
		d := desc.String
		rm.Description = &d
	}
	return rm, nil
}

// AvailableByHotel returns the hotel's rooms that have at least one free
// unit throughout [from, to], each with its facilities.  Pure read; rooms
// are ordered by id.
func (r *RoomRepo) AvailableByHotel(ctx context.Context, hotelID uint64, from, to time.Time) ([]model.RoomWithFacilities, error) {
	idsSQL, idsArgs, err := availableRoomIDs(from, to, &hotelID, r.turnover)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + roomColumns + " FROM rooms WHERE id IN (" + idsSQL + ") ORDER BY id ASC"
	rows, err := r.db.QueryContext(ctx, query, idsArgs...)
	if err != nil {
		return nil, wrapStore(err)
	}
	defer rows.Close()

	out := make([]model.RoomWithFacilities, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, model.RoomWithFacilities{Room: rm, Facilities: []model.Facility{}})
		ids = append(ids, rm.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	byRoom, err := r.facilitiesForRooms(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if fs, ok := byRoom[out[i].ID]; ok {
			out[i].Facilities = fs
		}
	}
	return out, nil
}

// GetByID returns one room of a hotel together with its facilities, or
// ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, hotelID, roomID uint64) (model.RoomWithFacilities, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE id = ? AND hotel_id = ?", roomID, hotelID)
	rm, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RoomWithFacilities{}, ErrRoomNotFound
	}
	if err != nil {
		return model.RoomWithFacilities{}, wrapStore(err)
	}
	byRoom, err := r.facilitiesForRooms(ctx, []uint64{rm.ID})
	if err != nil {
		return model.RoomWithFacilities{}, err
	}
	out := model.RoomWithFacilities{Room: rm, Facilities: []model.Facility{}}
	if fs, ok := byRoom[rm.ID]; ok {
		out.Facilities = fs
	}
	return out, nil
}

// Get returns a room by id alone.  The booking path uses it to resolve
// the nightly price snapshot and the owning hotel.
func (r *RoomRepo) Get(ctx context.Context, roomID uint64) (model.Room, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE id = ?", roomID)
	rm, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrRoomNotFound
	}
	return rm, wrapStore(err)
}

// Create inserts a room and its facility links in one transaction and
// populates the generated id.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room, facilityIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO rooms (hotel_id, title, description, price_cents, quantity) VALUES (?, ?, ?, ?, ?)",
		rm.HotelID, rm.Title, rm.Description, rm.PriceCents, rm.Quantity)
	if err != nil {
		return wrapStore(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	if err := replaceFacilityLinksTx(ctx, tx, rm.ID, facilityIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapStore(err)
	}
	committed = true
	return nil
}

// Update replaces every mutable field of a room and its facility link set
// in one transaction.  Returns ErrRoomNotFound when the room does not
// belong to the hotel.
func (r *RoomRepo) Update(ctx context.Context, rm model.Room, facilityIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM rooms WHERE id = ? AND hotel_id = ?", rm.ID, rm.HotelID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return wrapStore(err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE rooms SET title = ?, description = ?, price_cents = ?, quantity = ? WHERE id = ?",
		rm.Title, rm.Description, rm.PriceCents, rm.Quantity, rm.ID)
	if err != nil {
		return wrapStore(err)
	}
	if err := replaceFacilityLinksTx(ctx, tx, rm.ID, facilityIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapStore(err)
	}
	committed = true
	return nil
}

// RoomPatch carries optional field updates for a partial edit.  Nil
// fields are left untouched; a nil FacilityIDs keeps the current links.
type RoomPatch struct {
	Title       *string
	Description *string
	PriceCents  *uint32
	Quantity    *uint32
	FacilityIDs *[]uint64
}

// Patch applies a partial update to a room, replacing the facility link
// set only when FacilityIDs is non-nil.
func (r *RoomRepo) Patch(ctx context.Context, hotelID, roomID uint64, p RoomPatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM rooms WHERE id = ? AND hotel_id = ?", roomID, hotelID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return wrapStore(err)
	}

	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.PriceCents != nil {
		sets = append(sets, "price_cents = ?")
		args = append(args, *p.PriceCents)
	}
	if p.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *p.Quantity)
	}
	if len(sets) > 0 {
		args = append(args, roomID)
		if _, err := tx.ExecContext(ctx,
			"UPDATE rooms SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
			return wrapStore(err)
		}
	}
	if p.FacilityIDs != nil {
		if err := replaceFacilityLinksTx(ctx, tx, roomID, *p.FacilityIDs); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return wrapStore(err)
	}
	committed = true
	return nil
}

// Delete removes a room and its facility links.  Rooms referenced by
// bookings cannot be deleted and yield ErrConflict.
func (r *RoomRepo) Delete(ctx context.Context, hotelID, roomID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStore(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var n int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE room_id = ?", roomID).Scan(&n); err != nil {
		return wrapStore(err)
	}
	if n > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM rooms_facilities WHERE room_id = ?", roomID); err != nil {
		return wrapStore(err)
	}
	res, err := tx.ExecContext(ctx,
		"DELETE FROM rooms WHERE id = ? AND hotel_id = ?", roomID, hotelID)
	if err != nil {
		return wrapStore(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRoomNotFound
	}
	if err := tx.Commit(); err != nil {
		return wrapStore(err)
	}
	committed = true
	return nil
}

// replaceFacilityLinksTx rewrites the rooms_facilities set for a room.
// The old links are dropped and the new ones inserted in one statement.
func replaceFacilityLinksTx(ctx context.Context, tx *sql.Tx, roomID uint64, facilityIDs []uint64) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM rooms_facilities WHERE room_id = ?", roomID); err != nil {
		return wrapStore(err)
	}
	if len(facilityIDs) == 0 {
		return nil
	}
	query := "INSERT INTO rooms_facilities (room_id, facility_id) VALUES "
	args := make([]interface{}, 0, len(facilityIDs)*2)
	for i, fid := range facilityIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, roomID, fid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return wrapStore(err)
}

// facilitiesForRooms loads facilities for a set of rooms in one query and
// groups them by room id.
func (r *RoomRepo) facilitiesForRooms(ctx context.Context, roomIDs []uint64) (map[uint64][]model.Facility, error) {
	if len(roomIDs) == 0 {
		return map[uint64][]model.Facility{}, nil
	}
	placeholders := make([]string, 0, len(roomIDs))
	args := make([]interface{}, 0, len(roomIDs))
	for _, id := range roomIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := `SELECT rf.room_id, f.id, f.title
	          FROM rooms_facilities rf
	          JOIN facilities f ON f.id = rf.facility_id
	          WHERE rf.room_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY rf.room_id, f.id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStore(err)
	}
	defer rows.Close()

	out := make(map[uint64][]model.Facility)
	for rows.Next() {
		var roomID uint64
		var f model.Facility
		if err := rows.Scan(&roomID, &f.ID, &f.Title); err != nil {
			return nil, err
		}
		out[roomID] = append(out[roomID], f)
	}
	return out, rows.Err()
}
