package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-booking/internal/model"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/hotel_booking_test?parseTime=true&loc=UTC"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	setupSchema(t, db)
	return db
}

func setupSchema(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS hotels (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			location VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			hotel_id BIGINT UNSIGNED NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NULL,
			price_cents INT UNSIGNED NOT NULL,
			quantity INT UNSIGNED NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NOT NULL,
			room_id BIGINT UNSIGNED NOT NULL,
			date_from DATE NOT NULL,
			date_to DATE NOT NULL,
			price_cents INT UNSIGNED NOT NULL,
			KEY idx_bookings_room_dates (room_id, date_from, date_to)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("schema setup failed: %v", err)
		}
	}
}

// seedRoom inserts a hotel with one room and returns the room id.  Any
// leftover bookings for the room are removed.
func seedRoom(t *testing.T, db *sql.DB, quantity uint32) uint64 {
	t.Helper()
	ctx := context.Background()

	res, err := db.ExecContext(ctx,
		"INSERT INTO hotels (title, location) VALUES ('Test Hotel', 'Testville')")
	if err != nil {
		t.Fatalf("seed hotel failed: %v", err)
	}
	hotelID, _ := res.LastInsertId()

	res, err = db.ExecContext(ctx,
		"INSERT INTO rooms (hotel_id, title, price_cents, quantity) VALUES (?, 'Standard', 10000, ?)",
		hotelID, quantity)
	if err != nil {
		t.Fatalf("seed room failed: %v", err)
	}
	roomID, _ := res.LastInsertId()

	t.Cleanup(func() {
		db.ExecContext(ctx, "DELETE FROM bookings WHERE room_id = ?", roomID)
		db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", roomID)
		db.ExecContext(ctx, "DELETE FROM hotels WHERE id = ?", hotelID)
	})
	return uint64(roomID)
}

func TestAllocate_Success(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	repo := NewBookingRepo(db, false)
	roomID := seedRoom(t, db, 3)

	b := model.Booking{
		UserID:     1,
		RoomID:     roomID,
		DateFrom:   d("2026-09-01"),
		DateTo:     d("2026-09-05"),
		PriceCents: 10000,
	}
	if err := repo.Allocate(context.Background(), &b); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if b.ID == 0 {
		t.Error("expected generated booking id")
	}

	got, err := repo.GetByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.RoomID != roomID || got.PriceCents != 10000 {
		t.Errorf("unexpected booking row: %+v", got)
	}
}

func TestAllocate_NoVacancyWhenFull(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	repo := NewBookingRepo(db, false)
	roomID := seedRoom(t, db, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		b := model.Booking{UserID: uint64(i + 1), RoomID: roomID,
			DateFrom: d("2026-09-01"), DateTo: d("2026-09-05"), PriceCents: 10000}
		if err := repo.Allocate(ctx, &b); err != nil {
			t.Fatalf("Allocate %d failed: %v", i, err)
		}
	}

	b := model.Booking{UserID: 3, RoomID: roomID,
		DateFrom: d("2026-09-03"), DateTo: d("2026-09-08"), PriceCents: 10000}
	err := repo.Allocate(ctx, &b)
	if !errors.Is(err, ErrNoVacancy) {
		t.Fatalf("expected ErrNoVacancy, got: %v", err)
	}

	// A disjoint range must still succeed.
	b2 := model.Booking{UserID: 3, RoomID: roomID,
		DateFrom: d("2026-09-10"), DateTo: d("2026-09-12"), PriceCents: 10000}
	if err := repo.Allocate(ctx, &b2); err != nil {
		t.Fatalf("disjoint Allocate failed: %v", err)
	}
}

func TestAllocate_BoundaryConflict(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()

	// Default policy: ranges touching at a boundary day conflict.
	strict := NewBookingRepo(db, false)
	roomID := seedRoom(t, db, 1)

	first := model.Booking{UserID: 1, RoomID: roomID,
		DateFrom: d("2026-09-01"), DateTo: d("2026-09-05"), PriceCents: 10000}
	if err := strict.Allocate(ctx, &first); err != nil {
		t.Fatalf("first Allocate failed: %v", err)
	}
	second := model.Booking{UserID: 2, RoomID: roomID,
		DateFrom: d("2026-09-05"), DateTo: d("2026-09-08"), PriceCents: 10000}
	if err := strict.Allocate(ctx, &second); !errors.Is(err, ErrNoVacancy) {
		t.Fatalf("expected boundary conflict, got: %v", err)
	}

	// Turnover policy: check-in on another's checkout day is allowed.
	turnover := NewBookingRepo(db, true)
	if err := turnover.Allocate(ctx, &second); err != nil {
		t.Fatalf("turnover Allocate failed: %v", err)
	}
}

func TestAllocate_InvalidRange(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	repo := NewBookingRepo(db, false)
	roomID := seedRoom(t, db, 1)

	b := model.Booking{UserID: 1, RoomID: roomID,
		DateFrom: d("2026-09-05"), DateTo: d("2026-09-01"), PriceCents: 10000}
	if err := repo.Allocate(context.Background(), &b); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got: %v", err)
	}

	b.DateTo = b.DateFrom
	if err := repo.Allocate(context.Background(), &b); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange for zero nights, got: %v", err)
	}
}

func TestAllocate_RoomNotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	repo := NewBookingRepo(db, false)
	b := model.Booking{UserID: 1, RoomID: 999999999,
		DateFrom: d("2026-09-01"), DateTo: d("2026-09-05"), PriceCents: 10000}
	if err := repo.Allocate(context.Background(), &b); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got: %v", err)
	}
}

// TestAllocate_NoOversell races many goroutines for the same range and
// verifies that committed bookings never exceed the room's quantity.
func TestAllocate_NoOversell(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	const (
		quantity   = 2
		contenders = 10
	)
	repo := NewBookingRepo(db, false)
	roomID := seedRoom(t, db, quantity)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		vacancies int
	)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			b := model.Booking{UserID: userID, RoomID: roomID,
				DateFrom: d("2026-09-01"), DateTo: d("2026-09-05"), PriceCents: 10000}
			err := repo.Allocate(ctx, &b)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrNoVacancy):
				vacancies++
			case errors.Is(err, ErrStoreBusy):
				// Transient; counts as neither outcome.
			default:
				t.Errorf("unexpected Allocate error: %v", err)
			}
		}(uint64(i + 1))
	}
	wg.Wait()

	if successes != quantity {
		t.Errorf("expected exactly %d successful allocations, got %d (vacancies=%d)",
			quantity, successes, vacancies)
	}

	var committed int
	if err := db.QueryRow(
		"SELECT COUNT(*) FROM bookings WHERE room_id = ?", roomID).Scan(&committed); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if committed > quantity {
		t.Errorf("oversell: %d bookings committed for quantity %d", committed, quantity)
	}
}

func TestAllocate_CancelledContextLeavesNoRow(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	repo := NewBookingRepo(db, false)
	roomID := seedRoom(t, db, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := model.Booking{UserID: 1, RoomID: roomID,
		DateFrom: d("2026-09-01"), DateTo: d("2026-09-05"), PriceCents: 10000}
	if err := repo.Allocate(ctx, &b); err == nil {
		t.Fatal("expected error from cancelled context")
	}

	var committed int
	if err := db.QueryRow(
		"SELECT COUNT(*) FROM bookings WHERE room_id = ?", roomID).Scan(&committed); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if committed != 0 {
		t.Errorf("expected no committed rows after cancellation, got %d", committed)
	}
}

func TestDelete_Ownership(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	repo := NewBookingRepo(db, false)
	roomID := seedRoom(t, db, 1)
	ctx := context.Background()

	b := model.Booking{UserID: 7, RoomID: roomID,
		DateFrom: d("2026-09-01"), DateTo: d("2026-09-05"), PriceCents: 10000}
	if err := repo.Allocate(ctx, &b); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if err := repo.Delete(ctx, b.ID, 8); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign booking, got: %v", err)
	}
	if err := repo.Delete(ctx, b.ID, 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, b.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound after delete, got: %v", err)
	}

	// Cancelling freed the unit; the range can be booked again.
	b2 := model.Booking{UserID: 9, RoomID: roomID,
		DateFrom: d("2026-09-01"), DateTo: d("2026-09-05"), PriceCents: 10000}
	if err := repo.Allocate(ctx, &b2); err != nil {
		t.Fatalf("re-Allocate after delete failed: %v", err)
	}
}

func TestAvailability_ReflectsBookings(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	bookingRepo := NewBookingRepo(db, false)
	roomID := seedRoom(t, db, 1)
	ctx := context.Background()

	query, args, err := availableRoomIDs(d("2026-09-01"), d("2026-09-05"), nil, false)
	if err != nil {
		t.Fatalf("build query failed: %v", err)
	}
	contains := func() bool {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			t.Fatalf("availability query failed: %v", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id uint64
			if err := rows.Scan(&id); err != nil {
				t.Fatalf("scan failed: %v", err)
			}
			if id == roomID {
				return true
			}
		}
		return false
	}

	if !contains() {
		t.Fatal("expected room to be available before booking")
	}

	b := model.Booking{UserID: 1, RoomID: roomID,
		DateFrom: d("2026-09-02"), DateTo: d("2026-09-04"), PriceCents: 10000}
	if err := bookingRepo.Allocate(ctx, &b); err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if contains() {
		t.Fatal("expected room to disappear from availability after booking")
	}
}
