// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// allocated.  It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	UserID          uint64 `json:"user_id"`
	RoomID          uint64 `json:"room_id"`
	HotelID         uint64 `json:"hotel_id"`
	HotelTitle      string `json:"hotel_title"`
	RoomTitle       string `json:"room_title"`
	DateFrom        string `json:"date_from"`
	DateTo          string `json:"date_to"`
	Nights          int    `json:"nights"`
	TotalCostCents  uint64 `json:"total_cost_cents"`
	ConfirmedAt     string `json:"confirmed_at"`
}

// ImageUploadedEvent is published when a new image lands in the upload
// directory.  The consumer produces resized renditions next to the
// original.
type ImageUploadedEvent struct {
	Path       string `json:"path"`
	UploadedAt string `json:"uploaded_at"`
}
