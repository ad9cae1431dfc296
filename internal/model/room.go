package model

// Room represents a bookable room type within a hotel.  Quantity is the
// number of physically identical units of this type; it is the capacity
// that the allocation path must never exceed for any single night.
//
// Fields:
//
//	ID          – primary key identifier.
//	HotelID     – owning hotel.
//	Title       – display name of the room type.
//	Description – optional free-text description.
//	PriceCents  – nightly price in cents.
//	Quantity    – number of identical units (always >= 1).
type Room struct {
	ID          uint64  `json:"id"`                    // rooms.id
	HotelID     uint64  `json:"hotel_id"`              // rooms.hotel_id
	Title       string  `json:"title"`                 // rooms.title
	Description *string `json:"description,omitempty"` // rooms.description (nullable)
	PriceCents  uint32  `json:"price_cents"`           // rooms.price_cents
	Quantity    uint32  `json:"quantity"`              // rooms.quantity
}

// RoomWithFacilities is a room together with its facilities, as returned
// by the browse endpoints.
type RoomWithFacilities struct {
	Room
	Facilities []Facility `json:"facilities"`
}
