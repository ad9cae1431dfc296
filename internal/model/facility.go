package model

// Facility is an amenity that can be attached to any number of rooms
// through the rooms_facilities join table.
type Facility struct {
	ID    uint64 `json:"id"`    // facilities.id
	Title string `json:"title"` // facilities.title
}

// RoomFacility links a room to a facility (rooms_facilities row).
type RoomFacility struct {
	ID         uint64 // rooms_facilities.id
	RoomID     uint64 // rooms_facilities.room_id
	FacilityID uint64 // rooms_facilities.facility_id
}
