package model

// Hotel represents a row in the `hotels` table.  A hotel owns a set of
// rooms; availability queries project free rooms up to their hotels.
//
// Fields:
//
//	ID       – primary key identifier.
//	Title    – display name of the hotel.
//	Location – free-text location used for substring search.
type Hotel struct {
	ID       uint64 `json:"id"`       // hotels.id
	Title    string `json:"title"`    // hotels.title
	Location string `json:"location"` // hotels.location
}
