package repository

// RoomCatalog is the fixed set of bookable rooms.  It is populated once at
// construction and read-only afterwards; rooms are never created or removed
// at runtime, so no locking is needed.
type RoomCatalog struct {
	rooms map[string]string // room id -> display name
}

// NewRoomCatalog returns the catalog with the six bookable rooms.
func NewRoomCatalog() *RoomCatalog {
	return &RoomCatalog{rooms: map[string]string{
		"aurora":   "Aurora",
		"borealis": "Borealis",
		"helmi":    "Helmi",
		"sauna":    "Sauna",
		"sisu":     "Sisu",
		"taiga":    "Taiga",
	}}
}

// Exists reports whether roomID is part of the catalog.
func (rc *RoomCatalog) Exists(roomID string) bool {
	_, ok := rc.rooms[roomID]
	return ok
}

// List returns a copy of the id to display name mapping, safe for callers to
// serialize or mutate.
func (rc *RoomCatalog) List() map[string]string {
	out := make(map[string]string, len(rc.rooms))
	for id, name := range rc.rooms {
		out[id] = name
	}
	return out
}
