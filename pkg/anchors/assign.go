package anchors

import "github.com/matzehuels/venuemap/pkg/venue"

// AssignRooms returns a copy of anchors where every anchor without a room
// is attached to the smallest room containing it. Anchors outside every
// room, and anchors that already name a room, are returned unchanged.
func AssignRooms(anchors []venue.Anchor, rooms []venue.Room) []venue.Anchor {
	idx := venue.NewRoomIndex(rooms)
	out := make([]venue.Anchor, len(anchors))
	for i, a := range anchors {
		if a.Room == "" {
			if r, ok := idx.Innermost(a.X, a.Y); ok {
				a.Room = r.ID
			}
		}
		out[i] = a
	}
	return out
}

// Coverage counts anchors per room id. Rooms without anchors map to 0.
func Coverage(v *venue.Venue) map[string]int {
	cov := make(map[string]int, len(v.Rooms))
	for _, r := range v.Rooms {
		if r.ID != "" {
			cov[r.ID] = 0
		}
	}
	for _, a := range v.Anchors {
		if _, ok := cov[a.Room]; ok {
			cov[a.Room]++
		}
	}
	return cov
}
