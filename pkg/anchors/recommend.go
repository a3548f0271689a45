package anchors

import (
	"fmt"

	"github.com/matzehuels/venuemap/pkg/venue"
)

const (
	// Kind is the marker kind of every suggested anchor.
	Kind = "beacon"
	// Color is the marker color of suggested anchors, distinct from the
	// colors used for hand-placed anchors.
	Color = "#FF1493"

	// MinOffset and MaxOffset bound the per-axis distance between the
	// center anchor and the others, in meters.
	MinOffset = 1.0
	MaxOffset = 4.0

	smallRoomArea  = 60.0
	mediumRoomArea = 150.0
)

// Count returns how many anchors a room of the given area receives.
func Count(area float64) int {
	switch {
	case area < smallRoomArea:
		return 1
	case area < mediumRoomArea:
		return 2
	default:
		return 3
	}
}

// Offsets returns the per-axis offset used for the second and third
// anchors of room r.
func Offsets(r venue.Rect) (ox, oy float64) {
	return clamp(r.W * 0.25), clamp(r.H * 0.25)
}

func clamp(v float64) float64 {
	return max(MinOffset, min(v, MaxOffset))
}

// ID returns the deterministic id of the i-th suggested anchor of a room.
func ID(roomID string, i int) string {
	return fmt.Sprintf("anchor_suggested_%s_%d", roomID, i)
}

// ForRoom returns the suggested anchors for a single room, or nil when the
// room has no id or a non-positive width or height.
func ForRoom(r venue.Room) []venue.Anchor {
	if r.ID == "" || !r.Positive() {
		return nil
	}
	area := r.Area()

	cx, cy := r.Center()
	ox, oy := Offsets(r.Rect)
	points := [][2]float64{{cx, cy}, {cx + ox, cy + oy}, {cx - ox, cy + oy}}

	n := Count(area)
	out := make([]venue.Anchor, n)
	for i := range n {
		out[i] = venue.Anchor{
			Marker: venue.Marker{
				ID:    ID(r.ID, i),
				Name:  fmt.Sprintf("Suggested Anchor %d", i+1),
				X:     points[i][0],
				Y:     points[i][1],
				Kind:  Kind,
				Color: Color,
			},
			Room:      r.ID,
			Suggested: true,
		}
	}
	return out
}

// Recommend returns suggested anchors for every eligible room, grouped by
// room in input order.
func Recommend(rooms []venue.Room) []venue.Anchor {
	var out []venue.Anchor
	for _, r := range rooms {
		out = append(out, ForRoom(r)...)
	}
	return out
}

// Augment returns a clone of v with suggested anchors for all of its rooms
// appended after the existing anchors. v is not modified.
func Augment(v *venue.Venue) *venue.Venue {
	out := v.Clone()
	out.Anchors = append(out.Anchors, Recommend(v.Rooms)...)
	return out
}
