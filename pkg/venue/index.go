package venue

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// minExtent keeps rectangles non-empty for rtreego, which also treats
// touching rectangles as disjoint.
const minExtent = 1e-6

// RoomIndex answers point-in-room queries over a fixed set of rooms.
// Rooms with non-positive area are not indexed.
type RoomIndex struct {
	tree  *rtreego.Rtree
	count int
}

type indexedRoom struct {
	room Room
	seq  int
}

// Bounds implements rtreego.Spatial.
func (r *indexedRoom) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{r.room.X, r.room.Y},
		[]float64{max(r.room.W, minExtent), max(r.room.H, minExtent)},
	)
	return rect
}

// NewRoomIndex builds an R-tree over rooms.
func NewRoomIndex(rooms []Room) *RoomIndex {
	idx := &RoomIndex{tree: rtreego.NewTree(2, 25, 50)}
	for i, r := range rooms {
		if !r.Positive() {
			continue
		}
		idx.tree.Insert(&indexedRoom{room: r, seq: i})
		idx.count++
	}
	return idx
}

// Len returns the number of indexed rooms.
func (idx *RoomIndex) Len() int { return idx.count }

// Locate returns every room containing (x, y), edges included. The
// smallest room comes first; ties keep dataset order.
func (idx *RoomIndex) Locate(x, y float64) []Room {
	if idx.count == 0 {
		return nil
	}
	query, err := rtreego.NewRect(rtreego.Point{x - minExtent, y - minExtent}, []float64{2 * minExtent, 2 * minExtent})
	if err != nil {
		return nil
	}

	var hits []*indexedRoom
	for _, s := range idx.tree.SearchIntersect(query) {
		ir := s.(*indexedRoom)
		if ir.room.Contains(x, y) {
			hits = append(hits, ir)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		ai, aj := hits[i].room.Area(), hits[j].room.Area()
		if ai != aj {
			return ai < aj
		}
		return hits[i].seq < hits[j].seq
	})

	out := make([]Room, len(hits))
	for i, h := range hits {
		out[i] = h.room
	}
	return out
}

// Innermost returns the smallest room containing (x, y).
func (idx *RoomIndex) Innermost(x, y float64) (Room, bool) {
	rooms := idx.Locate(x, y)
	if len(rooms) == 0 {
		return Room{}, false
	}
	return rooms[0], true
}
