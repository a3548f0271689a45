package venue

import "fmt"

// IssueKind classifies a containment finding.
type IssueKind string

const (
	// IssueDanglingParent marks a zone whose parent id names no room.
	IssueDanglingParent IssueKind = "dangling_parent"
	// IssueOutsideParent marks a zone that extends past its parent room.
	IssueOutsideParent IssueKind = "outside_parent"
	// IssueAnchorOutsideRoom marks an anchor placed outside the room it
	// names.
	IssueAnchorOutsideRoom IssueKind = "anchor_outside_room"
)

// Issue is one advisory finding from [CheckContainment].
type Issue struct {
	Kind    IssueKind `json:"kind"`
	ID      string    `json:"id"`
	Parent  string    `json:"parent"`
	Message string    `json:"message"`
}

func (i Issue) String() string { return i.Message }

// CheckContainment reports zones that are not inside their parent room and
// anchors that sit outside their room. Parent links are weak: the findings
// are advisory and never block rendering. Zones and anchors without a parent
// are skipped.
func CheckContainment(v *Venue) []Issue {
	var issues []Issue
	for _, z := range v.Zones {
		if z.Parent == "" {
			continue
		}
		room, ok := v.Room(z.Parent)
		if !ok {
			issues = append(issues, Issue{
				Kind:    IssueDanglingParent,
				ID:      z.ID,
				Parent:  z.Parent,
				Message: fmt.Sprintf("zone %q: parent room %q does not exist", z.ID, z.Parent),
			})
			continue
		}
		if !room.ContainsRect(z.Rect) {
			issues = append(issues, Issue{
				Kind:    IssueOutsideParent,
				ID:      z.ID,
				Parent:  z.Parent,
				Message: fmt.Sprintf("zone %q extends outside room %q", z.ID, z.Parent),
			})
		}
	}
	for _, a := range v.Anchors {
		if a.Room == "" {
			continue
		}
		room, ok := v.Room(a.Room)
		if !ok {
			issues = append(issues, Issue{
				Kind:    IssueDanglingParent,
				ID:      a.ID,
				Parent:  a.Room,
				Message: fmt.Sprintf("anchor %q: room %q does not exist", a.ID, a.Room),
			})
			continue
		}
		if !room.Contains(a.X, a.Y) {
			issues = append(issues, Issue{
				Kind:    IssueAnchorOutsideRoom,
				ID:      a.ID,
				Parent:  a.Room,
				Message: fmt.Sprintf("anchor %q lies outside room %q", a.ID, a.Room),
			})
		}
	}
	return issues
}
