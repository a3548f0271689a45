// Package anchors synthesizes suggested beacon placements for rooms.
//
// [Recommend] is a pure function of its input: the same rooms always yield
// the same anchors, in the same order, with the same ids. Suggested anchors
// are advisory metadata; nothing here performs positioning.
//
// Count policy by room area (w*h, square meters):
//
//	area <  60        1 anchor  (center)
//	60 <= area < 150  2 anchors (center, center+offset)
//	area >= 150       3 anchors (center, center+offset, mirrored offset)
//
// The offset is a quarter of the room's width and height, each clamped to
// [MinOffset, MaxOffset].
package anchors
