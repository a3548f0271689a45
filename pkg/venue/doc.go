// Package venue defines the floor-plan data model consumed by the renderers.
//
// A [Venue] is a hand-authored set of entities in local meter coordinates:
//
//   - [Room]: top-level rectangular structural area
//   - [Zone]: rectangular sub-area, display-grouped under a room by a weak
//     Parent id reference (never enforced)
//   - [Door]: rectangular gap drawn over wall outlines
//   - [Polygon]: free-form area with three or more vertices (stored open)
//   - [Pin]: labeled point of interest
//   - [Anchor]: labeled beacon position, manual or recommender-generated
//
// Venues are loaded from TOML with [Load] or [Parse]; [Default] returns the
// embedded reference dataset. Entities are treated as immutable during a
// generation run: code that augments a venue works on a [Venue.Clone].
//
// [ComputeBounds] derives the enclosing extent across rectangles, polygons
// and points, and [NewRoomIndex] answers which rooms contain a point.
package venue
