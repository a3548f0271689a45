package venue

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/venuemap/pkg/errors"
)

//go:embed fixtures/substation.toml
var substationTOML []byte

// Default returns the embedded reference venue. Each call decodes a fresh
// copy, so callers may modify the result.
func Default() *Venue {
	v, err := Parse(bytes.NewReader(substationTOML))
	if err != nil {
		panic(fmt.Sprintf("venue: embedded fixture is invalid: %v", err))
	}
	return v
}

// DefaultTOML returns the raw embedded reference venue.
func DefaultTOML() []byte {
	return bytes.Clone(substationTOML)
}

// Load reads and validates a venue file.
func Load(path string) (*Venue, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "venue file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidVenue, err, "open %s", path)
	}
	defer f.Close()

	v, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Parse decodes a venue from TOML and validates it. Unknown keys are
// rejected so that typos in hand-written files surface early.
func Parse(r io.Reader) (*Venue, error) {
	var v Venue
	md, err := toml.NewDecoder(r).Decode(&v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidVenue, err, "decode venue")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidVenue, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// Fingerprint returns a canonical byte form of v suitable for hashing into
// cache keys. Two venues with equal entities produce equal fingerprints.
// Venues that cannot be encoded (NaN or infinite coordinates) are rejected
// with INVALID_VENUE rather than sharing an empty fingerprint.
func Fingerprint(v *Venue) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidVenue, err, "fingerprint venue %q", v.Name)
	}
	return data, nil
}

// Validate checks the structural rules a venue file must satisfy:
// well-formed ids, unique room ids, finite coordinates and polygons with at
// least three vertices.
//
// Geometry is otherwise trusted: degenerate rectangles, overlaps and zones
// outside their parent pass through (see [CheckContainment]).
func (v *Venue) Validate() error {
	if v.Origin.Lat != 0 || v.Origin.Lon != 0 {
		if err := v.Origin.Validate(); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(v.Rooms))
	for i, r := range v.Rooms {
		if err := validateRect(fmt.Sprintf("rooms[%d]", i), r.Rect); err != nil {
			return err
		}
		if r.ID != "" {
			if seen[r.ID] {
				return errors.New(errors.ErrCodeInvalidVenue, "duplicate room id %q", r.ID)
			}
			seen[r.ID] = true
		}
	}
	for i, z := range v.Zones {
		if err := validateRect(fmt.Sprintf("zones[%d]", i), z.Rect); err != nil {
			return err
		}
	}
	for i, d := range v.Doors {
		if err := validateRect(fmt.Sprintf("doors[%d]", i), d.Rect); err != nil {
			return err
		}
	}
	for i, p := range v.Polygons {
		if err := errors.ValidateEntityID(p.ID); err != nil {
			return err
		}
		if len(p.Points) < 3 {
			return errors.New(errors.ErrCodeMalformedGeometry, "polygons[%d] (%q) needs at least 3 vertices, has %d", i, p.ID, len(p.Points))
		}
		for j, pt := range p.Points {
			name := fmt.Sprintf("polygons[%d].points[%d]", i, j)
			if err := errors.ValidateFinite(name, pt.X()); err != nil {
				return err
			}
			if err := errors.ValidateFinite(name, pt.Y()); err != nil {
				return err
			}
		}
	}
	for i, p := range v.Pins {
		if err := validateMarker(fmt.Sprintf("pins[%d]", i), p.Marker); err != nil {
			return err
		}
	}
	for i, a := range v.Anchors {
		if err := validateMarker(fmt.Sprintf("anchors[%d]", i), a.Marker); err != nil {
			return err
		}
	}
	return nil
}

func validateRect(name string, r Rect) error {
	if err := errors.ValidateEntityID(r.ID); err != nil {
		return err
	}
	for _, f := range []struct {
		field string
		v     float64
	}{{"x", r.X}, {"y", r.Y}, {"w", r.W}, {"h", r.H}, {"label_offset.dx", r.LabelOffset.DX}, {"label_offset.dy", r.LabelOffset.DY}} {
		if err := errors.ValidateFinite(name+"."+f.field, f.v); err != nil {
			return err
		}
	}
	return nil
}

func validateMarker(name string, m Marker) error {
	if err := errors.ValidateEntityID(m.ID); err != nil {
		return err
	}
	if err := errors.ValidateFinite(name+".x", m.X); err != nil {
		return err
	}
	return errors.ValidateFinite(name+".y", m.Y)
}
