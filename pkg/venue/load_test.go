package venue

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/venuemap/pkg/errors"
)

func TestDefault(t *testing.T) {
	v := Default()
	if v.Name != "Substation" {
		t.Errorf("Name = %q, want Substation", v.Name)
	}
	if v.Origin.Lat != 47.661378 || v.Origin.Lon != -122.365703 {
		t.Errorf("Origin = %+v", v.Origin)
	}

	front, ok := v.Room("front_room")
	if !ok {
		t.Fatal("front_room missing")
	}
	if front.LabelOffset.DY != 1 || front.LabelOffset.DX != 0 {
		t.Errorf("front_room label offset = %+v, want dy=1", front.LabelOffset)
	}
	if hall, _ := v.Room("entrance_hall"); hall.Name != "" {
		t.Errorf("entrance_hall name = %q, want empty", hall.Name)
	}
	for _, d := range v.Doors {
		if d.Type != "gap" {
			t.Errorf("door %q type = %q, want gap", d.Name, d.Type)
		}
	}
	for _, a := range v.Anchors {
		if a.Suggested {
			t.Errorf("fixture anchor %q marked suggested", a.ID)
		}
	}
	if len(v.Polygons) != 1 || len(v.Polygons[0].Points) != 3 {
		t.Errorf("polygons = %+v", v.Polygons)
	}
}

func TestDefaultIsFresh(t *testing.T) {
	a := Default()
	a.Rooms[0].Name = "mutated"
	if b := Default(); b.Rooms[0].Name == "mutated" {
		t.Error("Default returned shared state")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode errors.Code
	}{
		{
			name: "Minimal",
			input: `
[[rooms]]
id = "r1"
w = 10
h = 10
`,
		},
		{
			name: "OptionalFieldsMissing",
			input: `
[[anchors]]
x = 1
y = 2
role_id = 12
tg_id = "tg-7"
`,
		},
		{
			name:     "UnknownKey",
			input:    "[[rooms]]\nid = \"r1\"\nwidth = 10\n",
			wantCode: errors.ErrCodeInvalidVenue,
		},
		{
			name:     "Syntax",
			input:    "[[rooms]\n",
			wantCode: errors.ErrCodeInvalidVenue,
		},
		{
			name:     "DuplicateRoom",
			input:    "[[rooms]]\nid = \"a\"\n[[rooms]]\nid = \"a\"\n",
			wantCode: errors.ErrCodeInvalidVenue,
		},
		{
			name:     "BadID",
			input:    "[[zones]]\nid = \"has space\"\n",
			wantCode: errors.ErrCodeInvalidVenue,
		},
		{
			name:     "TwoVertexPolygon",
			input:    "[[polygons]]\nid = \"p\"\npoints = [[0, 0], [1, 1]]\n",
			wantCode: errors.ErrCodeMalformedGeometry,
		},
		{
			name:     "PolarOrigin",
			input:    "[origin]\nlat = 90\nlon = 0\n",
			wantCode: errors.ErrCodeInvalidOrigin,
		},
		{
			name:     "NaNCoordinate",
			input:    "[[pins]]\nid = \"p\"\nx = nan\ny = 0\n",
			wantCode: errors.ErrCodeInvalidVenue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(strings.NewReader(tt.input))
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if v == nil {
					t.Fatal("Parse returned nil venue")
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("err = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestParsePassthroughFields(t *testing.T) {
	v, err := Parse(strings.NewReader("[[anchors]]\nid = \"a\"\nrole_id = 12\ntg_id = \"tg-7\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	a := v.Anchors[0]
	if a.RoleID != int64(12) {
		t.Errorf("RoleID = %#v, want int64(12)", a.RoleID)
	}
	if a.TgID != "tg-7" {
		t.Errorf("TgID = %#v, want tg-7", a.TgID)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "venue.toml")
	if err := os.WriteFile(path, DefaultTOML(), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(fingerprint(t, v), fingerprint(t, Default())) {
		t.Error("loaded venue differs from embedded default")
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}

func fingerprint(t *testing.T, v *Venue) []byte {
	t.Helper()
	fp, err := Fingerprint(v)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	return fp
}

func TestFingerprintChanges(t *testing.T) {
	a, b := Default(), Default()
	if !bytes.Equal(fingerprint(t, a), fingerprint(t, b)) {
		t.Fatal("equal venues have different fingerprints")
	}
	b.Rooms[0].W++
	if bytes.Equal(fingerprint(t, a), fingerprint(t, b)) {
		t.Error("fingerprint ignores geometry change")
	}
}

func TestFingerprintRejectsNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1)} {
		v := Default()
		v.Rooms[0].X = bad
		fp, err := Fingerprint(v)
		if !errors.Is(err, errors.ErrCodeInvalidVenue) {
			t.Errorf("X=%v: err = %v, want INVALID_VENUE", bad, err)
		}
		if fp != nil {
			t.Errorf("X=%v: fingerprint = %q, want nil", bad, fp)
		}
	}
}
