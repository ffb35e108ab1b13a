package routes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func feature(id, title string) *geojson.Feature {
	f := geojson.NewFeature(orb.LineString{{-122.4, 37.7}, {-122.5, 37.8}})
	if id != "" {
		f.Properties[PropID] = id
	}
	if title != "" {
		f.Properties[PropTitle] = title
	}
	return f
}

func TestGroupPreservesFirstSeenOrder(t *testing.T) {
	fs := []*geojson.Feature{
		feature("N", "N-Judah"),
		feature("J", "J-Church"),
		feature("N", "N-Judah"),
		feature("14", ""),
	}
	c := Group(fs)

	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	wantIDs := []string{"N", "J", "14"}
	for i, id := range wantIDs {
		if got := c.At(i).ID; got != id {
			t.Errorf("At(%d).ID = %q, want %q", i, got, id)
		}
	}

	n, ok := c.Route("N")
	if !ok {
		t.Fatal("Route(N) not found")
	}
	if len(n.Features) != 2 || n.Features[0] != fs[0] || n.Features[1] != fs[2] {
		t.Errorf("N features not grouped in order: %v", n.Features)
	}
	if n.Name != "N-Judah" {
		t.Errorf("N name = %q", n.Name)
	}

	r14, _ := c.Route("14")
	if r14.Name != "14" {
		t.Errorf("untitled route name = %q, want id fallback", r14.Name)
	}
}

func TestGroupIsTotal(t *testing.T) {
	fs := []*geojson.Feature{feature("A", ""), feature("B", ""), feature("A", ""), feature("C", ""), feature("B", "")}
	c := Group(fs)
	total := 0
	for _, r := range c.Routes() {
		total += len(r.Features)
	}
	if total != len(fs) {
		t.Errorf("grouped %d features, want %d", total, len(fs))
	}
}

func TestRoutesReturnsCopy(t *testing.T) {
	c := Group([]*geojson.Feature{feature("N", "N-Judah")})
	rs := c.Routes()
	rs[0].ID = "changed"
	if c.At(0).ID != "N" {
		t.Error("mutating Routes() result changed the catalog")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantLen int
		wantErr error
	}{
		{
			name: "two routes",
			data: `{"type":"FeatureCollection","features":[
				{"type":"Feature","properties":{"route_name":"N","route_title":"N-Judah"},"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}},
				{"type":"Feature","properties":{"route_name":"J","route_title":"J-Church"},"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}
			]}`,
			wantLen: 2,
		},
		{
			name:    "empty collection",
			data:    `{"type":"FeatureCollection","features":[]}`,
			wantErr: ErrEmpty,
		},
		{
			name: "missing route id",
			data: `{"type":"FeatureCollection","features":[
				{"type":"Feature","properties":{"route_title":"Orphan"},"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}
			]}`,
			wantErr: errAny,
		},
		{
			name:    "not json",
			data:    `nope`,
			wantErr: errAny,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.data))
			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.wantErr == errAny && err == nil:
				t.Fatal("expected an error")
			case tt.wantErr != nil && tt.wantErr != errAny && !errors.Is(err, tt.wantErr):
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && c.Len() != tt.wantLen {
				t.Errorf("Len = %d, want %d", c.Len(), tt.wantLen)
			}
		})
	}
}

var errAny = errors.New("any error")

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	data := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"route_name":"K","route_title":"K-Ingleside"},"geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r, ok := c.Route("K"); !ok || r.Name != "K-Ingleside" {
		t.Errorf("Route(K) = %+v, %v", r, ok)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}
	n, ok := c.Route("N")
	if !ok {
		t.Fatal("embedded catalog has no N line")
	}
	if len(n.Features) < 2 {
		t.Errorf("N should be split across features, got %d", len(n.Features))
	}
	if got := len(n.Collection().Features); got != len(n.Features) {
		t.Errorf("Collection has %d features, want %d", got, len(n.Features))
	}
}
