// internal/routes/catalog.go
//
// Route catalog for the puzzle engine.
//
// Responsibilities:
//   - Decode a GeoJSON FeatureCollection of route shapes.
//   - Group features by their `route_name` property, preserving first-seen order.
//   - Expose the ordered route list (picker order, puzzle index order) and an
//     id → Route lookup.
//
// Source data (Open):
//   1. If ROUTES_FILE is set, that file is loaded.
//   2. Otherwise the embedded assets/muni_simple_routes.json is decoded.
//
// A Catalog is built once at startup and never mutated afterwards; every
// session and request shares the same instance.

package routes

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/robalobadob/routle/assets"
)

// Feature property keys carried by each shape in the source collection.
const (
	PropID    = "route_name"
	PropTitle = "route_title"
)

// ErrEmpty is returned when a source collection yields no routes.
var ErrEmpty = errors.New("routes: catalog is empty")

// Route is one guessable answer: a stable id, a display name, and every
// feature that shares the id.
type Route struct {
	ID       string
	Name     string
	Features []*geojson.Feature
}

// Collection wraps the route's features into a FeatureCollection for renderers.
func (r Route) Collection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range r.Features {
		fc.Append(f)
	}
	return fc
}

// Catalog is the immutable, ordered set of routes.
type Catalog struct {
	list []Route
	byID map[string]int // id → index into list
}

// Group partitions features by route id in first-seen order.
// Every feature lands in exactly one route. A feature without an id is grouped
// under the empty id; Parse rejects such input before it gets here.
func Group(features []*geojson.Feature) *Catalog {
	c := &Catalog{byID: make(map[string]int)}
	for _, f := range features {
		id := stringProp(f, PropID)
		i, ok := c.byID[id]
		if !ok {
			name := stringProp(f, PropTitle)
			if name == "" {
				name = id
			}
			c.list = append(c.list, Route{ID: id, Name: name})
			i = len(c.list) - 1
			c.byID[id] = i
		}
		c.list[i].Features = append(c.list[i].Features, f)
	}
	return c
}

// Parse decodes a GeoJSON FeatureCollection and groups it.
// Missing route ids and empty collections are configuration defects and are
// reported as errors so startup can fail fast.
func Parse(data []byte) (*Catalog, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	for i, f := range fc.Features {
		if stringProp(f, PropID) == "" {
			return nil, fmt.Errorf("routes: feature %d has no %s", i, PropID)
		}
	}
	c := Group(fc.Features)
	if c.Len() == 0 {
		return nil, ErrEmpty
	}
	return c, nil
}

// Load reads and parses a GeoJSON file from disk.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(b)
}

// Default parses the embedded Muni route shapes.
func Default() (*Catalog, error) {
	b, err := assets.RoutesGeoJSON()
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Open loads path when set, otherwise the embedded default.
func Open(path string) (*Catalog, error) {
	if path != "" {
		return Load(path)
	}
	return Default()
}

// Len returns the number of routes.
func (c *Catalog) Len() int { return len(c.list) }

// At returns the route at catalog index i.
func (c *Catalog) At(i int) Route { return c.list[i] }

// Route looks up a route by id.
func (c *Catalog) Route(id string) (Route, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Route{}, false
	}
	return c.list[i], true
}

// Has reports whether id names a known route.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Routes returns the routes in catalog order. The slice is a copy.
func (c *Catalog) Routes() []Route {
	out := make([]Route, len(c.list))
	copy(out, c.list)
	return out
}

// stringProp reads a string property, tolerating missing or non-string values.
func stringProp(f *geojson.Feature, key string) string {
	if f == nil || f.Properties == nil {
		return ""
	}
	s, _ := f.Properties[key].(string)
	return s
}
