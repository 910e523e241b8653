package geo

import (
	"sort"

	"github.com/mmcloughlin/geohash"
)

const (
	MarkerPrecision         uint = 7
	DefaultClusterPrecision uint = 5
	MaxClusterPrecision     uint = 9
)

// Geohash encodes c with the given number of characters.
func Geohash(c Coordinates, precision uint) string {
	return geohash.EncodeWithPrecision(c.Lat, c.Lng, precision)
}

// Point is a mappable item.
type Point struct {
	ID     string
	Coords Coordinates
}

// Cluster groups points sharing a geohash prefix.
type Cluster struct {
	Geohash  string      `json:"geohash"`
	Count    int         `json:"count"`
	Centroid Coordinates `json:"centroid"`
	IDs      []string    `json:"ids"`
	Bounds   Bounds      `json:"bounds"`
}

// Bounds is the geohash cell extent.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// ClusterPoints buckets points by geohash at precision. Precision outside
// 1..9 falls back to DefaultClusterPrecision. Clusters are ordered by hash.
func ClusterPoints(points []Point, precision uint) []Cluster {
	if precision < 1 || precision > MaxClusterPrecision {
		precision = DefaultClusterPrecision
	}

	byHash := make(map[string]*Cluster)
	sums := make(map[string]Coordinates)
	for _, p := range points {
		h := Geohash(p.Coords, precision)
		c, ok := byHash[h]
		if !ok {
			box := geohash.BoundingBox(h)
			c = &Cluster{
				Geohash: h,
				Bounds:  Bounds{MinLat: box.MinLat, MaxLat: box.MaxLat, MinLng: box.MinLng, MaxLng: box.MaxLng},
			}
			byHash[h] = c
		}
		c.Count++
		c.IDs = append(c.IDs, p.ID)
		s := sums[h]
		s.Lat += p.Coords.Lat
		s.Lng += p.Coords.Lng
		sums[h] = s
	}

	out := make([]Cluster, 0, len(byHash))
	for h, c := range byHash {
		s := sums[h]
		c.Centroid = Coordinates{Lat: s.Lat / float64(c.Count), Lng: s.Lng / float64(c.Count)}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Geohash < out[j].Geohash })
	return out
}
