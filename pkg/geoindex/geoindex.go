// Package geoindex provides the §3 (DOMAIN STACK) spatial diagnostics
// attached to TopologyUnreachable: an rtreego nearest-neighbour index
// over in-tree node positions, and an h3-go cell tag used to cluster
// unreachable nodes geographically.
//
// Grounded on the teacher's alg/rtree.go + alg/mapmatching.go
// (StreetRect Spatial wrapper, NearestNeighbors(k, point) call shape)
// and pkg/kv/kv_db.go's h3.LatLngToCell use for spatial bucketing.
package geoindex

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/uber/h3-go/v4"

	"meshplanner/pkg/geodist"
	"meshplanner/pkg/meshmodel"
)

// h3Resolution is the cell granularity used for unreachable-node
// clustering (cells of about 5 km² at resolution 7, with edges of
// roughly 1.2-1.4 km).
const h3Resolution = 7

// tol is the half-width, in degrees, of the bounding box rtreego
// indexes each point under -- mirrors the teacher's StreetRect.Bounds
// (a point inflated to a small rectangle, since rtreego has no native
// point-only mode).
const tol = 0.0001

// nodePoint adapts one node's GPS position to rtreego.Spatial.
type nodePoint struct {
	ID       string
	Location rtreego.Point
}

func (p *nodePoint) Bounds() rtreego.Rect {
	return p.Location.ToRect(tol)
}

// Index is a nearest-neighbour index over a set of node positions.
type Index struct {
	tree  *rtreego.Rtree
	nodes map[string]meshmodel.Node
}

// NewIndex builds an index over exactly the given node IDs (typically
// "every node already placed in the tree").
func NewIndex(nodes map[string]meshmodel.Node, ids []string) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	byID := make(map[string]meshmodel.Node, len(ids))
	for _, id := range ids {
		n, ok := nodes[id]
		if !ok {
			continue
		}
		byID[id] = n
		tree.Insert(&nodePoint{ID: id, Location: rtreego.Point{n.Lat, n.Lon}})
	}
	return &Index{tree: tree, nodes: byID}
}

// Neighbor is one nearest-neighbour result: the in-tree node's ID and
// its great-circle distance from the query point, in kilometres.
type Neighbor struct {
	ID         string
	DistanceKm float64
}

// Nearest returns the k closest indexed nodes to (lat, lon), ordered by
// increasing distance -- used to tell an operator which in-tree nodes
// sit nearest an unreachable one.
func (idx *Index) Nearest(lat, lon float64, k int) []Neighbor {
	candidates := idx.tree.NearestNeighbors(k, rtreego.Point{lat, lon})

	out := make([]Neighbor, 0, len(candidates))
	for _, c := range candidates {
		np, ok := c.(*nodePoint)
		if !ok {
			continue
		}
		out = append(out, Neighbor{ID: np.ID, DistanceKm: geodist.GreatCircleKm(lat, lon, np.Location[0], np.Location[1])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// H3Cell returns the resolution-7 H3 cell token covering (lat, lon).
func H3Cell(lat, lon float64) string {
	cell := h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)
	return cell.String()
}

// ClusterByH3 groups node IDs by their resolution-7 H3 cell.
func ClusterByH3(ids []string, nodes map[string]meshmodel.Node) map[string][]string {
	clusters := map[string][]string{}
	for _, id := range ids {
		n, ok := nodes[id]
		if !ok {
			continue
		}
		cell := H3Cell(n.Lat, n.Lon)
		clusters[cell] = append(clusters[cell], id)
	}
	for cell := range clusters {
		sort.Strings(clusters[cell])
	}
	return clusters
}

// SortedCells returns a cluster map's cell keys in deterministic
// (lexicographic) order, since the map itself must never be iterated
// directly when producing ordered output.
func SortedCells(clusters map[string][]string) []string {
	cells := make([]string, 0, len(clusters))
	for cell := range clusters {
		cells = append(cells, cell)
	}
	sort.Strings(cells)
	return cells
}
