// Package channel implements the §4.4 ChannelAssigner: a BFS-ordered
// greedy planner that picks one (channel, bandwidth, maxEirp) triple
// per band per node, stepping down bandwidth when no wide-channel
// assignment is conflict-free.
//
// Grounded on original_source/src/channel_assigner.py for the
// algorithm (level grouping, conflict-node lookup, bandwidth ladder)
// and on the teacher's queue-driven BFS style in
// pkg/engine/routingalgorithm/bidirectional_dijkstra.go (explicit
// visited set + FIFO queue, never relying on map iteration order).
package channel

import (
	"sort"

	"github.com/twpayne/go-polyline"

	"meshplanner/domain"
	"meshplanner/pkg/meshmodel"
)

type assignment struct {
	Centre    int
	Bandwidth meshmodel.Bandwidth
	MaxEIRP   int
}

// Assign walks `tree` breadth-first from the root and produces the §3
// Plan. It fails with domain.ErrChannelAssignment naming the node,
// band, attempted channels, and conflicting nodes when no candidate
// bandwidth/channel passes the interference check for some node.
func Assign(tree *meshmodel.Tree, input meshmodel.Input) (meshmodel.Plan, error) {
	order := levelOrder(tree)
	adjacency := buildAdjacency(input)

	assigned := map[string]map[meshmodel.Band]assignment{}
	plan := meshmodel.Plan{Nodes: map[string]meshmodel.PlanNode{}}

	for _, id := range order {
		treeNode := tree.Nodes[id]
		node := input.Nodes[id]
		planNode := meshmodel.PlanNode{
			Parent:       treeNode.Parent,
			HasParent:    treeNode.HasParent,
			BackhaulBand: treeNode.BackhaulBand,
			HasBackhaul:  treeNode.HasBackhaul,
			Level:        treeNode.Level,
		}
		assigned[id] = map[meshmodel.Band]assignment{}

		isLeaf := treeNode.Degree() == 0

		for _, band := range meshmodel.AllBands {
			if isLeaf && treeNode.HasBackhaul && band != treeNode.BackhaulBand {
				continue
			}
			if !treeNode.HasBackhaul && treeNode.HasParent {
				// unreachable given generator invariants, but defend anyway
				continue
			}

			var a assignment
			var err error
			if treeNode.HasBackhaul && band == treeNode.BackhaulBand {
				a, err = inheritFromParent(id, band, tree, assigned)
			} else {
				a, err = search(id, band, node, input, adjacency, assigned, tree)
			}
			if err != nil {
				return meshmodel.Plan{}, err
			}

			assigned[id][band] = a
			planNode.Channel = append(planNode.Channel, a.Centre)
			planNode.Bandwidth = append(planNode.Bandwidth, int(a.Bandwidth))
			planNode.MaxEIRP = append(planNode.MaxEIRP, a.MaxEIRP)
		}

		plan.Nodes[id] = planNode
	}

	return plan, nil
}

// levelOrder returns node IDs breadth-first from the root: root first,
// then each subsequent level, ascending by ID within a level (§4.4
// Ordering).
func levelOrder(tree *meshmodel.Tree) []string {
	order := []string{}
	frontier := []string{tree.RootID}
	visited := map[string]struct{}{tree.RootID: {}}

	for len(frontier) > 0 {
		sort.Strings(frontier)
		order = append(order, frontier...)

		next := []string{}
		for _, id := range frontier {
			children := make([]string, 0, len(tree.Nodes[id].Children))
			for c := range tree.Nodes[id].Children {
				children = append(children, c)
			}
			sort.Strings(children)
			for _, c := range children {
				if _, seen := visited[c]; !seen {
					visited[c] = struct{}{}
					next = append(next, c)
				}
			}
		}
		frontier = next
	}
	return order
}

func buildAdjacency(input meshmodel.Input) map[string][]string {
	adj := map[string][]string{}
	for key := range input.Edges {
		adj[key.A] = append(adj[key.A], key.B)
		adj[key.B] = append(adj[key.B], key.A)
	}
	for id := range adj {
		sort.Strings(adj[id])
	}
	return adj
}

// inheritFromParent copies the parent's triple on the shared backhaul
// band (§4.4: "the child inherits its parent's channel on the backhaul
// band rather than selecting independently").
func inheritFromParent(id string, band meshmodel.Band, tree *meshmodel.Tree, assigned map[string]map[meshmodel.Band]assignment) (assignment, error) {
	parentID := tree.Nodes[id].Parent
	a, ok := assigned[parentID][band]
	if !ok {
		return assignment{}, domain.WrapErrorDetails(nil, domain.ErrInternalInvariant, map[string]interface{}{
			"description": "parent has no assignment on the child's backhaul band",
			"node":        id,
			"parent":      parentID,
			"band":        string(band),
		}, "internal invariant violated: node %s's parent %s has no %s-band assignment to inherit", id, parentID, band)
	}
	return a, nil
}

// search runs the §4.4 greedy ladder: descending bandwidth, ascending
// table order, accept the first conflict-free candidate.
func search(id string, band meshmodel.Band, node meshmodel.Node, input meshmodel.Input,
	adjacency map[string][]string, assigned map[string]map[meshmodel.Band]assignment, tree *meshmodel.Tree) (assignment, error) {

	byBW, ok := node.Capabilities[band]
	if !ok {
		return assignment{}, channelAssignmentError(id, band, nil, nil, rootPathPolyline(id, tree, input))
	}

	attempted := []int{}
	var conflicting []string

	for _, bw := range meshmodel.AllBandwidthsDescending {
		cs, ok := byBW[bw]
		if !ok {
			continue
		}
		for i, centre := range cs.Centres {
			attempted = append(attempted, centre)
			ok, conflicts := isAcceptable(id, band, centre, bw, adjacency, assigned, input, tree)
			if ok {
				eirp := 0
				if i < len(cs.MaxEIRP) {
					eirp = cs.MaxEIRP[i]
				}
				return assignment{Centre: centre, Bandwidth: bw, MaxEIRP: eirp}, nil
			}
			conflicting = appendUnique(conflicting, conflicts)
		}
	}

	return assignment{}, channelAssignmentError(id, band, attempted, conflicting, rootPathPolyline(id, tree, input))
}

// isAcceptable checks §4.4's interference rule: every already-assigned
// node with an edge to `id` and an overlapping channel in this band
// must read worse than RSSI_CONFLICT_THRESHOLD, unless it is `id`'s
// parent or child sharing this exact band as their backhaul link.
func isAcceptable(id string, band meshmodel.Band, centre int, bw meshmodel.Bandwidth,
	adjacency map[string][]string, assigned map[string]map[meshmodel.Band]assignment,
	input meshmodel.Input, tree *meshmodel.Tree) (bool, []string) {

	conflicts := []string{}
	treeNode := tree.Nodes[id]

	for _, m := range adjacency[id] {
		mAssignment, ok := assigned[m][band]
		if !ok {
			continue
		}
		if !overlaps(centre, bw, mAssignment.Centre, mAssignment.Bandwidth) {
			continue
		}
		if isSharedBackhaulPeer(id, m, band, treeNode, tree) {
			continue
		}

		edge, ok := input.EdgeBetween(id, m)
		if !ok {
			continue // no measurement between id and m: assume no interference
		}
		rssi, ok := edge.RSSIFor(id, band)
		if !ok {
			continue
		}
		if rssi.Best() >= input.Config.RSSIConflictThreshold {
			conflicts = append(conflicts, m)
		}
	}

	return len(conflicts) == 0, conflicts
}

func isSharedBackhaulPeer(id, m string, band meshmodel.Band, treeNode *meshmodel.TreeNode, tree *meshmodel.Tree) bool {
	if treeNode.HasParent && treeNode.Parent == m && treeNode.BackhaulBand == band {
		return true
	}
	if mNode, ok := tree.Nodes[m]; ok && mNode.HasParent && mNode.Parent == id && mNode.BackhaulBand == band {
		return true
	}
	return false
}

// overlaps reports whether two channels' [centre-bw/2, centre+bw/2]
// intervals intersect (§4.4 Frequency overlap / §GLOSSARY). Centres
// and bandwidths are both in MHz.
func overlaps(c1 int, w1 meshmodel.Bandwidth, c2 int, w2 meshmodel.Bandwidth) bool {
	diff := c1 - c2
	if diff < 0 {
		diff = -diff
	}
	halfSum := (int(w1) + int(w2)) / 2
	return diff < halfSum
}

func appendUnique(dst, src []string) []string {
	seen := map[string]struct{}{}
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range src {
		if _, ok := seen[v]; !ok {
			dst = append(dst, v)
			seen[v] = struct{}{}
		}
	}
	return dst
}

func channelAssignmentError(id string, band meshmodel.Band, attempted []int, conflicting []string, rootPath string) error {
	return domain.WrapErrorDetails(nil, domain.ErrChannelAssignment, map[string]interface{}{
		"node":               id,
		"band":               string(band),
		"attempted_channels": attempted,
		"conflicting_nodes":  conflicting,
		"root_path_polyline": rootPath,
	}, "channel assignment failed: node %s exhausted every candidate channel in band %s", id, band)
}

// rootPathPolyline encodes a node's root-path GPS trail as a polyline
// string, attached to richer ChannelAssignment diagnostics so host
// tooling can render the failing backhaul path without the core
// depending on any rendering library (grounded in the teacher's
// pkg/datastructure/graph.go use of go-polyline for route geometry).
func rootPathPolyline(id string, tree *meshmodel.Tree, input meshmodel.Input) string {
	path := tree.PathToRoot(id)
	coords := make([][]float64, 0, len(path))
	for _, nodeID := range path {
		n := input.Nodes[nodeID]
		coords = append(coords, []float64{n.Lat, n.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
