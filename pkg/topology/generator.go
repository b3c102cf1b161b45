// Package topology implements the §4.3 TopologyGenerator: a
// constrained-Prim variant that builds a rooted spanning tree under
// degree, hop, and RSSI constraints, choosing each edge's backhaul band
// implicitly as the (parent, band) pair that maximises weight.
//
// Grounded on original_source/src/topology_generator.py for the
// algorithm shape (root selection, frontier, best-edge search,
// constraint checks) and on the teacher's
// pkg/contractor/priority_queue.go for the underlying heap (see heap.go).
package topology

import (
	"math"
	"sort"

	"meshplanner/domain"
	"meshplanner/pkg/geoindex"
	"meshplanner/pkg/meshmodel"
	"meshplanner/pkg/weight"
)

// frontierEntry is the current best attachment candidate for one
// out-of-tree node, as defined by §4.3's Frontier glossary entry.
type frontierEntry struct {
	Parent string
	Band   meshmodel.Band
	Weight float64
	Level  int
}

// Generate builds the rooted tree for `input`. It fails with
// domain.ErrTopologyUnreachable if any node cannot be connected under
// the configured constraints.
func Generate(input meshmodel.Input) (*meshmodel.Tree, error) {
	if len(input.Nodes) == 0 {
		return nil, domain.WrapErrorDetails(nil, domain.ErrInvalidInput, nil, "invalid input: nodes must be non-empty")
	}

	adjacency := buildAdjacency(input)
	root := selectRoot(input)
	tree := meshmodel.NewTree(root)

	frontier := map[string]frontierEntry{}
	heap := NewHeap[string](func(a, b string) bool {
		fa, fb := frontier[a], frontier[b]
		if fa.Weight != fb.Weight {
			return fa.Weight > fb.Weight
		}
		if fa.Level != fb.Level {
			return fa.Level < fb.Level
		}
		return a < b
	})

	relax(root, input, tree, adjacency, frontier, heap)

	total := len(input.Nodes)
	for len(tree.Nodes) < total {
		committed := false

		for {
			candidateID, ok := heap.Pop()
			if !ok {
				break
			}
			entry := frontier[candidateID]

			parentNode, stillOK := tree.Nodes[entry.Parent]
			if !stillOK || parentNode.Degree() >= input.Config.MaxDegree {
				// §4.3 step 4: the recorded parent no longer has
				// capacity (or vanished) -- re-derive this node's best
				// attachment from every currently in-tree node rather
				// than trust the stale entry.
				if newEntry, found := bestAttachment(candidateID, input, tree); found {
					frontier[candidateID] = newEntry
					heap.Push(candidateID)
					continue
				}
				delete(frontier, candidateID)
				continue
			}

			tree.Attach(entry.Parent, candidateID, entry.Band, input.Nodes[candidateID].Load)
			delete(frontier, candidateID)
			relax(candidateID, input, tree, adjacency, frontier, heap)
			committed = true
			break
		}

		if !committed {
			break
		}
	}

	if len(tree.Nodes) < total {
		unreachable := make([]string, 0, total-len(tree.Nodes))
		for id := range input.Nodes {
			if !tree.Contains(id) {
				unreachable = append(unreachable, id)
			}
		}
		sort.Strings(unreachable)

		inTreeIDs := make([]string, 0, len(tree.Nodes))
		for id := range tree.Nodes {
			inTreeIDs = append(inTreeIDs, id)
		}
		idx := geoindex.NewIndex(input.Nodes, inTreeIDs)

		nearest := map[string][]geoindex.Neighbor{}
		for _, id := range unreachable {
			n := input.Nodes[id]
			nearest[id] = idx.Nearest(n.Lat, n.Lon, 3)
		}
		clusters := geoindex.ClusterByH3(unreachable, input.Nodes)

		return nil, domain.WrapErrorDetails(nil, domain.ErrTopologyUnreachable, map[string]interface{}{
			"unreachable_nodes":       unreachable,
			"tree_size":               len(tree.Nodes),
			"nearest_in_tree_by_node": nearest,
			"h3_clusters":             clusters,
		}, "topology unreachable: %d node(s) could not be connected under the configured constraints", len(unreachable))
	}

	return tree, nil
}

// selectRoot picks the node with the highest offered load, breaking
// ties by lexicographic ID (§4.3 Root selection).
func selectRoot(input meshmodel.Input) string {
	ids := input.SortedNodeIDs()
	best := ids[0]
	for _, id := range ids[1:] {
		if input.Nodes[id].Load > input.Nodes[best].Load {
			best = id
		}
	}
	return best
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

// relax recomputes the frontier entry for every out-of-tree neighbour
// of the newly attached node `u`, replacing it whenever the new score
// exceeds the node's current frontier weight (§4.3 step 4).
func relax(u string, input meshmodel.Input, tree *meshmodel.Tree, adjacency map[string][]string,
	frontier map[string]frontierEntry, heap *Heap[string]) {

	for _, v := range adjacency[u] {
		if tree.Contains(v) {
			continue
		}
		for _, band := range meshmodel.AllBands {
			score := weight.Score(weight.Candidate{Parent: u, Child: v, Band: band}, input, tree)
			if math.IsInf(score, -1) {
				continue
			}
			current, exists := frontier[v]
			if !exists || score > current.Weight {
				frontier[v] = frontierEntry{
					Parent: u,
					Band:   band,
					Weight: score,
					Level:  tree.LevelOf(u) + 1,
				}
				heap.Push(v)
			}
		}
	}
}

// bestAttachment rescans every in-tree node for the best (parent, band)
// attachment of `v`, used to recover from a stale frontier entry whose
// recorded parent has since reached MAX_DEGREE.
func bestAttachment(v string, input meshmodel.Input, tree *meshmodel.Tree) (frontierEntry, bool) {
	inTreeIDs := make([]string, 0, len(tree.Nodes))
	for id := range tree.Nodes {
		inTreeIDs = append(inTreeIDs, id)
	}
	sort.Strings(inTreeIDs)

	best := frontierEntry{Weight: math.Inf(-1)}
	found := false
	for _, parent := range inTreeIDs {
		for _, band := range meshmodel.AllBands {
			score := weight.Score(weight.Candidate{Parent: parent, Child: v, Band: band}, input, tree)
			if math.IsInf(score, -1) {
				continue
			}
			if !found || score > best.Weight {
				best = frontierEntry{Parent: parent, Band: band, Weight: score, Level: tree.LevelOf(parent) + 1}
				found = true
			}
		}
	}
	return best, found
}
