// Package weight implements the §4.2 WeightFunction: a pure scoring of
// a (parent, child, band) candidate attachment used by the constrained
// Prim generator in pkg/topology.
package weight

import (
	"math"

	"meshplanner/pkg/meshmodel"
)

// noiseFloorDBm is the fixed reference noise floor the Shannon-like
// throughput term is computed against. Not externally observable --
// only the term's monotonicity in RSSI matters (§4.2).
const noiseFloorDBm = -95.0

// Candidate is the three-way key the generator scores: attach `Child`
// to `Parent` over `Band`.
type Candidate struct {
	Parent string
	Child  string
	Band   meshmodel.Band
}

// Score computes §4.2's weight(parent, child, band, treeState, cfg).
// Higher is better; math.Inf(-1) marks an ineligible candidate.
func Score(cand Candidate, input meshmodel.Input, tree *meshmodel.Tree) float64 {
	parent, ok := input.Nodes[cand.Parent]
	if !ok {
		return math.Inf(-1)
	}
	child, ok := input.Nodes[cand.Child]
	if !ok {
		return math.Inf(-1)
	}
	edge, ok := input.EdgeBetween(cand.Parent, cand.Child)
	if !ok {
		return math.Inf(-1)
	}

	rssi, ok := edge.RSSI[cand.Band]
	if !ok {
		return math.Inf(-1)
	}
	if rssi.Worst() < input.Config.RSSIThreshold {
		return math.Inf(-1)
	}

	bw, shared := meshmodel.WidestSharedBandwidth(parent.Capabilities, child.Capabilities, cand.Band)
	if !shared {
		return math.Inf(-1)
	}

	parentTree, inTree := tree.Nodes[cand.Parent]
	if !inTree {
		return math.Inf(-1)
	}
	if parentTree.Degree() >= input.Config.MaxDegree {
		return math.Inf(-1)
	}
	childLevel := parentTree.Level + 1
	if childLevel > input.Config.MaxHop {
		return math.Inf(-1)
	}

	throughput := predictThroughput(rssi.Worst(), bw)
	loadTerm := parentTree.SubtreeLoad + child.Load
	hopTerm := float64(childLevel)

	// LOAD_WEIGHT is documented (§4.2) with a sign convention such that
	// more load lowers the score, so it is subtracted rather than added
	// even though its default value is positive.
	return input.Config.ThroughputWeight*throughput -
		input.Config.LoadWeight*loadTerm +
		input.Config.HopWeight*hopTerm
}

// predictThroughput maps the weaker directional RSSI and the widest
// bandwidth both endpoints share in the band to a Shannon-like capacity
// estimate (log2(1+SNR) scaled by bandwidth), generalizing the
// original's linear `(rssi + 100) * 10` model per spec.md §4.2's
// allowance for "a standard Shannon-like mapping".
func predictThroughput(rssiDBm int, bw meshmodel.Bandwidth) float64 {
	snr := math.Pow(10, float64(rssiDBm-noiseFloorDBm)/10.0)
	return float64(bw) * math.Log2(1+snr)
}
