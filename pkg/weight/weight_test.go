package weight_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"meshplanner/pkg/meshmodel"
	"meshplanner/pkg/weight"
)

func caps160(centre, eirp int) meshmodel.CapabilityTable {
	return meshmodel.CapabilityTable{
		meshmodel.BandHigh: {meshmodel.Bandwidth160: {Centres: []int{centre}, MaxEIRP: []int{eirp}}},
		meshmodel.BandLow:  {meshmodel.Bandwidth160: {Centres: []int{centre - 150}, MaxEIRP: []int{eirp}}},
	}
}

func baseInput() meshmodel.Input {
	nodes := map[string]meshmodel.Node{
		"A": {ID: "A", Lat: 0, Lon: 0, Load: 100, Capabilities: caps160(6135, 24)},
		"B": {ID: "B", Lat: 0, Lon: 0.001, Load: 50, Capabilities: caps160(6155, 24)},
	}
	edges := map[meshmodel.EdgeKey]meshmodel.Edge{
		meshmodel.NewEdgeKey("A", "B"): {
			Key: meshmodel.NewEdgeKey("A", "B"),
			RSSI: map[meshmodel.Band]meshmodel.RSSIPair{
				meshmodel.BandHigh: {AToB: -60, BToA: -62},
				meshmodel.BandLow:  {AToB: -55, BToA: -57},
			},
		},
	}
	return meshmodel.Input{Nodes: nodes, Edges: edges, Config: meshmodel.DefaultConfig()}
}

func TestScore_PrefersStrongerRSSI(t *testing.T) {
	in := baseInput()
	tree := meshmodel.NewTree("A")

	highScore := weight.Score(weight.Candidate{Parent: "A", Child: "B", Band: meshmodel.BandHigh}, in, tree)
	lowScore := weight.Score(weight.Candidate{Parent: "A", Child: "B", Band: meshmodel.BandLow}, in, tree)

	assert.Greater(t, lowScore, highScore, "LOW band has the stronger RSSI pair and should score higher")
}

func TestScore_IneligibleBelowRSSIThreshold(t *testing.T) {
	in := baseInput()
	edge := in.Edges[meshmodel.NewEdgeKey("A", "B")]
	edge.RSSI[meshmodel.BandHigh] = meshmodel.RSSIPair{AToB: -80, BToA: -90}
	in.Edges[meshmodel.NewEdgeKey("A", "B")] = edge

	tree := meshmodel.NewTree("A")
	score := weight.Score(weight.Candidate{Parent: "A", Child: "B", Band: meshmodel.BandHigh}, in, tree)
	assert.True(t, math.IsInf(score, -1))
}

func TestScore_IneligibleAtMaxDegree(t *testing.T) {
	in := baseInput()
	in.Config.MaxDegree = 0
	tree := meshmodel.NewTree("A")

	score := weight.Score(weight.Candidate{Parent: "A", Child: "B", Band: meshmodel.BandHigh}, in, tree)
	assert.True(t, math.IsInf(score, -1))
}

func TestScore_IneligibleAtMaxHop(t *testing.T) {
	in := baseInput()
	in.Config.MaxHop = 0
	tree := meshmodel.NewTree("A")

	score := weight.Score(weight.Candidate{Parent: "A", Child: "B", Band: meshmodel.BandHigh}, in, tree)
	assert.True(t, math.IsInf(score, -1))
}

func TestScore_NoSharedBandwidthIneligible(t *testing.T) {
	in := baseInput()
	b := in.Nodes["B"]
	b.Capabilities = meshmodel.CapabilityTable{
		meshmodel.BandHigh: {meshmodel.Bandwidth20: {Centres: []int{6115}, MaxEIRP: []int{12}}},
	}
	in.Nodes["B"] = b

	tree := meshmodel.NewTree("A")
	a := in.Nodes["A"]
	a.Capabilities = meshmodel.CapabilityTable{
		meshmodel.BandHigh: {meshmodel.Bandwidth160: {Centres: []int{6135}, MaxEIRP: []int{24}}},
	}
	in.Nodes["A"] = a

	score := weight.Score(weight.Candidate{Parent: "A", Child: "B", Band: meshmodel.BandHigh}, in, tree)
	assert.True(t, math.IsInf(score, -1))
}
