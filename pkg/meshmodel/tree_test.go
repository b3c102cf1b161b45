package meshmodel_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshplanner/pkg/meshmodel"
)

func TestTree_AttachPropagatesSubtreeLoad(t *testing.T) {
	tree := meshmodel.NewTree("R")
	tree.Attach("R", "A", meshmodel.BandHigh, 10)
	tree.Attach("A", "B", meshmodel.BandLow, 5)

	assert.Equal(t, float64(15), tree.Nodes["R"].SubtreeLoad)
	assert.Equal(t, float64(15), tree.Nodes["A"].SubtreeLoad)
	assert.Equal(t, float64(5), tree.Nodes["B"].SubtreeLoad)
	assert.Equal(t, 2, tree.Nodes["B"].Level)
	assert.Equal(t, []string{"B", "A", "R"}, tree.PathToRoot("B"))
}

func TestPlanNode_MarshalRootHasNullParentAndBackhaul(t *testing.T) {
	root := meshmodel.PlanNode{Level: 0, Channel: []int{6135, 5985}, Bandwidth: []int{160, 160}, MaxEIRP: []int{24, 24}}
	raw, err := json.Marshal(root)
	require.NoError(t, err)
	assert.JSONEq(t, `{"parent":null,"backhaulBand":null,"level":0,"channel":[6135,5985],"bandwidth":[160,160],"maxEirp":[24,24]}`, string(raw))
}

func TestPlanNode_RoundTripsThroughJSON(t *testing.T) {
	leaf := meshmodel.PlanNode{
		Parent: "R", HasParent: true,
		BackhaulBand: meshmodel.BandLow, HasBackhaul: true,
		Level: 1, Channel: []int{5985}, Bandwidth: []int{160}, MaxEIRP: []int{24},
	}
	raw, err := json.Marshal(leaf)
	require.NoError(t, err)

	var decoded meshmodel.PlanNode
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, leaf, decoded)
}
