package geoindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshplanner/pkg/geoindex"
	"meshplanner/pkg/meshmodel"
)

func TestIndex_NearestOrdersByDistance(t *testing.T) {
	nodes := map[string]meshmodel.Node{
		"close": {ID: "close", Lat: 0.001, Lon: 0.001},
		"far":   {ID: "far", Lat: 1.0, Lon: 1.0},
	}
	idx := geoindex.NewIndex(nodes, []string{"close", "far"})

	neighbors := idx.Nearest(0, 0, 2)
	require.Len(t, neighbors, 2)
	assert.Equal(t, "close", neighbors[0].ID)
	assert.Equal(t, "far", neighbors[1].ID)
	assert.Less(t, neighbors[0].DistanceKm, neighbors[1].DistanceKm)
}

func TestClusterByH3_GroupsNearbyNodes(t *testing.T) {
	nodes := map[string]meshmodel.Node{
		"a": {ID: "a", Lat: 10.0, Lon: 10.0},
		"b": {ID: "b", Lat: 10.0001, Lon: 10.0001},
		"c": {ID: "c", Lat: -10.0, Lon: -10.0},
	}
	clusters := geoindex.ClusterByH3([]string{"a", "b", "c"}, nodes)

	cells := geoindex.SortedCells(clusters)
	require.Len(t, cells, 2, "a and b share a cell, c is in a different one")

	found := false
	for _, cell := range cells {
		members := clusters[cell]
		if len(members) == 2 {
			assert.Equal(t, []string{"a", "b"}, members)
			found = true
		}
	}
	assert.True(t, found)
}
