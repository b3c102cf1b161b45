package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"meshplanner/pkg/topology"
)

func TestHeap_PopsInRankOrder(t *testing.T) {
	rank := map[string]int{"a": 3, "b": 1, "c": 2}
	h := topology.NewHeap[string](func(x, y string) bool { return rank[x] < rank[y] })

	h.Push("a")
	h.Push("b")
	h.Push("c")

	var order []string
	for h.Len() > 0 {
		item, ok := h.Pop()
		assert.True(t, ok)
		order = append(order, item)
	}
	assert.Equal(t, []string{"b", "c", "a"}, order)
}

func TestHeap_FixReordersAfterRankChange(t *testing.T) {
	rank := map[string]int{"a": 1, "b": 2}
	h := topology.NewHeap[string](func(x, y string) bool { return rank[x] < rank[y] })
	h.Push("a")
	h.Push("b")

	rank["a"] = 5
	h.Fix("a")

	first, _ := h.Pop()
	assert.Equal(t, "b", first)
}

func TestHeap_Remove(t *testing.T) {
	rank := map[string]int{"a": 1, "b": 2, "c": 3}
	h := topology.NewHeap[string](func(x, y string) bool { return rank[x] < rank[y] })
	h.Push("a")
	h.Push("b")
	h.Push("c")
	h.Remove("b")

	assert.False(t, h.Contains("b"))
	assert.Equal(t, 2, h.Len())
}
