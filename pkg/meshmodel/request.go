package meshmodel

import "strings"

// Request is the §6 Input record decoded from JSON at the HTTP
// boundary: node/edge wire maps plus an optional config override.
type Request struct {
	Nodes  map[string]NodeWire `json:"nodes" validate:"required,min=1,dive"`
	Edges  map[string]EdgeWire `json:"edges"`
	Config *ConfigWire         `json:"config,omitempty"`
}

// Resolve converts a decoded Request into the core's Nodes/Edges/Config
// triple. The edges map's key carries the RSSI direction ("<id1>_<id2>"
// per §6), so it is split on the first underscore rather than
// re-derived from NewEdgeKey's already-sorted order.
func (r Request) Resolve() (map[string]Node, map[EdgeKey]Edge, Config) {
	nodes := make(map[string]Node, len(r.Nodes))
	for id, w := range r.Nodes {
		nodes[id] = NodeFromWire(id, w)
	}

	edges := make(map[EdgeKey]Edge, len(r.Edges))
	for key, w := range r.Edges {
		a, b, ok := splitEdgeKey(key)
		if !ok {
			continue
		}
		e := EdgeFromWire(a, b, w)
		edges[e.Key] = e
	}

	return nodes, edges, r.Config.Resolve()
}

// splitEdgeKey splits a "<id1>_<id2>" wire key (§6) on its first
// underscore. Node IDs that themselves contain "_" make the split
// point ambiguous; callers that control ID syntax should avoid it.
func splitEdgeKey(key string) (a, b string, ok bool) {
	idx := strings.Index(key, "_")
	if idx < 0 {
		return "", "", false
	}
	return key[:idx], key[idx+1:], true
}
