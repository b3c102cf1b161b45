package meshmodel

import "encoding/json"

// TreeNode is the derived per-node tree state the generator builds and
// the assigner consumes (§3 TreeNode (derived)).
type TreeNode struct {
	ID           string
	Parent       string // "" for the root
	HasParent    bool
	BackhaulBand Band
	HasBackhaul  bool
	Level        int
	Children     map[string]struct{}
	SubtreeLoad  float64
}

// Degree is |children| -- the value MAX_DEGREE bounds.
func (t *TreeNode) Degree() int {
	return len(t.Children)
}

// Tree is the rooted spanning tree the generator produces: a
// parent-pointer arena keyed by node ID. Per §9's design note, a
// child-to-parent link is a lookup key, not an owning reference --
// there is exactly one map here, and `Parent` is a string key into it.
type Tree struct {
	RootID string
	Nodes  map[string]*TreeNode
}

// NewTree creates a tree containing only its root.
func NewTree(rootID string) *Tree {
	return &Tree{
		RootID: rootID,
		Nodes: map[string]*TreeNode{
			rootID: {
				ID:       rootID,
				Children: map[string]struct{}{},
			},
		},
	}
}

// Attach commits `child` into the tree under `parent` on `band`,
// incrementing the parent's degree and propagating `childLoad` into the
// SubtreeLoad of every ancestor up to the root (§4.3 step 3).
func (tr *Tree) Attach(parent, child string, band Band, childLoad float64) {
	parentNode := tr.Nodes[parent]
	tr.Nodes[child] = &TreeNode{
		ID:           child,
		Parent:       parent,
		HasParent:    true,
		BackhaulBand: band,
		HasBackhaul:  true,
		Level:        parentNode.Level + 1,
		Children:     map[string]struct{}{},
		SubtreeLoad:  childLoad,
	}
	parentNode.Children[child] = struct{}{}

	for anc := parentNode; anc != nil; {
		anc.SubtreeLoad += childLoad
		if !anc.HasParent {
			break
		}
		anc = tr.Nodes[anc.Parent]
	}
}

// Contains reports whether id has already been added to the tree.
func (tr *Tree) Contains(id string) bool {
	_, ok := tr.Nodes[id]
	return ok
}

// LevelOf returns a node's tree depth, or 0 if it isn't in the tree yet
// (used by the weight function's hop term against the *parent*, which
// is always already in the tree when queried).
func (tr *Tree) LevelOf(id string) int {
	if n, ok := tr.Nodes[id]; ok {
		return n.Level
	}
	return 0
}

// PathToRoot returns the node IDs from `id` up to and including the
// root, in that order (child-to-root).
func (tr *Tree) PathToRoot(id string) []string {
	path := []string{}
	cur := id
	for {
		path = append(path, cur)
		node, ok := tr.Nodes[cur]
		if !ok || !node.HasParent {
			break
		}
		cur = node.Parent
	}
	return path
}

// Plan is the fully materialised per-node output record (§3 Plan
// (derived), §6 Output record).
type Plan struct {
	Nodes map[string]PlanNode
}

// PlanNode is one node's row in the output record: its tree placement
// plus the parallel channel/bandwidth/EIRP sequences produced by the
// channel assigner.
type PlanNode struct {
	Parent       string
	HasParent    bool
	BackhaulBand Band
	HasBackhaul  bool
	Level        int
	Channel      []int
	Bandwidth    []int
	MaxEIRP      []int
}

// planNodeWire is the §6 Output record JSON shape: `parent` and
// `backhaulBand` are null for the root, rather than empty strings.
type planNodeWire struct {
	Parent       *string `json:"parent"`
	BackhaulBand *string `json:"backhaulBand"`
	Level        int     `json:"level"`
	Channel      []int   `json:"channel"`
	Bandwidth    []int   `json:"bandwidth"`
	MaxEIRP      []int   `json:"maxEirp"`
}

// MarshalJSON renders the §6 Output record shape.
func (p PlanNode) MarshalJSON() ([]byte, error) {
	w := planNodeWire{Level: p.Level, Channel: p.Channel, Bandwidth: p.Bandwidth, MaxEIRP: p.MaxEIRP}
	if p.HasParent {
		w.Parent = &p.Parent
	}
	if p.HasBackhaul {
		label := p.BackhaulBand.WireLabel()
		w.BackhaulBand = &label
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the §6 Output record shape back into a PlanNode.
func (p *PlanNode) UnmarshalJSON(data []byte) error {
	var w planNodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Level, p.Channel, p.Bandwidth, p.MaxEIRP = w.Level, w.Channel, w.Bandwidth, w.MaxEIRP
	if w.Parent != nil {
		p.Parent, p.HasParent = *w.Parent, true
	}
	if w.BackhaulBand != nil {
		if band, ok := BandFromWireLabel(*w.BackhaulBand); ok {
			p.BackhaulBand, p.HasBackhaul = band, true
		}
	}
	return nil
}
