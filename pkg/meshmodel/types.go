// Package meshmodel holds the in-memory representation of validated mesh
// nodes, candidate edges, and planner configuration. Everything here is
// produced and discarded within a single planning call (§3 Lifecycle) --
// no entity survives across invocations.
package meshmodel

import "sort"

// Band is one of the two supported radio bands.
type Band string

const (
	BandHigh Band = "HIGH"
	BandLow  Band = "LOW"
)

// WireLabel returns the §6 single-letter band label used on the wire
// ("H"/"L") and in backhaul-band fields.
func (b Band) WireLabel() string {
	if b == BandHigh {
		return "H"
	}
	return "L"
}

// BandFromWireLabel parses the §6 "H"/"L" label back into a Band.
func BandFromWireLabel(label string) (Band, bool) {
	switch label {
	case "H":
		return BandHigh, true
	case "L":
		return BandLow, true
	default:
		return "", false
	}
}

// Bands in deterministic, fixed iteration order -- never derived from a
// map, per §9's "deterministic iteration" design note.
var AllBands = [...]Band{BandHigh, BandLow}

// Bandwidth is a channel width in MHz. The only legal values are the four
// constants below, always iterated widest-first for channel assignment.
type Bandwidth int

const (
	Bandwidth20  Bandwidth = 20
	Bandwidth40  Bandwidth = 40
	Bandwidth80  Bandwidth = 80
	Bandwidth160 Bandwidth = 160
)

// AllBandwidthsDescending is the §4.4 assignment order: widest first.
var AllBandwidthsDescending = [...]Bandwidth{Bandwidth160, Bandwidth80, Bandwidth40, Bandwidth20}

// ChannelSet is one cell of a node's capability table: the channel
// centres a node can use at a given (band, bandwidth), paired with the
// max EIRP available on each, in table order. Modeled as two parallel
// slices rather than a map so that "table order" (§4.4: "iterate
// available channel centres in the table's listed order") is preserved
// without an extra sort at lookup time.
type ChannelSet struct {
	Centres []int
	MaxEIRP []int
}

// CapabilityTable is a node's declared channel/EIRP menu, keyed by band
// and then by bandwidth. It is a nested map, so every (band, bandwidth)
// lookup is a map lookup. Built once from the wire record and treated
// as read-only afterward.
type CapabilityTable map[Band]map[Bandwidth]ChannelSet

// Get returns the ChannelSet for (band, bw) and whether it exists.
func (t CapabilityTable) Get(band Band, bw Bandwidth) (ChannelSet, bool) {
	byBW, ok := t[band]
	if !ok {
		return ChannelSet{}, false
	}
	cs, ok := byBW[bw]
	return cs, ok
}

// HasAnyEntry reports whether the table has at least one (band,
// bandwidth, channel) entry, the §4.1 minimum-viability check.
func (t CapabilityTable) HasAnyEntry() bool {
	for _, byBW := range t {
		for _, cs := range byBW {
			if len(cs.Centres) > 0 {
				return true
			}
		}
	}
	return false
}

// WidestSharedBandwidth returns the widest bandwidth both tables support
// in the given band, and false if they share none -- used by the weight
// function's throughput term (§4.2).
func WidestSharedBandwidth(a, b CapabilityTable, band Band) (Bandwidth, bool) {
	best := Bandwidth(0)
	found := false
	for _, bw := range AllBandwidthsDescending {
		csA, okA := a.Get(band, bw)
		csB, okB := b.Get(band, bw)
		if okA && okB && len(csA.Centres) > 0 && len(csB.Centres) > 0 {
			if !found || bw > best {
				best = bw
				found = true
			}
		}
	}
	return best, found
}

// Node is a candidate mesh radio: GPS position, offered load, and a
// per-band/per-bandwidth capability table (§3).
type Node struct {
	ID           string
	Lat, Lon     float64
	Load         float64
	Capabilities CapabilityTable
}

// EdgeKey is the unordered pair identifying a candidate link. Always
// constructed via NewEdgeKey so that (a, b) and (b, a) collide.
type EdgeKey struct {
	A, B string
}

// NewEdgeKey orders its two arguments lexicographically so the key is
// independent of the caller's argument order.
func NewEdgeKey(x, y string) EdgeKey {
	if x <= y {
		return EdgeKey{A: x, B: y}
	}
	return EdgeKey{A: y, B: x}
}

// RSSIPair is a directional measurement pair in one band: rssi[a->b]
// and rssi[b->a], in dBm, keyed to the edge's (A, B) order.
type RSSIPair struct {
	AToB int
	BToA int
}

// Worst returns the weaker (more negative) of the two directional
// readings -- the value a backhaul-link RSSI-floor check must use,
// since both directions must clear the threshold (§3 invariants).
func (p RSSIPair) Worst() int {
	if p.AToB < p.BToA {
		return p.AToB
	}
	return p.BToA
}

// Best returns the stronger of the two directional readings.
func (p RSSIPair) Best() int {
	if p.AToB > p.BToA {
		return p.AToB
	}
	return p.BToA
}

// Edge is a bidirectional candidate link with a per-band RSSI pair.
type Edge struct {
	Key  EdgeKey
	RSSI map[Band]RSSIPair
}

// RSSIFor returns the RSSI pair oriented from `from` to its neighbour,
// regardless of the edge's internal (A, B) storage order.
func (e Edge) RSSIFor(from string, band Band) (RSSIPair, bool) {
	p, ok := e.RSSI[band]
	if !ok {
		return RSSIPair{}, false
	}
	if from == e.Key.A {
		return p, true
	}
	return RSSIPair{AToB: p.BToA, BToA: p.AToB}, true
}

// Config is the fixed set of recognised options (§3), passed by value --
// never a package-level variable, per §9's "weight tuning as
// configuration" note.
type Config struct {
	MaxDegree              int
	RSSIThreshold          int
	MaxHop                 int
	ThroughputWeight       float64
	LoadWeight             float64
	HopWeight              float64
	RSSIConflictThreshold  int
}

// DefaultConfig returns the §3 option defaults.
func DefaultConfig() Config {
	return Config{
		MaxDegree:             3,
		RSSIThreshold:         -72,
		MaxHop:                5,
		ThroughputWeight:      1.0,
		LoadWeight:            0.5,
		HopWeight:             -80.0,
		RSSIConflictThreshold: -85,
	}
}

// Input bundles a validated node/edge set with its resolved config --
// the one record the core's Planner operation consumes.
type Input struct {
	Nodes  map[string]Node
	Edges  map[EdgeKey]Edge
	Config Config
}

// SortedNodeIDs returns every node ID in ascending lexicographic order.
// Any traversal whose output depends on iteration order must go through
// a helper like this one instead of ranging over the map directly,
// per §9's determinism design note.
func (in Input) SortedNodeIDs() []string {
	ids := make([]string, 0, len(in.Nodes))
	for id := range in.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EdgeBetween looks up the edge connecting a and b, independent of
// argument order.
func (in Input) EdgeBetween(a, b string) (Edge, bool) {
	e, ok := in.Edges[NewEdgeKey(a, b)]
	return e, ok
}
