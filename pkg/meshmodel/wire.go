package meshmodel

// This file defines the §6 External Interfaces wire shapes: the JSON
// records exchanged at the HTTP boundary. They carry go-playground
// validator struct tags for the shape checks the original Python's
// validators.py performed ad hoc; FromWire then converts into the
// strongly-typed in-memory model the core consumes.

// NodeWire is one entry of the §6 `nodes` map.
type NodeWire struct {
	GPS      [2]float64                       `json:"gps" validate:"required,len=2"`
	Load     float64                          `json:"load" validate:"gte=0"`
	Channels map[string]map[string][]int      `json:"channels" validate:"required"`
	MaxEIRP  map[string]map[string][]int      `json:"maxEirp" validate:"required"`
}

// EdgeWire is one entry of the §6 `edges` map, keyed by "<id1>_<id2>".
type EdgeWire struct {
	RSSI6GH [2]int `json:"rssi_6gh" validate:"required,len=2"`
	RSSI6GL [2]int `json:"rssi_6gl" validate:"required,len=2"`
}

// ConfigWire is the §6 optional `config` object: any subset of §3
// options. Pointer fields distinguish "omitted" from "explicitly zero".
type ConfigWire struct {
	MaxDegree             *int     `json:"MAX_DEGREE,omitempty"`
	RSSIThreshold         *int     `json:"RSSI_THRESHOLD,omitempty"`
	MaxHop                *int     `json:"MAX_HOP,omitempty"`
	ThroughputWeight      *float64 `json:"THROUGHPUT_WEIGHT,omitempty"`
	LoadWeight            *float64 `json:"LOAD_WEIGHT,omitempty"`
	HopWeight             *float64 `json:"HOP_WEIGHT,omitempty"`
	RSSIConflictThreshold *int     `json:"RSSI_CONFLICT_THRESHOLD,omitempty"`
}

// Resolve merges a possibly-nil ConfigWire over DefaultConfig().
func (c *ConfigWire) Resolve() Config {
	cfg := DefaultConfig()
	if c == nil {
		return cfg
	}
	if c.MaxDegree != nil {
		cfg.MaxDegree = *c.MaxDegree
	}
	if c.RSSIThreshold != nil {
		cfg.RSSIThreshold = *c.RSSIThreshold
	}
	if c.MaxHop != nil {
		cfg.MaxHop = *c.MaxHop
	}
	if c.ThroughputWeight != nil {
		cfg.ThroughputWeight = *c.ThroughputWeight
	}
	if c.LoadWeight != nil {
		cfg.LoadWeight = *c.LoadWeight
	}
	if c.HopWeight != nil {
		cfg.HopWeight = *c.HopWeight
	}
	if c.RSSIConflictThreshold != nil {
		cfg.RSSIConflictThreshold = *c.RSSIConflictThreshold
	}
	return cfg
}

var bandWireKeys = map[string]Band{
	"6GH": BandHigh,
	"6GL": BandLow,
}

var bandwidthWireKeys = map[string]Bandwidth{
	"20M":  Bandwidth20,
	"40M":  Bandwidth40,
	"80M":  Bandwidth80,
	"160M": Bandwidth160,
}

// buildCapabilityTable converts the wire nested-map shape
// (band -> bandwidth -> centres) plus its parallel EIRP table into the
// fixed CapabilityTable sum type.
func buildCapabilityTable(channels, maxEirp map[string]map[string][]int) CapabilityTable {
	table := CapabilityTable{}
	for bandKey, byBW := range channels {
		band, ok := bandWireKeys[bandKey]
		if !ok {
			continue
		}
		for bwKey, centres := range byBW {
			bw, ok := bandwidthWireKeys[bwKey]
			if !ok {
				continue
			}
			var eirp []int
			if maxEirp != nil {
				if byBWEirp, ok := maxEirp[bandKey]; ok {
					eirp = byBWEirp[bwKey]
				}
			}
			if table[band] == nil {
				table[band] = map[Bandwidth]ChannelSet{}
			}
			table[band][bw] = ChannelSet{Centres: centres, MaxEIRP: eirp}
		}
	}
	return table
}

// NodeFromWire converts a NodeWire into the core Node type.
func NodeFromWire(id string, w NodeWire) Node {
	return Node{
		ID:           id,
		Lat:          w.GPS[0],
		Lon:          w.GPS[1],
		Load:         w.Load,
		Capabilities: buildCapabilityTable(w.Channels, w.MaxEIRP),
	}
}

// EdgeFromWire converts an EdgeWire keyed by the two endpoint IDs into
// the core Edge type. The wire key's ID order carries the RSSI
// direction (§6: "[id1->id2, id2->id1]"), so a and b must be passed in
// the key's original order, not re-sorted, before NewEdgeKey reorders
// the stored key itself.
func EdgeFromWire(a, b string, w EdgeWire) Edge {
	key := NewEdgeKey(a, b)
	flip := key.A != a

	orient := func(pair [2]int) RSSIPair {
		if flip {
			return RSSIPair{AToB: pair[1], BToA: pair[0]}
		}
		return RSSIPair{AToB: pair[0], BToA: pair[1]}
	}

	return Edge{
		Key: key,
		RSSI: map[Band]RSSIPair{
			BandHigh: orient(w.RSSI6GH),
			BandLow:  orient(w.RSSI6GL),
		},
	}
}
