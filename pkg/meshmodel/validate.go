package meshmodel

import (
	"math"
	"sort"

	"meshplanner/domain"
	"meshplanner/pkg/geodist"
)

// implausibleEdgeDistanceKm bounds how far apart two candidate mesh
// radios may plausibly sit and still report each other's RSSI; beyond
// this, the input almost certainly has a coordinate entry error
// (swapped lat/lon, wrong units, copy-paste from a different site).
const implausibleEdgeDistanceKm = 50.0

// Validate performs the §4.1 semantic checks the generator relies on,
// plus the geo-plausibility check SPEC_FULL.md §1 adds. It returns the
// first violation found, wrapped as domain.ErrInvalidInput with
// field/value/requirement details per §7.
func Validate(nodes map[string]Node, edges map[EdgeKey]Edge) error {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := nodes[id]
		if math.IsNaN(n.Lat) || math.IsInf(n.Lat, 0) {
			return invalidInput("nodes["+id+"].gps.lat", n.Lat, "must be a finite latitude")
		}
		if math.IsNaN(n.Lon) || math.IsInf(n.Lon, 0) {
			return invalidInput("nodes["+id+"].gps.lon", n.Lon, "must be a finite longitude")
		}
		if n.Load < 0 {
			return invalidInput("nodes["+id+"].load", n.Load, "must be non-negative")
		}
		if !n.Capabilities.HasAnyEntry() {
			return invalidInput("nodes["+id+"].channels", n.Capabilities, "must contain at least one (band, bandwidth, channel) entry")
		}
	}

	keys := make([]EdgeKey, 0, len(edges))
	for key := range edges {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})

	for _, key := range keys {
		e := edges[key]
		a, aok := nodes[key.A]
		b, bok := nodes[key.B]
		if !aok {
			return invalidInput("edges", key.A, "endpoint must exist in the node map")
		}
		if !bok {
			return invalidInput("edges", key.B, "endpoint must exist in the node map")
		}
		if dist := geodist.GreatCircleKm(a.Lat, a.Lon, b.Lat, b.Lon); dist > implausibleEdgeDistanceKm {
			return invalidInput("edges["+key.A+"_"+key.B+"]", dist,
				"endpoints are implausibly far apart to report RSSI of each other")
		}
		if len(e.RSSI) == 0 {
			return invalidInput("edges["+key.A+"_"+key.B+"]", e.RSSI, "must carry an RSSI measurement for at least one band")
		}
	}

	return nil
}

func invalidInput(field string, value interface{}, requirement string) error {
	return domain.WrapErrorDetails(nil, domain.ErrInvalidInput, map[string]interface{}{
		"field":       field,
		"value":       value,
		"requirement": requirement,
	}, "invalid input: %s %s", field, requirement)
}
