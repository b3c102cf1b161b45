// Package planner implements the §4.5 Planner (driver): the single
// public entry point that orchestrates validation, tree generation,
// and channel assignment into one output record.
package planner

import (
	"meshplanner/pkg/channel"
	"meshplanner/pkg/meshmodel"
	"meshplanner/pkg/topology"
)

// Plan runs the §4.5 driver steps in order, returning the first error
// with full context. It is pure and single-threaded: no retries, no
// shared state, safe to call concurrently from independent goroutines
// over distinct inputs (§5 Scheduling).
func Plan(nodes map[string]meshmodel.Node, edges map[meshmodel.EdgeKey]meshmodel.Edge, cfg meshmodel.Config) (meshmodel.Plan, error) {
	if err := meshmodel.Validate(nodes, edges); err != nil {
		return meshmodel.Plan{}, err
	}

	input := meshmodel.Input{Nodes: nodes, Edges: edges, Config: cfg}

	tree, err := topology.Generate(input)
	if err != nil {
		return meshmodel.Plan{}, err
	}

	plan, err := channel.Assign(tree, input)
	if err != nil {
		return meshmodel.Plan{}, err
	}

	return plan, nil
}
