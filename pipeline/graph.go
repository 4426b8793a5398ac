// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// State carries named values between stages. Stages read their declared
// inputs from it and write their declared outputs into it.
type State map[string]any

// Get returns the value at the named port, or an error if absent.
func (s State) Get(port string) (any, error) {
	v, ok := s[port]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingPort, port)
	}
	return v, nil
}

// Stage is one step of a pipeline. Inputs and Outputs declare the ports the
// stage reads and writes, so the graph can be validated before it ever runs.
type Stage interface {
	Name() string
	Inputs() []string
	Outputs() []string
	Run(ctx context.Context, state State) error
}

type funcStage struct {
	name    string
	inputs  []string
	outputs []string
	fn      func(ctx context.Context, state State) error
}

func (s *funcStage) Name() string      { return s.name }
func (s *funcStage) Inputs() []string  { return s.inputs }
func (s *funcStage) Outputs() []string { return s.outputs }
func (s *funcStage) Run(ctx context.Context, state State) error {
	return s.fn(ctx, state)
}

// NewStage wraps a function as a Stage with the given port declarations.
func NewStage(name string, inputs, outputs []string, fn func(ctx context.Context, state State) error) Stage {
	return &funcStage{name: name, inputs: inputs, outputs: outputs, fn: fn}
}

// Graph is a directed acyclic pipeline of stages. Validation happens at
// construction: every input must be bound, no port may have two producers,
// and the dependency graph must be acyclic. Run executes stages once each
// in topological order.
type Graph struct {
	seeds  []string
	order  []Stage
	logger *slog.Logger
}

// NewGraph builds and validates a pipeline. Seeds name the ports the caller
// will provide in the initial state.
func NewGraph(seeds []string, stages ...Stage) (*Graph, error) {
	producers := make(map[string]Stage, len(stages))
	for _, seed := range seeds {
		producers[seed] = nil
	}
	for _, stage := range stages {
		for _, out := range stage.Outputs() {
			if _, exists := producers[out]; exists {
				return nil, fmt.Errorf("%w: %q (stage %s)", ErrDuplicateOutput, out, stage.Name())
			}
			producers[out] = stage
		}
	}

	for _, stage := range stages {
		for _, in := range stage.Inputs() {
			if _, ok := producers[in]; !ok {
				return nil, fmt.Errorf("%w: %q (stage %s)", ErrUnboundInput, in, stage.Name())
			}
		}
	}

	order, err := sortStages(stages, producers)
	if err != nil {
		return nil, err
	}

	return &Graph{
		seeds:  seeds,
		order:  order,
		logger: slog.Default().With("component", "pipeline"),
	}, nil
}

// Run executes the pipeline over an initial state holding the seed ports.
// It returns the final state, with every stage's outputs populated.
func (g *Graph) Run(ctx context.Context, initial State) (State, error) {
	state := make(State, len(initial))
	for port, value := range initial {
		state[port] = value
	}
	for _, seed := range g.seeds {
		if _, ok := state[seed]; !ok {
			return nil, fmt.Errorf("%w: seed %q", ErrMissingPort, seed)
		}
	}

	for _, stage := range g.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		g.logger.Debug("running stage", "stage", stage.Name())
		if err := stage.Run(ctx, state); err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}

		for _, out := range stage.Outputs() {
			if _, ok := state[out]; !ok {
				return nil, fmt.Errorf("%w: %q after stage %s", ErrMissingPort, out, stage.Name())
			}
		}
	}
	return state, nil
}

// sortStages returns the stages in topological order of their port
// dependencies, or ErrCycle if no such order exists.
func sortStages(stages []Stage, producers map[string]Stage) ([]Stage, error) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)

	marks := make(map[Stage]int, len(stages))
	order := make([]Stage, 0, len(stages))

	var visit func(stage Stage) error
	visit = func(stage Stage) error {
		switch marks[stage] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: involving stage %s", ErrCycle, stage.Name())
		}
		marks[stage] = visiting

		for _, in := range stage.Inputs() {
			if dep := producers[in]; dep != nil {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		marks[stage] = done
		order = append(order, stage)
		return nil
	}

	for _, stage := range stages {
		if err := visit(stage); err != nil {
			return nil, err
		}
	}
	return order, nil
}
