package pipeline

import "errors"

var (
	// ErrUnboundInput indicates a stage input that is neither a seed port
	// nor the output of another stage.
	ErrUnboundInput = errors.New("stage input is not bound to any producer")

	// ErrDuplicateOutput indicates two stages declaring the same output port.
	ErrDuplicateOutput = errors.New("output port produced by more than one stage")

	// ErrCycle indicates the stage dependencies form a cycle.
	ErrCycle = errors.New("stage dependencies form a cycle")

	// ErrMissingPort indicates a declared port absent from the state at
	// the point it was required.
	ErrMissingPort = errors.New("declared port missing from state")
)
