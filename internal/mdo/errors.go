package mdo

import (
	"errors"
	"fmt"
)

// Configuration and solve-time errors for the composition core.
var (
	// ErrDuplicateName indicates a quantity or child name declared twice.
	ErrDuplicateName = errors.New("mdo: name already declared")

	// ErrUnknownQuantity indicates a lookup of an undeclared quantity.
	ErrUnknownQuantity = errors.New("mdo: unknown quantity")

	// ErrAlreadyConnected indicates a parameter with more than one incoming connection.
	ErrAlreadyConnected = errors.New("mdo: parameter already connected")

	// ErrCyclicDependency indicates a cycle in the connection graph.
	ErrCyclicDependency = errors.New("mdo: cyclic dependency between components")

	// ErrNumericDomain indicates a solve was evaluated outside its numeric domain.
	ErrNumericDomain = errors.New("mdo: value outside numeric domain")

	// ErrNotSetup indicates Run was called before Setup.
	ErrNotSetup = errors.New("mdo: problem not set up")

	// ErrDidNotConverge indicates the driver stopped without meeting the
	// optimizer's convergence criterion. The best point found is still applied.
	ErrDidNotConverge = errors.New("mdo: optimization did not converge")
)

// SolveError wraps a component failure with the component path that raised it.
type SolveError struct {
	Component string
	Quantity  string
	Wrapped   error
}

func (e *SolveError) Error() string {
	if e.Quantity != "" {
		return fmt.Sprintf("solve %s (%s): %v", e.Component, e.Quantity, e.Wrapped)
	}
	return fmt.Sprintf("solve %s: %v", e.Component, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
