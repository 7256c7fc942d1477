package domain

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports input rejected before any optimization work begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// MissingEdgeCostError reports a required directed pair absent from the cost matrix.
type MissingEdgeCostError struct {
	From string
	To   string
}

func (e *MissingEdgeCostError) Error() string {
	return fmt.Sprintf("missing edge cost %q -> %q", e.From, e.To)
}

// EnumerationMode describes which optional-stop subsets were evaluated.
type EnumerationMode string

const (
	ModeExhaustive EnumerationMode = "exhaustive"
	ModeSingleStop EnumerationMode = "single_stop_marginal"
)

// PolicyDegradationNotice is returned alongside results when the enumeration
// fell back to single-stop additions. It is a signal, not an error.
type PolicyDegradationNotice struct {
	OptionalStops int
	Threshold     int
	Mode          EnumerationMode
}

func (n *PolicyDegradationNotice) Message() string {
	return fmt.Sprintf(
		"single-stop marginal costs only: %d optional stops exceed the exhaustive threshold of %d; combinations of two or more optional stops were not evaluated",
		n.OptionalStops, n.Threshold,
	)
}
