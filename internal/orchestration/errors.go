package orchestration

import (
	"errors"
	"fmt"
	"strings"
)

// PartialAllocationError reports a failure after the backend already
// allocated nodes. The nodes are not released.
type PartialAllocationError struct {
	Nodes []string
	Err   error
}

func (e *PartialAllocationError) Error() string {
	return fmt.Sprintf("allocated nodes [%s] left unreleased: %v", strings.Join(e.Nodes, ", "), e.Err)
}

func (e *PartialAllocationError) Unwrap() error {
	return e.Err
}

// IsPartialAllocation reports whether err carries allocated nodes.
func IsPartialAllocation(err error) bool {
	var target *PartialAllocationError
	return errors.As(err, &target)
}

// ErrNoHosts is returned when a node operation names no host at all.
var ErrNoHosts = errors.New("at least one host name must be provided")
