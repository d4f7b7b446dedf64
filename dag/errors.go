package dag

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle. Path starts and ends with the
// same node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dag: cycle detected: %s", strings.Join(e.Path, " -> "))
}

// UnknownNodeError reports an edge naming a node the graph does not have.
type UnknownNodeError struct {
	Name     string
	Referrer string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("dag: %q references unknown node %q", e.Referrer, e.Name)
}
