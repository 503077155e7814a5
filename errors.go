package medusa

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrDuplicateID is matched by every DuplicateIDError.
var ErrDuplicateID = errors.New("medusa: duplicate target id")

// DuplicateIDError is returned when a target id is already registered. The
// existing target is left untouched.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("medusa: the target id %q already exists", e.ID)
}

// Is reports whether target is ErrDuplicateID.
func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// The warnings below are never returned from the public API. They are logged
// at warn level and the operation degrades to a no-op.

// NotFoundWarning reports an unknown target id.
type NotFoundWarning struct {
	ID string
	Op string
}

func (w *NotFoundWarning) Error() string {
	return fmt.Sprintf("medusa: %s: the target id %q doesn't exist", w.Op, w.ID)
}

// NotObservedWarning reports a pull of a node the target does not observe.
type NotObservedWarning struct {
	ID   string
	Node string
}

func (w *NotObservedWarning) Error() string {
	return fmt.Sprintf("medusa: node %q isn't observed by target %q", w.Node, w.ID)
}

// InvalidNodeSourceWarning reports a target configured with neither nodes
// nor a resolvable selector. The target is registered without a detector.
type InvalidNodeSourceWarning struct {
	ID     string
	Reason error
}

func (w *InvalidNodeSourceWarning) Error() string {
	if w.Reason != nil {
		return fmt.Sprintf("medusa: the node list for target %q is invalid, no detector was attached: %v", w.ID, w.Reason)
	}
	return fmt.Sprintf("medusa: the node list for target %q is invalid, no detector was attached", w.ID)
}

func (w *InvalidNodeSourceWarning) Unwrap() error {
	return w.Reason
}
