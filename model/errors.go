package model

import "fmt"

/*
EvaluationError represents an error related with the evaluation of a tree
model as a whole, before any traversal takes place.
*/
type EvaluationError string

/*
ErrNotScorable is the error returned when evaluating a model whose
scorable flag is false. It is a rejection of the evaluation itself,
distinct from an evaluation that legitimately finds no prediction.
*/
const ErrNotScorable = EvaluationError("tree model is not scorable")

func (ee EvaluationError) Error() string {
	return string(ee)
}

/*
StructureError reports a tree model whose structure makes evaluation
impossible: an absent root or predicate, a dangling or duplicate node id,
a terminal node without a score, or score distributions that cannot yield
probabilities. It names the offending node when one exists.

Structure errors are deterministic properties of the model and are not
recoverable at evaluation time; they are meant to be caught by validating
models at load time.
*/
type StructureError struct {
	// Node is the offending node, nil when the model itself is at fault.
	Node *Node
	// Reason describes the violation.
	Reason string
}

func (se *StructureError) Error() string {
	if se.Node != nil && se.Node.ID != "" {
		return fmt.Sprintf("invalid model structure at node %q: %s", se.Node.ID, se.Reason)
	}
	if se.Node != nil {
		return fmt.Sprintf("invalid model structure: %s", se.Reason)
	}
	return fmt.Sprintf("invalid tree model: %s", se.Reason)
}

/*
UnsupportedError reports a model relying on a feature this module does
not implement: an embedded model on a node or an enumerated policy value
outside the recognized set. Unknown policy values are rejected rather
than ignored so that models written against future policy sets fail fast.
*/
type UnsupportedError struct {
	// Node is the offending node, nil when the feature is model-wide.
	Node *Node
	// Feature describes the unsupported feature.
	Feature string
}

func (ue *UnsupportedError) Error() string {
	if ue.Node != nil && ue.Node.ID != "" {
		return fmt.Sprintf("unsupported model feature at node %q: %s", ue.Node.ID, ue.Feature)
	}
	return fmt.Sprintf("unsupported model feature: %s", ue.Feature)
}
