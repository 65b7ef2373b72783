/*
Package model defines the in-memory representation of a decision-tree
predictive model: the tree of predicate-guarded nodes, the per-node score
metadata and the global evaluation policies the model declares.

Models are built once, validated, and then treated as immutable: nothing
in this module mutates a model after construction, which is what allows a
single model to serve arbitrarily many concurrent evaluations.
*/
package model

import (
	"github.com/pbanos/canopy/predicate"
)

/*
MiningFunction is the kind of prediction a tree model produces.
*/
type MiningFunction string

const (
	// Regression models predict a numeric value.
	Regression MiningFunction = "regression"
	// Classification models predict a distribution of class probabilities.
	Classification MiningFunction = "classification"
)

/*
MissingValueStrategy determines how an evaluation proceeds when a node's
predicate cannot be decided for the record being evaluated.
*/
type MissingValueStrategy string

const (
	// MissingNullPrediction aborts the whole evaluation with no prediction.
	MissingNullPrediction MissingValueStrategy = "nullPrediction"
	// MissingLastPrediction predicts from the nearest ancestor of the
	// undecidable node.
	MissingLastPrediction MissingValueStrategy = "lastPrediction"
	// MissingDefaultChild continues the descent through the undecidable
	// node's declared default child.
	MissingDefaultChild MissingValueStrategy = "defaultChild"
	// MissingNone skips the undecidable branch and continues with its
	// siblings, exactly as if the predicate had been false.
	MissingNone MissingValueStrategy = "none"
)

/*
NoTrueChildStrategy determines what an evaluation yields when a branch
node's predicate was satisfied but none of its children's were.
*/
type NoTrueChildStrategy string

const (
	// NoTrueChildNullPrediction yields no prediction.
	NoTrueChildNullPrediction NoTrueChildStrategy = "returnNullPrediction"
	// NoTrueChildLastPrediction predicts from the branch node itself,
	// provided it declares a score.
	NoTrueChildLastPrediction NoTrueChildStrategy = "returnLastPrediction"
)

/*
ScoreDistribution describes how the records that reached a node during
training distribute over one class value.

Probability and Confidence are optional: a nil Probability means the
probability is implicit and must be derived from the record counts of all
the distributions on the node.
*/
type ScoreDistribution struct {
	Value       string
	RecordCount float64
	Probability *float64
	Confidence  *float64
}

/*
EmbeddedModel marks the presence of a model embedded in a tree node.
Embedded models are not supported: evaluating a tree that carries one
fails with an UnsupportedError rather than silently ignoring it.
*/
type EmbeddedModel struct {
	// Kind names the kind of embedded model, for diagnostics only.
	Kind string
}

/*
Node is a node of a decision tree.

A node guards entry with a predicate and either carries children to keep
descending through or stands as a leaf whose score is the prediction.
Each node exclusively owns its children: the tree is finite and acyclic.
*/
type Node struct {
	// ID identifies the node within its tree. It may be left empty, in
	// which case the node registry assigns it a positional id; explicit
	// ids must be unique within the tree.
	ID string
	// Predicate guards the node. A node without a predicate is a
	// structural error.
	Predicate predicate.Predicate
	// Score is the prediction the node stands for. The empty string
	// means the node declares no score; a node selected as the source of
	// a prediction must declare one.
	Score string
	// Distributions is the ordered per-class score distribution metadata
	// used to build classification results.
	Distributions []ScoreDistribution
	// DefaultChildID names the child to descend through when the
	// defaultChild missing value strategy is active. It is required, on
	// every non-leaf node actually visited, only under that strategy.
	DefaultChildID string
	// Children are the nodes directly under this node, in declaration
	// order.
	Children []*Node
	// EmbeddedModel, when present, makes the node unsupported.
	EmbeddedModel *EmbeddedModel
}

/*
Leaf returns true when the node has no children.
*/
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}

/*
HasScore returns true when the node declares a score.
*/
func (n *Node) HasScore() bool {
	return n.Score != ""
}

/*
TreeModel is a decision-tree predictive model: the root of the tree of
nodes plus the global policies an evaluation of the model must follow.
*/
type TreeModel struct {
	// Function is the kind of prediction the model produces.
	Function MiningFunction
	// MissingValueStrategy is applied whenever a node predicate cannot
	// be decided during an evaluation.
	MissingValueStrategy MissingValueStrategy
	// MissingValuePenalty scales classification confidences down once
	// per missing level traversed. It must not be negative.
	MissingValuePenalty float64
	// NoTrueChildStrategy is applied when a satisfied branch node has no
	// satisfied child.
	NoTrueChildStrategy NoTrueChildStrategy
	// Scorable indicates whether the model may be evaluated at all.
	// Evaluating a non-scorable model is rejected outright.
	Scorable bool
	// Root is the root node of the tree.
	Root *Node
}

/*
New takes a mining function and a root node and returns a tree model with
the default policies: no special missing value treatment, null prediction
on no true child, a missing value penalty of 1 and the model scorable.
*/
func New(function MiningFunction, root *Node) *TreeModel {
	return &TreeModel{
		Function:             function,
		MissingValueStrategy: MissingNone,
		MissingValuePenalty:  1.0,
		NoTrueChildStrategy:  NoTrueChildNullPrediction,
		Scorable:             true,
		Root:                 root,
	}
}
