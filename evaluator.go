/*
Package canopy evaluates decision-tree predictive models against records.

Given an immutable tree model (see package model) and a record providing
field values by name, Evaluate walks the tree through the three-valued
predicates guarding its nodes and produces either a numeric regression
value or a per-class probability distribution, honoring the model's
missing value and no-true-child policies. Models are shared freely across
concurrent evaluations; all per-evaluation state lives on the call.
*/
package canopy

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pbanos/canopy/model"
	"github.com/pbanos/canopy/predicate"
)

/*
Evaluate takes a tree model and a record and returns the model's
prediction for the record, or nil without an error when the evaluation
legitimately finds no prediction under the model's policies.

An error is returned when the model is flagged not scorable, relies on an
unsupported feature, or turns out to be structurally invalid along the
evaluated path. These errors are deterministic properties of the model
and the record; there is nothing to retry.
*/
func Evaluate(ctx context.Context, tm *model.TreeModel, record predicate.Record) (*Prediction, error) {
	p, err := evaluate(ctx, tm, record)
	observeEvaluation(tm, p, err)
	return p, err
}

func evaluate(ctx context.Context, tm *model.TreeModel, record predicate.Record) (*Prediction, error) {
	if tm == nil || tm.Root == nil {
		return nil, &model.StructureError{Reason: "no root node"}
	}
	if !tm.Scorable {
		return nil, model.ErrNotScorable
	}
	e := &evaluation{model: tm, record: record}
	switch tm.Function {
	case model.Regression:
		return e.evaluateRegression(ctx)
	case model.Classification:
		return e.evaluateClassification(ctx)
	}
	return nil, &model.UnsupportedError{Feature: fmt.Sprintf("mining function %q", tm.Function)}
}

type evaluation struct {
	model  *model.TreeModel
	record predicate.Record
}

/*
trail is the per-evaluation path bookkeeping: the stack of ancestor nodes
pushed while descending into branches, plus the count of missing levels
detected along the way. The count only ever grows within one evaluation.
*/
type trail struct {
	path          []*model.Node
	missingLevels int
}

func (t *trail) push(n *model.Node) {
	t.path = append(t.path, n)
}

// last returns the most recently pushed ancestor, or nil for an empty
// trail.
func (t *trail) last() *model.Node {
	if len(t.path) == 0 {
		return nil
	}
	return t.path[len(t.path)-1]
}

func (t *trail) addMissingLevel() {
	t.missingLevels++
}

/*
nodeResult is the outcome of one resolution step during traversal. A nil
*nodeResult means "no override": the search simply continues. The final
flag marks results the caller must return as they are, exempt from the
no-true-child policy.
*/
type nodeResult struct {
	node  *model.Node
	final bool
}

func (e *evaluation) evaluateRegression(ctx context.Context) (*Prediction, error) {
	tr := &trail{}
	node, err := e.evaluateTree(ctx, tr)
	if err != nil || node == nil {
		return nil, err
	}
	score, err := ensureScore(node)
	if err != nil {
		return nil, err
	}
	value, err := strconv.ParseFloat(score, 64)
	if err != nil {
		return nil, &model.StructureError{Node: node, Reason: fmt.Sprintf("regression score %q is not numeric", score)}
	}
	return &Prediction{node: node, value: value}, nil
}

func (e *evaluation) evaluateClassification(ctx context.Context) (*Prediction, error) {
	tr := &trail{}
	node, err := e.evaluateTree(ctx, tr)
	if err != nil || node == nil {
		return nil, err
	}
	if _, err := ensureScore(node); err != nil {
		return nil, err
	}
	penalty := 1.0
	for i := 0; i < tr.missingLevels; i++ {
		penalty *= e.model.MissingValuePenalty
	}
	return newClassification(node, penalty)
}

// evaluateTree runs the traversal from the root and resolves its outcome
// into the terminal node the prediction is read from, or nil when there
// is none.
func (e *evaluation) evaluateTree(ctx context.Context, tr *trail) (*model.Node, error) {
	root := e.model.Root
	status, err := e.evaluateNode(ctx, root, tr)
	if err != nil {
		return nil, err
	}
	var result *nodeResult
	switch status {
	case predicate.Missing:
		result, err = e.handleMissingValue(ctx, root, tr)
	case predicate.True:
		result, err = e.handleTrue(ctx, root, "", tr)
	}
	if err != nil {
		return nil, err
	}
	if result != nil && result.final {
		return result.node, nil
	}
	switch e.model.NoTrueChildStrategy {
	case model.NoTrueChildNullPrediction:
		return nil, nil
	case model.NoTrueChildLastPrediction:
		// The branch node is returned only if it declares a score.
		if parent := tr.last(); parent != nil && parent.HasScore() {
			return parent, nil
		}
		return nil, nil
	}
	return nil, &model.UnsupportedError{Feature: fmt.Sprintf("no true child strategy %q", e.model.NoTrueChildStrategy)}
}

// evaluateNode evaluates the predicate guarding a node. A surrogate
// compound predicate that fell back to an alternative sub-predicate
// counts as one missing level even when its overall result is decided.
func (e *evaluation) evaluateNode(ctx context.Context, n *model.Node, tr *trail) (predicate.Result, error) {
	if n.EmbeddedModel != nil {
		return predicate.False, &model.UnsupportedError{Node: n, Feature: fmt.Sprintf("embedded %s model", n.EmbeddedModel.Kind)}
	}
	if n.Predicate == nil {
		return predicate.False, &model.StructureError{Node: n, Reason: "no predicate"}
	}
	if cp, ok := n.Predicate.(*predicate.Compound); ok {
		result, alternative, err := cp.EvaluateWithAlternative(ctx, e.record)
		if err != nil {
			return predicate.False, err
		}
		if alternative {
			tr.addMissingLevel()
		}
		return result, nil
	}
	return n.Predicate.Evaluate(ctx, e.record)
}

// handleTrue descends into a node whose predicate was satisfied. When
// startChildID is not empty, children before the one with that id are
// skipped; it is a structural error if no child carries the id.
func (e *evaluation) handleTrue(ctx context.Context, n *model.Node, startChildID string, tr *trail) (*nodeResult, error) {
	if n.Leaf() {
		return &nodeResult{node: n, final: true}, nil
	}
	tr.push(n)
	for _, child := range n.Children {
		if startChildID != "" {
			if child.ID != startChildID {
				continue
			}
			startChildID = ""
		}
		status, err := e.evaluateNode(ctx, child, tr)
		if err != nil {
			return nil, err
		}
		switch status {
		case predicate.True:
			// First satisfied child wins; remaining siblings are not
			// evaluated.
			return e.handleTrue(ctx, child, "", tr)
		case predicate.Missing:
			result, err := e.handleMissingValue(ctx, child, tr)
			if err != nil {
				return nil, err
			}
			if result != nil {
				return result, nil
			}
			// A missing branch resolved to no override continues with
			// the next sibling, exactly like a false branch.
		}
	}
	if startChildID != "" {
		return nil, &model.StructureError{Node: n, Reason: fmt.Sprintf("default child id %q does not name a child", startChildID)}
	}
	// A satisfied branch node with no satisfied child: defer to the
	// model's no-true-child strategy.
	return &nodeResult{}, nil
}

// handleMissingValue resolves a node whose predicate was missing
// according to the model's missing value strategy. A nil result means
// the strategy imposes no override and the search continues.
func (e *evaluation) handleMissingValue(ctx context.Context, n *model.Node, tr *trail) (*nodeResult, error) {
	switch e.model.MissingValueStrategy {
	case model.MissingNullPrediction:
		return &nodeResult{final: true}, nil
	case model.MissingLastPrediction:
		return &nodeResult{node: tr.last(), final: true}, nil
	case model.MissingDefaultChild:
		if n.Leaf() {
			return nil, nil
		}
		if n.DefaultChildID == "" {
			return nil, &model.StructureError{Node: n, Reason: "no default child id declared under the defaultChild missing value strategy"}
		}
		tr.addMissingLevel()
		return e.handleTrue(ctx, n, n.DefaultChildID, tr)
	case model.MissingNone:
		return nil, nil
	}
	return nil, &model.UnsupportedError{Feature: fmt.Sprintf("missing value strategy %q", e.model.MissingValueStrategy)}
}

func ensureScore(n *model.Node) (string, error) {
	if !n.HasScore() {
		return "", &model.StructureError{Node: n, Reason: "selected as the prediction without a score"}
	}
	return n.Score, nil
}
