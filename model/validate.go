package model

import "fmt"

/*
Validate performs an eager structural check of the given tree model,
returning a StructureError or UnsupportedError describing the first
violation found, or nil if the model is well formed.

Validate applies at load time the same rules evaluation enforces lazily:
every node carries a predicate and no embedded model, node ids do not
repeat, declared default child ids resolve to actual children, score
distributions that rely on implicit probabilities have a positive record
count sum, and the model's enumerated policies and penalty are within the
recognized sets. A model that passes Validate can still legitimately
yield no prediction for a record; it can no longer fail structurally.
*/
func Validate(tm *TreeModel) error {
	if tm == nil || tm.Root == nil {
		return &StructureError{Reason: "no root node"}
	}
	switch tm.Function {
	case Regression, Classification:
	default:
		return &UnsupportedError{Feature: fmt.Sprintf("mining function %q", tm.Function)}
	}
	switch tm.MissingValueStrategy {
	case MissingNullPrediction, MissingLastPrediction, MissingDefaultChild, MissingNone:
	default:
		return &UnsupportedError{Feature: fmt.Sprintf("missing value strategy %q", tm.MissingValueStrategy)}
	}
	switch tm.NoTrueChildStrategy {
	case NoTrueChildNullPrediction, NoTrueChildLastPrediction:
	default:
		return &UnsupportedError{Feature: fmt.Sprintf("no true child strategy %q", tm.NoTrueChildStrategy)}
	}
	if tm.MissingValuePenalty < 0 {
		return &StructureError{Reason: fmt.Sprintf("negative missing value penalty %v", tm.MissingValuePenalty)}
	}
	if _, err := buildRegistry(tm); err != nil {
		return err
	}
	return validateNode(tm, tm.Root)
}

func validateNode(tm *TreeModel, n *Node) error {
	if n.Predicate == nil {
		return &StructureError{Node: n, Reason: "no predicate"}
	}
	if n.EmbeddedModel != nil {
		return &UnsupportedError{Node: n, Feature: fmt.Sprintf("embedded %s model", n.EmbeddedModel.Kind)}
	}
	if err := validateDistributions(n); err != nil {
		return err
	}
	if tm.MissingValueStrategy == MissingDefaultChild && !n.Leaf() {
		if n.DefaultChildID == "" {
			return &StructureError{Node: n, Reason: "no default child id declared under the defaultChild missing value strategy"}
		}
		if childByID(n, n.DefaultChildID) == nil {
			return &StructureError{Node: n, Reason: fmt.Sprintf("default child id %q does not name a child", n.DefaultChildID)}
		}
	}
	for _, child := range n.Children {
		if err := validateNode(tm, child); err != nil {
			return err
		}
	}
	return nil
}

func validateDistributions(n *Node) error {
	if len(n.Distributions) == 0 {
		return nil
	}
	var sum float64
	implicit := false
	for _, sd := range n.Distributions {
		sum += sd.RecordCount
		if sd.Probability == nil {
			implicit = true
		}
	}
	if implicit && sum == 0 {
		return &StructureError{Node: n, Reason: "score distributions with implicit probabilities have a zero record count sum"}
	}
	return nil
}

func childByID(n *Node, id string) *Node {
	for _, child := range n.Children {
		if child.ID == id {
			return child
		}
	}
	return nil
}
