/*
Package yaml provides methods to serialize tree models as YAML documents
and parse them back, with the same document shape as the JSON codec: the
model's policies as top-level properties and the tree under a root
property, node predicates as tagged mappings.
*/
package yaml

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/pbanos/canopy/model"
	"github.com/pbanos/canopy/predicate"
)

type treeModel struct {
	Function             string   `yaml:"function"`
	MissingValueStrategy string   `yaml:"missingValueStrategy,omitempty"`
	MissingValuePenalty  *float64 `yaml:"missingValuePenalty,omitempty"`
	NoTrueChildStrategy  string   `yaml:"noTrueChildStrategy,omitempty"`
	Scorable             *bool    `yaml:"scorable,omitempty"`
	Root                 *node    `yaml:"root"`
}

type node struct {
	ID            string              `yaml:"id,omitempty"`
	Predicate     *predicateWire      `yaml:"predicate"`
	Score         string              `yaml:"score,omitempty"`
	Distributions []scoreDistribution `yaml:"distributions,omitempty"`
	DefaultChild  string              `yaml:"defaultChild,omitempty"`
	Children      []*node             `yaml:"children,omitempty"`
}

type scoreDistribution struct {
	Value       string   `yaml:"value"`
	RecordCount float64  `yaml:"recordCount"`
	Probability *float64 `yaml:"probability,omitempty"`
	Confidence  *float64 `yaml:"confidence,omitempty"`
}

type predicateWire struct {
	Constant   *bool            `yaml:"constant,omitempty"`
	Field      string           `yaml:"field,omitempty"`
	Operator   string           `yaml:"operator,omitempty"`
	Value      string           `yaml:"value,omitempty"`
	Predicates []*predicateWire `yaml:"predicates,omitempty"`
}

/*
ReadTreeModel takes a slice of bytes with a tree model specification in
YAML and returns the tree model parsed from it or an error. Policy
properties absent from the document default to the none missing value
strategy, the null prediction no-true-child strategy, a penalty of 1 and
a scorable model.
*/
func ReadTreeModel(md []byte) (*model.TreeModel, error) {
	ytm := &treeModel{}
	err := yaml.Unmarshal(md, ytm)
	if err != nil {
		return nil, fmt.Errorf("parsing yml tree model: %v", err)
	}
	if ytm.Root == nil {
		return nil, fmt.Errorf("parsing yml tree model: no root node")
	}
	root, err := decodeNode(ytm.Root)
	if err != nil {
		return nil, err
	}
	tm := model.New(model.MiningFunction(ytm.Function), root)
	if ytm.MissingValueStrategy != "" {
		tm.MissingValueStrategy = model.MissingValueStrategy(ytm.MissingValueStrategy)
	}
	if ytm.NoTrueChildStrategy != "" {
		tm.NoTrueChildStrategy = model.NoTrueChildStrategy(ytm.NoTrueChildStrategy)
	}
	if ytm.MissingValuePenalty != nil {
		tm.MissingValuePenalty = *ytm.MissingValuePenalty
	}
	if ytm.Scorable != nil {
		tm.Scorable = *ytm.Scorable
	}
	return tm, nil
}

/*
ReadTreeModelFromFile takes a filepath string, reads its contents and
uses ReadTreeModel to parse it and return a tree model or an error. If
the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadTreeModelFromFile(filepath string) (*model.TreeModel, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree model yml file %s: %v", filepath, err)
	}
	tm, err := ReadTreeModel(md)
	if err != nil {
		err = fmt.Errorf("parsing tree model yml file %s: %v", filepath, err)
	}
	return tm, err
}

/*
WriteTreeModel takes a tree model and returns a slice of bytes with the
model serialized as YAML or an error if the model carries a predicate
kind that cannot be serialized.
*/
func WriteTreeModel(tm *model.TreeModel) ([]byte, error) {
	ytm := &treeModel{
		Function:             string(tm.Function),
		MissingValueStrategy: string(tm.MissingValueStrategy),
		MissingValuePenalty:  &tm.MissingValuePenalty,
		NoTrueChildStrategy:  string(tm.NoTrueChildStrategy),
		Scorable:             &tm.Scorable,
	}
	if tm.Root != nil {
		yroot, err := encodeNode(tm.Root)
		if err != nil {
			return nil, err
		}
		ytm.Root = yroot
	}
	data, err := yaml.Marshal(ytm)
	if err != nil {
		return nil, fmt.Errorf("encoding tree model: %v", err)
	}
	return data, nil
}

func decodeNode(yn *node) (*model.Node, error) {
	n := &model.Node{
		ID:             yn.ID,
		Score:          yn.Score,
		DefaultChildID: yn.DefaultChild,
	}
	if yn.Predicate != nil {
		p, err := decodePredicate(yn.Predicate)
		if err != nil {
			return nil, fmt.Errorf("parsing node %q: %v", yn.ID, err)
		}
		n.Predicate = p
	}
	for _, ysd := range yn.Distributions {
		n.Distributions = append(n.Distributions, model.ScoreDistribution{
			Value:       ysd.Value,
			RecordCount: ysd.RecordCount,
			Probability: ysd.Probability,
			Confidence:  ysd.Confidence,
		})
	}
	for _, ychild := range yn.Children {
		child, err := decodeNode(ychild)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func decodePredicate(yp *predicateWire) (predicate.Predicate, error) {
	switch {
	case len(yp.Predicates) > 0:
		cp := &predicate.Compound{Operator: predicate.BooleanOperator(yp.Operator)}
		for _, ysub := range yp.Predicates {
			sub, err := decodePredicate(ysub)
			if err != nil {
				return nil, err
			}
			cp.Predicates = append(cp.Predicates, sub)
		}
		return cp, nil
	case yp.Field != "":
		return predicate.NewSimple(yp.Field, predicate.Operator(yp.Operator), yp.Value), nil
	case yp.Constant != nil:
		return predicate.Constant(*yp.Constant), nil
	}
	return nil, fmt.Errorf("parsing predicate: unrecognized predicate declaration")
}

func encodeNode(n *model.Node) (*node, error) {
	yn := &node{
		ID:           n.ID,
		Score:        n.Score,
		DefaultChild: n.DefaultChildID,
	}
	if n.Predicate != nil {
		yp, err := encodePredicate(n.Predicate)
		if err != nil {
			return nil, fmt.Errorf("encoding node %q: %v", n.ID, err)
		}
		yn.Predicate = yp
	}
	for _, sd := range n.Distributions {
		yn.Distributions = append(yn.Distributions, scoreDistribution{
			Value:       sd.Value,
			RecordCount: sd.RecordCount,
			Probability: sd.Probability,
			Confidence:  sd.Confidence,
		})
	}
	for _, child := range n.Children {
		ychild, err := encodeNode(child)
		if err != nil {
			return nil, err
		}
		yn.Children = append(yn.Children, ychild)
	}
	return yn, nil
}

func encodePredicate(p predicate.Predicate) (*predicateWire, error) {
	switch p := p.(type) {
	case *predicate.Simple:
		return &predicateWire{
			Field:    p.Field,
			Operator: string(p.Operator),
			Value:    p.Value,
		}, nil
	case predicate.Constant:
		constant := bool(p)
		return &predicateWire{Constant: &constant}, nil
	case *predicate.Compound:
		yp := &predicateWire{Operator: string(p.Operator)}
		for _, sub := range p.Predicates {
			ysub, err := encodePredicate(sub)
			if err != nil {
				return nil, err
			}
			yp.Predicates = append(yp.Predicates, ysub)
		}
		return yp, nil
	}
	return nil, fmt.Errorf("encoding predicate: unsupported predicate type %T", p)
}
