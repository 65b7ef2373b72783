/*
Package json provides methods to serialize tree models as JSON documents
and parse them back.

A tree model is serialized as a JSON object with the model's policies as
top-level properties and the tree under a "root" property. Node
predicates are serialized as tagged objects: an object with a
"predicates" property is a compound predicate, one with a "field"
property a simple predicate and one with a "constant" property a constant
predicate.
*/
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/canopy/model"
	"github.com/pbanos/canopy/predicate"
)

type treeModel struct {
	Function             string   `json:"function"`
	MissingValueStrategy string   `json:"missingValueStrategy,omitempty"`
	MissingValuePenalty  *float64 `json:"missingValuePenalty,omitempty"`
	NoTrueChildStrategy  string   `json:"noTrueChildStrategy,omitempty"`
	Scorable             *bool    `json:"scorable,omitempty"`
	Root                 *node    `json:"root"`
}

type node struct {
	ID            string              `json:"id,omitempty"`
	Predicate     *json.RawMessage    `json:"predicate"`
	Score         string              `json:"score,omitempty"`
	Distributions []scoreDistribution `json:"distributions,omitempty"`
	DefaultChild  string              `json:"defaultChild,omitempty"`
	Children      []*node             `json:"children,omitempty"`
}

type scoreDistribution struct {
	Value       string   `json:"value"`
	RecordCount float64  `json:"recordCount"`
	Probability *float64 `json:"probability,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

type predicateWire struct {
	Constant   *bool              `json:"constant,omitempty"`
	Field      string             `json:"field,omitempty"`
	Operator   string             `json:"operator,omitempty"`
	Value      string             `json:"value,omitempty"`
	Predicates []*json.RawMessage `json:"predicates,omitempty"`
}

/*
WriteTreeModel takes a tree model and an io.Writer and serializes the
model as JSON onto the writer. An error is returned if the model carries
a predicate kind that cannot be serialized or the writer fails.
*/
func WriteTreeModel(tm *model.TreeModel, w io.Writer) error {
	jtm, err := encodeTreeModel(tm)
	if err != nil {
		return fmt.Errorf("encoding tree model: %v", err)
	}
	enc := json.NewEncoder(w)
	err = enc.Encode(jtm)
	if err != nil {
		return fmt.Errorf("writing tree model: %v", err)
	}
	return nil
}

/*
ReadTreeModel takes an io.Reader for a JSON stream and returns the tree
model parsed from it or an error. Policy properties absent from the
document default to the none missing value strategy, the null prediction
no-true-child strategy, a penalty of 1 and a scorable model.
*/
func ReadTreeModel(r io.Reader) (*model.TreeModel, error) {
	dec := json.NewDecoder(r)
	jtm := &treeModel{}
	err := dec.Decode(jtm)
	if err != nil {
		return nil, fmt.Errorf("parsing tree model: %v", err)
	}
	return decodeTreeModel(jtm)
}

/*
ReadTreeModelFromFile takes a filepath, opens it and uses ReadTreeModel
to return the tree model parsed from it or an error.
*/
func ReadTreeModelFromFile(filepath string) (*model.TreeModel, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree model file %s: %v", filepath, err)
	}
	defer f.Close()
	tm, err := ReadTreeModel(f)
	if err != nil {
		err = fmt.Errorf("parsing tree model file %s: %v", filepath, err)
	}
	return tm, err
}

func decodeTreeModel(jtm *treeModel) (*model.TreeModel, error) {
	if jtm.Root == nil {
		return nil, fmt.Errorf("parsing tree model: no root node")
	}
	root, err := decodeNode(jtm.Root)
	if err != nil {
		return nil, err
	}
	tm := model.New(model.MiningFunction(jtm.Function), root)
	if jtm.MissingValueStrategy != "" {
		tm.MissingValueStrategy = model.MissingValueStrategy(jtm.MissingValueStrategy)
	}
	if jtm.NoTrueChildStrategy != "" {
		tm.NoTrueChildStrategy = model.NoTrueChildStrategy(jtm.NoTrueChildStrategy)
	}
	if jtm.MissingValuePenalty != nil {
		tm.MissingValuePenalty = *jtm.MissingValuePenalty
	}
	if jtm.Scorable != nil {
		tm.Scorable = *jtm.Scorable
	}
	return tm, nil
}

func decodeNode(jn *node) (*model.Node, error) {
	n := &model.Node{
		ID:             jn.ID,
		Score:          jn.Score,
		DefaultChildID: jn.DefaultChild,
	}
	if jn.Predicate != nil {
		p, err := decodePredicate(*jn.Predicate)
		if err != nil {
			return nil, fmt.Errorf("parsing node %q: %v", jn.ID, err)
		}
		n.Predicate = p
	}
	for _, jsd := range jn.Distributions {
		n.Distributions = append(n.Distributions, model.ScoreDistribution{
			Value:       jsd.Value,
			RecordCount: jsd.RecordCount,
			Probability: jsd.Probability,
			Confidence:  jsd.Confidence,
		})
	}
	for _, jchild := range jn.Children {
		child, err := decodeNode(jchild)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func decodePredicate(data []byte) (predicate.Predicate, error) {
	jp := &predicateWire{}
	err := json.Unmarshal(data, jp)
	if err != nil {
		return nil, fmt.Errorf("parsing predicate: %v", err)
	}
	switch {
	case len(jp.Predicates) > 0:
		cp := &predicate.Compound{Operator: predicate.BooleanOperator(jp.Operator)}
		for _, jsub := range jp.Predicates {
			sub, err := decodePredicate(*jsub)
			if err != nil {
				return nil, err
			}
			cp.Predicates = append(cp.Predicates, sub)
		}
		return cp, nil
	case jp.Field != "":
		return predicate.NewSimple(jp.Field, predicate.Operator(jp.Operator), jp.Value), nil
	case jp.Constant != nil:
		return predicate.Constant(*jp.Constant), nil
	}
	return nil, fmt.Errorf("parsing predicate: unrecognized predicate %s", data)
}

func encodeTreeModel(tm *model.TreeModel) (*treeModel, error) {
	jtm := &treeModel{
		Function:             string(tm.Function),
		MissingValueStrategy: string(tm.MissingValueStrategy),
		MissingValuePenalty:  &tm.MissingValuePenalty,
		NoTrueChildStrategy:  string(tm.NoTrueChildStrategy),
		Scorable:             &tm.Scorable,
	}
	if tm.Root != nil {
		jroot, err := encodeNode(tm.Root)
		if err != nil {
			return nil, err
		}
		jtm.Root = jroot
	}
	return jtm, nil
}

func encodeNode(n *model.Node) (*node, error) {
	jn := &node{
		ID:           n.ID,
		Score:        n.Score,
		DefaultChild: n.DefaultChildID,
	}
	if n.Predicate != nil {
		jp, err := encodePredicate(n.Predicate)
		if err != nil {
			return nil, fmt.Errorf("encoding node %q: %v", n.ID, err)
		}
		raw := json.RawMessage(jp)
		jn.Predicate = &raw
	}
	for _, sd := range n.Distributions {
		jn.Distributions = append(jn.Distributions, scoreDistribution{
			Value:       sd.Value,
			RecordCount: sd.RecordCount,
			Probability: sd.Probability,
			Confidence:  sd.Confidence,
		})
	}
	for _, child := range n.Children {
		jchild, err := encodeNode(child)
		if err != nil {
			return nil, err
		}
		jn.Children = append(jn.Children, jchild)
	}
	return jn, nil
}

func encodePredicate(p predicate.Predicate) ([]byte, error) {
	switch p := p.(type) {
	case *predicate.Simple:
		return json.Marshal(&predicateWire{
			Field:    p.Field,
			Operator: string(p.Operator),
			Value:    p.Value,
		})
	case predicate.Constant:
		constant := bool(p)
		return json.Marshal(&predicateWire{Constant: &constant})
	case *predicate.Compound:
		jp := &predicateWire{Operator: string(p.Operator)}
		for _, sub := range p.Predicates {
			jsub, err := encodePredicate(sub)
			if err != nil {
				return nil, err
			}
			raw := json.RawMessage(jsub)
			jp.Predicates = append(jp.Predicates, &raw)
		}
		return json.Marshal(jp)
	}
	return nil, fmt.Errorf("encoding predicate: unsupported predicate type %T", p)
}
