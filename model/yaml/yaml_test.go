package yaml_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/canopy/model"
	yamlmodel "github.com/pbanos/canopy/model/yaml"
	"github.com/pbanos/canopy/predicate"
)

func codecTree() *model.TreeModel {
	confidence := 0.9
	under30 := &model.Node{
		ID: "under30",
		Predicate: predicate.NewCompound(predicate.Surrogate,
			predicate.NewSimple("age", predicate.LessThan, "30"),
			predicate.NewSimple("income", predicate.LessThan, "1000"),
		),
		Score: "A",
		Distributions: []model.ScoreDistribution{
			{Value: "A", RecordCount: 8, Confidence: &confidence},
			{Value: "B", RecordCount: 2},
		},
	}
	over30 := &model.Node{
		Predicate: predicate.NewSimple("age", predicate.GreaterOrEqual, "30"),
		Score:     "B",
	}
	root := &model.Node{
		ID:             "root",
		Predicate:      predicate.Constant(true),
		DefaultChildID: "under30",
		Children:       []*model.Node{under30, over30},
	}
	tm := model.New(model.Classification, root)
	tm.MissingValueStrategy = model.MissingDefaultChild
	tm.MissingValuePenalty = 0.8
	tm.NoTrueChildStrategy = model.NoTrueChildLastPrediction
	return tm
}

func TestWriteAndReadTreeModel(t *testing.T) {
	tm := codecTree()
	data, err := yamlmodel.WriteTreeModel(tm)
	require.NoError(t, err)

	parsed, err := yamlmodel.ReadTreeModel(data)
	require.NoError(t, err)
	assert.Equal(t, tm, parsed)
}

func TestReadTreeModelDefaults(t *testing.T) {
	doc := `
function: regression
root:
  id: t
  predicate:
    constant: true
  score: "4.5"
`

	tm, err := yamlmodel.ReadTreeModel([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, model.Regression, tm.Function)
	assert.Equal(t, model.MissingNone, tm.MissingValueStrategy)
	assert.Equal(t, model.NoTrueChildNullPrediction, tm.NoTrueChildStrategy)
	assert.Equal(t, 1.0, tm.MissingValuePenalty)
	assert.True(t, tm.Scorable)
	assert.Equal(t, "4.5", tm.Root.Score)
}

func TestReadTreeModelPredicates(t *testing.T) {
	doc := `
function: classification
missingValueStrategy: nullPrediction
root:
  id: root
  predicate:
    operator: or
    predicates:
      - field: age
        operator: lessThan
        value: "30"
      - constant: false
  score: A
`

	tm, err := yamlmodel.ReadTreeModel([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, model.MissingNullPrediction, tm.MissingValueStrategy)
	cp, ok := tm.Root.Predicate.(*predicate.Compound)
	require.True(t, ok)
	assert.Equal(t, predicate.Or, cp.Operator)
	require.Len(t, cp.Predicates, 2)
	assert.Equal(t, predicate.NewSimple("age", predicate.LessThan, "30"), cp.Predicates[0])
	assert.Equal(t, predicate.Constant(false), cp.Predicates[1])
}

func TestReadTreeModelErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid yaml", "function: [classification"},
		{"no root", "function: classification"},
		{"unrecognized predicate", `
function: classification
root:
  id: t
  predicate:
    threshold: 3
  score: A
`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := yamlmodel.ReadTreeModel([]byte(test.doc))
			assert.Error(t, err)
		})
	}
}

type opaquePredicate struct{}

func (opaquePredicate) Evaluate(ctx context.Context, record predicate.Record) (predicate.Result, error) {
	return predicate.True, nil
}

func TestWriteTreeModelUnsupportedPredicate(t *testing.T) {
	tm := model.New(model.Classification, &model.Node{
		ID:        "t",
		Predicate: opaquePredicate{},
		Score:     "A",
	})
	_, err := yamlmodel.WriteTreeModel(tm)
	assert.Error(t, err)
}
