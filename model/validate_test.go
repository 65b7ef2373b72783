package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/canopy/model"
	"github.com/pbanos/canopy/predicate"
)

func validTree() *model.TreeModel {
	under30 := &model.Node{
		ID:        "under30",
		Predicate: predicate.NewSimple("age", predicate.LessThan, "30"),
		Score:     "A",
		Distributions: []model.ScoreDistribution{
			{Value: "A", RecordCount: 8},
			{Value: "B", RecordCount: 2},
		},
	}
	over30 := &model.Node{
		ID:        "over30",
		Predicate: predicate.NewSimple("age", predicate.GreaterOrEqual, "30"),
		Score:     "B",
	}
	root := &model.Node{
		ID:             "root",
		Predicate:      predicate.Constant(true),
		DefaultChildID: "under30",
		Children:       []*model.Node{under30, over30},
	}
	return model.New(model.Classification, root)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, model.Validate(validTree()))
}

func TestValidateStructureErrors(t *testing.T) {
	tests := []struct {
		name  string
		wreck func(tm *model.TreeModel)
	}{
		{"no root", func(tm *model.TreeModel) { tm.Root = nil }},
		{"negative penalty", func(tm *model.TreeModel) { tm.MissingValuePenalty = -0.5 }},
		{"duplicate node id", func(tm *model.TreeModel) { tm.Root.Children[1].ID = "under30" }},
		{"node without predicate", func(tm *model.TreeModel) { tm.Root.Children[0].Predicate = nil }},
		{"zero record count sum", func(tm *model.TreeModel) {
			tm.Root.Children[0].Distributions = []model.ScoreDistribution{
				{Value: "A", RecordCount: 0},
				{Value: "B", RecordCount: 0},
			}
		}},
		{"missing default child id", func(tm *model.TreeModel) {
			tm.MissingValueStrategy = model.MissingDefaultChild
			tm.Root.DefaultChildID = ""
		}},
		{"dangling default child id", func(tm *model.TreeModel) {
			tm.MissingValueStrategy = model.MissingDefaultChild
			tm.Root.DefaultChildID = "nowhere"
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tm := validTree()
			test.wreck(tm)
			err := model.Validate(tm)
			var se *model.StructureError
			require.ErrorAs(t, err, &se)
		})
	}
}

func TestValidateUnsupportedErrors(t *testing.T) {
	tests := []struct {
		name  string
		wreck func(tm *model.TreeModel)
	}{
		{"unknown mining function", func(tm *model.TreeModel) { tm.Function = "clustering" }},
		{"unknown missing value strategy", func(tm *model.TreeModel) { tm.MissingValueStrategy = "aggregateNodes" }},
		{"unknown no true child strategy", func(tm *model.TreeModel) { tm.NoTrueChildStrategy = "returnBestPrediction" }},
		{"embedded model", func(tm *model.TreeModel) {
			tm.Root.Children[1].EmbeddedModel = &model.EmbeddedModel{Kind: "regression"}
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tm := validTree()
			test.wreck(tm)
			err := model.Validate(tm)
			var ue *model.UnsupportedError
			require.ErrorAs(t, err, &ue)
		})
	}
}

func TestValidateDefaultChildOnLeaves(t *testing.T) {
	// Leaves need no default child id even under the defaultChild
	// strategy.
	tm := validTree()
	tm.MissingValueStrategy = model.MissingDefaultChild
	assert.NoError(t, model.Validate(tm))
}

func TestValidateExplicitProbabilities(t *testing.T) {
	// Explicit probabilities do not need record counts.
	tm := validTree()
	p := 0.7
	q := 0.3
	tm.Root.Children[0].Distributions = []model.ScoreDistribution{
		{Value: "A", Probability: &p},
		{Value: "B", Probability: &q},
	}
	assert.NoError(t, model.Validate(tm))
}
