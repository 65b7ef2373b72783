package canopy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/canopy"
	"github.com/pbanos/canopy/model"
	"github.com/pbanos/canopy/predicate"
)

func regressionStump(score string) *model.TreeModel {
	return model.New(model.Regression, leaf("t", score))
}

func classificationStump(distributions ...model.ScoreDistribution) *model.TreeModel {
	return model.New(model.Classification, leaf("t", distributions[0].Value, distributions...))
}

func TestEnsembleRegression(t *testing.T) {
	ensemble := canopy.NewEnsemble(canopy.CombinationAverage,
		regressionStump("2"),
		regressionStump("4"),
		regressionStump("9"),
	)
	tests := []struct {
		combination canopy.Combination
		expected    float64
	}{
		{canopy.CombinationSum, 15},
		{canopy.CombinationAverage, 5},
		{canopy.CombinationMedian, 4},
	}
	for _, test := range tests {
		t.Run(string(test.combination), func(t *testing.T) {
			ensemble.Combination = test.combination
			p, err := ensemble.Evaluate(context.Background(), record(nil))
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.InDelta(t, test.expected, p.Value(), 1e-9)
		})
	}
}

func TestEnsembleRegressionWeightedAverage(t *testing.T) {
	ensemble := canopy.NewEnsemble(canopy.CombinationWeightedAverage,
		regressionStump("2"),
		regressionStump("8"),
	)
	ensemble.Weights = []float64{3, 1}

	p, err := ensemble.Evaluate(context.Background(), record(nil))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.InDelta(t, 3.5, p.Value(), 1e-9)
}

func TestEnsembleRegressionSkipsSilentModels(t *testing.T) {
	silent := model.New(model.Regression, &model.Node{
		ID:        "root",
		Predicate: predicate.Constant(true),
		Children:  []*model.Node{leaf("t", "100")},
	})
	silent.Root.Children[0].Predicate = predicate.Constant(false)
	ensemble := canopy.NewEnsemble(canopy.CombinationAverage,
		silent,
		regressionStump("4"),
	)

	// The silent model yields no prediction and does not drag the
	// average down.
	p, err := ensemble.Evaluate(context.Background(), record(nil))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.InDelta(t, 4.0, p.Value(), 1e-9)
}

func TestEnsembleRegressionAllSilent(t *testing.T) {
	silent := model.New(model.Regression, &model.Node{
		ID:        "root",
		Predicate: predicate.Constant(true),
		Children:  []*model.Node{leaf("t", "100")},
	})
	silent.Root.Children[0].Predicate = predicate.Constant(false)
	ensemble := canopy.NewEnsemble(canopy.CombinationAverage, silent)

	p, err := ensemble.Evaluate(context.Background(), record(nil))
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestEnsembleRegressionMajorityVote(t *testing.T) {
	ensemble := canopy.NewEnsemble(canopy.CombinationMajorityVote, regressionStump("2"))
	_, err := ensemble.Evaluate(context.Background(), record(nil))
	assert.Error(t, err)
}

func TestEnsembleClassificationAverage(t *testing.T) {
	ensemble := canopy.NewEnsemble(canopy.CombinationAverage,
		classificationStump(
			model.ScoreDistribution{Value: "A", RecordCount: 8},
			model.ScoreDistribution{Value: "B", RecordCount: 2},
		),
		classificationStump(
			model.ScoreDistribution{Value: "A", RecordCount: 4},
			model.ScoreDistribution{Value: "B", RecordCount: 6},
		),
	)

	p, err := ensemble.Evaluate(context.Background(), record(nil))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.InDelta(t, 0.6, p.ProbabilityOf("A"), 1e-9)
	assert.InDelta(t, 0.4, p.ProbabilityOf("B"), 1e-9)

	value, prob := p.PredictedValue()
	assert.Equal(t, "A", value)
	assert.InDelta(t, 0.6, prob, 1e-9)
}

func TestEnsembleClassificationMajorityVote(t *testing.T) {
	a := classificationStump(
		model.ScoreDistribution{Value: "A", RecordCount: 6},
		model.ScoreDistribution{Value: "B", RecordCount: 4},
	)
	b := classificationStump(
		model.ScoreDistribution{Value: "B", RecordCount: 9},
		model.ScoreDistribution{Value: "A", RecordCount: 1},
	)
	ensemble := canopy.NewEnsemble(canopy.CombinationMajorityVote, a, a, b)

	p, err := ensemble.Evaluate(context.Background(), record(nil))
	require.NoError(t, err)
	require.NotNil(t, p)
	value, prob := p.PredictedValue()
	assert.Equal(t, "A", value)
	assert.InDelta(t, 2.0/3.0, prob, 1e-9)
}

func TestEnsembleMixedFunctions(t *testing.T) {
	ensemble := canopy.NewEnsemble(canopy.CombinationAverage,
		regressionStump("2"),
		classificationStump(model.ScoreDistribution{Value: "A", RecordCount: 1}),
	)
	_, err := ensemble.Evaluate(context.Background(), record(nil))
	assert.Error(t, err)
}

func TestEnsembleWithoutModels(t *testing.T) {
	ensemble := canopy.NewEnsemble(canopy.CombinationAverage)
	_, err := ensemble.Evaluate(context.Background(), record(nil))
	assert.Error(t, err)
}

func TestEnsembleMisalignedWeights(t *testing.T) {
	ensemble := canopy.NewEnsemble(canopy.CombinationWeightedAverage,
		regressionStump("2"),
		regressionStump("4"),
	)
	ensemble.Weights = []float64{1}
	_, err := ensemble.Evaluate(context.Background(), record(nil))
	assert.Error(t, err)
}
