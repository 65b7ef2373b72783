package canopy

import (
	"context"
	"fmt"

	"github.com/pbanos/canopy/aggregate"
	"github.com/pbanos/canopy/model"
	"github.com/pbanos/canopy/predicate"
)

/*
Combination is the way an Ensemble merges the outcomes of its models.
*/
type Combination string

const (
	// CombinationSum adds up the per-class scores or regression values.
	CombinationSum Combination = "sum"
	// CombinationAverage averages contributions over the models that
	// produced a prediction.
	CombinationAverage Combination = "average"
	// CombinationWeightedAverage averages contributions using the
	// ensemble's per-model weights.
	CombinationWeightedAverage Combination = "weightedAverage"
	// CombinationMedian takes the median contribution per class or of
	// the regression values.
	CombinationMedian Combination = "median"
	// CombinationMajorityVote gives each model one (weighted) vote for
	// its most probable class. It does not apply to regression.
	CombinationMajorityVote Combination = "majorityVote"
)

/*
Ensemble evaluates a sequence of tree models against the same record and
combines their outcomes into a single prediction through a multi-key
score accumulator.

All models must share the same mining function. Weights, when set, must
align with Models; models without a weight count as weight 1. Models that
yield no prediction for the record contribute nothing and do not count
towards averages.
*/
type Ensemble struct {
	Models      []*model.TreeModel
	Weights     []float64
	Combination Combination
}

/*
NewEnsemble takes a combination and a sequence of tree models and returns
an Ensemble merging the models' outcomes with the combination.
*/
func NewEnsemble(combination Combination, models ...*model.TreeModel) *Ensemble {
	return &Ensemble{Models: models, Combination: combination}
}

/*
Evaluate evaluates every model of the ensemble against the record and
returns the combined prediction, or nil without an error when no model
produced a prediction for the record.
*/
func (e *Ensemble) Evaluate(ctx context.Context, record predicate.Record) (*Prediction, error) {
	if len(e.Models) == 0 {
		return nil, fmt.Errorf("evaluating ensemble: no models")
	}
	if len(e.Weights) != 0 && len(e.Weights) != len(e.Models) {
		return nil, fmt.Errorf("evaluating ensemble: %d weights for %d models", len(e.Weights), len(e.Models))
	}
	function := e.Models[0].Function
	for _, tm := range e.Models {
		if tm.Function != function {
			return nil, fmt.Errorf("evaluating ensemble: mining functions %q and %q mixed", function, tm.Function)
		}
	}
	switch function {
	case model.Regression:
		return e.evaluateRegression(ctx, record)
	case model.Classification:
		return e.evaluateClassification(ctx, record)
	}
	return nil, &model.UnsupportedError{Feature: fmt.Sprintf("mining function %q", function)}
}

func (e *Ensemble) evaluateRegression(ctx context.Context, record predicate.Record) (*Prediction, error) {
	if e.Combination == CombinationMajorityVote {
		return nil, fmt.Errorf("evaluating ensemble: majority vote does not apply to regression")
	}
	values := aggregate.NewVector(len(e.Models))
	weights := make([]float64, 0, len(e.Models))
	for i, tm := range e.Models {
		p, err := Evaluate(ctx, tm, record)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		values.Add(p.Value())
		weights = append(weights, e.weight(i))
	}
	if values.Len() == 0 {
		return nil, nil
	}
	var value float64
	switch e.Combination {
	case CombinationSum:
		value = values.Sum()
	case CombinationAverage:
		value = values.Mean()
	case CombinationWeightedAverage:
		value = values.WeightedMean(weights)
	case CombinationMedian:
		value = values.Median()
	default:
		return nil, fmt.Errorf("evaluating ensemble: unknown combination %q", e.Combination)
	}
	return &Prediction{value: value}, nil
}

func (e *Ensemble) evaluateClassification(ctx context.Context, record predicate.Record) (*Prediction, error) {
	scores := aggregate.NewAggregator[string](len(e.Models))
	var totalWeight float64
	contributed := 0
	for i, tm := range e.Models {
		p, err := Evaluate(ctx, tm, record)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		w := e.weight(i)
		if e.Combination == CombinationMajorityVote {
			class, _ := p.PredictedValue()
			scores.Add(class, w)
		} else {
			for class, prob := range p.Probabilities() {
				scores.Add(class, prob*w)
			}
		}
		totalWeight += w
		contributed++
	}
	if contributed == 0 {
		return nil, nil
	}
	var probabilities map[string]float64
	switch e.Combination {
	case CombinationSum:
		probabilities = scores.Transform((*aggregate.Vector).Sum)
	case CombinationMedian:
		probabilities = scores.Transform((*aggregate.Vector).Median)
	case CombinationAverage, CombinationWeightedAverage, CombinationMajorityVote:
		probabilities = scores.Transform(func(v *aggregate.Vector) float64 {
			return v.Sum() / totalWeight
		})
	default:
		return nil, fmt.Errorf("evaluating ensemble: unknown combination %q", e.Combination)
	}
	return &Prediction{probabilities: probabilities, confidences: map[string]float64{}}, nil
}

func (e *Ensemble) weight(i int) float64 {
	if i < len(e.Weights) {
		return e.Weights[i]
	}
	return 1
}
