package canopy

import (
	"fmt"
	"strings"

	"github.com/pbanos/canopy/model"
)

/*
Prediction represents the outcome of evaluating a tree model against a
record.

For regression models Value returns the predicted numeric value. For
classification models Probabilities returns the per-class probability
distribution read from the terminal node, and ConfidenceOf the per-class
confidences scaled by the missing value penalty accumulated along the
path that reached the terminal.
*/
type Prediction struct {
	node          *model.Node
	value         float64
	probabilities map[string]float64
	confidences   map[string]float64
}

// newClassification builds a classification prediction from a terminal
// node's score distributions, scaling explicit confidences by the given
// penalty. Implicit probabilities are derived from the relative record
// counts of the node's distributions.
func newClassification(node *model.Node, penalty float64) (*Prediction, error) {
	probabilities := make(map[string]float64, len(node.Distributions))
	confidences := make(map[string]float64)
	var sum float64
	for _, sd := range node.Distributions {
		sum += sd.RecordCount
	}
	for _, sd := range node.Distributions {
		if sd.Probability != nil {
			probabilities[sd.Value] = *sd.Probability
		} else {
			if sum == 0 {
				return nil, &model.StructureError{Node: node, Reason: "score distributions with implicit probabilities have a zero record count sum"}
			}
			probabilities[sd.Value] = sd.RecordCount / sum
		}
		if sd.Confidence != nil {
			confidences[sd.Value] = *sd.Confidence * penalty
		}
	}
	return &Prediction{node: node, probabilities: probabilities, confidences: confidences}, nil
}

/*
Node returns the terminal node the prediction was read from, or nil for
predictions assembled from several models.
*/
func (p *Prediction) Node() *model.Node {
	return p.node
}

/*
Value returns the predicted numeric value. It is only meaningful for
predictions of regression models.
*/
func (p *Prediction) Value() float64 {
	return p.value
}

/*
Probabilities returns a map of class value to probability. It is only
meaningful for predictions of classification models.
*/
func (p *Prediction) Probabilities() map[string]float64 {
	return p.probabilities
}

/*
ProbabilityOf takes a class value and returns its probability according
to the prediction.
*/
func (p *Prediction) ProbabilityOf(value string) float64 {
	return p.probabilities[value]
}

/*
ConfidenceOf takes a class value and returns its confidence, already
scaled by the missing value penalty, and a boolean indicating whether the
terminal node declared a confidence for the class at all.
*/
func (p *Prediction) ConfidenceOf(value string) (float64, bool) {
	confidence, ok := p.confidences[value]
	return confidence, ok
}

/*
PredictedValue returns the class value with the highest probability and
that probability. For regression predictions it returns the terminal
node's score and probability 0.
*/
func (p *Prediction) PredictedValue() (value string, prob float64) {
	if len(p.probabilities) == 0 && p.node != nil {
		return p.node.Score, 0
	}
	for k, v := range p.probabilities {
		if v > prob {
			value = k
			prob = v
		}
	}
	return
}

func (p *Prediction) String() string {
	if p.probabilities == nil {
		return fmt.Sprintf("%v", p.value)
	}
	return strings.Replace(fmt.Sprintf("%v", p.probabilities), "map", "", 1)
}
