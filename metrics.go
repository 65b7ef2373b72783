package canopy

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pbanos/canopy/model"
)

var (
	evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canopy_evaluations_total",
			Help: "Total number of tree model evaluations by mining function and outcome",
		},
		[]string{"function", "outcome"},
	)

	modelErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canopy_model_errors_total",
			Help: "Total number of evaluations failed by model errors, by error kind",
		},
		[]string{"kind"},
	)
)

func observeEvaluation(tm *model.TreeModel, p *Prediction, err error) {
	function := "unknown"
	if tm != nil {
		function = string(tm.Function)
	}
	switch {
	case err != nil:
		evaluations.WithLabelValues(function, "error").Inc()
		modelErrors.WithLabelValues(errorKind(err)).Inc()
	case p == nil:
		evaluations.WithLabelValues(function, "no_prediction").Inc()
	default:
		evaluations.WithLabelValues(function, "prediction").Inc()
	}
}

func errorKind(err error) string {
	var se *model.StructureError
	if errors.As(err, &se) {
		return "invalid_structure"
	}
	var ue *model.UnsupportedError
	if errors.As(err, &ue) {
		return "unsupported_feature"
	}
	if errors.Is(err, model.ErrNotScorable) {
		return "not_scorable"
	}
	return "other"
}
