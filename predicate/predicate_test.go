package predicate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbanos/canopy/predicate"
)

type mapRecord map[string]interface{}

func (mr mapRecord) ValueFor(ctx context.Context, field string) (interface{}, error) {
	return mr[field], nil
}

func TestSimpleEvaluate(t *testing.T) {
	record := mapRecord{
		"age":    25.0,
		"count":  3,
		"city":   "madrid",
		"active": true,
	}
	tests := []struct {
		name     string
		field    string
		operator predicate.Operator
		value    string
		expected predicate.Result
	}{
		{"equal float satisfied", "age", predicate.Equal, "25", predicate.True},
		{"equal float unsatisfied", "age", predicate.Equal, "30", predicate.False},
		{"not equal", "age", predicate.NotEqual, "30", predicate.True},
		{"less than satisfied", "age", predicate.LessThan, "30", predicate.True},
		{"less than unsatisfied", "age", predicate.LessThan, "25", predicate.False},
		{"less or equal boundary", "age", predicate.LessOrEqual, "25", predicate.True},
		{"greater than unsatisfied", "age", predicate.GreaterThan, "25", predicate.False},
		{"greater or equal boundary", "age", predicate.GreaterOrEqual, "25", predicate.True},
		{"integer compared numerically", "count", predicate.GreaterThan, "2.5", predicate.True},
		{"string equal", "city", predicate.Equal, "madrid", predicate.True},
		{"string lexicographic", "city", predicate.LessThan, "paris", predicate.True},
		{"boolean equal", "active", predicate.Equal, "true", predicate.True},
		{"boolean not equal", "active", predicate.NotEqual, "false", predicate.True},
		{"missing field", "income", predicate.LessThan, "1000", predicate.Missing},
		{"numeric against non-numeric literal", "age", predicate.LessThan, "lots", predicate.False},
		{"boolean against non-boolean literal", "active", predicate.Equal, "yes", predicate.False},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := predicate.NewSimple(test.field, test.operator, test.value)
			result, err := p.Evaluate(context.Background(), record)
			require.NoError(t, err)
			assert.Equal(t, test.expected, result)
		})
	}
}

func TestSimpleEvaluateUnknownOperator(t *testing.T) {
	p := predicate.NewSimple("age", predicate.Operator("isIn"), "25")
	_, err := p.Evaluate(context.Background(), mapRecord{"age": 25.0})
	assert.Error(t, err)
}

func TestConstantEvaluate(t *testing.T) {
	result, err := predicate.Constant(true).Evaluate(context.Background(), mapRecord{})
	require.NoError(t, err)
	assert.Equal(t, predicate.True, result)

	result, err = predicate.Constant(false).Evaluate(context.Background(), mapRecord{})
	require.NoError(t, err)
	assert.Equal(t, predicate.False, result)
}

func TestCompoundEvaluate(t *testing.T) {
	record := mapRecord{"age": 25.0, "city": "madrid"}
	under30 := predicate.NewSimple("age", predicate.LessThan, "30")
	over30 := predicate.NewSimple("age", predicate.GreaterThan, "30")
	noIncome := predicate.NewSimple("income", predicate.LessThan, "1000")
	tests := []struct {
		name       string
		operator   predicate.BooleanOperator
		predicates []predicate.Predicate
		expected   predicate.Result
	}{
		{"and all true", predicate.And, []predicate.Predicate{under30, predicate.Constant(true)}, predicate.True},
		{"and with false", predicate.And, []predicate.Predicate{under30, over30}, predicate.False},
		{"and false decides over missing", predicate.And, []predicate.Predicate{noIncome, over30}, predicate.False},
		{"and with missing undecided", predicate.And, []predicate.Predicate{under30, noIncome}, predicate.Missing},
		{"or with true", predicate.Or, []predicate.Predicate{over30, under30}, predicate.True},
		{"or true decides over missing", predicate.Or, []predicate.Predicate{noIncome, under30}, predicate.True},
		{"or all false", predicate.Or, []predicate.Predicate{over30, predicate.Constant(false)}, predicate.False},
		{"or with missing undecided", predicate.Or, []predicate.Predicate{over30, noIncome}, predicate.Missing},
		{"xor odd", predicate.Xor, []predicate.Predicate{under30, over30}, predicate.True},
		{"xor even", predicate.Xor, []predicate.Predicate{under30, predicate.Constant(true)}, predicate.False},
		{"xor with missing", predicate.Xor, []predicate.Predicate{under30, noIncome}, predicate.Missing},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := predicate.NewCompound(test.operator, test.predicates...)
			result, err := p.Evaluate(context.Background(), record)
			require.NoError(t, err)
			assert.Equal(t, test.expected, result)
		})
	}
}

func TestCompoundEvaluateSurrogate(t *testing.T) {
	record := mapRecord{"age": 25.0}
	under30 := predicate.NewSimple("age", predicate.LessThan, "30")
	noIncome := predicate.NewSimple("income", predicate.LessThan, "1000")
	noCity := predicate.NewSimple("city", predicate.Equal, "madrid")

	p := predicate.NewCompound(predicate.Surrogate, under30, noIncome)
	result, alternative, err := p.EvaluateWithAlternative(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, predicate.True, result)
	assert.False(t, alternative)

	p = predicate.NewCompound(predicate.Surrogate, noIncome, under30)
	result, alternative, err = p.EvaluateWithAlternative(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, predicate.True, result)
	assert.True(t, alternative)

	p = predicate.NewCompound(predicate.Surrogate, noIncome, noCity)
	result, alternative, err = p.EvaluateWithAlternative(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, predicate.Missing, result)
	assert.False(t, alternative)
}

func TestCompoundEvaluateEmpty(t *testing.T) {
	p := predicate.NewCompound(predicate.And)
	_, err := p.Evaluate(context.Background(), mapRecord{})
	assert.Error(t, err)
}

func TestCompoundEvaluateUnknownOperator(t *testing.T) {
	p := predicate.NewCompound(predicate.BooleanOperator("nand"), predicate.Constant(true))
	_, err := p.Evaluate(context.Background(), mapRecord{})
	assert.Error(t, err)
}
