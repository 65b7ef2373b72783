package predicate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

/*
Operator is the comparison a Simple predicate applies between a record
value and the predicate's literal value.
*/
type Operator string

const (
	// Equal is satisfied when the record value equals the literal.
	Equal Operator = "equal"
	// NotEqual is satisfied when the record value differs from the literal.
	NotEqual Operator = "notEqual"
	// LessThan is satisfied when the record value is lower than the literal.
	LessThan Operator = "lessThan"
	// LessOrEqual is satisfied when the record value is not higher than the literal.
	LessOrEqual Operator = "lessOrEqual"
	// GreaterThan is satisfied when the record value is higher than the literal.
	GreaterThan Operator = "greaterThan"
	// GreaterOrEqual is satisfied when the record value is not lower than the literal.
	GreaterOrEqual Operator = "greaterOrEqual"
)

/*
Simple is a predicate comparing the value a record holds for a field
against a literal value with one of the comparison operators.

The literal is kept as the string it was declared with on the model and
interpreted according to the type of the record value it is compared
against: numeric record values are compared numerically, string values
lexicographically and boolean values by equality. A record value of a
type the literal cannot be interpreted as does not satisfy the predicate.
*/
type Simple struct {
	Field    string
	Operator Operator
	Value    string
}

/*
NewSimple takes a field name, an operator and a literal value and returns
a Simple predicate comparing the field against the literal.
*/
func NewSimple(field string, op Operator, value string) *Simple {
	return &Simple{Field: field, Operator: op, Value: value}
}

/*
Evaluate returns Missing when the record holds no value for the
predicate's field, and otherwise True or False according to the
comparison. An error is returned if the record cannot be queried or the
predicate declares an unknown operator.
*/
func (sp *Simple) Evaluate(ctx context.Context, record Record) (Result, error) {
	value, err := record.ValueFor(ctx, sp.Field)
	if err != nil {
		return False, fmt.Errorf("evaluating predicate on %s: %v", sp.Field, err)
	}
	if value == nil {
		return Missing, nil
	}
	cmp, comparable := compareValue(value, sp.Value)
	if !comparable {
		return False, nil
	}
	switch sp.Operator {
	case Equal:
		return resultFor(cmp == 0), nil
	case NotEqual:
		return resultFor(cmp != 0), nil
	case LessThan:
		return resultFor(cmp < 0), nil
	case LessOrEqual:
		return resultFor(cmp <= 0), nil
	case GreaterThan:
		return resultFor(cmp > 0), nil
	case GreaterOrEqual:
		return resultFor(cmp >= 0), nil
	}
	return False, fmt.Errorf("evaluating predicate on %s: unknown operator %q", sp.Field, sp.Operator)
}

func (sp *Simple) String() string {
	return fmt.Sprintf("%s %s %s", sp.Field, sp.Operator, sp.Value)
}

/*
Constant is a predicate with a fixed outcome, regardless of the record it
is evaluated against.
*/
type Constant bool

/*
Evaluate returns True when the constant is true and False otherwise.
*/
func (cp Constant) Evaluate(ctx context.Context, record Record) (Result, error) {
	return resultFor(bool(cp)), nil
}

func (cp Constant) String() string {
	if cp {
		return "true"
	}
	return "false"
}

func resultFor(satisfied bool) Result {
	if satisfied {
		return True
	}
	return False
}

// compareValue compares a record value against a literal, returning the
// usual negative/zero/positive ordering and whether the two were
// comparable at all.
func compareValue(value interface{}, literal string) (int, bool) {
	if f, ok := floatValue(value); ok {
		lf, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return 0, false
		}
		switch {
		case f < lf:
			return -1, true
		case f > lf:
			return 1, true
		}
		return 0, true
	}
	switch v := value.(type) {
	case string:
		return strings.Compare(v, literal), true
	case bool:
		lb, err := strconv.ParseBool(literal)
		if err != nil {
			return 0, false
		}
		if v == lb {
			return 0, true
		}
		return 1, true
	}
	return 0, false
}

func floatValue(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}
