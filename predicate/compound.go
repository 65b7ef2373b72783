package predicate

import (
	"context"
	"fmt"
	"strings"
)

/*
BooleanOperator is the way a Compound predicate combines the results of
its sub-predicates.
*/
type BooleanOperator string

const (
	// And is satisfied when every sub-predicate is satisfied.
	And BooleanOperator = "and"
	// Or is satisfied when at least one sub-predicate is satisfied.
	Or BooleanOperator = "or"
	// Xor is satisfied when an odd number of sub-predicates are satisfied.
	Xor BooleanOperator = "xor"
	// Surrogate yields the result of the first sub-predicate that can be
	// decided, falling back to the next one whenever a sub-predicate is
	// missing.
	Surrogate BooleanOperator = "surrogate"
)

/*
Compound is a predicate combining an ordered sequence of sub-predicates
with a boolean operator.

The and, or and xor operators follow three-valued logic: a Missing
sub-predicate makes the combination Missing unless the other
sub-predicates already decide it (a False under and, a True under or).
The surrogate operator instead skips Missing sub-predicates and yields
the first decidable result; its EvaluateWithAlternative method reports
whether such a fallback took place.
*/
type Compound struct {
	Operator   BooleanOperator
	Predicates []Predicate
}

/*
NewCompound takes a boolean operator and a sequence of sub-predicates and
returns a Compound predicate combining them.
*/
func NewCompound(op BooleanOperator, predicates ...Predicate) *Compound {
	return &Compound{Operator: op, Predicates: predicates}
}

/*
Evaluate combines the sub-predicate results according to the compound's
boolean operator. An error is returned if the compound has no
sub-predicates, declares an unknown operator or a sub-predicate fails.
*/
func (cp *Compound) Evaluate(ctx context.Context, record Record) (Result, error) {
	result, _, err := cp.EvaluateWithAlternative(ctx, record)
	return result, err
}

/*
EvaluateWithAlternative evaluates the compound like Evaluate and
additionally returns a boolean indicating whether a surrogate compound
fell back to an alternative sub-predicate because an earlier one was
Missing. The boolean is always false for non-surrogate operators.
*/
func (cp *Compound) EvaluateWithAlternative(ctx context.Context, record Record) (Result, bool, error) {
	if len(cp.Predicates) == 0 {
		return False, false, fmt.Errorf("evaluating compound predicate: no sub-predicates declared")
	}
	if cp.Operator == Surrogate {
		return cp.evaluateSurrogate(ctx, record)
	}
	missing := false
	satisfied := 0
	for _, p := range cp.Predicates {
		result, err := p.Evaluate(ctx, record)
		if err != nil {
			return False, false, err
		}
		switch result {
		case Missing:
			missing = true
		case True:
			satisfied++
		}
		switch cp.Operator {
		case And:
			if result == False {
				return False, false, nil
			}
		case Or:
			if result == True {
				return True, false, nil
			}
		case Xor:
		default:
			return False, false, fmt.Errorf("evaluating compound predicate: unknown operator %q", cp.Operator)
		}
	}
	if missing {
		return Missing, false, nil
	}
	switch cp.Operator {
	case And:
		return True, false, nil
	case Or:
		return False, false, nil
	}
	return resultFor(satisfied%2 == 1), false, nil
}

func (cp *Compound) evaluateSurrogate(ctx context.Context, record Record) (Result, bool, error) {
	for i, p := range cp.Predicates {
		result, err := p.Evaluate(ctx, record)
		if err != nil {
			return False, false, err
		}
		if result == Missing {
			continue
		}
		return result, i > 0, nil
	}
	return Missing, false, nil
}

func (cp *Compound) String() string {
	parts := make([]string, 0, len(cp.Predicates))
	for _, p := range cp.Predicates {
		parts = append(parts, fmt.Sprintf("%v", p))
	}
	return fmt.Sprintf("(%s %s)", cp.Operator, strings.Join(parts, " "))
}
