/*
Package predicate defines the three-valued predicate contract decision-tree
nodes are guarded with, together with the stock predicate implementations
needed to express the usual model exchange formats.

A predicate evaluated against a record yields True, False or Missing, the
last one indicating a value the predicate needed was not available on the
record.
*/
package predicate

import "context"

/*
Result is the three-valued outcome of evaluating a predicate against a
record.
*/
type Result int

const (
	// False indicates the record does not satisfy the predicate.
	False Result = iota
	// True indicates the record satisfies the predicate.
	True
	// Missing indicates the predicate could not be decided because a
	// value it needed was not available on the record.
	Missing
)

func (r Result) String() string {
	switch r {
	case False:
		return "false"
	case True:
		return "true"
	case Missing:
		return "missing"
	}
	return "unknown"
}

/*
Record is an interface for something predicates can be evaluated against.

Its ValueFor method returns the value the record holds for the field with
the given name, or nil if the record holds no value for it. An error is
returned if the lookup itself cannot be performed.
*/
type Record interface {
	ValueFor(ctx context.Context, field string) (interface{}, error)
}

/*
Predicate represents a constraint on a record.

Its Evaluate method takes a record and returns a three-valued Result
indicating whether the record satisfies the constraint, does not satisfy
it, or lacks the values needed to decide. An error is returned if the
record cannot be queried or the predicate is malformed.
*/
type Predicate interface {
	Evaluate(ctx context.Context, record Record) (Result, error)
}
