/*
Package dataset provides records for batch evaluation of tree models and
sources to read them from.

A record gives a tree model evaluation the values of an input by field
name; a dataset is a collection of records read from some backend: an
in-memory slice, a CSV stream, a SQL database, a MongoDB collection or a
Redis keyspace.
*/
package dataset

import (
	"context"
	"fmt"

	"github.com/pbanos/canopy/predicate"
)

/*
Dataset represents a collection of records to evaluate a model against.

Its Records method returns the records it contains. Its Count method
returns the number of records without necessarily materializing them.
Its Close method releases any resources backing the dataset.
*/
type Dataset interface {
	Records(ctx context.Context) ([]predicate.Record, error)
	Count(ctx context.Context) (int, error)
	Close(ctx context.Context) error
}

type record struct {
	values map[string]interface{}
}

/*
NewRecord takes a map of field names to values and returns a record
backed by it. A field absent from the map, or present with a nil value,
is a missing value for predicate evaluation.
*/
func NewRecord(values map[string]interface{}) predicate.Record {
	return &record{values}
}

func (r *record) ValueFor(ctx context.Context, field string) (interface{}, error) {
	return r.values[field], nil
}

func (r *record) String() string {
	return fmt.Sprintf("[%v]", r.values)
}

type memoryDataset struct {
	records []predicate.Record
}

/*
New takes a slice of records and returns a Dataset with the process
memory space as backend.
*/
func New(records ...predicate.Record) Dataset {
	return &memoryDataset{records}
}

func (md *memoryDataset) Records(ctx context.Context) ([]predicate.Record, error) {
	return md.records, nil
}

func (md *memoryDataset) Count(ctx context.Context) (int, error) {
	return len(md.records), nil
}

func (md *memoryDataset) Close(ctx context.Context) error {
	return nil
}
