/*
Package mongodataset provides an implementation of dataset.Dataset that
reads records from a MongoDB collection.
*/
package mongodataset

import (
	"context"
	"fmt"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/predicate"
)

type mongoDataset struct {
	session    *mgo.Session
	collection string
	fields     []string
}

/*
Open takes a MongoDB session, the name of a collection on the session's
default database and the fields records should expose and returns a
dataset.Dataset backed by the collection. When the fields slice is
empty, records expose every property of their document except the
document id.
*/
func Open(ctx context.Context, session *mgo.Session, collection string, fields []string) (dataset.Dataset, error) {
	if collection == "" {
		return nil, fmt.Errorf("opening mongo dataset: no collection name")
	}
	return &mongoDataset{session: session, collection: collection, fields: fields}, nil
}

func (mds *mongoDataset) Records(ctx context.Context) ([]predicate.Record, error) {
	iter := mds.recordsCollection().Find(bson.M{}).Iter()
	defer iter.Close()
	var records []predicate.Record
	var doc bson.M
	for iter.Next(&doc) {
		records = append(records, dataset.NewRecord(mds.recordValues(doc)))
		doc = bson.M{}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("reading records from collection %s: %v", mds.collection, err)
	}
	return records, nil
}

func (mds *mongoDataset) Count(ctx context.Context) (int, error) {
	count, err := mds.recordsCollection().Count()
	if err != nil {
		return 0, fmt.Errorf("counting records on collection %s: %v", mds.collection, err)
	}
	return count, nil
}

func (mds *mongoDataset) Close(ctx context.Context) error {
	mds.session.Close()
	return nil
}

func (mds *mongoDataset) recordsCollection() *mgo.Collection {
	return mds.session.DB("").C(mds.collection)
}

func (mds *mongoDataset) recordValues(doc bson.M) map[string]interface{} {
	values := make(map[string]interface{})
	if len(mds.fields) == 0 {
		for field, value := range doc {
			if field == "_id" {
				continue
			}
			if v := normalizeValue(value); v != nil {
				values[field] = v
			}
		}
		return values
	}
	for _, field := range mds.fields {
		if v := normalizeValue(doc[field]); v != nil {
			values[field] = v
		}
	}
	return values
}

// normalizeValue maps BSON value types onto the value types predicates
// compare against: float64 for numbers, string for text.
func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64, string, bool:
		return v
	}
	return fmt.Sprintf("%v", value)
}
