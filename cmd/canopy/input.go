package main

import (
	"context"
	"fmt"
	"strings"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/redis.v5"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/dataset/csv"
	"github.com/pbanos/canopy/dataset/mongodataset"
	"github.com/pbanos/canopy/dataset/redisdataset"
	"github.com/pbanos/canopy/dataset/sqldataset"
	"github.com/pbanos/canopy/dataset/sqldataset/pgadapter"
	"github.com/pbanos/canopy/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/canopy/model"
	jsonmodel "github.com/pbanos/canopy/model/json"
	yamlmodel "github.com/pbanos/canopy/model/yaml"
	"github.com/pbanos/canopy/predicate"
)

// loadTreeModel reads a tree model from the given filepath, parsing it
// as YAML when the filepath has a .yml or .yaml extension and as JSON
// otherwise.
func loadTreeModel(filepath string) (*model.TreeModel, error) {
	if strings.HasSuffix(filepath, ".yml") || strings.HasSuffix(filepath, ".yaml") {
		return yamlmodel.ReadTreeModelFromFile(filepath)
	}
	return jsonmodel.ReadTreeModelFromFile(filepath)
}

// openDataset opens the record source the given input string points to:
// a PostgreSQL connection URL, a MongoDB connection URL, a redis
// connection URL, a SQLite3 (.db) file, or a CSV filepath (STDIN when
// empty).
func openDataset(ctx context.Context, input, table string, fields []string, undefinedValue string) (dataset.Dataset, error) {
	switch {
	case strings.HasPrefix(input, "postgresql://") || strings.HasPrefix(input, "postgres://"):
		adapter, err := pgadapter.New(input)
		if err != nil {
			return nil, fmt.Errorf("opening postgres input: %v", err)
		}
		return sqldataset.Open(ctx, adapter, table, fields)
	case strings.HasPrefix(input, "mongodb://"):
		session, err := mgo.Dial(input)
		if err != nil {
			return nil, fmt.Errorf("opening mongodb input: %v", err)
		}
		return mongodataset.Open(ctx, session, table, fields)
	case strings.HasPrefix(input, "redis://"):
		options, err := redis.ParseURL(input)
		if err != nil {
			return nil, fmt.Errorf("opening redis input: %v", err)
		}
		return redisdataset.New(redis.NewClient(options), table), nil
	case strings.HasSuffix(input, ".db"):
		adapter, err := sqlite3adapter.New(input)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite3 input: %v", err)
		}
		return sqldataset.Open(ctx, adapter, table, fields)
	}
	return csv.ReadDatasetFromFilePath(input, undefinedValue)
}

// modelFields collects the field names the model's simple predicates
// refer to, so SQL and Mongo sources know which columns to expose.
func modelFields(tm *model.TreeModel) []string {
	seen := make(map[string]bool)
	var fields []string
	var collect func(n *model.Node)
	collect = func(n *model.Node) {
		for _, field := range predicateFields(n.Predicate) {
			if !seen[field] {
				seen[field] = true
				fields = append(fields, field)
			}
		}
		for _, child := range n.Children {
			collect(child)
		}
	}
	if tm.Root != nil {
		collect(tm.Root)
	}
	return fields
}

func predicateFields(p predicate.Predicate) []string {
	switch p := p.(type) {
	case *predicate.Simple:
		return []string{p.Field}
	case *predicate.Compound:
		var fields []string
		for _, sub := range p.Predicates {
			fields = append(fields, predicateFields(sub)...)
		}
		return fields
	}
	return nil
}
