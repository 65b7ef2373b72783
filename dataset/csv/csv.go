/*
Package csv provides an implementation of dataset.Dataset that parses
records from CSV streams.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/predicate"
)

/*
ReadDataset takes an io.Reader for a CSV stream and an undefined-value
string and returns a dataset.Dataset with the records parsed from the
reader or an error.

The header or first row of the CSV content names the fields of the
records. Values parseable as numbers are parsed as float64, any other
value is kept as a string, and a value equal to the undefined-value
string (or empty) marks the field as missing on that record.
*/
func ReadDataset(reader io.Reader, undefinedValue string) (dataset.Dataset, error) {
	records := []predicate.Record{}
	err := ReadDatasetByRecord(reader, undefinedValue, func(_ int, r predicate.Record) (bool, error) {
		records = append(records, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.New(records...), nil
}

/*
ReadDatasetByRecord takes an io.Reader for a CSV stream, an
undefined-value string and a lambda function on an integer and a record
that returns a boolean value. It parses the records from the reader and
for each it calls the lambda function with the record and its index as
parameters. If the lambda function returns true, it will continue
processing the next record, otherwise it will stop. An error is returned
if something goes wrong when reading the stream or parsing a record.
*/
func ReadDatasetByRecord(reader io.Reader, undefinedValue string, lambda func(int, predicate.Record) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		record, err := parseRecordFromCSVRow(row, header, undefinedValue)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, record)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string and an undefined-value
string, opens the file the filepath points to (os.Stdin when the
filepath is "") and uses ReadDataset to return a dataset.Dataset read
from it or an error.
*/
func ReadDatasetFromFilePath(filepath, undefinedValue string) (dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading records: %v", err)
		}
	}
	defer f.Close()
	ds, err := ReadDataset(f, undefinedValue)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

func parseRecordFromCSVRow(row, header []string, undefinedValue string) (predicate.Record, error) {
	if len(row) != len(header) {
		return nil, fmt.Errorf("row has %d values for %d fields", len(row), len(header))
	}
	values := make(map[string]interface{}, len(header))
	for i, field := range header {
		cell := row[i]
		if cell == "" || cell == undefinedValue {
			continue
		}
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			values[field] = f
			continue
		}
		values[field] = cell
	}
	return dataset.NewRecord(values), nil
}
