package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pbanos/canopy"
	"github.com/pbanos/canopy/model"
	"github.com/pbanos/canopy/predicate"
)

type predictCmdConfig struct {
	*rootCmdConfig
	modelInput     string
	dataInput      string
	table          string
	undefinedValue string
	ctx            context.Context
	cancelFunc     context.CancelFunc
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict values for a set of records",
		Long:  `Evaluate the loaded tree model against every record of the input and write the predictions as CSV on STDOUT`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := config.Context()
			defer config.cancelFunc()
			tm, err := loadTreeModel(config.modelInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			err = model.Validate(tm)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			ds, err := openDataset(ctx, config.dataInput, config.table, modelFields(tm), config.undefinedValue)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			defer ds.Close(ctx)
			records, err := ds.Records(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			config.Logf("Predicting %d records with %s...", len(records), config.modelInput)
			err = predict(ctx, tm, records)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "m", "", "path to a file from which the tree model will be read and parsed as JSON, or as YAML for .yml/.yaml files (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL, MongoDB or redis connection URL with records to predict (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.table), "table", "T", "records", "name of the table, collection or key prefix holding the records on database inputs")
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value that marks a record's value for a field as undefined on CSV inputs")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	return nil
}

func (pcc *predictCmdConfig) Context() context.Context {
	if pcc.ctx == nil {
		pcc.ctx, pcc.cancelFunc = context.WithCancel(context.Background())
	}
	return pcc.ctx
}

func predict(ctx context.Context, tm *model.TreeModel, records []predicate.Record) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	err := w.Write([]string{"record", "prediction", "probability"})
	if err != nil {
		return fmt.Errorf("writing predictions header: %v", err)
	}
	for i, record := range records {
		p, err := canopy.Evaluate(ctx, tm, record)
		if err != nil {
			return fmt.Errorf("predicting record %d: %v", i, err)
		}
		row := []string{strconv.Itoa(i), "", ""}
		if p != nil {
			if tm.Function == model.Regression {
				row[1] = strconv.FormatFloat(p.Value(), 'f', -1, 64)
			} else {
				value, prob := p.PredictedValue()
				row[1] = value
				row[2] = strconv.FormatFloat(prob, 'f', -1, 64)
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing prediction for record %d: %v", i, err)
		}
	}
	return nil
}
