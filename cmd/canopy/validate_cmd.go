package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pbanos/canopy/model"
)

type validateCmdConfig struct {
	*rootCmdConfig
	modelInput string
}

func validateCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &validateCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the structure of a tree model",
		Long:  `Parse a tree model and check it satisfies every structural rule evaluation relies on, reporting the first violation found`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
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
			registry, err := model.Index(tm)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			fmt.Printf("%s is a valid %s tree model with %d nodes\n", config.modelInput, tm.Function, registry.Len())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "m", "", "path to a file from which the tree model will be read and parsed as JSON, or as YAML for .yml/.yaml files (required)")
	return cmd
}

func (vcc *validateCmdConfig) Validate() error {
	if vcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	return nil
}
