package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in canopy's version
	VersionMajor = 0
	// VersionMinor is the minor number in canopy's version
	VersionMinor = 1
	// VersionPatch is the patch number in canopy's version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of canopy",
		Long:  `Print the semantic version of this canopy build, useful when reporting issues with a model or its predictions`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("canopy v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
