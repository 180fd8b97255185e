package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the esgrate and rubric versions",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "esgrate %s (rubric %s)\n", schema.Version, rubric.Version)
	},
}
