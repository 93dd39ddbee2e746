package main

import (
	"github.com/spf13/cobra"

	"github.com/spektr-org/hrpulse/render"
	"github.com/spektr-org/hrpulse/schema"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the expected CSV columns as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.YAML{}.Encode(cmd.OutOrStdout(), schema.HR())
		},
	}
}
