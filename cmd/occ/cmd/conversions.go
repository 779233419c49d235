package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var conversionsCmd = &cobra.Command{
	Use:   "conversions",
	Short: "List supported conversions",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), formatConversions(isStdoutTTY()))
		return nil
	},
}
