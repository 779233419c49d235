package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import dictionary files into the database",
	Long:  "Parses every known <Name>.txt dictionary in dir and stores it. The daemon must be stopped, it holds the database.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := settings()
	if _, ok := daemonClient(cfg); ok {
		return fmt.Errorf("daemon is running; stop it first (occ daemon stop) or use: occ reload")
	}
	a, err := openApp(cfg, false)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Import(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatReload(&res, isStdoutTTY()))
	return nil
}
