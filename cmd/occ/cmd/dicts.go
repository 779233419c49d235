package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/occ/internal/adapters/socket"
)

var dictsCmd = &cobra.Command{
	Use:   "dicts",
	Short: "List dictionaries and their load state",
	RunE:  runDicts,
}

var reloadCmd = &cobra.Command{
	Use:   "reload [name]",
	Short: "Ask the daemon to re-read dictionaries from its directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReload,
}

func runDicts(cmd *cobra.Command, args []string) error {
	cfg := settings()
	var res *socket.DictionariesResult
	if client, ok := daemonClient(cfg); ok {
		r, err := client.Dictionaries()
		if err != nil {
			return err
		}
		res = r
	} else {
		a, err := openApp(cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()
		r, err := a.Dictionaries()
		if err != nil {
			return err
		}
		res = &r
	}
	fmt.Fprint(cmd.OutOrStdout(), formatDictionaries(res, isStdoutTTY()))
	return nil
}

func runReload(cmd *cobra.Command, args []string) error {
	client, ok := daemonClient(settings())
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ daemon is not running")
		return nil
	}
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	res, err := client.Reload(name)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatReload(res, isStdoutTTY()))
	return nil
}
