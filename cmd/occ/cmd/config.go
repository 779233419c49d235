package cmd

import (
	"fmt"

	"fortio.org/log"
	"fortio.org/struct2env"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the effective dictionary dir, DB path, socket path and daemon status, then the environment variables that set them. No daemon required.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := settings()
	c := palette(isStdoutTTY())

	_, running := daemonClient(cfg)
	daemonStatus := c.yellow + "✗ not running" + c.reset
	if running {
		daemonStatus = c.green + "✓ running" + c.reset
	}
	dictDir := cfg.DictDir
	if dictDir == "" {
		dictDir = c.gray + "(none)" + c.reset
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s⚡ occ config%s\n", c.bold, c.reset)
	fmt.Fprintf(w, "  Dicts:      %s\n", dictDir)
	fmt.Fprintf(w, "  DB:         %s\n", cfg.DBPath)
	fmt.Fprintf(w, "  Socket:     %s\n", cfg.SocketPath)
	fmt.Fprintf(w, "  Daemon:     %s\n", daemonStatus)
	fmt.Fprintln(w)
	fmt.Fprint(w, envHelp())
	return nil
}

// envHelp renders the current environment configuration as shell exports.
func envHelp() string {
	res, errs := struct2env.StructToEnvVars(envConfig)
	if len(errs) > 0 {
		log.Warnf("Error converting config to env: %v", errs)
	}
	return "# occ environment variables:\n" + struct2env.ToShellWithPrefix(envPrefix, res, true)
}
