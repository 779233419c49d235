package cmd

import (
	"fmt"
	"os"

	"fortio.org/log"
	"fortio.org/struct2env"
	"fortio.org/version"
	"github.com/spf13/cobra"

	"github.com/corey/occ/internal/adapters/socket"
	"github.com/corey/occ/internal/app"
)

// Config is the environment-driven configuration, read with the OCC_ prefix.
// Command line flags override it.
type Config struct {
	DictDir    string
	DBPath     string
	SocketPath string
}

const envPrefix = "OCC_"

var (
	envConfig Config

	flagDictDir string
	flagDB      string
	flagSocket  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "occ",
	Short: "occ: Chinese script conversion",
	Long:  "Converts text between Simplified, Traditional, Taiwan, Hong Kong and Japanese forms using dictionary-driven Aho-Corasick passes.",

	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetDefaultsForClientTools()
		if flagVerbose {
			log.SetLogLevel(log.Verbose)
		}
		if errs := struct2env.SetFromEnv(envPrefix, &envConfig); len(errs) > 0 {
			log.Errf("Error setting config from env: %v", errs)
		}
	},
}

// settings merges environment values, flags and defaults.
func settings() Config {
	cfg := envConfig
	if flagDictDir != "" {
		cfg.DictDir = flagDictDir
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagSocket != "" {
		cfg.SocketPath = flagSocket
	}
	if cfg.DBPath == "" || cfg.DictDir == "" {
		paths := userPaths()
		if cfg.DBPath == "" {
			cfg.DBPath = paths.DB
		}
		if cfg.DictDir == "" {
			if info, err := os.Stat(paths.DictDir); err == nil && info.IsDir() {
				cfg.DictDir = paths.DictDir
			}
		}
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = socket.SocketPath(cfg.DBPath)
	}
	return cfg
}

// userPaths returns the ~/.occ layout for the current user.
func userPaths() *app.Paths {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return app.NewPaths(home)
}

// openApp creates a local App. The dictionary directory is only imported
// when withDictDir is set.
func openApp(cfg Config, withDictDir bool) (*app.App, error) {
	ac := app.Config{DBPath: cfg.DBPath, SocketPath: cfg.SocketPath}
	if withDictDir {
		ac.DictDir = cfg.DictDir
	}
	a, err := app.New(ac)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(cfg.SocketPath))
		}
		return nil, err
	}
	return a, nil
}

// daemonClient returns a client when a daemon answers on the configured socket.
func daemonClient(cfg Config) (*socket.Client, bool) {
	client := socket.NewClient(cfg.SocketPath)
	return client, client.Ping()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version, _, _ = version.FromBuildInfoPath("github.com/corey/occ")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDictDir, "dict-dir", "", "dictionary text directory (env OCC_DICT_DIR)")
	pf.StringVar(&flagDB, "db", "", "dictionary database path (env OCC_DB_PATH)")
	pf.StringVar(&flagSocket, "socket", "", "daemon socket path (env OCC_SOCKET_PATH)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(conversionsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dictsCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(configCmd)
}
