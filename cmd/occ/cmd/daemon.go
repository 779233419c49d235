package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/corey/occ/internal/app"
	"github.com/corey/occ/internal/domain/convert"
)

var daemonWarm []string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the occ daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon in the foreground",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonStartCmd.Flags().StringSliceVar(&daemonWarm, "warm", nil, "conversions to build before serving (comma separated)")
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	cfg := settings()

	// Check if already running
	if _, ok := daemonClient(cfg); ok {
		fmt.Println("⚡ daemon already running")
		return nil
	}

	warm := make([]convert.Conversion, 0, len(daemonWarm))
	for _, w := range daemonWarm {
		c, err := convert.ParseConversion(w)
		if err != nil {
			return err
		}
		warm = append(warm, c)
	}

	paths := userPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}
	logFile, err := os.OpenFile(paths.DaemonLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(io.MultiWriter(os.Stderr, logFile))

	a, err := app.New(app.Config{
		DBPath:     cfg.DBPath,
		DictDir:    cfg.DictDir,
		SocketPath: cfg.SocketPath,
		Warm:       warm,
	})
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("%s", diagnoseDBLock(cfg.SocketPath))
		}
		return fmt.Errorf("init: %w", err)
	}
	if err := a.Start(); err != nil {
		a.Close()
		return err
	}
	if err := os.WriteFile(paths.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		log.Warnf("write pid file: %v", err)
	}
	defer paths.CleanEphemeral()

	fmt.Printf("⚡ occ daemon started at %s\n", cfg.SocketPath)

	// Wait for a signal or a shutdown request over the socket
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	select {
	case <-sigCh:
	case <-a.Server.ShutdownCh():
	}

	fmt.Println("\n⚡ shutting down...")
	return a.Stop()
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	client, ok := daemonClient(settings())
	if !ok {
		fmt.Println("⚡ daemon is not running")
		return nil
	}

	if err := client.Shutdown(); err != nil {
		return err
	}

	fmt.Println("⚡ daemon stopped")
	return nil
}
