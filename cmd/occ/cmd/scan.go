package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/occ/internal/adapters/socket"
	"github.com/corey/occ/internal/domain/convert"
)

var (
	scanConversion string
	scanTerms      []string
	scanLocal      bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [text...]",
	Short: "Show what each conversion stage substitutes",
	Long:  "Runs a conversion stage by stage and prints every substitution with its rune offsets. --terms also reports which of the given phrases occur in the input.",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanConversion, "conversion", "c", string(convert.S2T), "conversion to trace")
	scanCmd.Flags().StringSliceVar(&scanTerms, "terms", nil, "phrases to look for in the input (comma separated)")
	scanCmd.Flags().BoolVar(&scanLocal, "local", false, "scan in-process even if a daemon is running")
}

func runScan(cmd *cobra.Command, args []string) error {
	conv, err := convert.ParseConversion(scanConversion)
	if err != nil {
		return err
	}
	text, _, err := inputText(args)
	if err != nil {
		return err
	}
	params := socket.ScanParams{
		Conversion: conv.String(),
		Text:       strings.TrimSuffix(text, "\n"),
		Terms:      scanTerms,
	}

	cfg := settings()
	var res *socket.ScanResult
	if client, ok := daemonClient(cfg); ok && !scanLocal {
		res, err = client.Scan(params)
	} else {
		res, err = scanLocally(cfg, params)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatScan(res, isStdoutTTY()))
	return nil
}

func scanLocally(cfg Config, params socket.ScanParams) (*socket.ScanResult, error) {
	a, err := openApp(cfg, true)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	res, err := a.Scan(params)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
