package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/occ/internal/adapters/socket"
	"github.com/corey/occ/internal/domain/convert"
)

var (
	convertConversion string
	convertLocal      bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [text...]",
	Short: "Convert text",
	Long:  "Converts the arguments, or stdin when none are given. Uses the daemon when it is running unless --local is set.",
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertConversion, "conversion", "c", string(convert.S2T), "conversion to apply (see: occ conversions)")
	convertCmd.Flags().BoolVar(&convertLocal, "local", false, "convert in-process even if a daemon is running")
}

func runConvert(cmd *cobra.Command, args []string) error {
	conv, err := convert.ParseConversion(convertConversion)
	if err != nil {
		return err
	}
	text, fromArgs, err := inputText(args)
	if err != nil {
		return err
	}

	out, err := convertText(conv, text)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if fromArgs {
		fmt.Fprintln(w, out)
		return nil
	}
	fmt.Fprint(w, out)
	return nil
}

func convertText(conv convert.Conversion, text string) (string, error) {
	cfg := settings()
	if !convertLocal {
		if client, ok := daemonClient(cfg); ok {
			res, err := client.Convert(conv.String(), text)
			if err != nil {
				return "", err
			}
			return res.Text, nil
		}
	}

	a, err := openApp(cfg, true)
	if err != nil {
		return "", err
	}
	defer a.Close()
	res, err := a.Convert(socket.ConvertParams{Conversion: conv.String(), Text: text})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// inputText joins args, or reads stdin when there are none.
func inputText(args []string) (text string, fromArgs bool, err error) {
	if len(args) > 0 {
		return strings.Join(args, " "), true, nil
	}
	if !isStdinPipe() {
		return "", false, fmt.Errorf("no text: pass arguments or pipe stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", false, fmt.Errorf("read stdin: %w", err)
	}
	return string(data), false, nil
}
