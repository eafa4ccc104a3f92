// Command duosplit splits a bill between two people from the terminal.
//
//	duosplit split a:12.00 b:8.50 s:20.00 --tax 3.20 --tip 18 --payer a
//	duosplit scan receipt.jpg --point 410,220 --point 410,260
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/duosplit/pkg/logging"
)

type rootOptions struct {
	verbose bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(os.Args)
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"duosplit"}
	}

	cmd := newRootCmd(&rootOptions{})
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "duosplit",
		Short:         "Split a bill between two people",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.ParseLevel(os.Getenv("LOG_LEVEL"))
			if opts.verbose {
				level = slog.LevelDebug
			}
			logging.SetupWith(logging.Options{
				Level: level,
				JSON:  strings.EqualFold(os.Getenv("LOG_FORMAT"), "json"),
			})
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging to stderr")

	cmd.AddCommand(newSplitCmd())
	cmd.AddCommand(newScanCmd())
	return cmd
}
