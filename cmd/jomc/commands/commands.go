package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jomc/jomc/pkg/errs"
	"github.com/jomc/jomc/pkg/util/cli"
)

var verbose bool
var silent bool
var noColors bool

var version string = "not versioned"

var rootCmd = &cobra.Command{
	Use:           "jomc",
	Short:         "JOMC commits object model information to Java class files",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cli.Verbose = verbose
		cli.Silent = silent

		cli.SetupColors(os.Stdout, noColors)
	},
}

var versionCmd = &cobra.Command{
	Use:           "version",
	Short:         "Version of JOMC",
	Aliases:       []string{"v"},
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cli.Output, version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print verbose messages")
	rootCmd.PersistentFlags().BoolVarP(&silent, "silent", "s", false, "only print error messages, overwrites verbose")
	rootCmd.PersistentFlags().BoolVarP(&noColors, "no-colors", "", false, "disable colors in the output messages")

	rootCmd.AddCommand(versionCmd)
}

// newLogger returns the logger of the commands, printing like the other messages.
func newLogger() *slog.Logger {
	return slog.New(cli.NewHandler(cli.Output))
}

// Execute executes the commands.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.Failureln(err)

		var missing *errs.ErrMissingValue
		if errors.As(err, &missing) {
			for _, info := range missing.Info {
				cli.Infoln(info)
			}
		}

		os.Exit(1)
	}
}
