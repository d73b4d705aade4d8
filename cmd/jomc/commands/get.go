package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jomc/jomc/cmd/jomc/config"
	"github.com/jomc/jomc/pkg/util"
	"github.com/jomc/jomc/pkg/util/cli"
)

func init() {
	getCmd := &cobra.Command{
		Use:          "get [target]",
		Short:        "Get available values",
		SilenceUsage: false,
	}

	getOpts := &config.GetOptions{}

	getConfigCmd := &cobra.Command{
		Use:          "configuration",
		Short:        "Provides an example configuration",
		Aliases:      []string{"c", "conf", "config"},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			toStdout := getOpts.OutPath == "" || getOpts.OutPath == "-"
			if toStdout {
				cli.Silent = true
			}

			configComment := "# Generated config file for JOMC.\n\n"

			conf := config.DefaultJomcOptions()
			if getOpts.All {
				conf = config.AllJomcOptions()
			}

			b, err := util.MarshalYAML(conf, !getOpts.NoComments)
			if err != nil {
				return err
			}
			cfg := configComment + string(b)

			if toStdout {
				fmt.Fprintln(cli.Output, cfg)
				return nil
			}

			return writeConfig(getOpts, cfg)
		},
	}

	getConfigCmd.Flags().BoolVarP(&getOpts.NoComments, "no-comments", "", false, "Disables all comments")
	getConfigCmd.Flags().StringVarP(&getOpts.OutPath, "out", "o", "", "the output file")
	getConfigCmd.Flags().BoolVarP(&getOpts.All, "all", "a", false, "include all possible values")
	getConfigCmd.Flags().BoolVarP(&getOpts.Force, "force", "f", false, "force overwriting files")

	getTransformersCmd := &cobra.Command{
		Use:          "transformers",
		Short:        "List all transformers",
		Aliases:      []string{"t", "trans", "transform"},
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			printTransformers()
		},
	}

	getCmd.AddCommand(getTransformersCmd)
	getCmd.AddCommand(getConfigCmd)

	rootCmd.AddCommand(getCmd)
}

func writeConfig(getOpts *config.GetOptions, cfg string) error {
	info, err := os.Stat(getOpts.OutPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if info != nil {
		if info.IsDir() {
			return fmt.Errorf("output path should be a file, not a directory")
		}
		if !getOpts.Force {
			return fmt.Errorf("file already exists, use \"-f\" to force overwrite")
		}
	}

	if err := os.MkdirAll(filepath.Dir(getOpts.OutPath), os.ModePerm); err != nil {
		return err
	}

	if err := os.WriteFile(getOpts.OutPath, []byte(cfg), 0o644); err != nil {
		return err
	}

	cli.Successf("%v written.\n", getOpts.OutPath)
	return nil
}

func printTransformers() {
	w := tabwriter.NewWriter(cli.Output, 0, 0, 4, ' ', 0)

	cli.Infof("Available transformers:\n")
	for _, p := range config.Transformers {
		fmt.Fprintf(w, "\t%v\t%v\n", p.Name(), p.Description())
	}
	w.Flush()
}
